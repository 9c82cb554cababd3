package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("BOT_USERNAME", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REFERRAL_BONUS", "")
	t.Setenv("ADMIN_IDS", "")
	t.Setenv("CHANNEL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setTestEnv(t)

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, int64(1), cfg.ReferralBonus)
	assert.Empty(t, cfg.AdminIDs)
	assert.Equal(t, "test", cfg.Environment)
}

func TestLoad_ParsesValues(t *testing.T) {
	setTestEnv(t)
	t.Setenv("REFERRAL_BONUS", "5")
	t.Setenv("ADMIN_IDS", "10, 20,30")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.ReferralBonus)
	assert.Equal(t, []int64{10, 20, 30}, cfg.AdminIDs)
}

func TestLoad_MalformedReferralBonus(t *testing.T) {
	setTestEnv(t)
	t.Setenv("REFERRAL_BONUS", "lots")

	_, err := load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFERRAL_BONUS")
}

func TestLoad_MalformedAdminID(t *testing.T) {
	setTestEnv(t)
	t.Setenv("ADMIN_IDS", "10,bogus,30")

	_, err := load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_IDS")
}

func TestLoad_RequiredOutsideTestEnv(t *testing.T) {
	setTestEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}
