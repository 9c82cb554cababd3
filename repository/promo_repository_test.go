package repository

import (
	"context"
	"testing"

	"starbot/models"
	"starbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPromoRepository(testDB.DB)
	ctx := context.Background()

	promo := testutil.CreateTestPromo("SUPER2025")
	require.NoError(t, repo.Create(ctx, promo))

	t.Run("duplicate code", func(t *testing.T) {
		err := repo.Create(ctx, testutil.CreateTestPromo("SUPER2025"))
		assert.ErrorIs(t, err, models.ErrAlreadyExists)
	})

	t.Run("retrieve", func(t *testing.T) {
		got, err := repo.GetByCode(ctx, "SUPER2025")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(50), got.Stars)
		assert.Equal(t, 100, got.ActivationsLeft)
	})

	t.Run("missing code returns nil", func(t *testing.T) {
		got, err := repo.GetByCode(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPromoRepository_DecrementActivations(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPromoRepository(testDB.DB)
	ctx := context.Background()

	promo := testutil.CreateTestPromo("ONCE")
	promo.ActivationsLeft = 1
	require.NoError(t, repo.Create(ctx, promo))

	left, err := repo.DecrementActivations(ctx, "ONCE")
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	_, err = repo.DecrementActivations(ctx, "ONCE")
	assert.ErrorIs(t, err, models.ErrExhausted)
}
