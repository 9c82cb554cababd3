package repository

import (
	"context"
	"testing"

	"starbot/models"
	"starbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	repo := NewWithdrawalRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 100, "alice", "Alice", nil)
	require.NoError(t, err)

	first := testutil.CreateTestWithdrawal("tok-1", 100, 25)
	require.NoError(t, repo.Create(ctx, first))
	assert.False(t, first.CreatedAt.IsZero())

	second := testutil.CreateTestWithdrawal("tok-2", 100, 50)
	second.Status = models.WithdrawalStatusCompleted
	require.NoError(t, repo.Create(ctx, second))

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "tok-1", pending[0].Token)
	assert.Equal(t, int64(25), pending[0].Amount)
}
