package repository

import (
	"context"
	"sync"
	"testing"

	"starbot/models"
	"starbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing account returns nil", func(t *testing.T) {
		account, err := repo.GetByID(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("create and retrieve", func(t *testing.T) {
		created, err := repo.Create(ctx, 100, "alice", "Alice", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(100), created.UserID)
		assert.Equal(t, int64(0), created.Balance)
		assert.Nil(t, created.ReferrerID)
		assert.Equal(t, 0, created.InvitedCount)

		account, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, "Alice", account.FirstName)
	})

	t.Run("duplicate create", func(t *testing.T) {
		_, err := repo.Create(ctx, 100, "alice", "Alice", nil)
		assert.ErrorIs(t, err, models.ErrAlreadyExists)
	})

	t.Run("create with referrer link", func(t *testing.T) {
		referrerID := int64(100)
		created, err := repo.Create(ctx, 101, "bob", "Bob", &referrerID)
		require.NoError(t, err)
		require.NotNil(t, created.ReferrerID)
		assert.Equal(t, referrerID, *created.ReferrerID)
	})
}

func TestAccountRepository_UpdateProfile(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 100, "alice", "Alice", nil)
	require.NoError(t, err)
	require.NoError(t, repo.AddBalance(ctx, 100, 500))

	t.Run("overwrites presentation fields only", func(t *testing.T) {
		err := repo.UpdateProfile(ctx, 100, "alice_new", "Alicia")
		require.NoError(t, err)

		account, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "alice_new", account.Username)
		assert.Equal(t, "Alicia", account.FirstName)
		assert.Equal(t, int64(500), account.Balance)
	})

	t.Run("missing account", func(t *testing.T) {
		err := repo.UpdateProfile(ctx, 404, "x", "y")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestAccountRepository_Balances(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 100, "alice", "Alice", nil)
	require.NoError(t, err)

	t.Run("add and deduct", func(t *testing.T) {
		require.NoError(t, repo.AddBalance(ctx, 100, 200))

		balance, err := repo.DeductBalance(ctx, 100, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(150), balance)

		account, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(150), account.Balance)
	})

	t.Run("deduct more than balance", func(t *testing.T) {
		_, err := repo.DeductBalance(ctx, 100, 1000)
		assert.ErrorIs(t, err, models.ErrInsufficientFunds)

		account, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(150), account.Balance)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		assert.ErrorIs(t, repo.AddBalance(ctx, 100, 0), models.ErrInvalidAmount)
		_, err := repo.DeductBalance(ctx, 100, -5)
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("missing account", func(t *testing.T) {
		assert.ErrorIs(t, repo.AddBalance(ctx, 404, 10), models.ErrNotFound)
		_, err := repo.DeductBalance(ctx, 404, 10)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestAccountRepository_DeductBalance_Concurrent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 100, "alice", "Alice", nil)
	require.NoError(t, err)
	require.NoError(t, repo.AddBalance(ctx, 100, 100))

	// 10 concurrent debits of 30 against a balance of 100: exactly 3 can
	// succeed, the guard must stop the rest.
	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.DeductBalance(ctx, 100, 30)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, models.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 3, successes)

	account, err := repo.GetByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10), account.Balance)
}

func TestAccountRepository_RecordReferral(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 100, "alice", "Alice", nil)
	require.NoError(t, err)

	require.NoError(t, repo.RecordReferral(ctx, 100, 1))
	require.NoError(t, repo.RecordReferral(ctx, 100, 1))

	account, err := repo.GetByID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, account.InvitedCount)
	assert.Equal(t, int64(2), account.Balance)

	assert.ErrorIs(t, repo.RecordReferral(ctx, 404, 1), models.ErrNotFound)
}
