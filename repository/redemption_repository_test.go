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

func TestRedemptionRepository_TryInsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	repo := NewRedemptionRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 100, "alice", "Alice", nil)
	require.NoError(t, err)
	_, err = accountRepo.Create(ctx, 101, "bob", "Bob", nil)
	require.NoError(t, err)

	t.Run("first insert wins, second is a duplicate", func(t *testing.T) {
		inserted, err := repo.TryInsert(ctx, "abc123def456", 100)
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = repo.TryInsert(ctx, "abc123def456", 100)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("different user may redeem the same voucher", func(t *testing.T) {
		inserted, err := repo.TryInsert(ctx, "abc123def456", 101)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("promo keys never collide with check ids", func(t *testing.T) {
		inserted, err := repo.TryInsert(ctx, models.PromoRedemptionKey("abc123def456"), 100)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	count, err := repo.CountByVoucher(ctx, "abc123def456")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRedemptionRepository_TryInsert_Concurrent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	repo := NewRedemptionRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 100, "alice", "Alice", nil)
	require.NoError(t, err)

	// Many racing inserts of the same pair: exactly one may report inserted
	var wg sync.WaitGroup
	results := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := repo.TryInsert(ctx, "abc123def456", 100)
			assert.NoError(t, err)
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)

	inserts := 0
	for inserted := range results {
		if inserted {
			inserts++
		}
	}
	assert.Equal(t, 1, inserts)
}
