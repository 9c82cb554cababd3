package repository

import (
	"context"
	"fmt"

	"starbot/database"
)

// RedemptionRepository implements the service.RedemptionRepository interface.
// A (voucher_key, user_id) row is the sole proof that a user consumed a
// voucher; the table is append-only.
type RedemptionRepository struct {
	q queryable
}

// NewRedemptionRepository creates a new redemption repository
func NewRedemptionRepository(db *database.DB) *RedemptionRepository {
	return &RedemptionRepository{q: db.Pool}
}

// newRedemptionRepositoryWithTx creates a new redemption repository with a transaction
func newRedemptionRepositoryWithTx(tx queryable) *RedemptionRepository {
	return &RedemptionRepository{q: tx}
}

// TryInsert records a redemption if none exists for the pair. The insert
// and the existence check are one statement; the returned bool is false
// exactly when the user had already redeemed the voucher. Two concurrent
// claims of the same pair can therefore never both report inserted=true.
func (r *RedemptionRepository) TryInsert(ctx context.Context, voucherKey string, userID int64) (bool, error) {
	query := `
		INSERT INTO redemptions (voucher_key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (voucher_key, user_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, voucherKey, userID)
	if err != nil {
		return false, fmt.Errorf("failed to insert redemption (%s, %d): %w", voucherKey, userID, err)
	}

	return result.RowsAffected() > 0, nil
}

// CountByVoucher returns how many users have redeemed a voucher
func (r *RedemptionRepository) CountByVoucher(ctx context.Context, voucherKey string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM redemptions
		WHERE voucher_key = $1
	`

	var count int
	if err := r.q.QueryRow(ctx, query, voucherKey).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count redemptions for %s: %w", voucherKey, err)
	}

	return count, nil
}
