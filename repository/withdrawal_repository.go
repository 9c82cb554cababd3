package repository

import (
	"context"
	"fmt"

	"starbot/database"
	"starbot/models"
)

// WithdrawalRepository implements the service.WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create records a withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (token, user_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		withdrawal.Token,
		withdrawal.UserID,
		withdrawal.Amount,
		withdrawal.Status,
	).Scan(&withdrawal.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create withdrawal %s: %w", withdrawal.Token, err)
	}

	return nil
}

// ListPending returns withdrawal requests awaiting fulfillment, oldest first
func (r *WithdrawalRepository) ListPending(ctx context.Context, limit int) ([]*models.Withdrawal, error) {
	query := `
		SELECT token, user_id, amount, status, created_at
		FROM withdrawals
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, models.WithdrawalStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []*models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		err := rows.Scan(&w.Token, &w.UserID, &w.Amount, &w.Status, &w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawals: %w", err)
	}

	return withdrawals, nil
}
