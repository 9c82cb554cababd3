package repository

import (
	"context"
	"errors"
	"fmt"

	"starbot/database"
	"starbot/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByID retrieves an account by its chat user ID. Returns nil when absent.
func (r *AccountRepository) GetByID(ctx context.Context, userID int64) (*models.Account, error) {
	query := `
		SELECT user_id, username, first_name, balance, referrer_id, invited_count, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&account.UserID,
		&account.Username,
		&account.FirstName,
		&account.Balance,
		&account.ReferrerID,
		&account.InvitedCount,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", userID, err)
	}

	return &account, nil
}

// Create inserts a new account. The referrer link is set at creation and
// never changes afterwards. Returns ErrAlreadyExists when the account was
// registered concurrently; the caller decides how to reconcile.
func (r *AccountRepository) Create(ctx context.Context, userID int64, username, firstName string, referrerID *int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, username, first_name, referrer_id)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, username, first_name, balance, referrer_id, invited_count, created_at, updated_at
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, userID, username, firstName, referrerID).Scan(
		&account.UserID,
		&account.Username,
		&account.FirstName,
		&account.Balance,
		&account.ReferrerID,
		&account.InvitedCount,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("account %d: %w", userID, models.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create account %d: %w", userID, err)
	}

	return &account, nil
}

// UpdateProfile overwrites the presentation fields of an existing account
func (r *AccountRepository) UpdateProfile(ctx context.Context, userID int64, username, firstName string) error {
	query := `
		UPDATE accounts
		SET username = $1, first_name = $2, updated_at = NOW()
		WHERE user_id = $3
	`

	result, err := r.q.Exec(ctx, query, username, firstName, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile for account %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
	}

	return nil
}

// AddBalance credits an account atomically
func (r *AccountRepository) AddBalance(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit of %d: %w", amount, models.ErrInvalidAmount)
	}

	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add balance for account %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
	}

	return nil
}

// DeductBalance debits an account atomically and returns the balance left
// after the debit. The balance guard and the update are a single statement
// so concurrent debits cannot overdraw.
func (r *AccountRepository) DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit of %d: %w", amount, models.ErrInvalidAmount)
	}

	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE user_id = $2 AND balance >= $1
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, userID).Scan(&balance)
	if err == pgx.ErrNoRows {
		account, err := r.GetByID(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to check account: %w", err)
		}
		if account == nil {
			return 0, fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
		}
		return 0, fmt.Errorf("have %d, need %d: %w", account.Balance, amount, models.ErrInsufficientFunds)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct balance for account %d: %w", userID, err)
	}

	return balance, nil
}

// RecordReferral increments the referrer's invited count and credits the
// referral bonus in one statement.
func (r *AccountRepository) RecordReferral(ctx context.Context, referrerID int64, bonus int64) error {
	query := `
		UPDATE accounts
		SET invited_count = invited_count + 1, balance = balance + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, bonus, referrerID)
	if err != nil {
		return fmt.Errorf("failed to record referral for account %d: %w", referrerID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("referrer %d: %w", referrerID, models.ErrNotFound)
	}

	return nil
}
