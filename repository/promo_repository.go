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

// PromoRepository implements the service.PromoRepository interface
type PromoRepository struct {
	q queryable
}

// NewPromoRepository creates a new promo code repository
func NewPromoRepository(db *database.DB) *PromoRepository {
	return &PromoRepository{q: db.Pool}
}

// newPromoRepositoryWithTx creates a new promo code repository with a transaction
func newPromoRepositoryWithTx(tx queryable) *PromoRepository {
	return &PromoRepository{q: tx}
}

// Create inserts a new promo code. Returns ErrAlreadyExists when the code
// is taken; the primary key constraint is the duplicate check.
func (r *PromoRepository) Create(ctx context.Context, promo *models.PromoCode) error {
	query := `
		INSERT INTO promo_codes (code, stars, activations_left)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, promo.Code, promo.Stars, promo.ActivationsLeft).Scan(&promo.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("promo code %q: %w", promo.Code, models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create promo code %q: %w", promo.Code, err)
	}

	return nil
}

// GetByCode retrieves a promo code. Returns nil when absent.
func (r *PromoRepository) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	query := `
		SELECT code, stars, activations_left, created_at
		FROM promo_codes
		WHERE code = $1
	`

	var promo models.PromoCode
	err := r.q.QueryRow(ctx, query, code).Scan(
		&promo.Code,
		&promo.Stars,
		&promo.ActivationsLeft,
		&promo.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promo code %q: %w", code, err)
	}

	return &promo, nil
}

// DecrementActivations consumes one activation slot of a promo code.
// Returns ErrExhausted when no slot was left.
func (r *PromoRepository) DecrementActivations(ctx context.Context, code string) (int, error) {
	query := `
		UPDATE promo_codes
		SET activations_left = activations_left - 1
		WHERE code = $1 AND activations_left > 0
		RETURNING activations_left
	`

	var left int
	err := r.q.QueryRow(ctx, query, code).Scan(&left)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("promo code %q: %w", code, models.ErrExhausted)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement activations for promo code %q: %w", code, err)
	}

	return left, nil
}
