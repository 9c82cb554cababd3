package repository

import (
	"context"
	"fmt"

	"starbot/database"
	"starbot/models"

	"github.com/jackc/pgx/v5"
)

// CheckRepository implements the service.CheckRepository interface
type CheckRepository struct {
	q queryable
}

// NewCheckRepository creates a new check repository
func NewCheckRepository(db *database.DB) *CheckRepository {
	return &CheckRepository{q: db.Pool}
}

// newCheckRepositoryWithTx creates a new check repository with a transaction
func newCheckRepositoryWithTx(tx queryable) *CheckRepository {
	return &CheckRepository{q: tx}
}

// Create inserts a new check row
func (r *CheckRepository) Create(ctx context.Context, check *models.Check) error {
	query := `
		INSERT INTO checks (check_id, creator_id, total_stars, stars_per_activation, activations_left)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		check.CheckID,
		check.CreatorID,
		check.TotalStars,
		check.StarsPerActivation,
		check.ActivationsLeft,
	).Scan(&check.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create check %s: %w", check.CheckID, err)
	}

	return nil
}

// GetByID retrieves a check by its ID. Returns nil when absent.
func (r *CheckRepository) GetByID(ctx context.Context, checkID string) (*models.Check, error) {
	query := `
		SELECT check_id, creator_id, total_stars, stars_per_activation, activations_left, created_at
		FROM checks
		WHERE check_id = $1
	`

	var check models.Check
	err := r.q.QueryRow(ctx, query, checkID).Scan(
		&check.CheckID,
		&check.CreatorID,
		&check.TotalStars,
		&check.StarsPerActivation,
		&check.ActivationsLeft,
		&check.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check %s: %w", checkID, err)
	}

	return &check, nil
}

// GetByCreator returns all checks funded by an account, newest first
func (r *CheckRepository) GetByCreator(ctx context.Context, creatorID int64) ([]*models.Check, error) {
	query := `
		SELECT check_id, creator_id, total_stars, stars_per_activation, activations_left, created_at
		FROM checks
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checks for creator %d: %w", creatorID, err)
	}
	defer rows.Close()

	var checks []*models.Check
	for rows.Next() {
		var check models.Check
		err := rows.Scan(
			&check.CheckID,
			&check.CreatorID,
			&check.TotalStars,
			&check.StarsPerActivation,
			&check.ActivationsLeft,
			&check.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		checks = append(checks, &check)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checks: %w", err)
	}

	return checks, nil
}

// DecrementActivations consumes one activation slot. The guard and the
// decrement are a single statement, so the counter can never go below zero
// no matter how many claims race. Returns ErrExhausted when no slot was left.
func (r *CheckRepository) DecrementActivations(ctx context.Context, checkID string) (int, error) {
	query := `
		UPDATE checks
		SET activations_left = activations_left - 1
		WHERE check_id = $1 AND activations_left > 0
		RETURNING activations_left
	`

	var left int
	err := r.q.QueryRow(ctx, query, checkID).Scan(&left)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("check %s: %w", checkID, models.ErrExhausted)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement activations for check %s: %w", checkID, err)
	}

	return left, nil
}
