package service

import (
	"context"

	"starbot/events"
	"starbot/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its chat user ID, nil when absent
	GetByID(ctx context.Context, userID int64) (*models.Account, error)

	// Create inserts a new account with an optional immutable referrer link
	Create(ctx context.Context, userID int64, username, firstName string, referrerID *int64) (*models.Account, error)

	// UpdateProfile overwrites the presentation fields of an existing account
	UpdateProfile(ctx context.Context, userID int64, username, firstName string) error

	// AddBalance credits an account atomically
	AddBalance(ctx context.Context, userID int64, amount int64) error

	// DeductBalance debits an account atomically and returns the balance
	// left after the debit, failing with ErrInsufficientFunds when the
	// balance would go negative
	DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error)

	// RecordReferral increments the referrer's invited count and credits the bonus
	RecordReferral(ctx context.Context, referrerID int64, bonus int64) error
}

// CheckRepository defines the interface for check data access
type CheckRepository interface {
	// Create inserts a new check row
	Create(ctx context.Context, check *models.Check) error

	// GetByID retrieves a check by its ID, nil when absent
	GetByID(ctx context.Context, checkID string) (*models.Check, error)

	// GetByCreator returns all checks funded by an account
	GetByCreator(ctx context.Context, creatorID int64) ([]*models.Check, error)

	// DecrementActivations consumes one activation slot, failing with
	// ErrExhausted when none is left
	DecrementActivations(ctx context.Context, checkID string) (int, error)
}

// PromoRepository defines the interface for promo code data access
type PromoRepository interface {
	// Create inserts a new promo code, failing with ErrAlreadyExists on duplicates
	Create(ctx context.Context, promo *models.PromoCode) error

	// GetByCode retrieves a promo code, nil when absent
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)

	// DecrementActivations consumes one activation slot, failing with
	// ErrExhausted when none is left
	DecrementActivations(ctx context.Context, code string) (int, error)
}

// RedemptionRepository defines the interface for the redemption set
type RedemptionRepository interface {
	// TryInsert records a (voucher, user) redemption if absent; false means
	// the user had already redeemed the voucher
	TryInsert(ctx context.Context, voucherKey string, userID int64) (bool, error)

	// CountByVoucher returns how many users have redeemed a voucher
	CountByVoucher(ctx context.Context, voucherKey string) (int, error)
}

// WithdrawalRepository defines the interface for withdrawal request data access
type WithdrawalRepository interface {
	// Create records a withdrawal request
	Create(ctx context.Context, withdrawal *models.Withdrawal) error

	// ListPending returns withdrawal requests awaiting fulfillment
	ListPending(ctx context.Context, limit int) ([]*models.Withdrawal, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// AccountService defines the interface for account operations
type AccountService interface {
	// EnsureAccount registers the account on first sighting and refreshes
	// presentation fields on every later one. Returns whether it was created.
	EnsureAccount(ctx context.Context, userID int64, username, firstName string, referrerID *int64) (bool, error)

	// GetProfile returns the presentation view of an account
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
}

// CheckService defines the interface for check operations
type CheckService interface {
	// CreateCheck funds a new check from the creator's balance
	CreateCheck(ctx context.Context, creatorID int64, totalStars int64, activations int) (*models.CheckCreateResult, error)

	// ClaimCheck awards one activation of a check to the claimant
	ClaimCheck(ctx context.Context, checkID string, claimantID int64, claimantName string) (*models.ClaimResult, error)
}

// PromoService defines the interface for promo code operations
type PromoService interface {
	// CreatePromo issues a new promo code; the stars it pays are minted
	CreatePromo(ctx context.Context, code string, stars int64, activations int) error

	// ClaimPromo awards one activation of a promo code to the claimant
	ClaimPromo(ctx context.Context, code string, claimantID int64) (*models.ClaimResult, error)
}

// WithdrawalService defines the interface for withdrawal operations
type WithdrawalService interface {
	// RequestWithdrawal debits the balance and records a pending request.
	// Fulfillment happens out of band.
	RequestWithdrawal(ctx context.Context, userID int64, amount int64) (*models.WithdrawalResult, error)

	// ListPending returns withdrawal requests awaiting fulfillment
	ListPending(ctx context.Context, limit int) ([]*models.Withdrawal, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	CheckRepository() CheckRepository
	PromoRepository() PromoRepository
	RedemptionRepository() RedemptionRepository
	WithdrawalRepository() WithdrawalRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
