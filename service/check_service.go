package service

import (
	"context"
	"fmt"
	"strings"

	"starbot/events"
	"starbot/models"

	"github.com/google/uuid"
)

// checkService implements the CheckService interface
type checkService struct {
	uowFactory UnitOfWorkFactory
}

// NewCheckService creates a new check service
func NewCheckService(uowFactory UnitOfWorkFactory) CheckService {
	return &checkService{
		uowFactory: uowFactory,
	}
}

// newCheckID generates the opaque check token. Knowing the ID is the only
// credential needed to claim, so it has to be unguessable.
func newCheckID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// CreateCheck funds a new check from the creator's balance. The debit and
// the check insert share one transaction; if the balance is short, nothing
// is created.
func (s *checkService) CreateCheck(ctx context.Context, creatorID int64, totalStars int64, activations int) (*models.CheckCreateResult, error) {
	if totalStars <= 0 {
		return nil, fmt.Errorf("total stars %d: %w", totalStars, models.ErrInvalidAmount)
	}
	if activations <= 0 {
		return nil, fmt.Errorf("activations %d: %w", activations, models.ErrInvalidAmount)
	}

	perActivation := totalStars / int64(activations)
	if perActivation == 0 {
		// More activations than stars: pay one star each and cap the
		// activation count at the total. This overrides what the creator
		// asked for; the result carries the adjusted count.
		perActivation = 1
		activations = int(totalStars)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	creator, err := uow.AccountRepository().GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("creator %d: %w", creatorID, models.ErrNotFound)
	}

	newBalance, err := uow.AccountRepository().DeductBalance(ctx, creatorID, totalStars)
	if err != nil {
		return nil, fmt.Errorf("failed to fund check: %w", err)
	}

	check := &models.Check{
		CheckID:            newCheckID(),
		CreatorID:          creatorID,
		TotalStars:         totalStars,
		StarsPerActivation: perActivation,
		ActivationsLeft:    activations,
	}

	if err := uow.CheckRepository().Create(ctx, check); err != nil {
		return nil, fmt.Errorf("failed to create check: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.CheckCreateResult{
		CheckID:            check.CheckID,
		TotalStars:         totalStars,
		StarsPerActivation: perActivation,
		Activations:        activations,
		NewBalance:         newBalance,
	}, nil
}

// ClaimCheck awards one activation of a check to the claimant. The
// redemption insert, the balance credit and the activation decrement commit
// together or not at all. The creator notification is published on the event
// bus and goes out only after the commit.
func (s *checkService) ClaimCheck(ctx context.Context, checkID string, claimantID int64, claimantName string) (*models.ClaimResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	check, err := uow.CheckRepository().GetByID(ctx, checkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get check: %w", err)
	}
	if check == nil {
		return nil, fmt.Errorf("check %s: %w", checkID, models.ErrNotFound)
	}
	if check.ActivationsLeft <= 0 {
		return nil, fmt.Errorf("check %s: %w", checkID, models.ErrExhausted)
	}

	inserted, err := uow.RedemptionRepository().TryInsert(ctx, checkID, claimantID)
	if err != nil {
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}
	if !inserted {
		return nil, fmt.Errorf("check %s by %d: %w", checkID, claimantID, models.ErrAlreadyRedeemed)
	}

	if err := uow.AccountRepository().AddBalance(ctx, claimantID, check.StarsPerActivation); err != nil {
		return nil, fmt.Errorf("failed to credit claimant: %w", err)
	}

	// The guarded decrement closes the race where several claimants passed
	// the activations check above: only as many decrements succeed as there
	// were slots, the rest roll back here with ErrExhausted.
	left, err := uow.CheckRepository().DecrementActivations(ctx, checkID)
	if err != nil {
		return nil, err
	}

	claimant, err := uow.AccountRepository().GetByID(ctx, claimantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claimant: %w", err)
	}

	uow.EventBus().Publish(events.CheckClaimedEvent{
		CheckID:         checkID,
		CreatorID:       check.CreatorID,
		ClaimantID:      claimantID,
		ClaimantName:    claimantName,
		StarsAwarded:    check.StarsPerActivation,
		ActivationsLeft: left,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ClaimResult{
		StarsAwarded:    check.StarsPerActivation,
		ActivationsLeft: left,
		NewBalance:      claimant.Balance,
	}, nil
}
