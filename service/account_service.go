package service

import (
	"context"
	"errors"
	"fmt"

	"starbot/events"
	"starbot/models"
)

// accountService implements the AccountService interface
type accountService struct {
	uowFactory    UnitOfWorkFactory
	referralBonus int64
}

// NewAccountService creates a new account service. referralBonus is credited
// to a referrer once per successfully referred registration.
func NewAccountService(uowFactory UnitOfWorkFactory, referralBonus int64) AccountService {
	return &accountService{
		uowFactory:    uowFactory,
		referralBonus: referralBonus,
	}
}

// EnsureAccount registers the account on first sighting. Re-sighting an
// existing account only refreshes the presentation fields; the referrer link
// and invited count are set at creation and never touched again.
func (s *accountService) EnsureAccount(ctx context.Context, userID int64, username, firstName string, referrerID *int64) (bool, error) {
	created, err := s.ensureAccount(ctx, userID, username, firstName, referrerID)
	if errors.Is(err, models.ErrAlreadyExists) {
		// Two first sightings raced and this one lost the insert; the
		// account exists now, so the retry takes the update path.
		return s.ensureAccount(ctx, userID, username, firstName, referrerID)
	}
	return created, err
}

func (s *accountService) ensureAccount(ctx context.Context, userID int64, username, firstName string, referrerID *int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check existing account: %w", err)
	}

	if account != nil {
		if err := uow.AccountRepository().UpdateProfile(ctx, userID, username, firstName); err != nil {
			return false, fmt.Errorf("failed to update profile: %w", err)
		}
		if err := uow.Commit(); err != nil {
			return false, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return false, nil
	}

	// The referral link only sticks when the referrer exists right now and
	// is someone else. A bad referrer still gets the account created.
	var linkedReferrer *int64
	if referrerID != nil && *referrerID != userID {
		referrer, err := uow.AccountRepository().GetByID(ctx, *referrerID)
		if err != nil {
			return false, fmt.Errorf("failed to check referrer: %w", err)
		}
		if referrer != nil {
			linkedReferrer = referrerID
		}
	}

	if _, err := uow.AccountRepository().Create(ctx, userID, username, firstName, linkedReferrer); err != nil {
		return false, fmt.Errorf("failed to create account: %w", err)
	}

	if linkedReferrer != nil {
		if err := uow.AccountRepository().RecordReferral(ctx, *linkedReferrer, s.referralBonus); err != nil {
			return false, fmt.Errorf("failed to record referral: %w", err)
		}
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		UserID:     userID,
		Username:   username,
		ReferrerID: linkedReferrer,
	})

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

// GetProfile returns the presentation view of an account
func (s *accountService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Profile{
		UserID:       account.UserID,
		Username:     account.Username,
		FirstName:    account.FirstName,
		Balance:      account.Balance,
		InvitedCount: account.InvitedCount,
	}, nil
}
