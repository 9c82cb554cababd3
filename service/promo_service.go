package service

import (
	"context"
	"fmt"

	"starbot/events"
	"starbot/models"
)

// promoService implements the PromoService interface
type promoService struct {
	uowFactory UnitOfWorkFactory
}

// NewPromoService creates a new promo code service
func NewPromoService(uowFactory UnitOfWorkFactory) PromoService {
	return &promoService{
		uowFactory: uowFactory,
	}
}

// CreatePromo issues a new promo code. No account is debited: the stars a
// promo pays out are minted into the system.
func (s *promoService) CreatePromo(ctx context.Context, code string, stars int64, activations int) error {
	if code == "" {
		return fmt.Errorf("empty promo code: %w", models.ErrInvalidAmount)
	}
	if stars <= 0 {
		return fmt.Errorf("stars %d: %w", stars, models.ErrInvalidAmount)
	}
	if activations <= 0 {
		return fmt.Errorf("activations %d: %w", activations, models.ErrInvalidAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	promo := &models.PromoCode{
		Code:            code,
		Stars:           stars,
		ActivationsLeft: activations,
	}

	if err := uow.PromoRepository().Create(ctx, promo); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ClaimPromo awards one activation of a promo code to the claimant. Same
// shape as a check claim; the redemption key is namespaced so promo codes
// and check IDs never collide in the shared redemption set.
func (s *promoService) ClaimPromo(ctx context.Context, code string, claimantID int64) (*models.ClaimResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	promo, err := uow.PromoRepository().GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	if promo == nil {
		return nil, fmt.Errorf("promo code %q: %w", code, models.ErrNotFound)
	}
	if promo.ActivationsLeft <= 0 {
		return nil, fmt.Errorf("promo code %q: %w", code, models.ErrExhausted)
	}

	inserted, err := uow.RedemptionRepository().TryInsert(ctx, promo.RedemptionKey(), claimantID)
	if err != nil {
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}
	if !inserted {
		return nil, fmt.Errorf("promo code %q by %d: %w", code, claimantID, models.ErrAlreadyRedeemed)
	}

	if err := uow.AccountRepository().AddBalance(ctx, claimantID, promo.Stars); err != nil {
		return nil, fmt.Errorf("failed to credit claimant: %w", err)
	}

	left, err := uow.PromoRepository().DecrementActivations(ctx, code)
	if err != nil {
		return nil, err
	}

	claimant, err := uow.AccountRepository().GetByID(ctx, claimantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claimant: %w", err)
	}

	uow.EventBus().Publish(events.PromoClaimedEvent{
		Code:         code,
		ClaimantID:   claimantID,
		StarsAwarded: promo.Stars,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ClaimResult{
		StarsAwarded:    promo.Stars,
		ActivationsLeft: left,
		NewBalance:      claimant.Balance,
	}, nil
}
