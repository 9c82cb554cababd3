package service

import (
	"context"
	"fmt"

	"starbot/events"
	"starbot/models"

	"github.com/google/uuid"
)

// withdrawalService implements the WithdrawalService interface
type withdrawalService struct {
	uowFactory UnitOfWorkFactory
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(uowFactory UnitOfWorkFactory) WithdrawalService {
	return &withdrawalService{
		uowFactory: uowFactory,
	}
}

// RequestWithdrawal debits the balance and records a pending withdrawal
// request in the same transaction. Actual payout is an out-of-band process
// working off the pending list.
func (s *withdrawalService) RequestWithdrawal(ctx context.Context, userID int64, amount int64) (*models.WithdrawalResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("withdrawal of %d: %w", amount, models.ErrInvalidAmount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d: %w", userID, models.ErrNotFound)
	}

	newBalance, err := uow.AccountRepository().DeductBalance(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		Token:  uuid.New().String(),
		UserID: userID,
		Amount: amount,
		Status: models.WithdrawalStatusPending,
	}

	if err := uow.WithdrawalRepository().Create(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawalRequestedEvent{
		Token:  withdrawal.Token,
		UserID: userID,
		Amount: amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.WithdrawalResult{
		Token:      withdrawal.Token,
		Amount:     amount,
		NewBalance: newBalance,
	}, nil
}

// ListPending returns withdrawal requests awaiting fulfillment
func (s *withdrawalService) ListPending(ctx context.Context, limit int) ([]*models.Withdrawal, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	withdrawals, err := uow.WithdrawalRepository().ListPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return withdrawals, nil
}
