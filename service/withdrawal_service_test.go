package service

import (
	"context"
	"testing"

	"starbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalService_RequestWithdrawal_Validation(t *testing.T) {
	ctx := context.Background()
	m := setupMocks()
	svc := NewWithdrawalService(m.factory)

	_, err := svc.RequestWithdrawal(ctx, 10, 0)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = svc.RequestWithdrawal(ctx, 10, -25)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	m.factory.AssertNotCalled(t, "Create")
}

func TestWithdrawalService_RequestWithdrawal_Success(t *testing.T) {
	ctx := context.Background()
	m := setupMocks()
	m.expectTransaction(ctx, true)
	svc := NewWithdrawalService(m.factory)

	m.accounts.On("GetByID", ctx, int64(10)).Return(&models.Account{UserID: 10, Balance: 100}, nil)
	m.accounts.On("DeductBalance", ctx, int64(10), int64(25)).Return(int64(75), nil)
	m.withdrawals.On("Create", ctx, mock.MatchedBy(func(w *models.Withdrawal) bool {
		return w.UserID == 10 &&
			w.Amount == 25 &&
			w.Status == models.WithdrawalStatusPending &&
			w.Token != ""
	})).Return(nil)

	result, err := svc.RequestWithdrawal(ctx, 10, 25)

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, int64(25), result.Amount)
	assert.Equal(t, int64(75), result.NewBalance)

	m.accounts.AssertExpectations(t)
	m.withdrawals.AssertExpectations(t)
	m.uow.AssertExpectations(t)
}

func TestWithdrawalService_RequestWithdrawal_BalanceFromDebit(t *testing.T) {
	ctx := context.Background()
	m := setupMocks()
	m.expectTransaction(ctx, true)
	svc := NewWithdrawalService(m.factory)

	// The balance read before the debit is allowed to be stale; the result
	// carries what the guarded update returned.
	m.accounts.On("GetByID", ctx, int64(10)).Return(&models.Account{UserID: 10, Balance: 100}, nil)
	m.accounts.On("DeductBalance", ctx, int64(10), int64(25)).Return(int64(40), nil)
	m.withdrawals.On("Create", ctx, mock.Anything).Return(nil)

	result, err := svc.RequestWithdrawal(ctx, 10, 25)

	require.NoError(t, err)
	assert.Equal(t, int64(40), result.NewBalance)
}

func TestWithdrawalService_RequestWithdrawal_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	m := setupMocks()
	m.expectTransaction(ctx, false)
	svc := NewWithdrawalService(m.factory)

	m.accounts.On("GetByID", ctx, int64(10)).Return(&models.Account{UserID: 10, Balance: 5}, nil)
	m.accounts.On("DeductBalance", ctx, int64(10), int64(25)).Return(int64(0), models.ErrInsufficientFunds)

	_, err := svc.RequestWithdrawal(ctx, 10, 25)

	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	m.withdrawals.AssertNotCalled(t, "Create")
	m.uow.AssertNotCalled(t, "Commit")
}

func TestWithdrawalService_RequestWithdrawal_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	m := setupMocks()
	m.expectTransaction(ctx, false)
	svc := NewWithdrawalService(m.factory)

	m.accounts.On("GetByID", ctx, int64(404)).Return(nil, nil)

	_, err := svc.RequestWithdrawal(ctx, 404, 25)

	assert.ErrorIs(t, err, models.ErrNotFound)
	m.accounts.AssertNotCalled(t, "DeductBalance")
}

func TestWithdrawalService_ListPending(t *testing.T) {
	ctx := context.Background()
	m := setupMocks()
	m.expectTransaction(ctx, true)
	svc := NewWithdrawalService(m.factory)

	pending := []*models.Withdrawal{
		{Token: "tok-1", UserID: 10, Amount: 25, Status: models.WithdrawalStatusPending},
		{Token: "tok-2", UserID: 11, Amount: 50, Status: models.WithdrawalStatusPending},
	}
	m.withdrawals.On("ListPending", ctx, 20).Return(pending, nil)

	result, err := svc.ListPending(ctx, 20)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "tok-1", result[0].Token)
	m.withdrawals.AssertExpectations(t)
}
