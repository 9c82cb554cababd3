package service

import (
	"context"

	"starbot/events"
	"starbot/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, userID int64, username, firstName string, referrerID *int64) (*models.Account, error) {
	args := m.Called(ctx, userID, username, firstName, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, userID int64, username, firstName string) error {
	args := m.Called(ctx, userID, username, firstName)
	return args.Error(0)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) RecordReferral(ctx context.Context, referrerID int64, bonus int64) error {
	args := m.Called(ctx, referrerID, bonus)
	return args.Error(0)
}

// MockCheckRepository is a mock implementation of CheckRepository
type MockCheckRepository struct {
	mock.Mock
}

func (m *MockCheckRepository) Create(ctx context.Context, check *models.Check) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

func (m *MockCheckRepository) GetByID(ctx context.Context, checkID string) (*models.Check, error) {
	args := m.Called(ctx, checkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Check), args.Error(1)
}

func (m *MockCheckRepository) GetByCreator(ctx context.Context, creatorID int64) ([]*models.Check, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Check), args.Error(1)
}

func (m *MockCheckRepository) DecrementActivations(ctx context.Context, checkID string) (int, error) {
	args := m.Called(ctx, checkID)
	return args.Int(0), args.Error(1)
}

// MockPromoRepository is a mock implementation of PromoRepository
type MockPromoRepository struct {
	mock.Mock
}

func (m *MockPromoRepository) Create(ctx context.Context, promo *models.PromoCode) error {
	args := m.Called(ctx, promo)
	return args.Error(0)
}

func (m *MockPromoRepository) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromoCode), args.Error(1)
}

func (m *MockPromoRepository) DecrementActivations(ctx context.Context, code string) (int, error) {
	args := m.Called(ctx, code)
	return args.Int(0), args.Error(1)
}

// MockRedemptionRepository is a mock implementation of RedemptionRepository
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) TryInsert(ctx context.Context, voucherKey string, userID int64) (bool, error) {
	args := m.Called(ctx, voucherKey, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedemptionRepository) CountByVoucher(ctx context.Context, voucherKey string) (int, error) {
	args := m.Called(ctx, voucherKey)
	return args.Int(0), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) ListPending(ctx context.Context, limit int) ([]*models.Withdrawal, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Withdrawal), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	accountRepo    AccountRepository
	checkRepo      CheckRepository
	promoRepo      PromoRepository
	redemptionRepo RedemptionRepository
	withdrawalRepo WithdrawalRepository
	eventPublisher EventPublisher
}

// SetRepositories wires the repositories the unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	accountRepo AccountRepository,
	checkRepo CheckRepository,
	promoRepo PromoRepository,
	redemptionRepo RedemptionRepository,
	withdrawalRepo WithdrawalRepository,
	eventPublisher EventPublisher,
) {
	m.accountRepo = accountRepo
	m.checkRepo = checkRepo
	m.promoRepo = promoRepo
	m.redemptionRepo = redemptionRepo
	m.withdrawalRepo = withdrawalRepo
	m.eventPublisher = eventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) CheckRepository() CheckRepository {
	return m.checkRepo
}

func (m *MockUnitOfWork) PromoRepository() PromoRepository {
	return m.promoRepo
}

func (m *MockUnitOfWork) RedemptionRepository() RedemptionRepository {
	return m.redemptionRepo
}

func (m *MockUnitOfWork) WithdrawalRepository() WithdrawalRepository {
	return m.withdrawalRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventPublisher == nil {
		return &nopPublisher{}
	}
	return m.eventPublisher
}

type nopPublisher struct{}

func (n *nopPublisher) Publish(event events.Event) {}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
