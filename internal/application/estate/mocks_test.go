package estate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/estate"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockResidentRepository is a mock implementation of estate.ResidentRepository
type MockResidentRepository struct {
	mock.Mock
}

func (m *MockResidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.Resident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindByHouseNumber(ctx context.Context, houseNumber string) (*estate.Resident, error) {
	args := m.Called(ctx, houseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindAll(ctx context.Context, filter estate.ResidentFilter) ([]estate.Resident, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]estate.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindActive(ctx context.Context) ([]estate.Resident, error) {
	args := m.Called(ctx)
	return args.Get(0).([]estate.Resident), args.Error(1)
}

func (m *MockResidentRepository) Save(ctx context.Context, r *estate.Resident) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockResidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResidentRepository) Count(ctx context.Context, filter estate.ResidentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResidentRepository) ExistsByHouseNumber(ctx context.Context, houseNumber string) (bool, error) {
	args := m.Called(ctx, houseNumber)
	return args.Bool(0), args.Error(1)
}

// MockFeeRepository is a mock implementation of estate.FeeRepository
type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.Fee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]estate.Fee, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]estate.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindActive(ctx context.Context) ([]estate.Fee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]estate.Fee), args.Error(1)
}

func (m *MockFeeRepository) Save(ctx context.Context, f *estate.Fee) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFeePaymentRepository is a mock implementation of estate.FeePaymentRepository
type MockFeePaymentRepository struct {
	mock.Mock
}

func (m *MockFeePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.FeePayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.FeePayment), args.Error(1)
}

func (m *MockFeePaymentRepository) FindByPeriodKey(ctx context.Context, residentID, feeID uuid.UUID, year, month int) (*estate.FeePayment, error) {
	args := m.Called(ctx, residentID, feeID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.FeePayment), args.Error(1)
}

func (m *MockFeePaymentRepository) ExistsByPeriodKey(ctx context.Context, residentID, feeID uuid.UUID, year, month int) (bool, error) {
	args := m.Called(ctx, residentID, feeID, year, month)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeePaymentRepository) FindAll(ctx context.Context, filter estate.FeePaymentFilter) ([]estate.FeePayment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]estate.FeePayment), args.Error(1)
}

func (m *MockFeePaymentRepository) FindUnpaidByPeriod(ctx context.Context, year, month int) ([]estate.FeePayment, error) {
	args := m.Called(ctx, year, month)
	return args.Get(0).([]estate.FeePayment), args.Error(1)
}

func (m *MockFeePaymentRepository) FindOverdueCandidates(ctx context.Context, asOf time.Time) ([]estate.FeePayment, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]estate.FeePayment), args.Error(1)
}

func (m *MockFeePaymentRepository) Save(ctx context.Context, p *estate.FeePayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockFeePaymentRepository) SaveWithLock(ctx context.Context, p *estate.FeePayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockFeePaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeePaymentRepository) Count(ctx context.Context, filter estate.FeePaymentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// stubPenaltyConfig returns a fixed policy
type stubPenaltyConfig struct {
	cfg estate.PenaltyConfig
}

func (s stubPenaltyConfig) PenaltyConfig(context.Context) (estate.PenaltyConfig, error) {
	return s.cfg, nil
}

// fakeTransactor runs the unit of work directly on the given context
type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
