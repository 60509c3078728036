package shu

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/member"
	"github.com/koperasi/backend/internal/domain/shu"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPercentageSettingRepository is a mock implementation of shu.PercentageSettingRepository
type MockPercentageSettingRepository struct {
	mock.Mock
}

func (m *MockPercentageSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*shu.PercentageSetting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shu.PercentageSetting), args.Error(1)
}

func (m *MockPercentageSettingRepository) FindByFiscalYear(ctx context.Context, fiscalYear int) ([]shu.PercentageSetting, error) {
	args := m.Called(ctx, fiscalYear)
	return args.Get(0).([]shu.PercentageSetting), args.Error(1)
}

func (m *MockPercentageSettingRepository) FindActiveByFiscalYear(ctx context.Context, fiscalYear int) (*shu.PercentageSetting, error) {
	args := m.Called(ctx, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shu.PercentageSetting), args.Error(1)
}

func (m *MockPercentageSettingRepository) FindAll(ctx context.Context, filter shu.PercentageSettingFilter) ([]shu.PercentageSetting, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]shu.PercentageSetting), args.Error(1)
}

func (m *MockPercentageSettingRepository) Save(ctx context.Context, setting *shu.PercentageSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockPercentageSettingRepository) SaveWithLock(ctx context.Context, setting *shu.PercentageSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockPercentageSettingRepository) Activate(ctx context.Context, fiscalYear int, id uuid.UUID) error {
	args := m.Called(ctx, fiscalYear, id)
	return args.Error(0)
}

func (m *MockPercentageSettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPercentageSettingRepository) Count(ctx context.Context, filter shu.PercentageSettingFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockDistributionRepository is a mock implementation of shu.DistributionRepository
type MockDistributionRepository struct {
	mock.Mock
}

func (m *MockDistributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*shu.Distribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shu.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) FindByFiscalYear(ctx context.Context, fiscalYear int) (*shu.Distribution, error) {
	args := m.Called(ctx, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shu.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) FindAll(ctx context.Context, filter shu.DistributionFilter) ([]shu.Distribution, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]shu.Distribution), args.Error(1)
}

func (m *MockDistributionRepository) Save(ctx context.Context, d *shu.Distribution) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDistributionRepository) SaveWithLock(ctx context.Context, d *shu.Distribution) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDistributionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDistributionRepository) Count(ctx context.Context, filter shu.DistributionFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDistributionRepository) CountBySetting(ctx context.Context, settingID uuid.UUID) (int64, error) {
	args := m.Called(ctx, settingID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMemberAllocationRepository is a mock implementation of shu.MemberAllocationRepository
type MockMemberAllocationRepository struct {
	mock.Mock
}

func (m *MockMemberAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*shu.MemberAllocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shu.MemberAllocation), args.Error(1)
}

func (m *MockMemberAllocationRepository) FindByDistribution(ctx context.Context, distributionID uuid.UUID) ([]shu.MemberAllocation, error) {
	args := m.Called(ctx, distributionID)
	return args.Get(0).([]shu.MemberAllocation), args.Error(1)
}

func (m *MockMemberAllocationRepository) FindUnpaidByDistribution(ctx context.Context, distributionID uuid.UUID) ([]shu.MemberAllocation, error) {
	args := m.Called(ctx, distributionID)
	return args.Get(0).([]shu.MemberAllocation), args.Error(1)
}

func (m *MockMemberAllocationRepository) ReplaceForDistribution(ctx context.Context, distributionID uuid.UUID, allocations []shu.MemberAllocation) error {
	args := m.Called(ctx, distributionID, allocations)
	return args.Error(0)
}

func (m *MockMemberAllocationRepository) Save(ctx context.Context, allocation *shu.MemberAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockMemberAllocationRepository) SaveWithLock(ctx context.Context, allocation *shu.MemberAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockMemberAllocationRepository) CountByDistribution(ctx context.Context, distributionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, distributionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberAllocationRepository) CountUnpaidByDistribution(ctx context.Context, distributionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, distributionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberAllocationRepository) SumAllocatedByDistribution(ctx context.Context, distributionID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, distributionID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockMemberRepository is a mock implementation of member.MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByMemberNumber(ctx context.Context, memberNumber string) (*member.Member, error) {
	args := m.Called(ctx, memberNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter member.MemberFilter) ([]member.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepository) FindActive(ctx context.Context) ([]member.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, mb *member.Member) error {
	args := m.Called(ctx, mb)
	return args.Error(0)
}

func (m *MockMemberRepository) SaveWithLock(ctx context.Context, mb *member.Member) error {
	args := m.Called(ctx, mb)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMemberRepository) Count(ctx context.Context, filter member.MemberFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) ExistsByMemberNumber(ctx context.Context, memberNumber string) (bool, error) {
	args := m.Called(ctx, memberNumber)
	return args.Bool(0), args.Error(1)
}

// MockSavingsAccountRepository is a mock implementation of member.SavingsAccountRepository
type MockSavingsAccountRepository struct {
	mock.Mock
}

func (m *MockSavingsAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.SavingsAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.SavingsAccount), args.Error(1)
}

func (m *MockSavingsAccountRepository) FindByMember(ctx context.Context, memberID uuid.UUID) ([]member.SavingsAccount, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]member.SavingsAccount), args.Error(1)
}

func (m *MockSavingsAccountRepository) FindByMemberAndType(ctx context.Context, memberID uuid.UUID, savingsType member.SavingsType) (*member.SavingsAccount, error) {
	args := m.Called(ctx, memberID, savingsType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.SavingsAccount), args.Error(1)
}

func (m *MockSavingsAccountRepository) Save(ctx context.Context, account *member.SavingsAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockSavingsAccountRepository) SaveWithLock(ctx context.Context, account *member.SavingsAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockSavingsTransactionRepository is a mock implementation of member.SavingsTransactionRepository
type MockSavingsTransactionRepository struct {
	mock.Mock
}

func (m *MockSavingsTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.SavingsTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.SavingsTransaction), args.Error(1)
}

func (m *MockSavingsTransactionRepository) FindAll(ctx context.Context, filter member.SavingsTransactionFilter) ([]member.SavingsTransaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]member.SavingsTransaction), args.Error(1)
}

func (m *MockSavingsTransactionRepository) Save(ctx context.Context, tx *member.SavingsTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSavingsTransactionRepository) Count(ctx context.Context, filter member.SavingsTransactionFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSavingsTransactionRepository) SumDepositsByMemberBetween(ctx context.Context, memberID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSavingsTransactionRepository) SumBalanceByMemberBefore(ctx context.Context, memberID uuid.UUID, cutoff time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID, cutoff)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// fakeTransactor runs the unit of work directly on the given context
type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
