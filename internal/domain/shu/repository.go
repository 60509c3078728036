package shu

import (
	"context"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PercentageSettingFilter defines filtering options for setting queries
type PercentageSettingFilter struct {
	shared.Filter
	FiscalYear *int
	IsActive   *bool
}

// PercentageSettingRepository defines the interface for SHU setting persistence
type PercentageSettingRepository interface {
	// FindByID finds a setting by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PercentageSetting, error)

	// FindByFiscalYear finds all settings for a fiscal year
	FindByFiscalYear(ctx context.Context, fiscalYear int) ([]PercentageSetting, error)

	// FindActiveByFiscalYear finds the single active setting for a fiscal year
	FindActiveByFiscalYear(ctx context.Context, fiscalYear int) (*PercentageSetting, error)

	// FindAll finds settings with filtering
	FindAll(ctx context.Context, filter PercentageSettingFilter) ([]PercentageSetting, error)

	// Save creates or updates a setting
	Save(ctx context.Context, setting *PercentageSetting) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, setting *PercentageSetting) error

	// Activate makes the given setting the only active one for its fiscal
	// year. Siblings are deactivated and the target activated inside a single
	// transaction so "at most one active per year" holds at every commit.
	Activate(ctx context.Context, fiscalYear int, id uuid.UUID) error

	// Delete deletes a setting
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts settings with optional filters
	Count(ctx context.Context, filter PercentageSettingFilter) (int64, error)
}

// DistributionFilter defines filtering options for distribution queries
type DistributionFilter struct {
	shared.Filter
	FiscalYear *int
	Status     *DistributionStatus
}

// DistributionRepository defines the interface for SHU distribution persistence
type DistributionRepository interface {
	// FindByID finds a distribution by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Distribution, error)

	// FindByFiscalYear finds the distribution for a fiscal year, or
	// shared.ErrNotFound when the year has none
	FindByFiscalYear(ctx context.Context, fiscalYear int) (*Distribution, error)

	// FindAll finds distributions with filtering
	FindAll(ctx context.Context, filter DistributionFilter) ([]Distribution, error)

	// Save creates or updates a distribution
	Save(ctx context.Context, d *Distribution) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, d *Distribution) error

	// Delete deletes a distribution and cascades its allocation rows
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts distributions with optional filters
	Count(ctx context.Context, filter DistributionFilter) (int64, error)

	// CountBySetting counts distributions referencing a percentage setting.
	// A referenced setting is immutable.
	CountBySetting(ctx context.Context, settingID uuid.UUID) (int64, error)
}

// MemberAllocationRepository defines the interface for allocation persistence
type MemberAllocationRepository interface {
	// FindByID finds an allocation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*MemberAllocation, error)

	// FindByDistribution finds all allocations of a distribution
	FindByDistribution(ctx context.Context, distributionID uuid.UUID) ([]MemberAllocation, error)

	// FindUnpaidByDistribution finds the allocations not yet paid out
	FindUnpaidByDistribution(ctx context.Context, distributionID uuid.UUID) ([]MemberAllocation, error)

	// ReplaceForDistribution deletes the distribution's existing allocation
	// rows and bulk-inserts the new ones inside a single transaction, making
	// the calculation step re-runnable while the distribution is draft.
	ReplaceForDistribution(ctx context.Context, distributionID uuid.UUID, allocations []MemberAllocation) error

	// Save creates or updates an allocation
	Save(ctx context.Context, allocation *MemberAllocation) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, allocation *MemberAllocation) error

	// CountByDistribution counts a distribution's allocation rows
	CountByDistribution(ctx context.Context, distributionID uuid.UUID) (int64, error)

	// CountUnpaidByDistribution counts the rows not yet paid out
	CountUnpaidByDistribution(ctx context.Context, distributionID uuid.UUID) (int64, error)

	// SumAllocatedByDistribution sums amount_allocated across a distribution
	SumAllocatedByDistribution(ctx context.Context, distributionID uuid.UUID) (decimal.Decimal, error)
}
