package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/domain/shu"
	"github.com/koperasi/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// allocationInsertBatchSize bounds the bulk insert during recalculation
const allocationInsertBatchSize = 500

// GormMemberAllocationRepository implements MemberAllocationRepository using GORM
type GormMemberAllocationRepository struct {
	db *gorm.DB
}

// NewGormMemberAllocationRepository creates a new GormMemberAllocationRepository
func NewGormMemberAllocationRepository(db *gorm.DB) *GormMemberAllocationRepository {
	return &GormMemberAllocationRepository{db: db}
}

// FindByID finds an allocation by its ID
func (r *GormMemberAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*shu.MemberAllocation, error) {
	var model models.MemberAllocationModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDistribution finds all allocations of a distribution
func (r *GormMemberAllocationRepository) FindByDistribution(ctx context.Context, distributionID uuid.UUID) ([]shu.MemberAllocation, error) {
	var allocationModels []models.MemberAllocationModel
	if err := dbForContext(ctx, r.db).
		Where("distribution_id = ?", distributionID).
		Order("amount_allocated DESC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}

	return toDomainAllocations(allocationModels), nil
}

// FindUnpaidByDistribution finds the allocations not yet paid out
func (r *GormMemberAllocationRepository) FindUnpaidByDistribution(ctx context.Context, distributionID uuid.UUID) ([]shu.MemberAllocation, error) {
	var allocationModels []models.MemberAllocationModel
	if err := dbForContext(ctx, r.db).
		Where("distribution_id = ? AND is_paid_out = ?", distributionID, false).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}

	return toDomainAllocations(allocationModels), nil
}

// ReplaceForDistribution deletes the distribution's existing allocation rows
// and bulk-inserts the new ones inside a single transaction, making the
// calculation step re-runnable while the distribution is draft.
func (r *GormMemberAllocationRepository) ReplaceForDistribution(ctx context.Context, distributionID uuid.UUID, allocations []shu.MemberAllocation) error {
	return dbForContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MemberAllocationModel{}, "distribution_id = ?", distributionID).Error; err != nil {
			return err
		}

		if len(allocations) == 0 {
			return nil
		}

		allocationModels := make([]*models.MemberAllocationModel, len(allocations))
		for i := range allocations {
			allocationModels[i] = models.MemberAllocationModelFromDomain(&allocations[i])
		}
		return tx.CreateInBatches(allocationModels, allocationInsertBatchSize).Error
	})
}

// Save creates or updates an allocation
func (r *GormMemberAllocationRepository) Save(ctx context.Context, allocation *shu.MemberAllocation) error {
	model := models.MemberAllocationModelFromDomain(allocation)
	return dbForContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves an allocation with optimistic locking (version check)
func (r *GormMemberAllocationRepository) SaveWithLock(ctx context.Context, allocation *shu.MemberAllocation) error {
	model := models.MemberAllocationModelFromDomain(allocation)
	result := dbForContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", allocation.ID, allocation.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The allocation has been modified by another transaction")
	}
	return nil
}

// CountByDistribution counts a distribution's allocation rows
func (r *GormMemberAllocationRepository) CountByDistribution(ctx context.Context, distributionID uuid.UUID) (int64, error) {
	var count int64
	if err := dbForContext(ctx, r.db).
		Model(&models.MemberAllocationModel{}).
		Where("distribution_id = ?", distributionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnpaidByDistribution counts the rows not yet paid out
func (r *GormMemberAllocationRepository) CountUnpaidByDistribution(ctx context.Context, distributionID uuid.UUID) (int64, error) {
	var count int64
	if err := dbForContext(ctx, r.db).
		Model(&models.MemberAllocationModel{}).
		Where("distribution_id = ? AND is_paid_out = ?", distributionID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumAllocatedByDistribution sums amount_allocated across a distribution
func (r *GormMemberAllocationRepository) SumAllocatedByDistribution(ctx context.Context, distributionID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := dbForContext(ctx, r.db).
		Model(&models.MemberAllocationModel{}).
		Select("COALESCE(SUM(amount_allocated), 0) AS total").
		Where("distribution_id = ?", distributionID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func toDomainAllocations(allocationModels []models.MemberAllocationModel) []shu.MemberAllocation {
	allocations := make([]shu.MemberAllocation, len(allocationModels))
	for i, model := range allocationModels {
		allocations[i] = *model.ToDomain()
	}
	return allocations
}

// Ensure GormMemberAllocationRepository implements MemberAllocationRepository
var _ shu.MemberAllocationRepository = (*GormMemberAllocationRepository)(nil)
