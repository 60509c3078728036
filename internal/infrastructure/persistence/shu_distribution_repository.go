package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/domain/shu"
	"github.com/koperasi/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDistributionRepository implements DistributionRepository using GORM
type GormDistributionRepository struct {
	db *gorm.DB
}

// NewGormDistributionRepository creates a new GormDistributionRepository
func NewGormDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{db: db}
}

// FindByID finds a distribution by its ID
func (r *GormDistributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*shu.Distribution, error) {
	var model models.DistributionModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFiscalYear finds the distribution for a fiscal year
func (r *GormDistributionRepository) FindByFiscalYear(ctx context.Context, fiscalYear int) (*shu.Distribution, error) {
	var model models.DistributionModel
	if err := dbForContext(ctx, r.db).
		Where("fiscal_year = ?", fiscalYear).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds distributions matching the filter
func (r *GormDistributionRepository) FindAll(ctx context.Context, filter shu.DistributionFilter) ([]shu.Distribution, error) {
	var distModels []models.DistributionModel
	query := r.applyFilter(dbForContext(ctx, r.db).Model(&models.DistributionModel{}), filter)

	if err := query.Find(&distModels).Error; err != nil {
		return nil, err
	}

	distributions := make([]shu.Distribution, len(distModels))
	for i, model := range distModels {
		distributions[i] = *model.ToDomain()
	}
	return distributions, nil
}

// Save creates or updates a distribution
func (r *GormDistributionRepository) Save(ctx context.Context, d *shu.Distribution) error {
	model := models.DistributionModelFromDomain(d)
	return dbForContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a distribution with optimistic locking (version check)
func (r *GormDistributionRepository) SaveWithLock(ctx context.Context, d *shu.Distribution) error {
	model := models.DistributionModelFromDomain(d)
	result := dbForContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", d.ID, d.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The distribution has been modified by another transaction")
	}
	return nil
}

// Delete deletes a distribution and cascades its allocation rows
func (r *GormDistributionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbForContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MemberAllocationModel{}, "distribution_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.DistributionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts distributions matching the filter
func (r *GormDistributionRepository) Count(ctx context.Context, filter shu.DistributionFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbForContext(ctx, r.db).Model(&models.DistributionModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySetting counts distributions referencing a percentage setting
func (r *GormDistributionRepository) CountBySetting(ctx context.Context, settingID uuid.UUID) (int64, error) {
	var count int64
	if err := dbForContext(ctx, r.db).
		Model(&models.DistributionModel{}).
		Where("setting_id = ?", settingID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormDistributionRepository) applyFilter(query *gorm.DB, filter shu.DistributionFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, DistributionSortFields, "fiscal_year")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		query = query.Order(sortField + " " + sortOrder)
	} else {
		query = query.Order("fiscal_year DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDistributionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shu.DistributionFilter) *gorm.DB {
	if filter.FiscalYear != nil {
		query = query.Where("fiscal_year = ?", *filter.FiscalYear)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	return query
}

// Ensure GormDistributionRepository implements DistributionRepository
var _ shu.DistributionRepository = (*GormDistributionRepository)(nil)
