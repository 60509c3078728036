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

// GormPercentageSettingRepository implements PercentageSettingRepository using GORM
type GormPercentageSettingRepository struct {
	db *gorm.DB
}

// NewGormPercentageSettingRepository creates a new GormPercentageSettingRepository
func NewGormPercentageSettingRepository(db *gorm.DB) *GormPercentageSettingRepository {
	return &GormPercentageSettingRepository{db: db}
}

// FindByID finds a setting by its ID
func (r *GormPercentageSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*shu.PercentageSetting, error) {
	var model models.PercentageSettingModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFiscalYear finds all settings for a fiscal year
func (r *GormPercentageSettingRepository) FindByFiscalYear(ctx context.Context, fiscalYear int) ([]shu.PercentageSetting, error) {
	var settingModels []models.PercentageSettingModel
	if err := dbForContext(ctx, r.db).
		Where("fiscal_year = ?", fiscalYear).
		Order("created_at DESC").
		Find(&settingModels).Error; err != nil {
		return nil, err
	}

	settings := make([]shu.PercentageSetting, len(settingModels))
	for i, model := range settingModels {
		settings[i] = *model.ToDomain()
	}
	return settings, nil
}

// FindActiveByFiscalYear finds the single active setting for a fiscal year
func (r *GormPercentageSettingRepository) FindActiveByFiscalYear(ctx context.Context, fiscalYear int) (*shu.PercentageSetting, error) {
	var model models.PercentageSettingModel
	if err := dbForContext(ctx, r.db).
		Where("fiscal_year = ? AND is_active = ?", fiscalYear, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds settings matching the filter
func (r *GormPercentageSettingRepository) FindAll(ctx context.Context, filter shu.PercentageSettingFilter) ([]shu.PercentageSetting, error) {
	var settingModels []models.PercentageSettingModel
	query := r.applyFilter(dbForContext(ctx, r.db).Model(&models.PercentageSettingModel{}), filter)

	if err := query.Find(&settingModels).Error; err != nil {
		return nil, err
	}

	settings := make([]shu.PercentageSetting, len(settingModels))
	for i, model := range settingModels {
		settings[i] = *model.ToDomain()
	}
	return settings, nil
}

// Save creates or updates a setting
func (r *GormPercentageSettingRepository) Save(ctx context.Context, setting *shu.PercentageSetting) error {
	model := models.PercentageSettingModelFromDomain(setting)
	return dbForContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a setting with optimistic locking (version check)
func (r *GormPercentageSettingRepository) SaveWithLock(ctx context.Context, setting *shu.PercentageSetting) error {
	model := models.PercentageSettingModelFromDomain(setting)
	result := dbForContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", setting.ID, setting.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The setting has been modified by another transaction")
	}
	return nil
}

// Activate makes the given setting the only active one for its fiscal year.
// Siblings are deactivated and the target activated in one transaction so
// "at most one active per year" holds at every commit.
func (r *GormPercentageSettingRepository) Activate(ctx context.Context, fiscalYear int, id uuid.UUID) error {
	return dbForContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PercentageSettingModel{}).
			Where("fiscal_year = ? AND id <> ?", fiscalYear, id).
			Update("is_active", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.PercentageSettingModel{}).
			Where("id = ? AND fiscal_year = ?", id, fiscalYear).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Delete deletes a setting
func (r *GormPercentageSettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbForContext(ctx, r.db).Delete(&models.PercentageSettingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts settings matching the filter
func (r *GormPercentageSettingRepository) Count(ctx context.Context, filter shu.PercentageSettingFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbForContext(ctx, r.db).Model(&models.PercentageSettingModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPercentageSettingRepository) applyFilter(query *gorm.DB, filter shu.PercentageSettingFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PercentageSettingSortFields, "fiscal_year")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		query = query.Order(sortField + " " + sortOrder)
	} else {
		query = query.Order("fiscal_year DESC, created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPercentageSettingRepository) applyFilterWithoutPagination(query *gorm.DB, filter shu.PercentageSettingFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.FiscalYear != nil {
		query = query.Where("fiscal_year = ?", *filter.FiscalYear)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	return query
}

// Ensure GormPercentageSettingRepository implements PercentageSettingRepository
var _ shu.PercentageSettingRepository = (*GormPercentageSettingRepository)(nil)
