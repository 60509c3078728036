package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/estate"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeRepository implements FeeRepository using GORM
type GormFeeRepository struct {
	db *gorm.DB
}

// NewGormFeeRepository creates a new GormFeeRepository
func NewGormFeeRepository(db *gorm.DB) *GormFeeRepository {
	return &GormFeeRepository{db: db}
}

// FindByID finds a fee by its ID
func (r *GormFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.Fee, error) {
	var model models.FeeModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all fee types
func (r *GormFeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]estate.Fee, error) {
	var feeModels []models.FeeModel
	query := dbForContext(ctx, r.db).Model(&models.FeeModel{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	// Apply sorting with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, FeeSortFields, "name")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		query = query.Order(sortField + " " + sortOrder)
	} else {
		query = query.Order("name ASC")
	}

	if err := query.Find(&feeModels).Error; err != nil {
		return nil, err
	}

	fees := make([]estate.Fee, len(feeModels))
	for i, model := range feeModels {
		fees[i] = *model.ToDomain()
	}
	return fees, nil
}

// FindActive finds all fees currently being billed
func (r *GormFeeRepository) FindActive(ctx context.Context) ([]estate.Fee, error) {
	var feeModels []models.FeeModel
	if err := dbForContext(ctx, r.db).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&feeModels).Error; err != nil {
		return nil, err
	}

	fees := make([]estate.Fee, len(feeModels))
	for i, model := range feeModels {
		fees[i] = *model.ToDomain()
	}
	return fees, nil
}

// Save creates or updates a fee
func (r *GormFeeRepository) Save(ctx context.Context, f *estate.Fee) error {
	model := models.FeeModelFromDomain(f)
	return dbForContext(ctx, r.db).Save(model).Error
}

// Delete deletes a fee
func (r *GormFeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbForContext(ctx, r.db).Delete(&models.FeeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormFeeRepository implements FeeRepository
var _ estate.FeeRepository = (*GormFeeRepository)(nil)
