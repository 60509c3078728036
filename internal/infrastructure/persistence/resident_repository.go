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

// GormResidentRepository implements ResidentRepository using GORM
type GormResidentRepository struct {
	db *gorm.DB
}

// NewGormResidentRepository creates a new GormResidentRepository
func NewGormResidentRepository(db *gorm.DB) *GormResidentRepository {
	return &GormResidentRepository{db: db}
}

// FindByID finds a resident by its ID
func (r *GormResidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.Resident, error) {
	var model models.ResidentModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByHouseNumber finds a resident by house number
func (r *GormResidentRepository) FindByHouseNumber(ctx context.Context, houseNumber string) (*estate.Resident, error) {
	var model models.ResidentModel
	if err := dbForContext(ctx, r.db).
		Where("house_number = ?", houseNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds residents matching the filter
func (r *GormResidentRepository) FindAll(ctx context.Context, filter estate.ResidentFilter) ([]estate.Resident, error) {
	var residentModels []models.ResidentModel
	query := r.applyFilter(dbForContext(ctx, r.db).Model(&models.ResidentModel{}), filter)

	if err := query.Find(&residentModels).Error; err != nil {
		return nil, err
	}

	residents := make([]estate.Resident, len(residentModels))
	for i, model := range residentModels {
		residents[i] = *model.ToDomain()
	}
	return residents, nil
}

// FindActive finds all residents still occupying their houses
func (r *GormResidentRepository) FindActive(ctx context.Context) ([]estate.Resident, error) {
	var residentModels []models.ResidentModel
	if err := dbForContext(ctx, r.db).
		Where("status = ?", estate.ResidentStatusActive).
		Order("house_number ASC").
		Find(&residentModels).Error; err != nil {
		return nil, err
	}

	residents := make([]estate.Resident, len(residentModels))
	for i, model := range residentModels {
		residents[i] = *model.ToDomain()
	}
	return residents, nil
}

// Save creates or updates a resident
func (r *GormResidentRepository) Save(ctx context.Context, resident *estate.Resident) error {
	model := models.ResidentModelFromDomain(resident)
	return dbForContext(ctx, r.db).Save(model).Error
}

// Delete deletes a resident
func (r *GormResidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbForContext(ctx, r.db).Delete(&models.ResidentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts residents matching the filter
func (r *GormResidentRepository) Count(ctx context.Context, filter estate.ResidentFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbForContext(ctx, r.db).Model(&models.ResidentModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByHouseNumber checks if a house number is already registered
func (r *GormResidentRepository) ExistsByHouseNumber(ctx context.Context, houseNumber string) (bool, error) {
	var count int64
	if err := dbForContext(ctx, r.db).
		Model(&models.ResidentModel{}).
		Where("house_number = ?", houseNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormResidentRepository) applyFilter(query *gorm.DB, filter estate.ResidentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, ResidentSortFields, "house_number")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		query = query.Order(sortField + " " + sortOrder)
	} else {
		query = query.Order("house_number ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormResidentRepository) applyFilterWithoutPagination(query *gorm.DB, filter estate.ResidentFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("house_number ILIKE ? OR head_of_house ILIKE ? OR phone ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	return query
}

// Ensure GormResidentRepository implements ResidentRepository
var _ estate.ResidentRepository = (*GormResidentRepository)(nil)
