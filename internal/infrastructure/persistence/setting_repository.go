package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/settings"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettingRepository implements SettingRepository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindByID finds a setting by its ID
func (r *GormSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.Setting, error) {
	var model models.SettingModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKey finds a setting by its unique key
func (r *GormSettingRepository) FindByKey(ctx context.Context, key string) (*settings.Setting, error) {
	var model models.SettingModel
	if err := dbForContext(ctx, r.db).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKeys finds settings for a set of keys, missing keys are omitted
func (r *GormSettingRepository) FindByKeys(ctx context.Context, keys []string) ([]settings.Setting, error) {
	if len(keys) == 0 {
		return []settings.Setting{}, nil
	}

	var settingModels []models.SettingModel
	if err := dbForContext(ctx, r.db).
		Where("key IN ?", keys).
		Order("key ASC").
		Find(&settingModels).Error; err != nil {
		return nil, err
	}

	result := make([]settings.Setting, len(settingModels))
	for i, model := range settingModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// FindAll returns every stored setting
func (r *GormSettingRepository) FindAll(ctx context.Context) ([]settings.Setting, error) {
	var settingModels []models.SettingModel
	if err := dbForContext(ctx, r.db).Order("key ASC").Find(&settingModels).Error; err != nil {
		return nil, err
	}

	result := make([]settings.Setting, len(settingModels))
	for i, model := range settingModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Save creates or updates a setting
func (r *GormSettingRepository) Save(ctx context.Context, s *settings.Setting) error {
	model := models.SettingModelFromDomain(s)
	return dbForContext(ctx, r.db).Save(model).Error
}

// Delete deletes a setting
func (r *GormSettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbForContext(ctx, r.db).Delete(&models.SettingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSettingRepository implements SettingRepository
var _ settings.SettingRepository = (*GormSettingRepository)(nil)
