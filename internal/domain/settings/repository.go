package settings

import (
	"context"

	"github.com/google/uuid"
)

// SettingRepository defines the interface for setting persistence
type SettingRepository interface {
	// FindByID finds a setting by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Setting, error)

	// FindByKey finds a setting by its unique key, or shared.ErrNotFound
	// for a key never written
	FindByKey(ctx context.Context, key string) (*Setting, error)

	// FindByKeys finds settings for a set of keys, missing keys are omitted
	FindByKeys(ctx context.Context, keys []string) ([]Setting, error)

	// FindAll returns every stored setting
	FindAll(ctx context.Context) ([]Setting, error)

	// Save creates or updates a setting
	Save(ctx context.Context, s *Setting) error

	// Delete deletes a setting
	Delete(ctx context.Context, id uuid.UUID) error
}
