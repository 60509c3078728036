package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/koperasi/backend/internal/domain/estate"
	"github.com/koperasi/backend/internal/domain/settings"
	"github.com/koperasi/backend/internal/domain/shared"
)

// Cache holds previously loaded values with explicit invalidation on writes.
// The Redis implementation lives in infrastructure/cache; tests use an
// in-memory one.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const penaltyConfigCacheKey = "settings:penalty_config"

// Service provides application-level system setting operations, including
// the typed penalty configuration consumed by the estate module.
type Service struct {
	repo  settings.SettingRepository
	cache Cache
}

// NewService creates a new settings Service
func NewService(repo settings.SettingRepository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// SettingResponse represents a setting in API responses
type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// UpsertSettingRequest represents a request to create or replace a setting
type UpsertSettingRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

func toSettingResponse(s *settings.Setting) *SettingResponse {
	return &SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Type:        string(s.Type),
		Description: s.Description,
	}
}

// Upsert creates a setting or replaces the value of an existing one.
// FindByKey reports a fresh key as shared.ErrNotFound.
func (s *Service) Upsert(ctx context.Context, req UpsertSettingRequest) (*SettingResponse, error) {
	existing, err := s.repo.FindByKey(ctx, req.Key)

	var setting *settings.Setting
	switch {
	case err == nil:
		if err := existing.SetValue(req.Value); err != nil {
			return nil, err
		}
		setting = existing
	case errors.Is(err, shared.ErrNotFound):
		setting, err = settings.NewSetting(req.Key, req.Value, settings.ValueType(req.Type), req.Description)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, err
	}

	// writes invalidate the cached penalty config
	_ = s.cache.Delete(ctx, penaltyConfigCacheKey)

	return toSettingResponse(setting), nil
}

// Get returns a setting by key
func (s *Service) Get(ctx context.Context, key string) (*SettingResponse, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return toSettingResponse(setting), nil
}

// List returns every stored setting
func (s *Service) List(ctx context.Context) ([]*SettingResponse, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*SettingResponse, len(all))
	for i := range all {
		responses[i] = toSettingResponse(&all[i])
	}
	return responses, nil
}

// PenaltyConfig assembles the estate penalty policy from stored settings.
// Missing or unparseable keys fall back to the defaults, so a fresh database
// yields a working policy. The assembled config is cached until a setting
// write invalidates it.
func (s *Service) PenaltyConfig(ctx context.Context) (estate.PenaltyConfig, error) {
	cfg := estate.DefaultPenaltyConfig()

	if cached, ok, err := s.cache.Get(ctx, penaltyConfigCacheKey); err == nil && ok {
		if json.Unmarshal([]byte(cached), &cfg) == nil {
			return cfg, nil
		}
	}

	stored, err := s.repo.FindByKeys(ctx, []string{
		settings.KeyPenaltyEnabled,
		settings.KeyPenaltyPerDay,
		settings.KeyPenaltyMaxDays,
		settings.KeyGracePeriodDays,
		settings.KeyDueDateDay,
	})
	if err != nil {
		return cfg, err
	}

	for i := range stored {
		switch stored[i].Key {
		case settings.KeyPenaltyEnabled:
			cfg.Enabled = stored[i].AsBool(cfg.Enabled)
		case settings.KeyPenaltyPerDay:
			cfg.PerDay = stored[i].AsDecimal(cfg.PerDay)
		case settings.KeyPenaltyMaxDays:
			cfg.MaxDays = stored[i].AsInt(cfg.MaxDays)
		case settings.KeyGracePeriodDays:
			cfg.GraceDays = stored[i].AsInt(cfg.GraceDays)
		case settings.KeyDueDateDay:
			cfg.DueDateDay = stored[i].AsInt(cfg.DueDateDay)
		}
	}

	if raw, err := json.Marshal(cfg); err == nil {
		_ = s.cache.Set(ctx, penaltyConfigCacheKey, string(raw), 10*time.Minute)
	}

	return cfg, nil
}
