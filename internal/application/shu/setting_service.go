package shu

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/domain/shu"
	"github.com/shopspring/decimal"
)

// SettingService provides application-level SHU percentage setting operations
type SettingService struct {
	settingRepo      shu.PercentageSettingRepository
	distributionRepo shu.DistributionRepository
}

// NewSettingService creates a new SettingService
func NewSettingService(
	settingRepo shu.PercentageSettingRepository,
	distributionRepo shu.DistributionRepository,
) *SettingService {
	return &SettingService{
		settingRepo:      settingRepo,
		distributionRepo: distributionRepo,
	}
}

// PercentagesPayload carries both split levels in requests
type PercentagesPayload struct {
	Cadangan   decimal.Decimal `json:"cadangan" binding:"required"`
	Anggota    decimal.Decimal `json:"anggota" binding:"required"`
	Pengurus   decimal.Decimal `json:"pengurus"`
	Karyawan   decimal.Decimal `json:"karyawan"`
	DanaSosial decimal.Decimal `json:"dana_sosial"`
	JasaModal  decimal.Decimal `json:"jasa_modal" binding:"required"`
	JasaUsaha  decimal.Decimal `json:"jasa_usaha" binding:"required"`
}

func (p PercentagesPayload) toDomain() shu.Percentages {
	return shu.Percentages{
		Cadangan:   p.Cadangan,
		Anggota:    p.Anggota,
		Pengurus:   p.Pengurus,
		Karyawan:   p.Karyawan,
		DanaSosial: p.DanaSosial,
		JasaModal:  p.JasaModal,
		JasaUsaha:  p.JasaUsaha,
	}
}

// CreateSettingRequest represents a request to create a percentage setting
type CreateSettingRequest struct {
	Name        string             `json:"name" binding:"required"`
	FiscalYear  int                `json:"fiscal_year" binding:"required"`
	Percentages PercentagesPayload `json:"percentages" binding:"required"`
	Notes       string             `json:"notes"`
}

// UpdateSettingRequest represents a request to update a percentage setting
type UpdateSettingRequest struct {
	Name        string             `json:"name" binding:"required"`
	Percentages PercentagesPayload `json:"percentages" binding:"required"`
	Notes       string             `json:"notes"`
}

// SettingListFilter defines filtering options for setting list queries
type SettingListFilter struct {
	FiscalYear *int  `form:"fiscal_year"`
	IsActive   *bool `form:"is_active"`
	Page       int   `form:"page"`
	PageSize   int   `form:"page_size"`
}

// SettingResponse represents a percentage setting in API responses
type SettingResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	FiscalYear  int             `json:"fiscal_year"`
	Percentages shu.Percentages `json:"percentages"`
	IsActive    bool            `json:"is_active"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

func toSettingResponse(s *shu.PercentageSetting) *SettingResponse {
	return &SettingResponse{
		ID:          s.ID,
		Name:        s.Name,
		FiscalYear:  s.FiscalYear,
		Percentages: s.Percentages,
		IsActive:    s.IsActive,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

// CreateSetting creates a new percentage setting
func (s *SettingService) CreateSetting(ctx context.Context, req CreateSettingRequest) (*SettingResponse, error) {
	setting, err := shu.NewPercentageSetting(req.Name, req.FiscalYear, req.Percentages.toDomain())
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		setting.SetNotes(req.Notes)
	}

	if err := s.settingRepo.Save(ctx, setting); err != nil {
		return nil, err
	}

	return toSettingResponse(setting), nil
}

// UpdateSetting updates a setting that is not yet referenced by a distribution
func (s *SettingService) UpdateSetting(ctx context.Context, id uuid.UUID, req UpdateSettingRequest) (*SettingResponse, error) {
	setting, err := s.settingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, shared.ErrNotFound
	}

	if err := s.ensureUnused(ctx, id); err != nil {
		return nil, err
	}

	if err := setting.Update(req.Name, req.Percentages.toDomain(), req.Notes); err != nil {
		return nil, err
	}

	if err := s.settingRepo.SaveWithLock(ctx, setting); err != nil {
		return nil, err
	}

	return toSettingResponse(setting), nil
}

// DeleteSetting deletes a setting that is not yet referenced by a distribution
func (s *SettingService) DeleteSetting(ctx context.Context, id uuid.UUID) error {
	setting, err := s.settingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if setting == nil {
		return shared.ErrNotFound
	}

	if err := s.ensureUnused(ctx, id); err != nil {
		return err
	}

	return s.settingRepo.Delete(ctx, id)
}

// ActivateSetting makes a setting the single active policy for its fiscal year
func (s *SettingService) ActivateSetting(ctx context.Context, id uuid.UUID) (*SettingResponse, error) {
	setting, err := s.settingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, shared.ErrNotFound
	}

	if err := s.settingRepo.Activate(ctx, setting.FiscalYear, setting.ID); err != nil {
		return nil, err
	}

	setting.Activate()
	return toSettingResponse(setting), nil
}

// GetSetting returns a setting by ID
func (s *SettingService) GetSetting(ctx context.Context, id uuid.UUID) (*SettingResponse, error) {
	setting, err := s.settingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, shared.ErrNotFound
	}

	return toSettingResponse(setting), nil
}

// ListSettings returns settings with pagination
func (s *SettingService) ListSettings(ctx context.Context, filter SettingListFilter) (*shared.Paginated[*SettingResponse], error) {
	domainFilter := shu.PercentageSettingFilter{
		Filter:     shared.DefaultFilter(),
		FiscalYear: filter.FiscalYear,
		IsActive:   filter.IsActive,
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}

	settings, err := s.settingRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.settingRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*SettingResponse, len(settings))
	for i := range settings {
		responses[i] = toSettingResponse(&settings[i])
	}

	paginated := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &paginated, nil
}

// ensureUnused rejects changes to a setting referenced by any distribution
func (s *SettingService) ensureUnused(ctx context.Context, id uuid.UUID) error {
	count, err := s.distributionRepo.CountBySetting(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("SETTING_IN_USE",
			"Setting is referenced by a distribution and can no longer be changed")
	}
	return nil
}
