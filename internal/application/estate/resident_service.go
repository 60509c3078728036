package estate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/estate"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ResidentService provides application-level resident and fee type operations
type ResidentService struct {
	residentRepo estate.ResidentRepository
	feeRepo      estate.FeeRepository
}

// NewResidentService creates a new ResidentService
func NewResidentService(residentRepo estate.ResidentRepository, feeRepo estate.FeeRepository) *ResidentService {
	return &ResidentService{residentRepo: residentRepo, feeRepo: feeRepo}
}

// RegisterResidentRequest represents a request to register a household
type RegisterResidentRequest struct {
	HouseNumber string    `json:"house_number" binding:"required"`
	HeadOfHouse string    `json:"head_of_house" binding:"required"`
	Phone       string    `json:"phone"`
	MovedInAt   time.Time `json:"moved_in_at" binding:"required"`
}

// UpdateResidentRequest represents a request to update resident contact details
type UpdateResidentRequest struct {
	HeadOfHouse string `json:"head_of_house" binding:"required"`
	Phone       string `json:"phone"`
}

// ResidentResponse represents a resident in API responses
type ResidentResponse struct {
	ID          uuid.UUID  `json:"id"`
	HouseNumber string     `json:"house_number"`
	HeadOfHouse string     `json:"head_of_house"`
	Phone       string     `json:"phone,omitempty"`
	Status      string     `json:"status"`
	MovedInAt   time.Time  `json:"moved_in_at"`
	MovedOutAt  *time.Time `json:"moved_out_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FeeRequest represents a request to create or update a fee type
type FeeRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// FeeResponse represents a fee type in API responses
type FeeResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	IsActive    bool            `json:"is_active"`
}

func toResidentResponse(r *estate.Resident) *ResidentResponse {
	return &ResidentResponse{
		ID:          r.ID,
		HouseNumber: r.HouseNumber,
		HeadOfHouse: r.HeadOfHouse,
		Phone:       r.Phone,
		Status:      string(r.Status),
		MovedInAt:   r.MovedInAt,
		MovedOutAt:  r.MovedOutAt,
		CreatedAt:   r.CreatedAt,
	}
}

func toFeeResponse(f *estate.Fee) *FeeResponse {
	return &FeeResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Amount:      f.Amount,
		IsActive:    f.IsActive,
	}
}

// RegisterResident registers a household at a vacant house number
func (s *ResidentService) RegisterResident(ctx context.Context, req RegisterResidentRequest) (*ResidentResponse, error) {
	taken, err := s.residentRepo.ExistsByHouseNumber(ctx, req.HouseNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("HOUSE_NUMBER_TAKEN", "House number is already registered")
	}

	resident, err := estate.NewResident(req.HouseNumber, req.HeadOfHouse, req.Phone, req.MovedInAt)
	if err != nil {
		return nil, err
	}

	if err := s.residentRepo.Save(ctx, resident); err != nil {
		return nil, err
	}

	return toResidentResponse(resident), nil
}

// UpdateResident updates a resident's contact details
func (s *ResidentService) UpdateResident(ctx context.Context, id uuid.UUID, req UpdateResidentRequest) (*ResidentResponse, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resident == nil {
		return nil, shared.ErrNotFound
	}

	if err := resident.UpdateContact(req.HeadOfHouse, req.Phone); err != nil {
		return nil, err
	}

	if err := s.residentRepo.Save(ctx, resident); err != nil {
		return nil, err
	}

	return toResidentResponse(resident), nil
}

// MoveOutResident marks a resident as having left the estate
func (s *ResidentService) MoveOutResident(ctx context.Context, id uuid.UUID, at time.Time) (*ResidentResponse, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resident == nil {
		return nil, shared.ErrNotFound
	}

	if err := resident.MoveOut(at); err != nil {
		return nil, err
	}

	if err := s.residentRepo.Save(ctx, resident); err != nil {
		return nil, err
	}

	return toResidentResponse(resident), nil
}

// GetResident returns a resident by ID
func (s *ResidentService) GetResident(ctx context.Context, id uuid.UUID) (*ResidentResponse, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resident == nil {
		return nil, shared.ErrNotFound
	}
	return toResidentResponse(resident), nil
}

// ListResidents returns residents with pagination
func (s *ResidentService) ListResidents(ctx context.Context, page, pageSize int, status *string) (*shared.Paginated[*ResidentResponse], error) {
	filter := estate.ResidentFilter{Filter: shared.DefaultFilter()}
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 && pageSize <= 100 {
		filter.PageSize = pageSize
	}
	if status != nil {
		rs := estate.ResidentStatus(*status)
		if !rs.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown resident status")
		}
		filter.Status = &rs
	}

	residents, err := s.residentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.residentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*ResidentResponse, len(residents))
	for i := range residents {
		responses[i] = toResidentResponse(&residents[i])
	}

	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// CreateFee creates a fee type
func (s *ResidentService) CreateFee(ctx context.Context, req FeeRequest) (*FeeResponse, error) {
	fee, err := estate.NewFee(req.Name, req.Description, req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.feeRepo.Save(ctx, fee); err != nil {
		return nil, err
	}

	return toFeeResponse(fee), nil
}

// UpdateFee updates a fee type
func (s *ResidentService) UpdateFee(ctx context.Context, id uuid.UUID, req FeeRequest) (*FeeResponse, error) {
	fee, err := s.feeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, shared.ErrNotFound
	}

	if err := fee.Update(req.Name, req.Description, req.Amount); err != nil {
		return nil, err
	}

	if err := s.feeRepo.Save(ctx, fee); err != nil {
		return nil, err
	}

	return toFeeResponse(fee), nil
}

// ListFees returns every fee type
func (s *ResidentService) ListFees(ctx context.Context) ([]*FeeResponse, error) {
	fees, err := s.feeRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	responses := make([]*FeeResponse, len(fees))
	for i := range fees {
		responses[i] = toFeeResponse(&fees[i])
	}
	return responses, nil
}
