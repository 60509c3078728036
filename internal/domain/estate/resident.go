package estate

import (
	"time"

	"github.com/koperasi/backend/internal/domain/shared"
)

// ResidentStatus represents the occupancy state of a resident
type ResidentStatus string

const (
	ResidentStatusActive   ResidentStatus = "ACTIVE"
	ResidentStatusMovedOut ResidentStatus = "MOVED_OUT"
)

// IsValid checks if the status is a valid ResidentStatus
func (s ResidentStatus) IsValid() bool {
	return s == ResidentStatusActive || s == ResidentStatusMovedOut
}

// Resident is a household registered in the housing estate
type Resident struct {
	shared.BaseAggregateRoot
	HouseNumber string         `json:"house_number"`
	HeadOfHouse string         `json:"head_of_house"`
	Phone       string         `json:"phone"`
	Status      ResidentStatus `json:"status"`
	MovedInAt   time.Time      `json:"moved_in_at"`
	MovedOutAt  *time.Time     `json:"moved_out_at"`
}

// NewResident registers a household at a house number
func NewResident(houseNumber, headOfHouse, phone string, movedInAt time.Time) (*Resident, error) {
	if houseNumber == "" {
		return nil, shared.NewDomainError("INVALID_HOUSE_NUMBER", "House number cannot be empty")
	}
	if headOfHouse == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Head of house cannot be empty")
	}

	return &Resident{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		HouseNumber:       houseNumber,
		HeadOfHouse:       headOfHouse,
		Phone:             phone,
		Status:            ResidentStatusActive,
		MovedInAt:         movedInAt,
	}, nil
}

// UpdateContact replaces the head of house and phone
func (r *Resident) UpdateContact(headOfHouse, phone string) error {
	if headOfHouse == "" {
		return shared.NewDomainError("INVALID_NAME", "Head of house cannot be empty")
	}

	r.HeadOfHouse = headOfHouse
	r.Phone = phone
	r.UpdatedAt = time.Now()

	return nil
}

// MoveOut marks the resident as having left the estate
func (r *Resident) MoveOut(at time.Time) error {
	if r.Status == ResidentStatusMovedOut {
		return shared.NewDomainError("INVALID_STATE", "Resident has already moved out")
	}

	r.Status = ResidentStatusMovedOut
	r.MovedOutAt = &at
	r.UpdatedAt = time.Now()

	return nil
}

// IsActive returns true while the resident still occupies the house
func (r *Resident) IsActive() bool {
	return r.Status == ResidentStatusActive
}
