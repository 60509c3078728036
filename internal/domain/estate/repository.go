package estate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
)

// ResidentFilter defines filtering options for resident queries
type ResidentFilter struct {
	shared.Filter
	Status *ResidentStatus
}

// FeePaymentFilter defines filtering options for fee payment queries
type FeePaymentFilter struct {
	shared.Filter
	ResidentID  *uuid.UUID
	FeeID       *uuid.UUID
	PeriodYear  *int
	PeriodMonth *int
	Status      *FeePaymentStatus
}

// ResidentRepository defines the interface for resident persistence
type ResidentRepository interface {
	// FindByID finds a resident by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Resident, error)

	// FindByHouseNumber finds a resident by house number
	FindByHouseNumber(ctx context.Context, houseNumber string) (*Resident, error)

	// FindAll finds residents with filtering
	FindAll(ctx context.Context, filter ResidentFilter) ([]Resident, error)

	// FindActive finds all residents still occupying their houses
	FindActive(ctx context.Context) ([]Resident, error)

	// Save creates or updates a resident
	Save(ctx context.Context, r *Resident) error

	// Delete deletes a resident
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts residents with optional filters
	Count(ctx context.Context, filter ResidentFilter) (int64, error)

	// ExistsByHouseNumber checks if a house number is already registered
	ExistsByHouseNumber(ctx context.Context, houseNumber string) (bool, error)
}

// FeeRepository defines the interface for fee type persistence
type FeeRepository interface {
	// FindByID finds a fee by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Fee, error)

	// FindAll finds all fee types
	FindAll(ctx context.Context, filter shared.Filter) ([]Fee, error)

	// FindActive finds all fees currently being billed
	FindActive(ctx context.Context) ([]Fee, error)

	// Save creates or updates a fee
	Save(ctx context.Context, f *Fee) error

	// Delete deletes a fee
	Delete(ctx context.Context, id uuid.UUID) error
}

// FeePaymentRepository defines the interface for fee payment persistence
type FeePaymentRepository interface {
	// FindByID finds a fee payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FeePayment, error)

	// FindByPeriodKey finds the unique row per (resident, fee, year, month)
	FindByPeriodKey(ctx context.Context, residentID, feeID uuid.UUID, year, month int) (*FeePayment, error)

	// ExistsByPeriodKey checks whether a bill already exists for the period
	ExistsByPeriodKey(ctx context.Context, residentID, feeID uuid.UUID, year, month int) (bool, error)

	// FindAll finds fee payments with filtering
	FindAll(ctx context.Context, filter FeePaymentFilter) ([]FeePayment, error)

	// FindUnpaidByPeriod finds PENDING and OVERDUE bills for a period
	FindUnpaidByPeriod(ctx context.Context, year, month int) ([]FeePayment, error)

	// FindOverdueCandidates finds PENDING bills whose due date has passed
	FindOverdueCandidates(ctx context.Context, asOf time.Time) ([]FeePayment, error)

	// Save creates or updates a fee payment
	Save(ctx context.Context, p *FeePayment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, p *FeePayment) error

	// Delete deletes a fee payment
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts fee payments with optional filters
	Count(ctx context.Context, filter FeePaymentFilter) (int64, error)
}
