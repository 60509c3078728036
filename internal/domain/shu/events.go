package shu

import (
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DistributionCreatedEvent is raised when a draft distribution is created
type DistributionCreatedEvent struct {
	shared.BaseDomainEvent
	DistributionID uuid.UUID       `json:"distribution_id"`
	FiscalYear     int             `json:"fiscal_year"`
	TotalSHUAmount decimal.Decimal `json:"total_shu_amount"`
	SettingID      uuid.UUID       `json:"setting_id"`
}

// EventType returns the event type name
func (e *DistributionCreatedEvent) EventType() string {
	return "SHUDistributionCreated"
}

// NewDistributionCreatedEvent creates a new DistributionCreatedEvent
func NewDistributionCreatedEvent(d *Distribution) *DistributionCreatedEvent {
	return &DistributionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SHUDistributionCreated", "SHUDistribution", d.ID),
		DistributionID:  d.ID,
		FiscalYear:      d.FiscalYear,
		TotalSHUAmount:  d.TotalSHUAmount,
		SettingID:       d.SettingID,
	}
}

// DistributionApprovedEvent is raised when a distribution is approved
type DistributionApprovedEvent struct {
	shared.BaseDomainEvent
	DistributionID uuid.UUID `json:"distribution_id"`
	FiscalYear     int       `json:"fiscal_year"`
	ApprovedBy     uuid.UUID `json:"approved_by"`
	ApprovedAt     time.Time `json:"approved_at"`
}

// EventType returns the event type name
func (e *DistributionApprovedEvent) EventType() string {
	return "SHUDistributionApproved"
}

// NewDistributionApprovedEvent creates a new DistributionApprovedEvent
func NewDistributionApprovedEvent(d *Distribution) *DistributionApprovedEvent {
	evt := &DistributionApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SHUDistributionApproved", "SHUDistribution", d.ID),
		DistributionID:  d.ID,
		FiscalYear:      d.FiscalYear,
	}
	if d.ApprovedBy != nil {
		evt.ApprovedBy = *d.ApprovedBy
	}
	if d.ApprovedAt != nil {
		evt.ApprovedAt = *d.ApprovedAt
	}
	return evt
}

// DistributionPaidOutEvent is raised when every allocation has been disbursed
type DistributionPaidOutEvent struct {
	shared.BaseDomainEvent
	DistributionID uuid.UUID       `json:"distribution_id"`
	FiscalYear     int             `json:"fiscal_year"`
	MemberPool     decimal.Decimal `json:"member_pool"`
}

// EventType returns the event type name
func (e *DistributionPaidOutEvent) EventType() string {
	return "SHUDistributionPaidOut"
}

// NewDistributionPaidOutEvent creates a new DistributionPaidOutEvent
func NewDistributionPaidOutEvent(d *Distribution) *DistributionPaidOutEvent {
	return &DistributionPaidOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SHUDistributionPaidOut", "SHUDistribution", d.ID),
		DistributionID:  d.ID,
		FiscalYear:      d.FiscalYear,
		MemberPool:      d.MemberPool(),
	}
}

// AllocationPaidOutEvent is raised when a single member allocation is paid
type AllocationPaidOutEvent struct {
	shared.BaseDomainEvent
	AllocationID    uuid.UUID       `json:"allocation_id"`
	DistributionID  uuid.UUID       `json:"distribution_id"`
	MemberID        uuid.UUID       `json:"member_id"`
	AmountAllocated decimal.Decimal `json:"amount_allocated"`
}

// EventType returns the event type name
func (e *AllocationPaidOutEvent) EventType() string {
	return "SHUAllocationPaidOut"
}

// NewAllocationPaidOutEvent creates a new AllocationPaidOutEvent
func NewAllocationPaidOutEvent(a *MemberAllocation) *AllocationPaidOutEvent {
	return &AllocationPaidOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SHUAllocationPaidOut", "SHUMemberAllocation", a.ID),
		AllocationID:    a.ID,
		DistributionID:  a.DistributionID,
		MemberID:        a.MemberID,
		AmountAllocated: a.AmountAllocated,
	}
}
