package shu

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DistributionStatus represents the lifecycle state of an SHU distribution
type DistributionStatus string

const (
	DistributionStatusDraft    DistributionStatus = "DRAFT"
	DistributionStatusApproved DistributionStatus = "APPROVED"
	DistributionStatusPaidOut  DistributionStatus = "PAID_OUT"
)

// IsValid checks if the status is a valid DistributionStatus
func (s DistributionStatus) IsValid() bool {
	switch s {
	case DistributionStatusDraft, DistributionStatusApproved, DistributionStatusPaidOut:
		return true
	}
	return false
}

// String returns the string representation of DistributionStatus
func (s DistributionStatus) String() string {
	return string(s)
}

// CanEdit returns true if the distribution may be edited or deleted
func (s DistributionStatus) CanEdit() bool {
	return s == DistributionStatusDraft
}

// CanApprove returns true if the distribution may be approved
func (s DistributionStatus) CanApprove() bool {
	return s == DistributionStatusDraft
}

// CanPayout returns true if batch payout may run
func (s DistributionStatus) CanPayout() bool {
	return s == DistributionStatusApproved
}

// IsTerminal returns true once no further state change is possible
func (s DistributionStatus) IsTerminal() bool {
	return s == DistributionStatusPaidOut
}

// Distribution is the SHU distribution aggregate root, one per fiscal year.
// Status moves strictly forward: DRAFT -> APPROVED -> PAID_OUT.
type Distribution struct {
	shared.BaseAggregateRoot
	FiscalYear       int                `json:"fiscal_year"`
	TotalSHUAmount   decimal.Decimal    `json:"total_shu_amount"`
	SettingID        uuid.UUID          `json:"setting_id"`
	Breakdown        Breakdown          `json:"breakdown"`
	DistributionDate time.Time          `json:"distribution_date"`
	Status           DistributionStatus `json:"status"`
	ApprovedBy       *uuid.UUID         `json:"approved_by"`
	ApprovedAt       *time.Time         `json:"approved_at"`
	PaidOutAt        *time.Time         `json:"paid_out_at"`
	Notes            string             `json:"notes"`
}

// NewDistribution creates a draft distribution and computes its breakdown
// from the given percentage setting.
func NewDistribution(
	fiscalYear int,
	totalSHU decimal.Decimal,
	setting *PercentageSetting,
	distributionDate time.Time,
	notes string,
) (*Distribution, error) {
	if setting == nil {
		return nil, shared.NewDomainError("INVALID_SETTING", "Percentage setting is required")
	}
	if setting.FiscalYear != fiscalYear {
		return nil, shared.NewDomainError("FISCAL_YEAR_MISMATCH",
			fmt.Sprintf("Setting belongs to fiscal year %d, not %d", setting.FiscalYear, fiscalYear))
	}
	if totalSHU.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total SHU amount cannot be negative")
	}

	breakdown, err := CalculateBreakdown(totalSHU, setting)
	if err != nil {
		return nil, err
	}

	d := &Distribution{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FiscalYear:        fiscalYear,
		TotalSHUAmount:    totalSHU,
		SettingID:         setting.ID,
		Breakdown:         breakdown,
		DistributionDate:  distributionDate,
		Status:            DistributionStatusDraft,
		Notes:             notes,
	}

	d.AddDomainEvent(NewDistributionCreatedEvent(d))

	return d, nil
}

// UpdateDraft replaces the editable fields, recomputing the breakdown.
// Only draft distributions may be edited.
func (d *Distribution) UpdateDraft(
	totalSHU decimal.Decimal,
	setting *PercentageSetting,
	distributionDate time.Time,
	notes string,
) error {
	if !d.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot edit distribution in %s status", d.Status))
	}
	if setting == nil {
		return shared.NewDomainError("INVALID_SETTING", "Percentage setting is required")
	}
	if setting.FiscalYear != d.FiscalYear {
		return shared.NewDomainError("FISCAL_YEAR_MISMATCH",
			fmt.Sprintf("Setting belongs to fiscal year %d, not %d", setting.FiscalYear, d.FiscalYear))
	}
	if totalSHU.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total SHU amount cannot be negative")
	}

	breakdown, err := CalculateBreakdown(totalSHU, setting)
	if err != nil {
		return err
	}

	d.TotalSHUAmount = totalSHU
	d.SettingID = setting.ID
	d.Breakdown = breakdown
	d.DistributionDate = distributionDate
	d.Notes = notes
	d.UpdatedAt = time.Now()

	return nil
}

// Approve moves the distribution from DRAFT to APPROVED. A distribution
// without allocation rows cannot be approved.
func (d *Distribution) Approve(approvedBy uuid.UUID, allocationCount int64) error {
	if !d.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve distribution in %s status", d.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}
	if allocationCount <= 0 {
		return shared.NewDomainError("NO_ALLOCATIONS", "Distribution has no member allocations to approve")
	}

	now := time.Now()
	d.Status = DistributionStatusApproved
	d.ApprovedBy = &approvedBy
	d.ApprovedAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDistributionApprovedEvent(d))

	return nil
}

// MarkPaidOut moves the distribution from APPROVED to PAID_OUT once every
// allocation row has been disbursed.
func (d *Distribution) MarkPaidOut() error {
	if !d.Status.CanPayout() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark distribution in %s status as paid out", d.Status))
	}

	now := time.Now()
	d.Status = DistributionStatusPaidOut
	d.PaidOutAt = &now
	d.UpdatedAt = now

	d.AddDomainEvent(NewDistributionPaidOutEvent(d))

	return nil
}

// IsDraft returns true while the distribution is editable
func (d *Distribution) IsDraft() bool {
	return d.Status == DistributionStatusDraft
}

// MemberPool returns jasa modal + jasa usaha, the amount allocated to members
func (d *Distribution) MemberPool() decimal.Decimal {
	return d.Breakdown.MemberPool()
}
