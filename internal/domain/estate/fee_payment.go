package estate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeePaymentStatus represents the lifecycle state of a fee payment
type FeePaymentStatus string

const (
	FeePaymentStatusPending   FeePaymentStatus = "PENDING"
	FeePaymentStatusPaid      FeePaymentStatus = "PAID"
	FeePaymentStatusOverdue   FeePaymentStatus = "OVERDUE"
	FeePaymentStatusCancelled FeePaymentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid FeePaymentStatus
func (s FeePaymentStatus) IsValid() bool {
	switch s {
	case FeePaymentStatusPending, FeePaymentStatusPaid, FeePaymentStatusOverdue, FeePaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of FeePaymentStatus
func (s FeePaymentStatus) String() string {
	return string(s)
}

// CanPay returns true if the payment may still be settled
func (s FeePaymentStatus) CanPay() bool {
	return s == FeePaymentStatusPending || s == FeePaymentStatusOverdue
}

// FeePayment is one resident's bill for one fee in one period.
// A resident has at most one payment row per fee and period.
type FeePayment struct {
	shared.BaseAggregateRoot
	ResidentID    uuid.UUID        `json:"resident_id"`
	FeeID         uuid.UUID        `json:"fee_id"`
	PeriodYear    int              `json:"period_year"`
	PeriodMonth   int              `json:"period_month"`
	Amount        decimal.Decimal  `json:"amount"`
	DueDate       time.Time        `json:"due_date"`
	PaymentDate   *time.Time       `json:"payment_date"`
	LateDays      int              `json:"late_days"`
	PenaltyAmount decimal.Decimal  `json:"penalty_amount"`
	Status        FeePaymentStatus `json:"status"`
	Notes         string           `json:"notes"`
}

// NewFeePayment bills a resident for a fee in a given period
func NewFeePayment(residentID, feeID uuid.UUID, year, month int, amount decimal.Decimal, dueDate time.Time) (*FeePayment, error) {
	if residentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESIDENT", "Resident ID cannot be empty")
	}
	if feeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE", "Fee ID cannot be empty")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period month must be between 1 and 12")
	}
	if year < 2000 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period year is out of range")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}

	return &FeePayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ResidentID:        residentID,
		FeeID:             feeID,
		PeriodYear:        year,
		PeriodMonth:       month,
		Amount:            amount,
		DueDate:           dueDate,
		PenaltyAmount:     decimal.Zero,
		Status:            FeePaymentStatusPending,
	}, nil
}

// RecordPayment settles the bill on paymentDate, deriving late days and
// penalty from the given policy.
func (p *FeePayment) RecordPayment(paymentDate time.Time, cfg PenaltyConfig, notes string) error {
	if !p.Status.CanPay() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record payment on a %s fee payment", p.Status))
	}

	result := CalculatePenalty(p.DueDate, paymentDate, cfg)

	p.PaymentDate = &paymentDate
	p.LateDays = result.LateDays
	p.PenaltyAmount = result.PenaltyAmount
	p.Status = FeePaymentStatusPaid
	p.Notes = notes
	p.UpdatedAt = time.Now()

	return nil
}

// Reschedule changes the due or payment date and recomputes the penalty.
// Recomputation is idempotent: the stored late days and penalty always
// reflect the current pair of dates.
func (p *FeePayment) Reschedule(dueDate time.Time, paymentDate *time.Time, cfg PenaltyConfig) error {
	if p.Status == FeePaymentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot reschedule a cancelled fee payment")
	}

	p.DueDate = dueDate
	p.PaymentDate = paymentDate

	if paymentDate != nil {
		result := CalculatePenalty(dueDate, *paymentDate, cfg)
		p.LateDays = result.LateDays
		p.PenaltyAmount = result.PenaltyAmount
	} else {
		p.LateDays = 0
		p.PenaltyAmount = decimal.Zero
	}
	p.UpdatedAt = time.Now()

	return nil
}

// MarkOverdue flags an unpaid bill past its due date
func (p *FeePayment) MarkOverdue(asOf time.Time) error {
	if p.Status != FeePaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark a %s fee payment as overdue", p.Status))
	}
	if !asOf.After(p.DueDate) {
		return shared.NewDomainError("NOT_OVERDUE", "Fee payment is not past its due date")
	}

	p.Status = FeePaymentStatusOverdue
	p.UpdatedAt = time.Now()

	return nil
}

// Cancel voids the bill. Paid bills cannot be cancelled.
func (p *FeePayment) Cancel() error {
	if p.Status == FeePaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a paid fee payment")
	}
	if p.Status == FeePaymentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Fee payment is already cancelled")
	}

	p.Status = FeePaymentStatusCancelled
	p.UpdatedAt = time.Now()

	return nil
}

// Total returns the base amount plus any accrued penalty
func (p *FeePayment) Total() decimal.Decimal {
	return p.Amount.Add(p.PenaltyAmount)
}

// IsPaid returns true once the bill is settled
func (p *FeePayment) IsPaid() bool {
	return p.Status == FeePaymentStatusPaid
}
