package shu

import (
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MemberAllocation is one member's share of a distribution, unique per
// (distribution, member). AmountAllocated is always the sum of the jasa
// modal and jasa usaha parts.
type MemberAllocation struct {
	shared.BaseAggregateRoot
	DistributionID      uuid.UUID       `json:"distribution_id"`
	MemberID            uuid.UUID       `json:"member_id"`
	JasaModalAmount     decimal.Decimal `json:"jasa_modal_amount"`
	JasaUsahaAmount     decimal.Decimal `json:"jasa_usaha_amount"`
	AmountAllocated     decimal.Decimal `json:"amount_allocated"`
	IsPaidOut           bool            `json:"is_paid_out"`
	PayoutTransactionID *uuid.UUID      `json:"payout_transaction_id"`
	PaidOutAt           *time.Time      `json:"paid_out_at"`
}

// NewMemberAllocation creates an unpaid allocation row
func NewMemberAllocation(distributionID, memberID uuid.UUID, jasaModal, jasaUsaha decimal.Decimal) (*MemberAllocation, error) {
	if distributionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISTRIBUTION", "Distribution ID cannot be empty")
	}
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member ID cannot be empty")
	}
	if jasaModal.IsNegative() || jasaUsaha.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amounts cannot be negative")
	}

	return &MemberAllocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DistributionID:    distributionID,
		MemberID:          memberID,
		JasaModalAmount:   jasaModal,
		JasaUsahaAmount:   jasaUsaha,
		AmountAllocated:   jasaModal.Add(jasaUsaha),
	}, nil
}

// MarkPaidOut records the payout transaction that disbursed this allocation
func (a *MemberAllocation) MarkPaidOut(transactionID uuid.UUID) error {
	if a.IsPaidOut {
		return shared.NewDomainError("ALREADY_PAID", "Allocation has already been paid out")
	}
	if transactionID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRANSACTION", "Payout transaction ID cannot be empty")
	}

	now := time.Now()
	a.IsPaidOut = true
	a.PayoutTransactionID = &transactionID
	a.PaidOutAt = &now
	a.UpdatedAt = now

	a.AddDomainEvent(NewAllocationPaidOutEvent(a))

	return nil
}
