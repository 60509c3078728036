package shu

import (
	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MemberStat is one eligible member's input to the allocation calculation:
// total savings balance at the fiscal-year cutoff and deposit volume during
// the fiscal year.
type MemberStat struct {
	MemberID       uuid.UUID
	SavingsBalance decimal.Decimal
	DepositVolume  decimal.Decimal
}

// CalculateMemberAllocations distributes a draft distribution's member pool
// across the given members.
//
// Each member's jasa modal share is proportional to their savings balance,
// the jasa usaha share to their deposit volume. When a denominator is zero
// the corresponding shares are all zero. Ratios stay exact; rounding happens
// once, on each member's final jasa modal and jasa usaha amounts, so the sum
// of allocations may drift from the pool by up to one cent per member. The
// drift is accepted and not reconciled.
func CalculateMemberAllocations(d *Distribution, stats []MemberStat) ([]MemberAllocation, error) {
	if d == nil {
		return nil, shared.NewDomainError("INVALID_DISTRIBUTION", "Distribution is required")
	}

	totalBalance := decimal.Zero
	totalVolume := decimal.Zero
	for _, s := range stats {
		totalBalance = totalBalance.Add(s.SavingsBalance)
		totalVolume = totalVolume.Add(s.DepositVolume)
	}

	allocations := make([]MemberAllocation, 0, len(stats))
	for _, s := range stats {
		jasaModal := decimal.Zero
		if totalBalance.IsPositive() {
			jasaModal = d.Breakdown.JasaModal.Mul(s.SavingsBalance).Div(totalBalance).Round(2)
		}

		jasaUsaha := decimal.Zero
		if totalVolume.IsPositive() {
			jasaUsaha = d.Breakdown.JasaUsaha.Mul(s.DepositVolume).Div(totalVolume).Round(2)
		}

		alloc, err := NewMemberAllocation(d.ID, s.MemberID, jasaModal, jasaUsaha)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, *alloc)
	}

	return allocations, nil
}
