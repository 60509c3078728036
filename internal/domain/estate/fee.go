package estate

import (
	"time"

	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Fee is a recurring monthly charge levied on estate residents, such as
// security or waste collection dues.
type Fee struct {
	shared.BaseAggregateRoot
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IsActive    bool            `json:"is_active"`
}

// NewFee creates a fee type with a monthly base amount
func NewFee(name, description string, amount decimal.Decimal) (*Fee, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Fee name cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}

	return &Fee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Amount:            amount,
		IsActive:          true,
	}, nil
}

// Update replaces the fee's name, description and base amount
func (f *Fee) Update(name, description string, amount decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Fee name cannot be empty")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}

	f.Name = name
	f.Description = description
	f.Amount = amount
	f.UpdatedAt = time.Now()

	return nil
}

// Deactivate stops the fee from being billed going forward
func (f *Fee) Deactivate() {
	f.IsActive = false
	f.UpdatedAt = time.Now()
}

// Activate resumes billing for the fee
func (f *Fee) Activate() {
	f.IsActive = true
	f.UpdatedAt = time.Now()
}
