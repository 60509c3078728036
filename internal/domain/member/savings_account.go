package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SavingsType represents the type of a savings account
type SavingsType string

const (
	SavingsTypePokok    SavingsType = "POKOK"    // principal savings, paid once on joining
	SavingsTypeWajib    SavingsType = "WAJIB"    // mandatory monthly savings
	SavingsTypeSukarela SavingsType = "SUKARELA" // voluntary savings
)

// IsValid checks if the savings type is valid
func (t SavingsType) IsValid() bool {
	switch t {
	case SavingsTypePokok, SavingsTypeWajib, SavingsTypeSukarela:
		return true
	}
	return false
}

// String returns the string representation of SavingsType
func (t SavingsType) String() string {
	return string(t)
}

// SavingsAccount represents a member's savings account aggregate root.
// A member holds at most one account per savings type.
type SavingsAccount struct {
	shared.BaseAggregateRoot
	MemberID uuid.UUID       `json:"member_id"`
	Type     SavingsType     `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
}

// NewSavingsAccount creates a new savings account with zero balance
func NewSavingsAccount(memberID uuid.UUID, savingsType SavingsType) (*SavingsAccount, error) {
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member ID cannot be empty")
	}
	if !savingsType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SAVINGS_TYPE", "Savings type is not valid")
	}

	return &SavingsAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MemberID:          memberID,
		Type:              savingsType,
		Balance:           decimal.Zero,
	}, nil
}

// Credit increases the account balance
func (a *SavingsAccount) Credit(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	a.Balance = a.Balance.Add(amount.Amount())
	a.UpdatedAt = time.Now()
	return nil
}

// Debit decreases the account balance, rejecting overdrafts
func (a *SavingsAccount) Debit(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if a.Balance.LessThan(amount.Amount()) {
		return shared.ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount.Amount())
	a.UpdatedAt = time.Now()
	return nil
}

// BalanceMoney returns the balance as Money
func (a *SavingsAccount) BalanceMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(a.Balance)
}
