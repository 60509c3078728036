package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of a savings ledger entry
type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal      TransactionType = "WITHDRAWAL"
	TransactionTypeSHUDistribution TransactionType = "SHU_DISTRIBUTION"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeSHUDistribution:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// SavingsTransaction is an immutable ledger row recording a movement on a
// member's savings account. SHU payouts post SHU_DISTRIBUTION rows.
type SavingsTransaction struct {
	shared.BaseAggregateRoot
	AccountID   uuid.UUID       `json:"account_id"`
	MemberID    uuid.UUID       `json:"member_id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	PostedAt    time.Time       `json:"posted_at"`
}

// NewSavingsTransaction creates a new ledger entry
func NewSavingsTransaction(
	accountID, memberID uuid.UUID,
	txType TransactionType,
	amount valueobject.Money,
	description, reference string,
	postedAt time.Time,
) (*SavingsTransaction, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}

	return &SavingsTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountID:         accountID,
		MemberID:          memberID,
		Type:              txType,
		Amount:            amount.Amount(),
		Description:       description,
		Reference:         reference,
		PostedAt:          postedAt,
	}, nil
}

// AmountMoney returns the amount as Money
func (t *SavingsTransaction) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyIDR(t.Amount)
}

// IsDeposit returns true for deposit rows, which count toward jasa usaha volume
func (t *SavingsTransaction) IsDeposit() bool {
	return t.Type == TransactionTypeDeposit
}

// SignedAmount returns the amount with a negative sign for withdrawals
func (t *SavingsTransaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
