package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/member"
	"github.com/shopspring/decimal"
)

// MemberModel is the persistence model for the Member aggregate.
type MemberModel struct {
	AggregateModel
	MemberNumber string        `gorm:"type:varchar(30);not null;uniqueIndex"`
	FullName     string        `gorm:"type:varchar(150);not null"`
	Email        string        `gorm:"type:varchar(200);index"`
	Phone        string        `gorm:"type:varchar(50)"`
	Address      string        `gorm:"type:text"`
	Status       member.Status `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	JoinedAt     time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member
func (m *MemberModel) ToDomain() *member.Member {
	return &member.Member{
		BaseAggregateRoot: m.toAggregateRoot(),
		MemberNumber:      m.MemberNumber,
		FullName:          m.FullName,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		Status:            m.Status,
		JoinedAt:          m.JoinedAt,
	}
}

// FromDomain populates the persistence model from a domain Member
func (m *MemberModel) FromDomain(d *member.Member) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.MemberNumber = d.MemberNumber
	m.FullName = d.FullName
	m.Email = d.Email
	m.Phone = d.Phone
	m.Address = d.Address
	m.Status = d.Status
	m.JoinedAt = d.JoinedAt
}

// MemberModelFromDomain creates a new persistence model from a domain Member
func MemberModelFromDomain(d *member.Member) *MemberModel {
	m := &MemberModel{}
	m.FromDomain(d)
	return m
}

// SavingsAccountModel is the persistence model for the SavingsAccount aggregate.
type SavingsAccountModel struct {
	AggregateModel
	MemberID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_account_member_type,priority:1"`
	Type     member.SavingsType `gorm:"type:varchar(20);not null;uniqueIndex:idx_account_member_type,priority:2"`
	Balance  decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (SavingsAccountModel) TableName() string {
	return "savings_accounts"
}

// ToDomain converts the persistence model to a domain SavingsAccount
func (m *SavingsAccountModel) ToDomain() *member.SavingsAccount {
	return &member.SavingsAccount{
		BaseAggregateRoot: m.toAggregateRoot(),
		MemberID:          m.MemberID,
		Type:              m.Type,
		Balance:           m.Balance,
	}
}

// FromDomain populates the persistence model from a domain SavingsAccount
func (m *SavingsAccountModel) FromDomain(d *member.SavingsAccount) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.MemberID = d.MemberID
	m.Type = d.Type
	m.Balance = d.Balance
}

// SavingsAccountModelFromDomain creates a new persistence model from a domain SavingsAccount
func SavingsAccountModelFromDomain(d *member.SavingsAccount) *SavingsAccountModel {
	m := &SavingsAccountModel{}
	m.FromDomain(d)
	return m
}

// SavingsTransactionModel is the persistence model for ledger rows.
type SavingsTransactionModel struct {
	AggregateModel
	AccountID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	MemberID    uuid.UUID              `gorm:"type:uuid;not null;index:idx_savings_tx_member_posted,priority:1"`
	Type        member.TransactionType `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Description string                 `gorm:"type:text"`
	Reference   string                 `gorm:"type:varchar(100);index"`
	PostedAt    time.Time              `gorm:"not null;index:idx_savings_tx_member_posted,priority:2"`
}

// TableName returns the table name for GORM
func (SavingsTransactionModel) TableName() string {
	return "savings_transactions"
}

// ToDomain converts the persistence model to a domain SavingsTransaction
func (m *SavingsTransactionModel) ToDomain() *member.SavingsTransaction {
	return &member.SavingsTransaction{
		BaseAggregateRoot: m.toAggregateRoot(),
		AccountID:         m.AccountID,
		MemberID:          m.MemberID,
		Type:              m.Type,
		Amount:            m.Amount,
		Description:       m.Description,
		Reference:         m.Reference,
		PostedAt:          m.PostedAt,
	}
}

// FromDomain populates the persistence model from a domain SavingsTransaction
func (m *SavingsTransactionModel) FromDomain(d *member.SavingsTransaction) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.AccountID = d.AccountID
	m.MemberID = d.MemberID
	m.Type = d.Type
	m.Amount = d.Amount
	m.Description = d.Description
	m.Reference = d.Reference
	m.PostedAt = d.PostedAt
}

// SavingsTransactionModelFromDomain creates a new persistence model from a domain SavingsTransaction
func SavingsTransactionModelFromDomain(d *member.SavingsTransaction) *SavingsTransactionModel {
	m := &SavingsTransactionModel{}
	m.FromDomain(d)
	return m
}
