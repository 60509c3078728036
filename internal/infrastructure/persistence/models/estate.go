package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/estate"
	"github.com/shopspring/decimal"
)

// ResidentModel is the persistence model for estate residents.
type ResidentModel struct {
	AggregateModel
	HouseNumber string               `gorm:"type:varchar(30);not null;uniqueIndex"`
	HeadOfHouse string               `gorm:"type:varchar(150);not null"`
	Phone       string               `gorm:"type:varchar(50)"`
	Status      estate.ResidentStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	MovedInAt   time.Time            `gorm:"not null"`
	MovedOutAt  *time.Time           ``
}

// TableName returns the table name for GORM
func (ResidentModel) TableName() string {
	return "residents"
}

// ToDomain converts the persistence model to a domain Resident
func (m *ResidentModel) ToDomain() *estate.Resident {
	return &estate.Resident{
		BaseAggregateRoot: m.toAggregateRoot(),
		HouseNumber:       m.HouseNumber,
		HeadOfHouse:       m.HeadOfHouse,
		Phone:             m.Phone,
		Status:            m.Status,
		MovedInAt:         m.MovedInAt,
		MovedOutAt:        m.MovedOutAt,
	}
}

// FromDomain populates the persistence model from a domain Resident
func (m *ResidentModel) FromDomain(d *estate.Resident) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.HouseNumber = d.HouseNumber
	m.HeadOfHouse = d.HeadOfHouse
	m.Phone = d.Phone
	m.Status = d.Status
	m.MovedInAt = d.MovedInAt
	m.MovedOutAt = d.MovedOutAt
}

// ResidentModelFromDomain creates a new persistence model from a domain Resident
func ResidentModelFromDomain(d *estate.Resident) *ResidentModel {
	m := &ResidentModel{}
	m.FromDomain(d)
	return m
}

// FeeModel is the persistence model for estate fee types.
type FeeModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(150);not null"`
	Description string          `gorm:"type:text"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsActive    bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (FeeModel) TableName() string {
	return "fees"
}

// ToDomain converts the persistence model to a domain Fee
func (m *FeeModel) ToDomain() *estate.Fee {
	return &estate.Fee{
		BaseAggregateRoot: m.toAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Amount:            m.Amount,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Fee
func (m *FeeModel) FromDomain(d *estate.Fee) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Name = d.Name
	m.Description = d.Description
	m.Amount = d.Amount
	m.IsActive = d.IsActive
}

// FeeModelFromDomain creates a new persistence model from a domain Fee
func FeeModelFromDomain(d *estate.Fee) *FeeModel {
	m := &FeeModel{}
	m.FromDomain(d)
	return m
}

// FeePaymentModel is the persistence model for monthly fee bills.
// One row per (resident, fee, year, month).
type FeePaymentModel struct {
	AggregateModel
	ResidentID    uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_fee_payment_period,priority:1"`
	FeeID         uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_fee_payment_period,priority:2"`
	PeriodYear    int                     `gorm:"not null;uniqueIndex:idx_fee_payment_period,priority:3"`
	PeriodMonth   int                     `gorm:"not null;uniqueIndex:idx_fee_payment_period,priority:4"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	DueDate       time.Time               `gorm:"not null;index"`
	PaymentDate   *time.Time              ``
	LateDays      int                     `gorm:"not null;default:0"`
	PenaltyAmount decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Status        estate.FeePaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Notes         string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FeePaymentModel) TableName() string {
	return "fee_payments"
}

// ToDomain converts the persistence model to a domain FeePayment
func (m *FeePaymentModel) ToDomain() *estate.FeePayment {
	return &estate.FeePayment{
		BaseAggregateRoot: m.toAggregateRoot(),
		ResidentID:        m.ResidentID,
		FeeID:             m.FeeID,
		PeriodYear:        m.PeriodYear,
		PeriodMonth:       m.PeriodMonth,
		Amount:            m.Amount,
		DueDate:           m.DueDate,
		PaymentDate:       m.PaymentDate,
		LateDays:          m.LateDays,
		PenaltyAmount:     m.PenaltyAmount,
		Status:            m.Status,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain FeePayment
func (m *FeePaymentModel) FromDomain(d *estate.FeePayment) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.ResidentID = d.ResidentID
	m.FeeID = d.FeeID
	m.PeriodYear = d.PeriodYear
	m.PeriodMonth = d.PeriodMonth
	m.Amount = d.Amount
	m.DueDate = d.DueDate
	m.PaymentDate = d.PaymentDate
	m.LateDays = d.LateDays
	m.PenaltyAmount = d.PenaltyAmount
	m.Status = d.Status
	m.Notes = d.Notes
}

// FeePaymentModelFromDomain creates a new persistence model from a domain FeePayment
func FeePaymentModelFromDomain(d *estate.FeePayment) *FeePaymentModel {
	m := &FeePaymentModel{}
	m.FromDomain(d)
	return m
}
