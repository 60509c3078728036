package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shu"
	"github.com/shopspring/decimal"
)

// PercentageSettingModel is the persistence model for SHU percentage settings.
// The two-level percentage scheme is flattened into columns.
type PercentageSettingModel struct {
	AggregateModel
	Name       string          `gorm:"type:varchar(150);not null"`
	FiscalYear int             `gorm:"not null;index:idx_shu_setting_year"`
	Cadangan   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Anggota    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Pengurus   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Karyawan   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	DanaSosial decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	JasaModal  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	JasaUsaha  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	IsActive   bool            `gorm:"not null;default:false;index:idx_shu_setting_year"`
	Notes      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PercentageSettingModel) TableName() string {
	return "shu_percentage_settings"
}

// ToDomain converts the persistence model to a domain PercentageSetting
func (m *PercentageSettingModel) ToDomain() *shu.PercentageSetting {
	return &shu.PercentageSetting{
		BaseAggregateRoot: m.toAggregateRoot(),
		Name:              m.Name,
		FiscalYear:        m.FiscalYear,
		Percentages: shu.Percentages{
			Cadangan:   m.Cadangan,
			Anggota:    m.Anggota,
			Pengurus:   m.Pengurus,
			Karyawan:   m.Karyawan,
			DanaSosial: m.DanaSosial,
			JasaModal:  m.JasaModal,
			JasaUsaha:  m.JasaUsaha,
		},
		IsActive: m.IsActive,
		Notes:    m.Notes,
	}
}

// FromDomain populates the persistence model from a domain PercentageSetting
func (m *PercentageSettingModel) FromDomain(d *shu.PercentageSetting) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Name = d.Name
	m.FiscalYear = d.FiscalYear
	m.Cadangan = d.Percentages.Cadangan
	m.Anggota = d.Percentages.Anggota
	m.Pengurus = d.Percentages.Pengurus
	m.Karyawan = d.Percentages.Karyawan
	m.DanaSosial = d.Percentages.DanaSosial
	m.JasaModal = d.Percentages.JasaModal
	m.JasaUsaha = d.Percentages.JasaUsaha
	m.IsActive = d.IsActive
	m.Notes = d.Notes
}

// PercentageSettingModelFromDomain creates a new persistence model from a domain PercentageSetting
func PercentageSettingModelFromDomain(d *shu.PercentageSetting) *PercentageSettingModel {
	m := &PercentageSettingModel{}
	m.FromDomain(d)
	return m
}

// DistributionModel is the persistence model for SHU distributions.
// The component breakdown is flattened into amount columns.
type DistributionModel struct {
	AggregateModel
	FiscalYear       int                    `gorm:"not null;uniqueIndex"`
	TotalSHUAmount   decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	SettingID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	CadanganAmount   decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	AnggotaAmount    decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	JasaModalAmount  decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	JasaUsahaAmount  decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	PengurusAmount   decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	KaryawanAmount   decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	DanaSosialAmount decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	DistributionDate time.Time              `gorm:"not null"`
	Status           shu.DistributionStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ApprovedBy       *uuid.UUID             `gorm:"type:uuid"`
	ApprovedAt       *time.Time             ``
	PaidOutAt        *time.Time             ``
	Notes            string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DistributionModel) TableName() string {
	return "shu_distributions"
}

// ToDomain converts the persistence model to a domain Distribution
func (m *DistributionModel) ToDomain() *shu.Distribution {
	return &shu.Distribution{
		BaseAggregateRoot: m.toAggregateRoot(),
		FiscalYear:        m.FiscalYear,
		TotalSHUAmount:    m.TotalSHUAmount,
		SettingID:         m.SettingID,
		Breakdown: shu.Breakdown{
			Cadangan:   m.CadanganAmount,
			Anggota:    m.AnggotaAmount,
			JasaModal:  m.JasaModalAmount,
			JasaUsaha:  m.JasaUsahaAmount,
			Pengurus:   m.PengurusAmount,
			Karyawan:   m.KaryawanAmount,
			DanaSosial: m.DanaSosialAmount,
		},
		DistributionDate: m.DistributionDate,
		Status:           m.Status,
		ApprovedBy:       m.ApprovedBy,
		ApprovedAt:       m.ApprovedAt,
		PaidOutAt:        m.PaidOutAt,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Distribution
func (m *DistributionModel) FromDomain(d *shu.Distribution) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.FiscalYear = d.FiscalYear
	m.TotalSHUAmount = d.TotalSHUAmount
	m.SettingID = d.SettingID
	m.CadanganAmount = d.Breakdown.Cadangan
	m.AnggotaAmount = d.Breakdown.Anggota
	m.JasaModalAmount = d.Breakdown.JasaModal
	m.JasaUsahaAmount = d.Breakdown.JasaUsaha
	m.PengurusAmount = d.Breakdown.Pengurus
	m.KaryawanAmount = d.Breakdown.Karyawan
	m.DanaSosialAmount = d.Breakdown.DanaSosial
	m.DistributionDate = d.DistributionDate
	m.Status = d.Status
	m.ApprovedBy = d.ApprovedBy
	m.ApprovedAt = d.ApprovedAt
	m.PaidOutAt = d.PaidOutAt
	m.Notes = d.Notes
}

// DistributionModelFromDomain creates a new persistence model from a domain Distribution
func DistributionModelFromDomain(d *shu.Distribution) *DistributionModel {
	m := &DistributionModel{}
	m.FromDomain(d)
	return m
}

// MemberAllocationModel is the persistence model for per-member SHU allocations.
type MemberAllocationModel struct {
	AggregateModel
	DistributionID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_allocation_dist_member,priority:1"`
	MemberID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_allocation_dist_member,priority:2"`
	JasaModalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	JasaUsahaAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AmountAllocated     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsPaidOut           bool            `gorm:"not null;default:false;index"`
	PayoutTransactionID *uuid.UUID      `gorm:"type:uuid"`
	PaidOutAt           *time.Time      ``
}

// TableName returns the table name for GORM
func (MemberAllocationModel) TableName() string {
	return "shu_member_allocations"
}

// ToDomain converts the persistence model to a domain MemberAllocation
func (m *MemberAllocationModel) ToDomain() *shu.MemberAllocation {
	return &shu.MemberAllocation{
		BaseAggregateRoot:   m.toAggregateRoot(),
		DistributionID:      m.DistributionID,
		MemberID:            m.MemberID,
		JasaModalAmount:     m.JasaModalAmount,
		JasaUsahaAmount:     m.JasaUsahaAmount,
		AmountAllocated:     m.AmountAllocated,
		IsPaidOut:           m.IsPaidOut,
		PayoutTransactionID: m.PayoutTransactionID,
		PaidOutAt:           m.PaidOutAt,
	}
}

// FromDomain populates the persistence model from a domain MemberAllocation
func (m *MemberAllocationModel) FromDomain(d *shu.MemberAllocation) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.DistributionID = d.DistributionID
	m.MemberID = d.MemberID
	m.JasaModalAmount = d.JasaModalAmount
	m.JasaUsahaAmount = d.JasaUsahaAmount
	m.AmountAllocated = d.AmountAllocated
	m.IsPaidOut = d.IsPaidOut
	m.PayoutTransactionID = d.PayoutTransactionID
	m.PaidOutAt = d.PaidOutAt
}

// MemberAllocationModelFromDomain creates a new persistence model from a domain MemberAllocation
func MemberAllocationModelFromDomain(d *shu.MemberAllocation) *MemberAllocationModel {
	m := &MemberAllocationModel{}
	m.FromDomain(d)
	return m
}
