package shu

import (
	"fmt"
	"time"

	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SumTolerance is the accepted deviation when checking that percentage
// levels sum to 100.
var SumTolerance = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// Statutory bounds for the level-1 split.
var (
	minCadanganPct = decimal.NewFromInt(30)
	maxAnggotaPct  = decimal.NewFromInt(70)
)

// PercentageSumError reports a percentage level that does not sum to 100.
type PercentageSumError struct {
	Level        int             // 1 or 2
	CurrentTotal decimal.Decimal // the sum that was provided
}

// Error implements the error interface
func (e *PercentageSumError) Error() string {
	return fmt.Sprintf("level %d percentages must sum to 100, got %s", e.Level, e.CurrentTotal.StringFixed(2))
}

// Percentages holds both split levels of an SHU policy.
type Percentages struct {
	Cadangan   decimal.Decimal `json:"cadangan"`    // reserve fund
	Anggota    decimal.Decimal `json:"anggota"`     // member pool
	Pengurus   decimal.Decimal `json:"pengurus"`    // management bonus
	Karyawan   decimal.Decimal `json:"karyawan"`    // staff bonus
	DanaSosial decimal.Decimal `json:"dana_sosial"` // social fund
	JasaModal  decimal.Decimal `json:"jasa_modal"`  // level-2: capital share of member pool
	JasaUsaha  decimal.Decimal `json:"jasa_usaha"`  // level-2: transaction share of member pool
}

// Level1Total returns the sum of the level-1 percentages
func (p Percentages) Level1Total() decimal.Decimal {
	return p.Cadangan.Add(p.Anggota).Add(p.Pengurus).Add(p.Karyawan).Add(p.DanaSosial)
}

// Level2Total returns the sum of the level-2 percentages
func (p Percentages) Level2Total() decimal.Decimal {
	return p.JasaModal.Add(p.JasaUsaha)
}

// Validate checks range constraints and both sum-to-100 invariants
func (p Percentages) Validate() error {
	if p.Cadangan.LessThan(minCadanganPct) || p.Cadangan.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_PERCENTAGE", "Cadangan percentage must be between 30 and 100")
	}
	if p.Anggota.IsNegative() || p.Anggota.GreaterThan(maxAnggotaPct) {
		return shared.NewDomainError("INVALID_PERCENTAGE", "Anggota percentage must be between 0 and 70")
	}
	for _, check := range []struct {
		name string
		pct  decimal.Decimal
	}{
		{"Pengurus", p.Pengurus},
		{"Karyawan", p.Karyawan},
		{"Dana sosial", p.DanaSosial},
		{"Jasa modal", p.JasaModal},
		{"Jasa usaha", p.JasaUsaha},
	} {
		if check.pct.IsNegative() || check.pct.GreaterThan(hundred) {
			return shared.NewDomainError("INVALID_PERCENTAGE", fmt.Sprintf("%s percentage must be between 0 and 100", check.name))
		}
	}
	if total := p.Level1Total(); total.Sub(hundred).Abs().GreaterThan(SumTolerance) {
		return &PercentageSumError{Level: 1, CurrentTotal: total}
	}
	if total := p.Level2Total(); total.Sub(hundred).Abs().GreaterThan(SumTolerance) {
		return &PercentageSumError{Level: 2, CurrentTotal: total}
	}
	return nil
}

// PercentageSetting is a named SHU split policy for one fiscal year.
// At most one setting may be active per fiscal year; a setting referenced
// by any distribution becomes immutable.
type PercentageSetting struct {
	shared.BaseAggregateRoot
	Name        string      `json:"name"`
	FiscalYear  int         `json:"fiscal_year"`
	Percentages Percentages `json:"percentages"`
	IsActive    bool        `json:"is_active"`
	Notes       string      `json:"notes"`
}

// NewPercentageSetting creates a new SHU percentage setting
func NewPercentageSetting(name string, fiscalYear int, pct Percentages) (*PercentageSetting, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Setting name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Setting name cannot exceed 100 characters")
	}
	if fiscalYear < 2000 || fiscalYear > 2200 {
		return nil, shared.NewDomainError("INVALID_FISCAL_YEAR", "Fiscal year is out of range")
	}
	if err := pct.Validate(); err != nil {
		return nil, err
	}

	return &PercentageSetting{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		FiscalYear:        fiscalYear,
		Percentages:       pct,
	}, nil
}

// Update replaces the setting's name, notes and percentages.
// The caller must first verify the setting is not referenced by a distribution.
func (s *PercentageSetting) Update(name string, pct Percentages, notes string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Setting name cannot be empty")
	}
	if err := pct.Validate(); err != nil {
		return err
	}

	s.Name = name
	s.Percentages = pct
	s.Notes = notes
	s.UpdatedAt = time.Now()

	return nil
}

// Activate marks this setting as the active policy for its fiscal year
func (s *PercentageSetting) Activate() {
	s.IsActive = true
	s.UpdatedAt = time.Now()
}

// Deactivate clears the active flag
func (s *PercentageSetting) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
}

// SetNotes sets the notes
func (s *PercentageSetting) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
}
