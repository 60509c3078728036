package shu

import (
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Breakdown holds the absolute currency amounts of one SHU split.
// JasaModal and JasaUsaha are sub-splits of the member pool (Anggota);
// the remaining components are level-1 shares of the total.
type Breakdown struct {
	Cadangan   decimal.Decimal `json:"cadangan_amount"`
	Anggota    decimal.Decimal `json:"anggota_amount"` // member pool, before the level-2 split
	JasaModal  decimal.Decimal `json:"jasa_modal_amount"`
	JasaUsaha  decimal.Decimal `json:"jasa_usaha_amount"`
	Pengurus   decimal.Decimal `json:"pengurus_amount"`
	Karyawan   decimal.Decimal `json:"karyawan_amount"`
	DanaSosial decimal.Decimal `json:"dana_sosial_amount"`
}

// CalculateBreakdown converts a total SHU amount and a percentage setting into
// absolute amounts at both levels. Each component is rounded half-up to two
// decimal places only as the last step; intermediate math stays exact so
// rounding error does not compound through the level-2 split.
//
// The setting's percentages are assumed valid (sum-to-100 is enforced when the
// setting is created); this function does not re-validate them.
func CalculateBreakdown(total decimal.Decimal, setting *PercentageSetting) (Breakdown, error) {
	if setting == nil {
		return Breakdown{}, shared.NewDomainError("INVALID_SETTING", "Percentage setting is required")
	}
	if total.IsNegative() {
		return Breakdown{}, shared.NewDomainError("INVALID_AMOUNT", "Total SHU amount cannot be negative")
	}

	pct := setting.Percentages
	memberPool := total.Mul(pct.Anggota).Div(hundred)

	return Breakdown{
		Cadangan:   total.Mul(pct.Cadangan).Div(hundred).Round(2),
		Anggota:    memberPool.Round(2),
		JasaModal:  memberPool.Mul(pct.JasaModal).Div(hundred).Round(2),
		JasaUsaha:  memberPool.Mul(pct.JasaUsaha).Div(hundred).Round(2),
		Pengurus:   total.Mul(pct.Pengurus).Div(hundred).Round(2),
		Karyawan:   total.Mul(pct.Karyawan).Div(hundred).Round(2),
		DanaSosial: total.Mul(pct.DanaSosial).Div(hundred).Round(2),
	}, nil
}

// MemberPool returns the amount distributed to individual members
// (jasa modal + jasa usaha).
func (b Breakdown) MemberPool() decimal.Decimal {
	return b.JasaModal.Add(b.JasaUsaha)
}

// ComponentSum returns the sum of all distributed components. It approximates
// the original total within a few cents of rounding drift.
func (b Breakdown) ComponentSum() decimal.Decimal {
	return b.Cadangan.
		Add(b.JasaModal).
		Add(b.JasaUsaha).
		Add(b.Pengurus).
		Add(b.Karyawan).
		Add(b.DanaSosial)
}
