package estate

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyConfig holds the late-payment penalty policy for estate fees.
// Values come from the system settings store; see settings.Service.
type PenaltyConfig struct {
	Enabled    bool            `json:"enabled"`
	PerDay     decimal.Decimal `json:"per_day"`
	MaxDays    int             `json:"max_days"`
	GraceDays  int             `json:"grace_days"`
	DueDateDay int             `json:"due_date_day"` // day of month fees fall due
}

// DefaultPenaltyConfig returns the policy used when no settings are stored
func DefaultPenaltyConfig() PenaltyConfig {
	return PenaltyConfig{
		Enabled:    true,
		PerDay:     decimal.NewFromInt(5000),
		MaxDays:    30,
		GraceDays:  3,
		DueDateDay: 5,
	}
}

// PenaltyResult is the outcome of a penalty calculation
type PenaltyResult struct {
	LateDays      int             `json:"late_days"`
	EffectiveDays int             `json:"effective_days"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
}

// CalculatePenalty derives the late-payment penalty for a fee paid on
// paymentDate against dueDate. Late days count calendar days past the due
// date; the grace period absorbs the first GraceDays of lateness and the
// penalty accrues per effective late day up to the MaxDays cap. MaxDays == 0
// means uncapped: disabling the penalty is what Enabled is for. The function
// is pure: the same inputs always yield the same result.
func CalculatePenalty(dueDate, paymentDate time.Time, cfg PenaltyConfig) PenaltyResult {
	lateDays := daysBetween(dueDate, paymentDate)
	if lateDays < 0 {
		lateDays = 0
	}

	effective := lateDays - cfg.GraceDays
	if effective < 0 {
		effective = 0
	}
	if cfg.MaxDays > 0 && effective > cfg.MaxDays {
		effective = cfg.MaxDays
	}

	amount := decimal.Zero
	if cfg.Enabled && effective > 0 {
		amount = cfg.PerDay.Mul(decimal.NewFromInt(int64(effective)))
	}

	return PenaltyResult{
		LateDays:      lateDays,
		EffectiveDays: effective,
		PenaltyAmount: amount,
	}
}

// daysBetween returns whole calendar days from a to b, ignoring time of day
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
