package estate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testPenaltyConfig() PenaltyConfig {
	return PenaltyConfig{
		Enabled:   true,
		PerDay:    decimal.NewFromInt(5000),
		MaxDays:   30,
		GraceDays: 3,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculatePenalty(t *testing.T) {
	cfg := testPenaltyConfig()
	due := date(2025, 1, 5)

	t.Run("on-time payment is never penalized", func(t *testing.T) {
		r := CalculatePenalty(due, due, cfg)

		assert.Equal(t, 0, r.LateDays)
		assert.Equal(t, 0, r.EffectiveDays)
		assert.True(t, r.PenaltyAmount.IsZero())
	})

	t.Run("early payment is never penalized", func(t *testing.T) {
		r := CalculatePenalty(due, due.AddDate(0, 0, -10), cfg)

		assert.Equal(t, 0, r.LateDays)
		assert.True(t, r.PenaltyAmount.IsZero())
	})

	t.Run("grace period fully absorbs lateness", func(t *testing.T) {
		r := CalculatePenalty(due, due.AddDate(0, 0, cfg.GraceDays), cfg)

		assert.Equal(t, cfg.GraceDays, r.LateDays)
		assert.Equal(t, 0, r.EffectiveDays)
		assert.True(t, r.PenaltyAmount.IsZero())
	})

	t.Run("penalty accrues per day past the grace period", func(t *testing.T) {
		for _, n := range []int{1, 5, 30} {
			r := CalculatePenalty(due, due.AddDate(0, 0, cfg.GraceDays+n), cfg)

			assert.Equal(t, n, r.EffectiveDays)
			want := cfg.PerDay.Mul(decimal.NewFromInt(int64(n)))
			assert.True(t, want.Equal(r.PenaltyAmount), "n=%d: %s", n, r.PenaltyAmount)
		}
	})

	t.Run("penalty is capped at max days regardless of extra lateness", func(t *testing.T) {
		capped := cfg.PerDay.Mul(decimal.NewFromInt(int64(cfg.MaxDays)))

		for _, extra := range []int{0, 1, 100} {
			r := CalculatePenalty(due, due.AddDate(0, 0, cfg.GraceDays+cfg.MaxDays+extra), cfg)

			assert.Equal(t, cfg.MaxDays, r.EffectiveDays)
			assert.True(t, capped.Equal(r.PenaltyAmount), "extra=%d: %s", extra, r.PenaltyAmount)
		}
	})

	t.Run("zero max days means uncapped", func(t *testing.T) {
		uncapped := cfg
		uncapped.MaxDays = 0

		r := CalculatePenalty(due, due.AddDate(0, 0, cfg.GraceDays+90), uncapped)

		assert.Equal(t, 90, r.EffectiveDays)
		assert.True(t, cfg.PerDay.Mul(decimal.NewFromInt(90)).Equal(r.PenaltyAmount),
			"penalty: %s", r.PenaltyAmount)
	})

	t.Run("documented scenario", func(t *testing.T) {
		// due 2025-01-05, paid 2025-01-20, grace 3, per day 5000, cap 30
		r := CalculatePenalty(date(2025, 1, 5), date(2025, 1, 20), cfg)

		assert.Equal(t, 15, r.LateDays)
		assert.Equal(t, 12, r.EffectiveDays)
		assert.True(t, decimal.NewFromInt(60_000).Equal(r.PenaltyAmount), "penalty: %s", r.PenaltyAmount)
	})

	t.Run("disabled policy yields zero penalty but still reports late days", func(t *testing.T) {
		disabled := cfg
		disabled.Enabled = false

		r := CalculatePenalty(due, due.AddDate(0, 0, 20), disabled)

		assert.Equal(t, 20, r.LateDays)
		assert.True(t, r.PenaltyAmount.IsZero())
	})

	t.Run("time of day does not change the day count", func(t *testing.T) {
		paid := time.Date(2025, 1, 20, 23, 59, 0, 0, time.UTC)
		r := CalculatePenalty(date(2025, 1, 5), paid, cfg)

		assert.Equal(t, 15, r.LateDays)
	})
}
