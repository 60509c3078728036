package shu

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPercentageSetting(t *testing.T) {
	t.Run("creates setting with valid percentages", func(t *testing.T) {
		s, err := NewPercentageSetting("Kebijakan 2025", 2025, testPercentages())
		require.NoError(t, err)
		assert.Equal(t, "Kebijakan 2025", s.Name)
		assert.Equal(t, 2025, s.FiscalYear)
		assert.False(t, s.IsActive)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewPercentageSetting("", 2025, testPercentages())
		assert.Error(t, err)
	})

	t.Run("rejects cadangan below thirty percent", func(t *testing.T) {
		pct := testPercentages()
		pct.Cadangan = decimal.NewFromInt(20)
		pct.Pengurus = decimal.NewFromInt(10) // level-1 still sums to 100

		_, err := NewPercentageSetting("Rendah", 2025, pct)
		assert.Error(t, err)
	})

	t.Run("rejects anggota above seventy percent", func(t *testing.T) {
		pct := testPercentages()
		pct.Anggota = decimal.NewFromInt(75)

		_, err := NewPercentageSetting("Tinggi", 2025, pct)
		assert.Error(t, err)
	})
}

func TestPercentagesValidate(t *testing.T) {
	t.Run("level-1 sum off by more than tolerance fails with current total", func(t *testing.T) {
		pct := testPercentages()
		pct.Anggota = decimal.NewFromFloat(68.5) // level-1 total 98.5

		err := pct.Validate()
		require.Error(t, err)

		var sumErr *PercentageSumError
		require.True(t, errors.As(err, &sumErr))
		assert.Equal(t, 1, sumErr.Level)
		assert.Equal(t, "98.50", sumErr.CurrentTotal.StringFixed(2))
	})

	t.Run("level-2 sum off by more than tolerance fails with current total", func(t *testing.T) {
		pct := testPercentages()
		pct.JasaModal = decimal.NewFromInt(40)
		pct.JasaUsaha = decimal.NewFromInt(50)

		err := pct.Validate()
		require.Error(t, err)

		var sumErr *PercentageSumError
		require.True(t, errors.As(err, &sumErr))
		assert.Equal(t, 2, sumErr.Level)
		assert.Equal(t, "90.00", sumErr.CurrentTotal.StringFixed(2))
	})

	t.Run("deviation within tolerance passes", func(t *testing.T) {
		pct := testPercentages()
		pct.Anggota = decimal.NewFromFloat(69.99) // level-1 total 99.99, within +-0.01

		assert.NoError(t, pct.Validate())
	})

	t.Run("deviation just past tolerance fails", func(t *testing.T) {
		pct := testPercentages()
		pct.Anggota = decimal.NewFromFloat(69.98) // level-1 total 99.98

		assert.Error(t, pct.Validate())
	})
}

func TestPercentageSettingUpdate(t *testing.T) {
	t.Run("updates name and percentages", func(t *testing.T) {
		s := testSetting(t)
		pct := testPercentages()
		pct.JasaModal = decimal.NewFromInt(50)
		pct.JasaUsaha = decimal.NewFromInt(50)

		require.NoError(t, s.Update("Revisi", pct, "catatan"))
		assert.Equal(t, "Revisi", s.Name)
		assert.True(t, decimal.NewFromInt(50).Equal(s.Percentages.JasaModal))
		assert.Equal(t, "catatan", s.Notes)
	})

	t.Run("rejects invalid percentages", func(t *testing.T) {
		s := testSetting(t)
		pct := testPercentages()
		pct.JasaUsaha = decimal.NewFromInt(70)

		assert.Error(t, s.Update("Revisi", pct, ""))
	})
}

func TestPercentageSettingActivate(t *testing.T) {
	s := testSetting(t)
	assert.False(t, s.IsActive)

	s.Activate()
	assert.True(t, s.IsActive)

	s.Deactivate()
	assert.False(t, s.IsActive)
}
