package settings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetting(t *testing.T) {
	t.Run("creates a typed setting", func(t *testing.T) {
		s, err := NewSetting(KeyPenaltyPerDay, "5000", ValueTypeDecimal, "penalty per late day")
		require.NoError(t, err)
		assert.Equal(t, KeyPenaltyPerDay, s.Key)
	})

	t.Run("rejects a value that does not parse as its type", func(t *testing.T) {
		_, err := NewSetting(KeyPenaltyMaxDays, "thirty", ValueTypeInt, "")
		assert.Error(t, err)
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		_, err := NewSetting("", "1", ValueTypeInt, "")
		assert.Error(t, err)
	})
}

func TestSettingSetValue(t *testing.T) {
	s, err := NewSetting(KeyPenaltyEnabled, "true", ValueTypeBool, "")
	require.NoError(t, err)

	require.NoError(t, s.SetValue("no"))
	assert.False(t, s.AsBool(true))

	assert.Error(t, s.SetValue("maybe"))
}

func TestSettingTypedGetters(t *testing.T) {
	t.Run("int getter falls back on parse failure", func(t *testing.T) {
		s := &Setting{Value: "12", Type: ValueTypeInt}
		assert.Equal(t, 12, s.AsInt(0))

		s.Value = "oops"
		assert.Equal(t, 30, s.AsInt(30))
	})

	t.Run("bool getter accepts common spellings", func(t *testing.T) {
		for _, v := range []string{"1", "true", "YES"} {
			s := &Setting{Value: v, Type: ValueTypeBool}
			assert.True(t, s.AsBool(false), v)
		}
		for _, v := range []string{"0", "false", "No"} {
			s := &Setting{Value: v, Type: ValueTypeBool}
			assert.False(t, s.AsBool(true), v)
		}
	})

	t.Run("decimal getter falls back on parse failure", func(t *testing.T) {
		s := &Setting{Value: "5000.50", Type: ValueTypeDecimal}
		assert.True(t, decimal.NewFromFloat(5000.50).Equal(s.AsDecimal(decimal.Zero)))

		s.Value = ""
		def := decimal.NewFromInt(5000)
		assert.True(t, def.Equal(s.AsDecimal(def)))
	})
}
