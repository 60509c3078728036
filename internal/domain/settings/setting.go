package settings

import (
	"strconv"
	"strings"
	"time"

	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ValueType declares how a setting's stored string value is interpreted
type ValueType string

const (
	ValueTypeString  ValueType = "STRING"
	ValueTypeInt     ValueType = "INT"
	ValueTypeBool    ValueType = "BOOL"
	ValueTypeDecimal ValueType = "DECIMAL"
)

// IsValid checks if the type is a valid ValueType
func (t ValueType) IsValid() bool {
	switch t {
	case ValueTypeString, ValueTypeInt, ValueTypeBool, ValueTypeDecimal:
		return true
	}
	return false
}

// Recognized setting keys. Values for unknown keys are stored but have no
// effect on behavior.
const (
	KeyPenaltyEnabled  = "estate.penalty_enabled"
	KeyPenaltyPerDay   = "estate.penalty_per_day"
	KeyPenaltyMaxDays  = "estate.penalty_max_days"
	KeyGracePeriodDays = "estate.grace_period_days"
	KeyDueDateDay      = "estate.due_date_day"
)

// Setting is a single typed key-value configuration entry
type Setting struct {
	shared.BaseAggregateRoot
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Type        ValueType `json:"type"`
	Description string    `json:"description"`
}

// NewSetting creates a setting after checking the value parses as its type
func NewSetting(key, value string, valueType ValueType, description string) (*Setting, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Setting key cannot be empty")
	}
	if !valueType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown setting value type")
	}
	if err := checkValue(value, valueType); err != nil {
		return nil, err
	}

	return &Setting{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Key:               key,
		Value:             value,
		Type:              valueType,
		Description:       description,
	}, nil
}

// SetValue replaces the stored value, keeping the declared type
func (s *Setting) SetValue(value string) error {
	if err := checkValue(value, s.Type); err != nil {
		return err
	}

	s.Value = value
	s.UpdatedAt = time.Now()

	return nil
}

// AsInt returns the value as an integer, or def when it does not parse
func (s *Setting) AsInt(def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s.Value))
	if err != nil {
		return def
	}
	return v
}

// AsBool returns the value as a boolean, or def when it does not parse.
// Accepts 1/0, true/false, yes/no in any case.
func (s *Setting) AsBool(def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s.Value)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}

// AsDecimal returns the value as a decimal, or def when it does not parse
func (s *Setting) AsDecimal(def decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(s.Value))
	if err != nil {
		return def
	}
	return v
}

func checkValue(value string, valueType ValueType) error {
	value = strings.TrimSpace(value)
	switch valueType {
	case ValueTypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return shared.NewDomainError("INVALID_VALUE", "Setting value is not an integer")
		}
	case ValueTypeBool:
		switch strings.ToLower(value) {
		case "1", "0", "true", "false", "yes", "no":
		default:
			return shared.NewDomainError("INVALID_VALUE", "Setting value is not a boolean")
		}
	case ValueTypeDecimal:
		if _, err := decimal.NewFromString(value); err != nil {
			return shared.NewDomainError("INVALID_VALUE", "Setting value is not a decimal number")
		}
	}
	return nil
}
