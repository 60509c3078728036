package models

import (
	"github.com/koperasi/backend/internal/domain/settings"
)

// SettingModel is the persistence model for typed key-value settings.
type SettingModel struct {
	AggregateModel
	Key         string             `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value       string             `gorm:"type:text;not null"`
	Type        settings.ValueType `gorm:"type:varchar(20);not null"`
	Description string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting
func (m *SettingModel) ToDomain() *settings.Setting {
	return &settings.Setting{
		BaseAggregateRoot: m.toAggregateRoot(),
		Key:               m.Key,
		Value:             m.Value,
		Type:              m.Type,
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain Setting
func (m *SettingModel) FromDomain(d *settings.Setting) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Key = d.Key
	m.Value = d.Value
	m.Type = d.Type
	m.Description = d.Description
}

// SettingModelFromDomain creates a new persistence model from a domain Setting
func SettingModelFromDomain(d *settings.Setting) *SettingModel {
	m := &SettingModel{}
	m.FromDomain(d)
	return m
}
