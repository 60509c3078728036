// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormCooperativeMetricsProvider implements CooperativeMetricsProvider using GORM.
// It queries the members and fee_payments tables directly for aggregated metrics.
type GormCooperativeMetricsProvider struct {
	db *gorm.DB
}

// NewGormCooperativeMetricsProvider creates a new GormCooperativeMetricsProvider.
func NewGormCooperativeMetricsProvider(db *gorm.DB) *GormCooperativeMetricsProvider {
	return &GormCooperativeMetricsProvider{db: db}
}

// GetActiveMemberCount returns the number of active cooperative members.
func (p *GormCooperativeMetricsProvider) GetActiveMemberCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("members").
		Where("status = ?", "ACTIVE").
		Count(&count).Error

	return count, err
}

// GetUnpaidFeeBillCount returns the number of PENDING and OVERDUE fee bills.
func (p *GormCooperativeMetricsProvider) GetUnpaidFeeBillCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("fee_payments").
		Where("status IN ?", []string{"PENDING", "OVERDUE"}).
		Count(&count).Error

	return count, err
}

// Ensure GormCooperativeMetricsProvider implements CooperativeMetricsProvider
var _ CooperativeMetricsProvider = (*GormCooperativeMetricsProvider)(nil)
