// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the cooperative backend.
// It tracks savings activity, profit distributions, and estate fee health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	savingsTransactionTotal *Counter
	savingsAmountTotal      *Counter
	shuPayoutTotal          *Counter
	shuPayoutAmountTotal    *Counter
	feePaymentTotal         *Counter

	// Gauge metrics (point-in-time values)
	activeMemberCount  *Gauge
	unpaidFeeBillCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	provider CooperativeMetricsProvider
}

// CooperativeMetricsProvider provides aggregate data for periodic metrics
// collection. This interface allows the telemetry layer to query state
// without depending on the domain repositories directly.
type CooperativeMetricsProvider interface {
	// GetActiveMemberCount returns the number of active cooperative members
	GetActiveMemberCount(ctx context.Context) (int64, error)

	// GetUnpaidFeeBillCount returns the number of PENDING and OVERDUE fee bills
	GetUnpaidFeeBillCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	Provider        CooperativeMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:    cfg.Meter,
		logger:   logger,
		stopChan: make(chan struct{}),
		provider: cfg.Provider,
	}

	var err error

	bm.savingsTransactionTotal, err = NewCounter(
		cfg.Meter,
		"koperasi_savings_transaction_total",
		"Total number of savings transactions posted",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	bm.savingsAmountTotal, err = NewCounter(
		cfg.Meter,
		"koperasi_savings_amount_total",
		"Total savings transaction amount in the smallest currency unit",
		"{sen}",
	)
	if err != nil {
		return nil, err
	}

	bm.shuPayoutTotal, err = NewCounter(
		cfg.Meter,
		"koperasi_shu_payout_total",
		"Total number of profit-share payouts credited to members",
		"{payouts}",
	)
	if err != nil {
		return nil, err
	}

	bm.shuPayoutAmountTotal, err = NewCounter(
		cfg.Meter,
		"koperasi_shu_payout_amount_total",
		"Total profit-share payout amount in the smallest currency unit",
		"{sen}",
	)
	if err != nil {
		return nil, err
	}

	bm.feePaymentTotal, err = NewCounter(
		cfg.Meter,
		"koperasi_fee_payment_total",
		"Total number of estate fee payments recorded",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.activeMemberCount, err = NewGauge(
		cfg.Meter,
		"koperasi_active_member_count",
		"Current number of active cooperative members",
		"{members}",
	)
	if err != nil {
		return nil, err
	}

	bm.unpaidFeeBillCount, err = NewGauge(
		cfg.Meter,
		"koperasi_unpaid_fee_bill_count",
		"Number of fee bills that are pending or overdue",
		"{bills}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Savings Metrics
// =============================================================================

// RecordSavingsTransaction records a posted savings transaction.
// Amount is converted to the smallest currency unit (sen).
func (bm *BusinessMetrics) RecordSavingsTransaction(ctx context.Context, transactionType, savingsType string, amount decimal.Decimal) {
	bm.savingsTransactionTotal.Inc(ctx,
		AttrTransactionType.String(transactionType),
		AttrSavingsType.String(savingsType),
	)

	amountSen := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.savingsAmountTotal.Add(ctx, amountSen,
		AttrTransactionType.String(transactionType),
		AttrSavingsType.String(savingsType),
	)
}

// =============================================================================
// Profit Distribution Metrics
// =============================================================================

// RecordShuPayout records a profit-share payout credited to a member account.
func (bm *BusinessMetrics) RecordShuPayout(ctx context.Context, fiscalYear int, amount decimal.Decimal) {
	bm.shuPayoutTotal.Inc(ctx,
		AttrFiscalYear.Int(fiscalYear),
	)

	amountSen := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.shuPayoutAmountTotal.Add(ctx, amountSen,
		AttrFiscalYear.Int(fiscalYear),
	)
}

// =============================================================================
// Estate Fee Metrics
// =============================================================================

// RecordFeePayment records an estate fee payment with its resulting status.
func (bm *BusinessMetrics) RecordFeePayment(ctx context.Context, status string) {
	bm.feePaymentTotal.Inc(ctx,
		AttrFeePaymentStatus.String(status),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects cooperative health metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectGaugeMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectGaugeMetrics(ctx)
		}
	}
}

// collectGaugeMetrics collects the point-in-time gauge metrics.
func (bm *BusinessMetrics) collectGaugeMetrics(ctx context.Context) {
	if bm.provider == nil {
		bm.logger.Debug("No metrics provider configured, skipping gauge collection")
		return
	}

	memberCount, err := bm.provider.GetActiveMemberCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get active member count", zap.Error(err))
	} else {
		bm.activeMemberCount.Record(ctx, memberCount)
	}

	unpaidCount, err := bm.provider.GetUnpaidFeeBillCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get unpaid fee bill count", zap.Error(err))
	} else {
		bm.unpaidFeeBillCount.Record(ctx, unpaidCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
