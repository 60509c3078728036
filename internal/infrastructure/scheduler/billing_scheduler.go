package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// lastRunPeriodFormat identifies a billing period for run deduplication
const lastRunPeriodFormat = "2006-01"

// BillGenerator drives one billing run: creating the period's bills and
// flipping unpaid bills past their due date to OVERDUE.
type BillGenerator interface {
	GenerateMonthlyBills(ctx context.Context, year, month int) (int, error)
	MarkOverduePayments(ctx context.Context, asOf time.Time) (int, error)
}

// BillingSchedulerConfig holds configuration for the monthly billing scheduler
type BillingSchedulerConfig struct {
	// Enabled indicates if the billing scheduler is enabled
	Enabled bool
	// RunDay is the day of month (1-28) to generate bills
	RunDay int
	// RunHour is the hour (0-23) to generate bills
	RunHour int
	// RunMinute is the minute (0-59) to generate bills
	RunMinute int
	// GenerationTimeout is the maximum time a single generation run can take
	GenerationTimeout time.Duration
}

// DefaultBillingSchedulerConfig returns default billing scheduler configuration
// Defaults to running on the 1st of each month at 2:00 AM
func DefaultBillingSchedulerConfig() BillingSchedulerConfig {
	return BillingSchedulerConfig{
		Enabled:           true,
		RunDay:            1,
		RunHour:           2,
		RunMinute:         0,
		GenerationTimeout: 5 * time.Minute,
	}
}

// Validate checks the configuration ranges
func (c BillingSchedulerConfig) Validate() error {
	if c.RunDay < 1 || c.RunDay > 28 {
		return fmt.Errorf("%w: run day must be 1-28, got %d", ErrInvalidConfig, c.RunDay)
	}
	if c.RunHour < 0 || c.RunHour > 23 {
		return fmt.Errorf("%w: run hour must be 0-23, got %d", ErrInvalidConfig, c.RunHour)
	}
	if c.RunMinute < 0 || c.RunMinute > 59 {
		return fmt.Errorf("%w: run minute must be 0-59, got %d", ErrInvalidConfig, c.RunMinute)
	}
	return nil
}

// BillingScheduler generates monthly fee bills on a fixed day of the month.
// Generation is idempotent on the service side, so a run that overlaps an
// already billed period only creates the missing bills.
type BillingScheduler struct {
	config    BillingSchedulerConfig
	generator BillGenerator
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunPeriod string
	lastRunAt     *time.Time
	nextRunAt     *time.Time
}

// NewBillingScheduler creates a new monthly billing scheduler
func NewBillingScheduler(config BillingSchedulerConfig, generator BillGenerator, logger *zap.Logger) (*BillingScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &BillingScheduler{
		config:    config,
		generator: generator,
		logger:    logger,
	}, nil
}

// Start starts the billing scheduler
func (s *BillingScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Billing scheduler started",
		zap.Int("run_day", s.config.RunDay),
		zap.Int("run_hour", s.config.RunHour),
		zap.Int("run_minute", s.config.RunMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the billing scheduler
func (s *BillingScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Billing scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Billing scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *BillingScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runGeneration(ctx, now.Year(), int(now.Month()))
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks if bill generation should run at the given time.
// A period is generated at most once per process lifetime.
func (s *BillingScheduler) shouldRun(now time.Time) bool {
	if now.Day() != s.config.RunDay || now.Hour() != s.config.RunHour || now.Minute() != s.config.RunMinute {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunPeriod != now.Format(lastRunPeriodFormat)
}

// calculateNextRunTime calculates the next run time
func (s *BillingScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), s.config.RunDay, s.config.RunHour, s.config.RunMinute, 0, 0, now.Location())

	// If we've already passed this month's run time, schedule for next month
	if now.After(next) {
		next = next.AddDate(0, 1, 0)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runGeneration generates bills for the given period
func (s *BillingScheduler) runGeneration(ctx context.Context, year, month int) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.lastRunPeriod = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format(lastRunPeriodFormat)
	s.mu.Unlock()

	s.logger.Info("Starting monthly bill generation",
		zap.Int("period_year", year),
		zap.Int("period_month", month),
	)

	genCtx, cancel := context.WithTimeout(ctx, s.config.GenerationTimeout)
	defer cancel()

	created, err := s.generator.GenerateMonthlyBills(genCtx, year, month)
	if err != nil {
		s.logger.Error("Monthly bill generation failed",
			zap.Int("period_year", year),
			zap.Int("period_month", month),
			zap.Error(err),
		)
		return
	}

	// Earlier periods' unpaid bills go OVERDUE in the same run.
	marked, err := s.generator.MarkOverduePayments(genCtx, now)
	if err != nil {
		s.logger.Error("Overdue sweep failed",
			zap.Int("period_year", year),
			zap.Int("period_month", month),
			zap.Error(err),
		)
	}

	s.logger.Info("Monthly bill generation completed",
		zap.Int("period_year", year),
		zap.Int("period_month", month),
		zap.Int("bills_created", created),
		zap.Int("bills_marked_overdue", marked),
	)
}

// TriggerManualRun triggers bill generation for the given period.
// Note: Uses background context to avoid premature cancellation when HTTP request completes
func (s *BillingScheduler) TriggerManualRun(year, month int) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runGeneration(context.Background(), year, month)
	return nil
}

// GetStatus returns the current status of the billing scheduler
func (s *BillingScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":         s.config.Enabled,
		"is_running":      s.isRunning,
		"run_day":         s.config.RunDay,
		"run_hour":        s.config.RunHour,
		"run_minute":      s.config.RunMinute,
		"last_run_period": s.lastRunPeriod,
		"last_run_at":     s.lastRunAt,
		"next_run_at":     s.nextRunAt,
	}
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *BillingScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *BillingScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
