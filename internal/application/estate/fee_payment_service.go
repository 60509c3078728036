package estate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/estate"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PenaltyConfigProvider supplies the current late-payment policy.
// The settings service implements it.
type PenaltyConfigProvider interface {
	PenaltyConfig(ctx context.Context) (estate.PenaltyConfig, error)
}

// FeeMetricsRecorder records settled fee payments for monitoring.
type FeeMetricsRecorder interface {
	RecordFeePayment(ctx context.Context, status string)
}

// FeePaymentService provides application-level fee billing and payment
// operations, deriving late-payment penalties from the stored policy.
type FeePaymentService struct {
	paymentRepo  estate.FeePaymentRepository
	residentRepo estate.ResidentRepository
	feeRepo      estate.FeeRepository
	penaltyCfg   PenaltyConfigProvider
	transactor   shared.Transactor
	logger       *zap.Logger
	metrics      FeeMetricsRecorder
}

// SetMetricsRecorder wires an optional metrics recorder.
func (s *FeePaymentService) SetMetricsRecorder(m FeeMetricsRecorder) {
	s.metrics = m
}

// NewFeePaymentService creates a new FeePaymentService
func NewFeePaymentService(
	paymentRepo estate.FeePaymentRepository,
	residentRepo estate.ResidentRepository,
	feeRepo estate.FeeRepository,
	penaltyCfg PenaltyConfigProvider,
	transactor shared.Transactor,
	logger *zap.Logger,
) *FeePaymentService {
	return &FeePaymentService{
		paymentRepo:  paymentRepo,
		residentRepo: residentRepo,
		feeRepo:      feeRepo,
		penaltyCfg:   penaltyCfg,
		transactor:   transactor,
		logger:       logger,
	}
}

// CreateFeePaymentRequest represents a request to bill a resident for a period
type CreateFeePaymentRequest struct {
	ResidentID  uuid.UUID  `json:"resident_id" binding:"required"`
	FeeID       uuid.UUID  `json:"fee_id" binding:"required"`
	PeriodYear  int        `json:"period_year" binding:"required"`
	PeriodMonth int        `json:"period_month" binding:"required"`
	DueDate     time.Time  `json:"due_date" binding:"required"`
	PaymentDate *time.Time `json:"payment_date"`
	Notes       string     `json:"notes"`
}

// RecordPaymentRequest represents a request to settle an existing bill
type RecordPaymentRequest struct {
	PaymentDate time.Time `json:"payment_date" binding:"required"`
	Notes       string    `json:"notes"`
}

// RescheduleRequest represents a request to correct a bill's dates
type RescheduleRequest struct {
	DueDate     time.Time  `json:"due_date" binding:"required"`
	PaymentDate *time.Time `json:"payment_date"`
}

// FeePaymentListFilter defines filtering options for fee payment list queries
type FeePaymentListFilter struct {
	ResidentID  *uuid.UUID `form:"resident_id"`
	FeeID       *uuid.UUID `form:"fee_id"`
	PeriodYear  *int       `form:"period_year"`
	PeriodMonth *int       `form:"period_month"`
	Status      *string    `form:"status"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
}

// PenaltyInfo reports the penalty derivation of a fee payment
type PenaltyInfo struct {
	LateDays      int             `json:"late_days"`
	EffectiveDays int             `json:"effective_days"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
	GraceDays     int             `json:"grace_days"`
	PerDay        decimal.Decimal `json:"per_day"`
	MaxDays       int             `json:"max_days"`
}

// FeePaymentResponse represents a fee payment in API responses
type FeePaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	ResidentID    uuid.UUID       `json:"resident_id"`
	FeeID         uuid.UUID       `json:"fee_id"`
	PeriodYear    int             `json:"period_year"`
	PeriodMonth   int             `json:"period_month"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	LateDays      int             `json:"late_days"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	PenaltyInfo   *PenaltyInfo    `json:"penalty_info,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toFeePaymentResponse(p *estate.FeePayment, cfg *estate.PenaltyConfig) *FeePaymentResponse {
	resp := &FeePaymentResponse{
		ID:            p.ID,
		ResidentID:    p.ResidentID,
		FeeID:         p.FeeID,
		PeriodYear:    p.PeriodYear,
		PeriodMonth:   p.PeriodMonth,
		Amount:        p.Amount,
		DueDate:       p.DueDate,
		PaymentDate:   p.PaymentDate,
		LateDays:      p.LateDays,
		PenaltyAmount: p.PenaltyAmount,
		TotalAmount:   p.Total(),
		Status:        p.Status.String(),
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if cfg != nil && p.PaymentDate != nil {
		result := estate.CalculatePenalty(p.DueDate, *p.PaymentDate, *cfg)
		resp.PenaltyInfo = &PenaltyInfo{
			LateDays:      result.LateDays,
			EffectiveDays: result.EffectiveDays,
			PenaltyAmount: result.PenaltyAmount,
			GraceDays:     cfg.GraceDays,
			PerDay:        cfg.PerDay,
			MaxDays:       cfg.MaxDays,
		}
	}
	return resp
}

// CreateFeePayment bills a resident for a fee period. When the request
// carries a payment date the bill is settled immediately and the response
// includes the penalty derivation.
func (s *FeePaymentService) CreateFeePayment(ctx context.Context, req CreateFeePaymentRequest) (*FeePaymentResponse, error) {
	resident, err := s.residentRepo.FindByID(ctx, req.ResidentID)
	if err != nil {
		return nil, err
	}
	if resident == nil {
		return nil, shared.NewDomainError("RESIDENT_NOT_FOUND", "Resident not found")
	}

	fee, err := s.feeRepo.FindByID(ctx, req.FeeID)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, shared.NewDomainError("FEE_NOT_FOUND", "Fee not found")
	}

	exists, err := s.paymentRepo.ExistsByPeriodKey(ctx, req.ResidentID, req.FeeID, req.PeriodYear, req.PeriodMonth)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PAYMENT_EXISTS",
			fmt.Sprintf("Resident is already billed for %04d-%02d", req.PeriodYear, req.PeriodMonth))
	}

	payment, err := estate.NewFeePayment(req.ResidentID, req.FeeID, req.PeriodYear, req.PeriodMonth, fee.Amount, req.DueDate)
	if err != nil {
		return nil, err
	}

	cfg, err := s.penaltyCfg.PenaltyConfig(ctx)
	if err != nil {
		return nil, err
	}

	if req.PaymentDate != nil {
		if err := payment.RecordPayment(*req.PaymentDate, cfg, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	return toFeePaymentResponse(payment, &cfg), nil
}

// RecordPayment settles an existing bill, deriving the penalty
func (s *FeePaymentService) RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest) (*FeePaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.ErrNotFound
	}

	cfg, err := s.penaltyCfg.PenaltyConfig(ctx)
	if err != nil {
		return nil, err
	}

	if err := payment.RecordPayment(req.PaymentDate, cfg, req.Notes); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordFeePayment(ctx, payment.Status.String())
	}

	return toFeePaymentResponse(payment, &cfg), nil
}

// Reschedule corrects a bill's dates and recomputes its penalty
func (s *FeePaymentService) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*FeePaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.ErrNotFound
	}

	cfg, err := s.penaltyCfg.PenaltyConfig(ctx)
	if err != nil {
		return nil, err
	}

	if err := payment.Reschedule(req.DueDate, req.PaymentDate, cfg); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, err
	}

	return toFeePaymentResponse(payment, &cfg), nil
}

// CancelFeePayment voids an unpaid bill
func (s *FeePaymentService) CancelFeePayment(ctx context.Context, id uuid.UUID) (*FeePaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.ErrNotFound
	}

	if err := payment.Cancel(); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, err
	}

	return toFeePaymentResponse(payment, nil), nil
}

// GetFeePayment returns a fee payment with its penalty derivation
func (s *FeePaymentService) GetFeePayment(ctx context.Context, id uuid.UUID) (*FeePaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.ErrNotFound
	}

	cfg, err := s.penaltyCfg.PenaltyConfig(ctx)
	if err != nil {
		return nil, err
	}

	return toFeePaymentResponse(payment, &cfg), nil
}

// ListFeePayments returns fee payments with pagination
func (s *FeePaymentService) ListFeePayments(ctx context.Context, filter FeePaymentListFilter) (*shared.Paginated[*FeePaymentResponse], error) {
	domainFilter := estate.FeePaymentFilter{
		Filter:      shared.DefaultFilter(),
		ResidentID:  filter.ResidentID,
		FeeID:       filter.FeeID,
		PeriodYear:  filter.PeriodYear,
		PeriodMonth: filter.PeriodMonth,
	}
	if filter.Status != nil {
		status := estate.FeePaymentStatus(*filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown fee payment status")
		}
		domainFilter.Status = &status
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}

	payments, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*FeePaymentResponse, len(payments))
	for i := range payments {
		responses[i] = toFeePaymentResponse(&payments[i], nil)
	}

	paginated := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &paginated, nil
}

// MarkOverduePayments flips PENDING bills past their due date to OVERDUE.
// Bills that moved out of PENDING since the query are skipped by the
// optimistic lock, so a concurrent payment wins.
func (s *FeePaymentService) MarkOverduePayments(ctx context.Context, asOf time.Time) (int, error) {
	candidates, err := s.paymentRepo.FindOverdueCandidates(ctx, asOf)
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range candidates {
		payment := &candidates[i]
		if err := payment.MarkOverdue(asOf); err != nil {
			continue
		}
		if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
			s.logger.Warn("skipping overdue mark, bill changed concurrently",
				zap.String("fee_payment_id", payment.ID.String()),
				zap.Error(err),
			)
			continue
		}
		marked++
	}

	if marked > 0 {
		s.logger.Info("estate bills marked overdue",
			zap.Time("as_of", asOf),
			zap.Int("marked", marked),
		)
	}
	return marked, nil
}

// GenerateMonthlyBills creates PENDING bills for every active resident and
// active fee in the given period, inside one transaction. Residents already
// billed for the period are skipped.
func (s *FeePaymentService) GenerateMonthlyBills(ctx context.Context, year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, shared.NewDomainError("INVALID_PERIOD", "Period month must be between 1 and 12")
	}

	cfg, err := s.penaltyCfg.PenaltyConfig(ctx)
	if err != nil {
		return 0, err
	}

	residents, err := s.residentRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}
	fees, err := s.feeRepo.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	dueDay := cfg.DueDateDay
	if dueDay < 1 || dueDay > 28 {
		dueDay = 5
	}
	dueDate := time.Date(year, time.Month(month), dueDay, 0, 0, 0, 0, time.UTC)

	created := 0
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		for ri := range residents {
			for fi := range fees {
				exists, err := s.paymentRepo.ExistsByPeriodKey(txCtx, residents[ri].ID, fees[fi].ID, year, month)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				payment, err := estate.NewFeePayment(residents[ri].ID, fees[fi].ID, year, month, fees[fi].Amount, dueDate)
				if err != nil {
					return err
				}
				if err := s.paymentRepo.Save(txCtx, payment); err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("monthly estate bills generated",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("created", created),
	)

	return created, nil
}
