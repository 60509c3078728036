package shu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/member"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/domain/shared/valueobject"
	"github.com/koperasi/backend/internal/domain/shu"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayoutMetricsRecorder records successful profit-share payouts for monitoring.
type PayoutMetricsRecorder interface {
	RecordShuPayout(ctx context.Context, fiscalYear int, amount decimal.Decimal)
}

// DistributionService provides application-level SHU distribution operations:
// creating the yearly distribution, calculating member allocations, approval
// and batch payout into members' savings accounts.
type DistributionService struct {
	distributionRepo shu.DistributionRepository
	settingRepo      shu.PercentageSettingRepository
	allocationRepo   shu.MemberAllocationRepository
	memberRepo       member.MemberRepository
	accountRepo      member.SavingsAccountRepository
	transactionRepo  member.SavingsTransactionRepository
	transactor       shared.Transactor
	logger           *zap.Logger
	metrics          PayoutMetricsRecorder
}

// SetMetricsRecorder wires an optional metrics recorder.
func (s *DistributionService) SetMetricsRecorder(m PayoutMetricsRecorder) {
	s.metrics = m
}

// NewDistributionService creates a new DistributionService
func NewDistributionService(
	distributionRepo shu.DistributionRepository,
	settingRepo shu.PercentageSettingRepository,
	allocationRepo shu.MemberAllocationRepository,
	memberRepo member.MemberRepository,
	accountRepo member.SavingsAccountRepository,
	transactionRepo member.SavingsTransactionRepository,
	transactor shared.Transactor,
	logger *zap.Logger,
) *DistributionService {
	return &DistributionService{
		distributionRepo: distributionRepo,
		settingRepo:      settingRepo,
		allocationRepo:   allocationRepo,
		memberRepo:       memberRepo,
		accountRepo:      accountRepo,
		transactionRepo:  transactionRepo,
		transactor:       transactor,
		logger:           logger,
	}
}

// CreateDistributionRequest represents a request to create a distribution
type CreateDistributionRequest struct {
	FiscalYear       int             `json:"fiscal_year" binding:"required"`
	TotalSHUAmount   decimal.Decimal `json:"total_shu_amount" binding:"required"`
	SettingID        uuid.UUID       `json:"setting_id" binding:"required"`
	DistributionDate time.Time       `json:"distribution_date" binding:"required"`
	Notes            string          `json:"notes"`
}

// UpdateDistributionRequest represents a request to update a draft distribution
type UpdateDistributionRequest struct {
	TotalSHUAmount   decimal.Decimal `json:"total_shu_amount" binding:"required"`
	SettingID        uuid.UUID       `json:"setting_id" binding:"required"`
	DistributionDate time.Time       `json:"distribution_date" binding:"required"`
	Notes            string          `json:"notes"`
}

// DistributionListFilter defines filtering options for distribution list queries
type DistributionListFilter struct {
	FiscalYear *int    `form:"fiscal_year"`
	Status     *string `form:"status"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}

// DistributionResponse represents a distribution in API responses
type DistributionResponse struct {
	ID               uuid.UUID       `json:"id"`
	FiscalYear       int             `json:"fiscal_year"`
	TotalSHUAmount   decimal.Decimal `json:"total_shu_amount"`
	SettingID        uuid.UUID       `json:"setting_id"`
	Breakdown        shu.Breakdown   `json:"breakdown"`
	DistributionDate time.Time       `json:"distribution_date"`
	Status           string          `json:"status"`
	ApprovedBy       *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	PaidOutAt        *time.Time      `json:"paid_out_at,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// AllocationResponse represents one member's allocation in API responses
type AllocationResponse struct {
	ID                  uuid.UUID       `json:"id"`
	DistributionID      uuid.UUID       `json:"distribution_id"`
	MemberID            uuid.UUID       `json:"member_id"`
	JasaModalAmount     decimal.Decimal `json:"jasa_modal_amount"`
	JasaUsahaAmount     decimal.Decimal `json:"jasa_usaha_amount"`
	AmountAllocated     decimal.Decimal `json:"amount_allocated"`
	IsPaidOut           bool            `json:"is_paid_out"`
	PayoutTransactionID *uuid.UUID      `json:"payout_transaction_id,omitempty"`
	PaidOutAt           *time.Time      `json:"paid_out_at,omitempty"`
}

// CalculationResponse is the outcome of the allocation-calculation step
type CalculationResponse struct {
	Distribution *DistributionResponse `json:"distribution"`
	Allocations  []AllocationResponse  `json:"allocations"`
	MemberCount  int                   `json:"member_count"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
}

// PayoutError records one member whose payout failed during a batch run
type PayoutError struct {
	MemberID uuid.UUID `json:"member_id"`
	Reason   string    `json:"reason"`
}

// PayoutResponse is the outcome of a batch payout run
type PayoutResponse struct {
	PaidCount          int             `json:"paid_count"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	Errors             []PayoutError   `json:"errors"`
	DistributionStatus string          `json:"distribution_status"`
}

func toDistributionResponse(d *shu.Distribution) *DistributionResponse {
	return &DistributionResponse{
		ID:               d.ID,
		FiscalYear:       d.FiscalYear,
		TotalSHUAmount:   d.TotalSHUAmount,
		SettingID:        d.SettingID,
		Breakdown:        d.Breakdown,
		DistributionDate: d.DistributionDate,
		Status:           d.Status.String(),
		ApprovedBy:       d.ApprovedBy,
		ApprovedAt:       d.ApprovedAt,
		PaidOutAt:        d.PaidOutAt,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		Version:          d.Version,
	}
}

func toAllocationResponse(a *shu.MemberAllocation) AllocationResponse {
	return AllocationResponse{
		ID:                  a.ID,
		DistributionID:      a.DistributionID,
		MemberID:            a.MemberID,
		JasaModalAmount:     a.JasaModalAmount,
		JasaUsahaAmount:     a.JasaUsahaAmount,
		AmountAllocated:     a.AmountAllocated,
		IsPaidOut:           a.IsPaidOut,
		PayoutTransactionID: a.PayoutTransactionID,
		PaidOutAt:           a.PaidOutAt,
	}
}

// CreateDistribution creates the draft distribution for a fiscal year.
// Lookup repositories report an empty result as shared.ErrNotFound, which
// here means the year is free to take.
func (s *DistributionService) CreateDistribution(ctx context.Context, req CreateDistributionRequest) (*DistributionResponse, error) {
	_, err := s.distributionRepo.FindByFiscalYear(ctx, req.FiscalYear)
	if err == nil {
		return nil, shared.NewDomainError("DISTRIBUTION_EXISTS",
			fmt.Sprintf("A distribution for fiscal year %d already exists", req.FiscalYear))
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	setting, err := s.settingRepo.FindByID(ctx, req.SettingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SETTING_NOT_FOUND", "Percentage setting not found")
		}
		return nil, err
	}

	d, err := shu.NewDistribution(req.FiscalYear, req.TotalSHUAmount, setting, req.DistributionDate, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.distributionRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	return toDistributionResponse(d), nil
}

// UpdateDistribution updates a draft distribution, recomputing its breakdown
func (s *DistributionService) UpdateDistribution(ctx context.Context, id uuid.UUID, req UpdateDistributionRequest) (*DistributionResponse, error) {
	d, err := s.distributionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.ErrNotFound
	}

	setting, err := s.settingRepo.FindByID(ctx, req.SettingID)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, shared.NewDomainError("SETTING_NOT_FOUND", "Percentage setting not found")
	}

	if err := d.UpdateDraft(req.TotalSHUAmount, setting, req.DistributionDate, req.Notes); err != nil {
		return nil, err
	}

	if err := s.distributionRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	return toDistributionResponse(d), nil
}

// DeleteDistribution deletes a draft distribution and its allocation rows
func (s *DistributionService) DeleteDistribution(ctx context.Context, id uuid.UUID) error {
	d, err := s.distributionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return shared.ErrNotFound
	}
	if !d.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot delete distribution in %s status", d.Status))
	}

	return s.distributionRepo.Delete(ctx, id)
}

// GetDistribution returns a distribution with its breakdown
func (s *DistributionService) GetDistribution(ctx context.Context, id uuid.UUID) (*DistributionResponse, error) {
	d, err := s.distributionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.ErrNotFound
	}

	return toDistributionResponse(d), nil
}

// ListDistributions returns distributions with pagination
func (s *DistributionService) ListDistributions(ctx context.Context, filter DistributionListFilter) (*shared.Paginated[*DistributionResponse], error) {
	domainFilter := shu.DistributionFilter{
		Filter:     shared.DefaultFilter(),
		FiscalYear: filter.FiscalYear,
	}
	if filter.Status != nil {
		status := shu.DistributionStatus(*filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown distribution status")
		}
		domainFilter.Status = &status
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}

	distributions, err := s.distributionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.distributionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*DistributionResponse, len(distributions))
	for i := range distributions {
		responses[i] = toDistributionResponse(&distributions[i])
	}

	paginated := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &paginated, nil
}

// ListAllocations returns a distribution's allocation rows
func (s *DistributionService) ListAllocations(ctx context.Context, distributionID uuid.UUID) ([]AllocationResponse, error) {
	allocations, err := s.allocationRepo.FindByDistribution(ctx, distributionID)
	if err != nil {
		return nil, err
	}

	responses := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		responses[i] = toAllocationResponse(&allocations[i])
	}
	return responses, nil
}

// CalculateAllocations computes and persists the member allocation rows of a
// draft distribution. Existing rows are replaced, so the step can be re-run
// after the roster or the distribution's amounts change.
func (s *DistributionService) CalculateAllocations(ctx context.Context, id uuid.UUID) (*CalculationResponse, error) {
	d, err := s.distributionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.ErrNotFound
	}
	if !d.IsDraft() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot calculate allocations for a distribution in %s status", d.Status))
	}

	stats, err := s.collectMemberStats(ctx, d.FiscalYear)
	if err != nil {
		return nil, err
	}

	allocations, err := shu.CalculateMemberAllocations(d, stats)
	if err != nil {
		return nil, err
	}

	if err := s.allocationRepo.ReplaceForDistribution(ctx, d.ID, allocations); err != nil {
		return nil, err
	}

	total := decimal.Zero
	responses := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		total = total.Add(allocations[i].AmountAllocated)
		responses[i] = toAllocationResponse(&allocations[i])
	}

	s.logger.Info("shu allocations calculated",
		zap.String("distribution_id", d.ID.String()),
		zap.Int("member_count", len(allocations)),
		zap.String("total_amount", total.StringFixed(2)),
	)

	return &CalculationResponse{
		Distribution: toDistributionResponse(d),
		Allocations:  responses,
		MemberCount:  len(allocations),
		TotalAmount:  total,
	}, nil
}

// Approve moves a draft distribution with allocations to APPROVED
func (s *DistributionService) Approve(ctx context.Context, id, approvedBy uuid.UUID) (*DistributionResponse, error) {
	d, err := s.distributionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.ErrNotFound
	}

	count, err := s.allocationRepo.CountByDistribution(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	if err := d.Approve(approvedBy, count); err != nil {
		return nil, err
	}

	if err := s.distributionRepo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}

	return toDistributionResponse(d), nil
}

// BatchPayout disburses every unpaid allocation of an approved distribution
// into the owning member's savings account.
//
// Each member is processed in its own transaction: a ledger row is posted,
// the balance credited and the allocation marked paid atomically, while a
// failure for one member is recorded and the loop continues. When no unpaid
// rows remain afterwards the distribution transitions to PAID_OUT; otherwise
// it stays APPROVED and a later run retries the remaining rows.
func (s *DistributionService) BatchPayout(ctx context.Context, id uuid.UUID) (*PayoutResponse, error) {
	d, err := s.distributionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.ErrNotFound
	}
	if !d.Status.CanPayout() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot run payout for a distribution in %s status", d.Status))
	}

	unpaid, err := s.allocationRepo.FindUnpaidByDistribution(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	result := &PayoutResponse{
		PaidAmount: decimal.Zero,
		Errors:     make([]PayoutError, 0),
	}

	for i := range unpaid {
		alloc := &unpaid[i]
		if err := s.payoutOne(ctx, d, alloc); err != nil {
			s.logger.Warn("shu payout failed for member",
				zap.String("distribution_id", d.ID.String()),
				zap.String("member_id", alloc.MemberID.String()),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, PayoutError{
				MemberID: alloc.MemberID,
				Reason:   err.Error(),
			})
			continue
		}
		result.PaidCount++
		result.PaidAmount = result.PaidAmount.Add(alloc.AmountAllocated)
		if s.metrics != nil {
			s.metrics.RecordShuPayout(ctx, d.FiscalYear, alloc.AmountAllocated)
		}
	}

	remaining, err := s.allocationRepo.CountUnpaidByDistribution(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if remaining == 0 {
		if err := d.MarkPaidOut(); err != nil {
			return nil, err
		}
		if err := s.distributionRepo.SaveWithLock(ctx, d); err != nil {
			return nil, err
		}
	}
	result.DistributionStatus = d.Status.String()

	s.logger.Info("shu batch payout finished",
		zap.String("distribution_id", d.ID.String()),
		zap.Int("paid_count", result.PaidCount),
		zap.Int("error_count", len(result.Errors)),
		zap.String("status", result.DistributionStatus),
	)

	return result, nil
}

// payoutOne disburses a single allocation inside its own transaction
func (s *DistributionService) payoutOne(ctx context.Context, d *shu.Distribution, alloc *shu.MemberAllocation) error {
	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		accounts, err := s.accountRepo.FindByMember(txCtx, alloc.MemberID)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			return shared.NewDomainError("NO_SAVINGS_ACCOUNT", "Member has no savings account to receive the payout")
		}
		account := &accounts[0]

		amount := valueobject.NewMoneyIDR(alloc.AmountAllocated)
		tx, err := member.NewSavingsTransaction(
			account.ID,
			alloc.MemberID,
			member.TransactionTypeSHUDistribution,
			amount,
			fmt.Sprintf("SHU distribution %d", d.FiscalYear),
			d.ID.String(),
			time.Now(),
		)
		if err != nil {
			return err
		}
		if err := s.transactionRepo.Save(txCtx, tx); err != nil {
			return err
		}

		if err := account.Credit(amount); err != nil {
			return err
		}
		if err := s.accountRepo.SaveWithLock(txCtx, account); err != nil {
			return err
		}

		if err := alloc.MarkPaidOut(tx.ID); err != nil {
			return err
		}
		return s.allocationRepo.SaveWithLock(txCtx, alloc)
	})
}

// collectMemberStats gathers the active roster's savings balances and fiscal
// year deposit volumes for the allocation calculation. Balances are derived
// from the ledger at the fiscal-year cutoff, so later movements (including a
// prior SHU credit) never shift the jasa modal ratios on a recalculation.
func (s *DistributionService) collectMemberStats(ctx context.Context, fiscalYear int) ([]shu.MemberStat, error) {
	members, err := s.memberRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	from := time.Date(fiscalYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(fiscalYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	stats := make([]shu.MemberStat, 0, len(members))
	for i := range members {
		balance, err := s.transactionRepo.SumBalanceByMemberBefore(ctx, members[i].ID, to)
		if err != nil {
			return nil, err
		}
		volume, err := s.transactionRepo.SumDepositsByMemberBetween(ctx, members[i].ID, from, to)
		if err != nil {
			return nil, err
		}
		stats = append(stats, shu.MemberStat{
			MemberID:       members[i].ID,
			SavingsBalance: balance,
			DepositVolume:  volume,
		})
	}

	return stats, nil
}
