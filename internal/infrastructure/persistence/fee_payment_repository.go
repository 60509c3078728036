package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/estate"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeePaymentRepository implements FeePaymentRepository using GORM
type GormFeePaymentRepository struct {
	db *gorm.DB
}

// NewGormFeePaymentRepository creates a new GormFeePaymentRepository
func NewGormFeePaymentRepository(db *gorm.DB) *GormFeePaymentRepository {
	return &GormFeePaymentRepository{db: db}
}

// FindByID finds a fee payment by its ID
func (r *GormFeePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.FeePayment, error) {
	var model models.FeePaymentModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriodKey finds the unique row per (resident, fee, year, month)
func (r *GormFeePaymentRepository) FindByPeriodKey(ctx context.Context, residentID, feeID uuid.UUID, year, month int) (*estate.FeePayment, error) {
	var model models.FeePaymentModel
	err := dbForContext(ctx, r.db).
		Where("resident_id = ? AND fee_id = ? AND period_year = ? AND period_month = ?", residentID, feeID, year, month).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByPeriodKey checks whether a bill already exists for the period
func (r *GormFeePaymentRepository) ExistsByPeriodKey(ctx context.Context, residentID, feeID uuid.UUID, year, month int) (bool, error) {
	var count int64
	err := dbForContext(ctx, r.db).Model(&models.FeePaymentModel{}).
		Where("resident_id = ? AND fee_id = ? AND period_year = ? AND period_month = ?", residentID, feeID, year, month).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds fee payments with filtering
func (r *GormFeePaymentRepository) FindAll(ctx context.Context, filter estate.FeePaymentFilter) ([]estate.FeePayment, error) {
	var paymentModels []models.FeePaymentModel

	query := r.applyFilter(dbForContext(ctx, r.db).Model(&models.FeePaymentModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	// Apply sorting with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, FeePaymentSortFields, "created_at")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		query = query.Order(sortField + " " + sortOrder)
	} else {
		query = query.Order("period_year DESC, period_month DESC, created_at DESC")
	}

	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]estate.FeePayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// FindUnpaidByPeriod finds PENDING and OVERDUE bills for a period
func (r *GormFeePaymentRepository) FindUnpaidByPeriod(ctx context.Context, year, month int) ([]estate.FeePayment, error) {
	var paymentModels []models.FeePaymentModel
	err := dbForContext(ctx, r.db).
		Where("period_year = ? AND period_month = ? AND status IN ?", year, month,
			[]estate.FeePaymentStatus{estate.FeePaymentStatusPending, estate.FeePaymentStatusOverdue}).
		Order("created_at ASC").
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}

	payments := make([]estate.FeePayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// FindOverdueCandidates finds PENDING bills whose due date has passed
func (r *GormFeePaymentRepository) FindOverdueCandidates(ctx context.Context, asOf time.Time) ([]estate.FeePayment, error) {
	var paymentModels []models.FeePaymentModel
	err := dbForContext(ctx, r.db).
		Where("status = ? AND due_date < ?", estate.FeePaymentStatusPending, asOf).
		Order("due_date ASC").
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}

	payments := make([]estate.FeePayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// Save creates or updates a fee payment
func (r *GormFeePaymentRepository) Save(ctx context.Context, p *estate.FeePayment) error {
	model := models.FeePaymentModelFromDomain(p)
	return dbForContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a fee payment with optimistic locking
func (r *GormFeePaymentRepository) SaveWithLock(ctx context.Context, p *estate.FeePayment) error {
	model := models.FeePaymentModelFromDomain(p)

	result := dbForContext(ctx, r.db).Model(&models.FeePaymentModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "fee payment was modified by another process")
	}
	return nil
}

// Delete deletes a fee payment
func (r *GormFeePaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbForContext(ctx, r.db).Delete(&models.FeePaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts fee payments matching the filter
func (r *GormFeePaymentRepository) Count(ctx context.Context, filter estate.FeePaymentFilter) (int64, error) {
	var count int64
	query := r.applyFilter(dbForContext(ctx, r.db).Model(&models.FeePaymentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormFeePaymentRepository) applyFilter(query *gorm.DB, filter estate.FeePaymentFilter) *gorm.DB {
	if filter.ResidentID != nil {
		query = query.Where("resident_id = ?", *filter.ResidentID)
	}
	if filter.FeeID != nil {
		query = query.Where("fee_id = ?", *filter.FeeID)
	}
	if filter.PeriodYear != nil {
		query = query.Where("period_year = ?", *filter.PeriodYear)
	}
	if filter.PeriodMonth != nil {
		query = query.Where("period_month = ?", *filter.PeriodMonth)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// Ensure GormFeePaymentRepository implements FeePaymentRepository
var _ estate.FeePaymentRepository = (*GormFeePaymentRepository)(nil)
