package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/member"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSavingsTransactionRepository implements SavingsTransactionRepository using GORM
type GormSavingsTransactionRepository struct {
	db *gorm.DB
}

// NewGormSavingsTransactionRepository creates a new GormSavingsTransactionRepository
func NewGormSavingsTransactionRepository(db *gorm.DB) *GormSavingsTransactionRepository {
	return &GormSavingsTransactionRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormSavingsTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.SavingsTransaction, error) {
	var model models.SavingsTransactionModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds ledger entries matching the filter
func (r *GormSavingsTransactionRepository) FindAll(ctx context.Context, filter member.SavingsTransactionFilter) ([]member.SavingsTransaction, error) {
	var txModels []models.SavingsTransactionModel
	query := r.applyFilter(dbForContext(ctx, r.db).Model(&models.SavingsTransactionModel{}), filter)

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]member.SavingsTransaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// Save persists a ledger entry. Ledger rows are append-only.
func (r *GormSavingsTransactionRepository) Save(ctx context.Context, tx *member.SavingsTransaction) error {
	model := models.SavingsTransactionModelFromDomain(tx)
	return dbForContext(ctx, r.db).Save(model).Error
}

// Count counts ledger entries matching the filter
func (r *GormSavingsTransactionRepository) Count(ctx context.Context, filter member.SavingsTransactionFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbForContext(ctx, r.db).Model(&models.SavingsTransactionModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumDepositsByMemberBetween sums DEPOSIT amounts posted by a member in
// [from, to). This is the jasa usaha volume for an SHU fiscal year.
func (r *GormSavingsTransactionRepository) SumDepositsByMemberBetween(ctx context.Context, memberID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := dbForContext(ctx, r.db).
		Model(&models.SavingsTransactionModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("member_id = ? AND type = ? AND posted_at >= ? AND posted_at < ?",
			memberID, member.TransactionTypeDeposit, from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumBalanceByMemberBefore derives a member's total savings balance from the
// ledger as of a cutoff. Withdrawals subtract, everything else credits,
// mirroring SavingsTransaction.SignedAmount.
func (r *GormSavingsTransactionRepository) SumBalanceByMemberBefore(ctx context.Context, memberID uuid.UUID, cutoff time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := dbForContext(ctx, r.db).
		Model(&models.SavingsTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN -amount ELSE amount END), 0) AS total",
			member.TransactionTypeWithdrawal).
		Where("member_id = ? AND posted_at < ?", memberID, cutoff).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyFilter applies filter options to the query
func (r *GormSavingsTransactionRepository) applyFilter(query *gorm.DB, filter member.SavingsTransactionFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, SavingsTransactionSortFields, "posted_at")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		query = query.Order(sortField + " " + sortOrder)
	} else {
		query = query.Order("posted_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSavingsTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter member.SavingsTransactionFilter) *gorm.DB {
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.FromDate != nil {
		query = query.Where("posted_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("posted_at < ?", *filter.ToDate)
	}

	return query
}

// Ensure GormSavingsTransactionRepository implements SavingsTransactionRepository
var _ member.SavingsTransactionRepository = (*GormSavingsTransactionRepository)(nil)
