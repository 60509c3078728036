package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/member"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSavingsAccountRepository implements SavingsAccountRepository using GORM
type GormSavingsAccountRepository struct {
	db *gorm.DB
}

// NewGormSavingsAccountRepository creates a new GormSavingsAccountRepository
func NewGormSavingsAccountRepository(db *gorm.DB) *GormSavingsAccountRepository {
	return &GormSavingsAccountRepository{db: db}
}

// FindByID finds a savings account by its ID
func (r *GormSavingsAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.SavingsAccount, error) {
	var model models.SavingsAccountModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMember finds all accounts of a member. POKOK sorts before SUKARELA
// and WAJIB, so the first entry is the payout target account.
func (r *GormSavingsAccountRepository) FindByMember(ctx context.Context, memberID uuid.UUID) ([]member.SavingsAccount, error) {
	var accountModels []models.SavingsAccountModel
	if err := dbForContext(ctx, r.db).
		Where("member_id = ?", memberID).
		Order("type ASC, created_at ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]member.SavingsAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindByMemberAndType finds a member's account of a specific savings type
func (r *GormSavingsAccountRepository) FindByMemberAndType(ctx context.Context, memberID uuid.UUID, savingsType member.SavingsType) (*member.SavingsAccount, error) {
	var model models.SavingsAccountModel
	if err := dbForContext(ctx, r.db).
		Where("member_id = ? AND type = ?", memberID, savingsType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a savings account
func (r *GormSavingsAccountRepository) Save(ctx context.Context, account *member.SavingsAccount) error {
	model := models.SavingsAccountModelFromDomain(account)
	return dbForContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a savings account with optimistic locking (version check)
func (r *GormSavingsAccountRepository) SaveWithLock(ctx context.Context, account *member.SavingsAccount) error {
	model := models.SavingsAccountModelFromDomain(account)
	result := dbForContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The savings account has been modified by another transaction")
	}
	return nil
}

// Ensure GormSavingsAccountRepository implements SavingsAccountRepository
var _ member.SavingsAccountRepository = (*GormSavingsAccountRepository)(nil)
