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

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by its ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	var model models.MemberModel
	if err := dbForContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMemberNumber finds a member by its unique member number
func (r *GormMemberRepository) FindByMemberNumber(ctx context.Context, memberNumber string) (*member.Member, error) {
	var model models.MemberModel
	if err := dbForContext(ctx, r.db).
		Where("member_number = ?", memberNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all members matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter member.MemberFilter) ([]member.Member, error) {
	var memberModels []models.MemberModel
	query := r.applyFilter(dbForContext(ctx, r.db).Model(&models.MemberModel{}), filter)

	if err := query.Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]member.Member, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// FindActive finds all ACTIVE members ordered by member number
func (r *GormMemberRepository) FindActive(ctx context.Context) ([]member.Member, error) {
	var memberModels []models.MemberModel
	if err := dbForContext(ctx, r.db).
		Where("status = ?", member.StatusActive).
		Order("member_number ASC").
		Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]member.Member, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, m *member.Member) error {
	model := models.MemberModelFromDomain(m)
	return dbForContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a member with optimistic locking (version check)
func (r *GormMemberRepository) SaveWithLock(ctx context.Context, m *member.Member) error {
	model := models.MemberModelFromDomain(m)
	result := dbForContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The member record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a member
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbForContext(ctx, r.db).Delete(&models.MemberModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter member.MemberFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbForContext(ctx, r.db).Model(&models.MemberModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByMemberNumber checks if a member number is already taken
func (r *GormMemberRepository) ExistsByMemberNumber(ctx context.Context, memberNumber string) (bool, error) {
	var count int64
	if err := dbForContext(ctx, r.db).
		Model(&models.MemberModel{}).
		Where("member_number = ?", memberNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormMemberRepository) applyFilter(query *gorm.DB, filter member.MemberFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, MemberSortFields, "member_number")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		query = query.Order(sortField + " " + sortOrder)
	} else {
		query = query.Order("member_number ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMemberRepository) applyFilterWithoutPagination(query *gorm.DB, filter member.MemberFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("member_number ILIKE ? OR full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.JoinedFrom != nil {
		query = query.Where("joined_at >= ?", *filter.JoinedFrom)
	}
	if filter.JoinedTo != nil {
		query = query.Where("joined_at <= ?", *filter.JoinedTo)
	}

	return query
}

// Ensure GormMemberRepository implements MemberRepository
var _ member.MemberRepository = (*GormMemberRepository)(nil)
