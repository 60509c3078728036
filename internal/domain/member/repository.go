package member

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MemberFilter defines filtering options for member queries
type MemberFilter struct {
	shared.Filter
	Status     *Status    // Filter by membership status
	JoinedFrom *time.Time // Filter by join date range start
	JoinedTo   *time.Time // Filter by join date range end
}

// MemberRepository defines the interface for member persistence
type MemberRepository interface {
	// FindByID finds a member by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// FindByMemberNumber finds a member by member number
	FindByMemberNumber(ctx context.Context, memberNumber string) (*Member, error)

	// FindAll finds all members with filtering
	FindAll(ctx context.Context, filter MemberFilter) ([]Member, error)

	// FindActive finds all ACTIVE members (SHU-eligible roster)
	FindActive(ctx context.Context) ([]Member, error)

	// Save creates or updates a member
	Save(ctx context.Context, m *Member) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, m *Member) error

	// Delete deletes a member
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts members with optional filters
	Count(ctx context.Context, filter MemberFilter) (int64, error)

	// ExistsByMemberNumber checks if a member number is already taken
	ExistsByMemberNumber(ctx context.Context, memberNumber string) (bool, error)
}

// SavingsAccountRepository defines the interface for savings account persistence
type SavingsAccountRepository interface {
	// FindByID finds a savings account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SavingsAccount, error)

	// FindByMember finds all accounts of a member ordered by type then creation
	// time. The first entry is the payout target account.
	FindByMember(ctx context.Context, memberID uuid.UUID) ([]SavingsAccount, error)

	// FindByMemberAndType finds a member's account of a specific savings type
	FindByMemberAndType(ctx context.Context, memberID uuid.UUID, savingsType SavingsType) (*SavingsAccount, error)

	// Save creates or updates a savings account
	Save(ctx context.Context, account *SavingsAccount) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, account *SavingsAccount) error
}

// SavingsTransactionFilter defines filtering options for ledger queries
type SavingsTransactionFilter struct {
	shared.Filter
	MemberID  *uuid.UUID
	AccountID *uuid.UUID
	Type      *TransactionType
	FromDate  *time.Time
	ToDate    *time.Time
}

// SavingsTransactionRepository defines the interface for savings ledger persistence
type SavingsTransactionRepository interface {
	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SavingsTransaction, error)

	// FindAll finds ledger entries with filtering
	FindAll(ctx context.Context, filter SavingsTransactionFilter) ([]SavingsTransaction, error)

	// Save persists a ledger entry
	Save(ctx context.Context, tx *SavingsTransaction) error

	// Count counts ledger entries with optional filters
	Count(ctx context.Context, filter SavingsTransactionFilter) (int64, error)

	// SumDepositsByMemberBetween sums DEPOSIT amounts posted by a member in a
	// date range. This is the jasa usaha volume for an SHU fiscal year.
	SumDepositsByMemberBetween(ctx context.Context, memberID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// SumBalanceByMemberBefore derives a member's total savings balance
	// from the ledger, summing signed amounts of entries posted before the
	// cutoff. This is the jasa modal base at an SHU fiscal-year cutoff;
	// movements after the cutoff must not shift the ratios.
	SumBalanceByMemberBefore(ctx context.Context, memberID uuid.UUID, cutoff time.Time) (decimal.Decimal, error)
}
