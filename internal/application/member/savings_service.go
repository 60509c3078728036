package member

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/member"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SavingsMetricsRecorder records posted savings transactions for monitoring.
type SavingsMetricsRecorder interface {
	RecordSavingsTransaction(ctx context.Context, transactionType, savingsType string, amount decimal.Decimal)
}

// SavingsService provides application-level savings account operations.
// Deposits and withdrawals post a ledger row and adjust the balance in one
// transaction; deposit volume later feeds the jasa usaha allocation.
type SavingsService struct {
	accountRepo     member.SavingsAccountRepository
	transactionRepo member.SavingsTransactionRepository
	transactor      shared.Transactor
	metrics         SavingsMetricsRecorder
}

// SetMetricsRecorder wires an optional metrics recorder.
func (s *SavingsService) SetMetricsRecorder(m SavingsMetricsRecorder) {
	s.metrics = m
}

// NewSavingsService creates a new SavingsService
func NewSavingsService(
	accountRepo member.SavingsAccountRepository,
	transactionRepo member.SavingsTransactionRepository,
	transactor shared.Transactor,
) *SavingsService {
	return &SavingsService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		transactor:      transactor,
	}
}

// PostTransactionRequest represents a deposit or withdrawal request
type PostTransactionRequest struct {
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

// TransactionListFilter defines filtering options for ledger list queries
type TransactionListFilter struct {
	MemberID  *uuid.UUID `form:"member_id"`
	AccountID *uuid.UUID `form:"account_id"`
	Type      *string    `form:"type"`
	FromDate  *time.Time `form:"from_date"`
	ToDate    *time.Time `form:"to_date"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	MemberID    uuid.UUID       `json:"member_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	PostedAt    time.Time       `json:"posted_at"`
}

func toTransactionResponse(tx *member.SavingsTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		MemberID:    tx.MemberID,
		Type:        tx.Type.String(),
		Amount:      tx.Amount,
		Description: tx.Description,
		Reference:   tx.Reference,
		PostedAt:    tx.PostedAt,
	}
}

// Deposit credits a savings account and posts a DEPOSIT ledger row
func (s *SavingsService) Deposit(ctx context.Context, req PostTransactionRequest) (*TransactionResponse, error) {
	return s.post(ctx, req, member.TransactionTypeDeposit)
}

// Withdraw debits a savings account and posts a WITHDRAWAL ledger row.
// Overdrafts are rejected.
func (s *SavingsService) Withdraw(ctx context.Context, req PostTransactionRequest) (*TransactionResponse, error) {
	return s.post(ctx, req, member.TransactionTypeWithdrawal)
}

func (s *SavingsService) post(ctx context.Context, req PostTransactionRequest, txType member.TransactionType) (*TransactionResponse, error) {
	var response *TransactionResponse

	var savingsType member.SavingsType

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.accountRepo.FindByID(txCtx, req.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.ErrNotFound
		}

		amount := valueobject.NewMoneyIDR(req.Amount)
		switch txType {
		case member.TransactionTypeDeposit:
			if err := account.Credit(amount); err != nil {
				return err
			}
		case member.TransactionTypeWithdrawal:
			if err := account.Debit(amount); err != nil {
				return err
			}
		default:
			return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Only deposits and withdrawals can be posted directly")
		}

		tx, err := member.NewSavingsTransaction(
			account.ID,
			account.MemberID,
			txType,
			amount,
			req.Description,
			req.Reference,
			time.Now(),
		)
		if err != nil {
			return err
		}

		if err := s.transactionRepo.Save(txCtx, tx); err != nil {
			return err
		}
		if err := s.accountRepo.SaveWithLock(txCtx, account); err != nil {
			return err
		}

		savingsType = account.Type
		resp := toTransactionResponse(tx)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordSavingsTransaction(ctx, txType.String(), savingsType.String(), req.Amount)
	}

	return response, nil
}

// ListTransactions returns ledger entries with pagination
func (s *SavingsService) ListTransactions(ctx context.Context, filter TransactionListFilter) (*shared.Paginated[TransactionResponse], error) {
	domainFilter := member.SavingsTransactionFilter{
		Filter:    shared.DefaultFilter(),
		MemberID:  filter.MemberID,
		AccountID: filter.AccountID,
		FromDate:  filter.FromDate,
		ToDate:    filter.ToDate,
	}
	if filter.Type != nil {
		txType := member.TransactionType(*filter.Type)
		if !txType.IsValid() {
			return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Unknown transaction type")
		}
		domainFilter.Type = &txType
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}

	transactions, err := s.transactionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.transactionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = toTransactionResponse(&transactions[i])
	}

	paginated := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &paginated, nil
}
