package member

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/member"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MemberService provides application-level cooperative member operations
type MemberService struct {
	memberRepo  member.MemberRepository
	accountRepo member.SavingsAccountRepository
	transactor  shared.Transactor
}

// NewMemberService creates a new MemberService
func NewMemberService(
	memberRepo member.MemberRepository,
	accountRepo member.SavingsAccountRepository,
	transactor shared.Transactor,
) *MemberService {
	return &MemberService{
		memberRepo:  memberRepo,
		accountRepo: accountRepo,
		transactor:  transactor,
	}
}

// RegisterMemberRequest represents a request to register a member
type RegisterMemberRequest struct {
	MemberNumber string    `json:"member_number" binding:"required"`
	FullName     string    `json:"full_name" binding:"required"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	JoinedAt     time.Time `json:"joined_at" binding:"required"`
}

// UpdateMemberRequest represents a request to update a member's profile
type UpdateMemberRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// MemberListFilter defines filtering options for member list queries
type MemberListFilter struct {
	Status   *string `form:"status"`
	Search   string  `form:"search"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID           uuid.UUID `json:"id"`
	MemberNumber string    `json:"member_number"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Status       string    `json:"status"`
	JoinedAt     time.Time `json:"joined_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// MemberDetailResponse is a member with its savings accounts
type MemberDetailResponse struct {
	MemberResponse
	SavingsAccounts []SavingsAccountResponse `json:"savings_accounts"`
	TotalBalance    decimal.Decimal          `json:"total_balance"`
}

// SavingsAccountResponse represents a savings account in API responses
type SavingsAccountResponse struct {
	ID       uuid.UUID       `json:"id"`
	MemberID uuid.UUID       `json:"member_id"`
	Type     string          `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
}

func toMemberResponse(m *member.Member) MemberResponse {
	return MemberResponse{
		ID:           m.ID,
		MemberNumber: m.MemberNumber,
		FullName:     m.FullName,
		Email:        m.Email,
		Phone:        m.Phone,
		Address:      m.Address,
		Status:       string(m.Status),
		JoinedAt:     m.JoinedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Version:      m.Version,
	}
}

func toSavingsAccountResponse(a *member.SavingsAccount) SavingsAccountResponse {
	return SavingsAccountResponse{
		ID:       a.ID,
		MemberID: a.MemberID,
		Type:     string(a.Type),
		Balance:  a.Balance,
	}
}

// RegisterMember registers a member and opens their three savings accounts
// in one transaction.
func (s *MemberService) RegisterMember(ctx context.Context, req RegisterMemberRequest) (*MemberResponse, error) {
	taken, err := s.memberRepo.ExistsByMemberNumber(ctx, req.MemberNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("MEMBER_NUMBER_TAKEN",
			fmt.Sprintf("Member number %s is already registered", req.MemberNumber))
	}

	m, err := member.NewMember(req.MemberNumber, req.FullName, req.Email, req.Phone, req.JoinedAt)
	if err != nil {
		return nil, err
	}
	if req.Address != "" {
		m.Address = req.Address
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.memberRepo.Save(txCtx, m); err != nil {
			return err
		}
		for _, accountType := range []member.SavingsType{
			member.SavingsTypePokok,
			member.SavingsTypeWajib,
			member.SavingsTypeSukarela,
		} {
			account, err := member.NewSavingsAccount(m.ID, accountType)
			if err != nil {
				return err
			}
			if err := s.accountRepo.Save(txCtx, account); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toMemberResponse(m)
	return &resp, nil
}

// UpdateMember updates a member's profile
func (s *MemberService) UpdateMember(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}

	if err := m.UpdateProfile(req.FullName, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.memberRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}

	resp := toMemberResponse(m)
	return &resp, nil
}

// SuspendMember suspends a member, excluding them from SHU allocation
func (s *MemberService) SuspendMember(ctx context.Context, id uuid.UUID, reason string) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}

	if err := m.Suspend(reason); err != nil {
		return nil, err
	}

	if err := s.memberRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}

	resp := toMemberResponse(m)
	return &resp, nil
}

// ActivateMember re-activates a member
func (s *MemberService) ActivateMember(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}

	if err := m.Activate(); err != nil {
		return nil, err
	}

	if err := s.memberRepo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}

	resp := toMemberResponse(m)
	return &resp, nil
}

// GetMember returns a member with their savings accounts and total balance
func (s *MemberService) GetMember(ctx context.Context, id uuid.UUID) (*MemberDetailResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, shared.ErrNotFound
	}

	accounts, err := s.accountRepo.FindByMember(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	detail := &MemberDetailResponse{
		MemberResponse:  toMemberResponse(m),
		SavingsAccounts: make([]SavingsAccountResponse, len(accounts)),
		TotalBalance:    decimal.Zero,
	}
	for i := range accounts {
		detail.SavingsAccounts[i] = toSavingsAccountResponse(&accounts[i])
		detail.TotalBalance = detail.TotalBalance.Add(accounts[i].Balance)
	}

	return detail, nil
}

// ListMembers returns members with pagination
func (s *MemberService) ListMembers(ctx context.Context, filter MemberListFilter) (*shared.Paginated[MemberResponse], error) {
	domainFilter := member.MemberFilter{Filter: shared.DefaultFilter()}
	domainFilter.Search = filter.Search
	if filter.Status != nil {
		status := member.Status(*filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown member status")
		}
		domainFilter.Status = &status
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}

	members, err := s.memberRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.memberRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = toMemberResponse(&members[i])
	}

	paginated := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &paginated, nil
}
