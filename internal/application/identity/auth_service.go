package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/identity"
	"github.com/koperasi/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for authenticated users.
// The JWT implementation lives in infrastructure/auth.
type TokenIssuer interface {
	Issue(userID uuid.UUID, username string, role identity.Role) (token string, expiresAt time.Time, err error)
}

const (
	maxLoginAttempts = 5
	lockDuration     = 15 * time.Minute
)

// AuthService provides login and back-office account management
type AuthService struct {
	userRepo identity.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, logger: logger}
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

// CreateUserRequest represents a request to create a back-office account
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role" binding:"required"`
}

// ChangePasswordRequest represents a password change by the user themselves
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func toUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
	}
}

// Login authenticates a user and issues an access token. Failed attempts
// count toward a temporary lockout.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		// An unknown username must look exactly like a wrong password.
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
		}
		return nil, err
	}

	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked or deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(maxLoginAttempts, lockDuration)
		if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
			return nil, err
		}
		if locked {
			s.logger.Warn("account locked after repeated login failures",
				zap.String("username", user.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account locked after repeated failures")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

// CreateUser creates a back-office account
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already taken")
	}

	user, err := identity.NewUser(req.Username, req.Password, req.DisplayName, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// ChangePassword changes the authenticated user's password
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return shared.ErrNotFound
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.SaveWithLock(ctx, user)
}

// GetUser returns a user by ID
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotFound
	}
	return toUserResponse(user), nil
}

// UserListFilter defines filtering options for user list queries
type UserListFilter struct {
	Role     *string `form:"role"`
	Status   *string `form:"status"`
	Search   string  `form:"search"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// ListUsers returns a page of back-office accounts
func (s *AuthService) ListUsers(ctx context.Context, filter UserListFilter) (*shared.Paginated[*UserResponse], error) {
	repoFilter := identity.UserFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
	}
	if repoFilter.Page < 1 {
		repoFilter.Page = 1
	}
	if repoFilter.PageSize < 1 {
		repoFilter.PageSize = 20
	}
	if filter.Role != nil {
		role := identity.Role(*filter.Role)
		repoFilter.Role = &role
	}
	if filter.Status != nil {
		status := identity.UserStatus(*filter.Status)
		repoFilter.Status = &status
	}

	users, err := s.userRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]*UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	page := shared.NewPaginated(items, total, repoFilter.Page, repoFilter.PageSize)
	return &page, nil
}
