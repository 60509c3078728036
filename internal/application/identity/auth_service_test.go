package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/identity"
	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter identity.UserFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// stubTokenIssuer issues a fixed token
type stubTokenIssuer struct{}

func (stubTokenIssuer) Issue(uuid.UUID, string, identity.Role) (string, time.Time, error) {
	return "token-abc", time.Now().Add(time.Hour), nil
}

func testUser(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("bendahara", "rahasia123", "Bendahara", identity.RolePengurus)
	require.NoError(t, err)
	return u
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	newService := func() (*AuthService, *MockUserRepository) {
		repo := new(MockUserRepository)
		return NewAuthService(repo, stubTokenIssuer{}, zap.NewNop()), repo
	}

	t.Run("valid credentials yield a token", func(t *testing.T) {
		svc, repo := newService()
		user := testUser(t)

		repo.On("FindByUsername", ctx, "bendahara").Return(user, nil)
		repo.On("SaveWithLock", ctx, user).Return(nil)

		resp, err := svc.Login(ctx, LoginRequest{Username: "bendahara", Password: "rahasia123"})

		require.NoError(t, err)
		assert.Equal(t, "token-abc", resp.Token)
		assert.Equal(t, "bendahara", resp.User.Username)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password counts a failed attempt", func(t *testing.T) {
		svc, repo := newService()
		user := testUser(t)

		repo.On("FindByUsername", ctx, "bendahara").Return(user, nil)
		repo.On("SaveWithLock", ctx, user).Return(nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "bendahara", Password: "salah123"})

		assert.Error(t, err)
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("unknown user never reveals whether the account exists", func(t *testing.T) {
		svc, repo := newService()

		// the gorm repo reports an unknown username as ErrNotFound
		repo.On("FindByUsername", ctx, "nobody").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "whatever1"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("a repository failure is not reported as bad credentials", func(t *testing.T) {
		svc, repo := newService()

		repo.On("FindByUsername", ctx, "bendahara").Return(nil, assert.AnError)

		_, err := svc.Login(ctx, LoginRequest{Username: "bendahara", Password: "whatever1"})

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("locked account cannot login even with the right password", func(t *testing.T) {
		svc, repo := newService()
		user := testUser(t)
		user.RecordLoginFailure(1, time.Hour)

		repo.On("FindByUsername", ctx, "bendahara").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Username: "bendahara", Password: "rahasia123"})

		assert.Error(t, err)
	})
}

func TestAuthServiceCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, stubTokenIssuer{}, zap.NewNop())

		repo.On("ExistsByUsername", ctx, "staf.baru").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.CreateUser(ctx, CreateUserRequest{
			Username: "staf.baru",
			Password: "sandi1234",
			Role:     "STAFF",
		})

		require.NoError(t, err)
		assert.Equal(t, "STAFF", resp.Role)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, stubTokenIssuer{}, zap.NewNop())

		repo.On("ExistsByUsername", ctx, "bendahara").Return(true, nil)

		_, err := svc.CreateUser(ctx, CreateUserRequest{
			Username: "bendahara",
			Password: "sandi1234",
			Role:     "STAFF",
		})

		assert.Error(t, err)
	})
}
