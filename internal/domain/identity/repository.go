package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
)

// UserFilter defines filtering options for user queries
type UserFilter struct {
	shared.Filter
	Role   *Role
	Status *UserStatus
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username, or shared.ErrNotFound for
	// an unknown one
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll finds users with filtering
	FindAll(ctx context.Context, filter UserFilter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, u *User) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, u *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users with optional filters
	Count(ctx context.Context, filter UserFilter) (int64, error)

	// ExistsByUsername checks if a username is already taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
