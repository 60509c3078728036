package identity

import (
	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
)

// UserCreatedEvent is raised when a back-office account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return "UserCreated"
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserCreated", "User", u.ID),
		UserID:          u.ID,
		Username:        u.Username,
		Role:            u.Role,
	}
}
