package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/koperasi/backend/internal/domain/shared"
)

// MemberRegisteredEvent is raised when a new member is registered
type MemberRegisteredEvent struct {
	shared.BaseDomainEvent
	MemberID     uuid.UUID `json:"member_id"`
	MemberNumber string    `json:"member_number"`
	FullName     string    `json:"full_name"`
	JoinedAt     time.Time `json:"joined_at"`
}

// EventType returns the event type name
func (e *MemberRegisteredEvent) EventType() string {
	return "MemberRegistered"
}

// NewMemberRegisteredEvent creates a new MemberRegisteredEvent
func NewMemberRegisteredEvent(m *Member) *MemberRegisteredEvent {
	return &MemberRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MemberRegistered", "Member", m.ID),
		MemberID:        m.ID,
		MemberNumber:    m.MemberNumber,
		FullName:        m.FullName,
		JoinedAt:        m.JoinedAt,
	}
}

// MemberSuspendedEvent is raised when a member is suspended
type MemberSuspendedEvent struct {
	shared.BaseDomainEvent
	MemberID     uuid.UUID `json:"member_id"`
	MemberNumber string    `json:"member_number"`
	Reason       string    `json:"reason"`
}

// EventType returns the event type name
func (e *MemberSuspendedEvent) EventType() string {
	return "MemberSuspended"
}

// NewMemberSuspendedEvent creates a new MemberSuspendedEvent
func NewMemberSuspendedEvent(m *Member, reason string) *MemberSuspendedEvent {
	return &MemberSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MemberSuspended", "Member", m.ID),
		MemberID:        m.ID,
		MemberNumber:    m.MemberNumber,
		Reason:          reason,
	}
}
