package member

import (
	"fmt"
	"time"

	"github.com/koperasi/backend/internal/domain/shared"
)

// Status represents the membership status
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// IsValid checks if the status is a valid membership status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Member represents a cooperative member aggregate root.
// Only ACTIVE members participate in SHU distribution.
type Member struct {
	shared.BaseAggregateRoot
	MemberNumber string    `json:"member_number"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Status       Status    `json:"status"`
	JoinedAt     time.Time `json:"joined_at"`
}

// NewMember creates a new cooperative member
func NewMember(memberNumber, fullName, email, phone string, joinedAt time.Time) (*Member, error) {
	if memberNumber == "" {
		return nil, shared.NewDomainError("INVALID_MEMBER_NUMBER", "Member number cannot be empty")
	}
	if len(memberNumber) > 30 {
		return nil, shared.NewDomainError("INVALID_MEMBER_NUMBER", "Member number cannot exceed 30 characters")
	}
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
	}
	if len(fullName) > 150 {
		return nil, shared.NewDomainError("INVALID_NAME", "Member name cannot exceed 150 characters")
	}

	m := &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MemberNumber:      memberNumber,
		FullName:          fullName,
		Email:             email,
		Phone:             phone,
		Status:            StatusActive,
		JoinedAt:          joinedAt,
	}

	m.AddDomainEvent(NewMemberRegisteredEvent(m))

	return m, nil
}

// UpdateProfile updates mutable member details
func (m *Member) UpdateProfile(fullName, email, phone, address string) error {
	if fullName == "" {
		return shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
	}
	if len(fullName) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Member name cannot exceed 150 characters")
	}

	m.FullName = fullName
	m.Email = email
	m.Phone = phone
	m.Address = address
	m.UpdatedAt = time.Now()

	return nil
}

// Activate sets the member status to ACTIVE
func (m *Member) Activate() error {
	if m.Status == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Member is already active")
	}
	m.Status = StatusActive
	m.UpdatedAt = time.Now()
	return nil
}

// Deactivate sets the member status to INACTIVE
func (m *Member) Deactivate() error {
	if m.Status == StatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Member is already inactive")
	}
	m.Status = StatusInactive
	m.UpdatedAt = time.Now()
	return nil
}

// Suspend sets the member status to SUSPENDED
func (m *Member) Suspend(reason string) error {
	if m.Status == StatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Member is already suspended")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Suspension reason is required")
	}
	m.Status = StatusSuspended
	m.UpdatedAt = time.Now()
	m.AddDomainEvent(NewMemberSuspendedEvent(m, reason))
	return nil
}

// IsActive returns true if the member is eligible for SHU allocation
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// DisplayName returns "number - name" for logs and summaries
func (m *Member) DisplayName() string {
	return fmt.Sprintf("%s - %s", m.MemberNumber, m.FullName)
}
