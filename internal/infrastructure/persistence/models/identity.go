package models

import (
	"time"

	"github.com/koperasi/backend/internal/domain/identity"
)

// UserModel is the persistence model for back-office user accounts.
type UserModel struct {
	AggregateModel
	Username       string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email          string              `gorm:"type:varchar(200);index"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	DisplayName    string              `gorm:"type:varchar(150)"`
	Role           identity.Role       `gorm:"type:varchar(20);not null"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	LastLoginAt    *time.Time          ``
	FailedAttempts int                 `gorm:"not null;default:0"`
	LockedUntil    *time.Time          ``
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.toAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              m.Role,
		Status:            m.Status,
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(d *identity.User) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Username = d.Username
	m.Email = d.Email
	m.PasswordHash = d.PasswordHash
	m.DisplayName = d.DisplayName
	m.Role = d.Role
	m.Status = d.Status
	m.LastLoginAt = d.LastLoginAt
	m.FailedAttempts = d.FailedAttempts
	m.LockedUntil = d.LockedUntil
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(d *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(d)
	return m
}
