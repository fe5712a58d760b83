package domain

import (
	"strings"
	"time"
)

// Role names an account's privilege level.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Account is a person known to the platform. Username and PasswordHash are
// empty for accounts that only ever signed in through Google; GoogleID is
// empty until the account is linked to a Google identity.
type Account struct {
	ID           int64
	Username     string
	Email        string // stored lower-cased
	PasswordHash string // argon2id PHC string
	DisplayName  string
	Role         Role
	GoogleID     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can sign in with a local password.
func (a Account) HasPassword() bool { return a.PasswordHash != "" }

// IsFederated reports whether the account is linked to a Google identity.
func (a Account) IsFederated() bool { return a.GoogleID != "" }

// Validate checks the invariants every stored account must satisfy.
func (a Account) Validate() error {
	if a.Email == "" {
		return ErrInvalidInput
	}
	if !a.HasPassword() && !a.IsFederated() {
		return ErrInvalidInput
	}
	if !a.Role.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email address so that uniqueness
// checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountSummary is the public view of an account returned to clients.
type AccountSummary struct {
	ID          int64
	Username    string
	Email       string
	DisplayName string
	Role        Role
	Active      bool
	Federated   bool
	CreatedAt   time.Time
}

func (a Account) Summary() AccountSummary {
	return AccountSummary{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        a.Role,
		Active:      a.Active,
		Federated:   a.IsFederated(),
		CreatedAt:   a.CreatedAt,
	}
}
