package domain

import (
	"time"
	"unicode/utf8"
)

// Role is the closed set of actor roles.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleSalesperson   Role = "salesperson"
	RoleOwner         Role = "owner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleSalesperson, RoleOwner:
		return true
	}
	return false
}

const (
	MinHandleLength   = 3
	MaxHandleLength   = 50
	MinPasswordLength = 6
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// Credential is a login identity. It is never deleted, only deactivated.
type Credential struct {
	IdentityKey  string     `json:"identityKey"`
	LoginHandle  string     `json:"loginHandle"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ValidateHandle checks the login handle length in characters.
func ValidateHandle(handle string) error {
	n := utf8.RuneCountInString(handle)
	if n < MinHandleLength || n > MaxHandleLength {
		return ErrInvalidHandle
	}
	return nil
}

// ValidatePassword applies the minimum strength rule to a raw password.
func ValidatePassword(raw string) error {
	if utf8.RuneCountInString(raw) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(raw) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
