package models

import (
	"time"
)

// Role identifies which kind of principal an account belongs to. Every
// authenticated request resolves to exactly one role; there is no
// "any role" account.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// Account represents a registered principal. Accounts are unique per
// (role, email) pair; the same email may register separately as a user
// and as a vendor.
type Account struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthToken is an opaque bearer token record. Only the SHA-256 digest of
// the token is stored; the plaintext is returned once at login.
type AuthToken struct {
	TokenHash string    `json:"-"`
	AccountID string    `json:"account_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token is past its expiry.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// OTPCode is a short-lived one-time code used for registration
// verification and password reset.
type OTPCode struct {
	AccountID string    `json:"account_id"`
	Purpose   string    `json:"purpose"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// OTP purpose constants
const (
	OTPPurposeVerify = "verify"
	OTPPurposeReset  = "reset"
)
