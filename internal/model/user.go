package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin account. Username is optional; Currency defaults to USD.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Username     string    `json:"username,omitempty"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is one issued login token. The token itself is opaque.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"-"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CallerIdentity is the authenticated actor an operation runs as. It is
// passed explicitly to every mutating operation rather than read from
// ambient state.
type CallerIdentity struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Currency string `json:"currency"`
}

// IsZero reports whether no caller identity is available.
func (c CallerIdentity) IsZero() bool {
	return c == CallerIdentity{}
}

// DisplayName resolves the attribution name: username, else email, else "Unknown".
func (c CallerIdentity) DisplayName() string {
	if c.Username != "" {
		return c.Username
	}
	if c.Email != "" {
		return c.Email
	}
	return "Unknown"
}

// CurrencyCode returns the preferred currency code, defaulting to USD.
func (c CallerIdentity) CurrencyCode() string {
	if c.Currency == "" {
		return "USD"
	}
	return c.Currency
}
