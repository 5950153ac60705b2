// Package domain defines the passwordless auth contract.
package domain

import (
	"context"
	"errors"
	"time"
)

// Principal identifies the authenticated user. Email is the sole
// identity; there are no roles.
type Principal struct {
	Email string `json:"email"`
}

// Session is an established login session.
type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

type Service interface {
	// RequestLogin issues a single-use magic link and emails it to the
	// address. The response never reveals whether the address is known.
	RequestLogin(ctx context.Context, emailAddr string) error
	// VerifyLogin consumes a magic-link token and opens a session.
	VerifyLogin(ctx context.Context, token string) (Session, error)
	// Authenticate resolves a session token to its principal.
	Authenticate(ctx context.Context, token string) (Principal, error)
	Logout(ctx context.Context, token string) error
}

var (
	ErrInvalidToken  = errors.New("invalid_token")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrTooManyLogins = errors.New("too_many_login_requests")
)
