// Package common defines shared constants and sentinel errors used across
// client and server layers of Mystery Message. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrInvalidID       = errors.New("invalid id")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrNotConfigured  = errors.New("not configured")

	// Validation errors.
	ErrorValidation  = errors.New("validation error")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrInvalidCode   = errors.New("incorrect verification code")
	ErrCodeExpired   = errors.New("verification code has expired")

	// Message-specific errors.
	ErrNotAcceptingMessages = errors.New("user is not accepting messages")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
