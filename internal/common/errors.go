// Package common defines shared constants and sentinel errors used across
// NoteVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Input / lookup errors.
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Login flow errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrDeliveryFailure    = errors.New("otp delivery failure")
	ErrRateLimited        = errors.New("too many attempts")

	// Token errors. Both imply "deny"; ErrTokenExpired exists so the
	// caller can show a clearer message.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Request authorization errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Anything unexpected (storage, transport).
	ErrInternal = errors.New("internal error")
)
