// Package common defines shared constants and sentinel errors used across
// the repository, service and transport layers of Waulty. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Workflow errors.
	ErrInvalidLink       = errors.New("link invalid")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotDeletable      = errors.New("entity can no longer be deleted")
)
