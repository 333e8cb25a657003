// Package common defines shared constants and sentinel errors used across
// the SmartNotes server and client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrVersionConflict    = errors.New("version conflict")
	ErrorValidation       = errors.New("validation error")
	ErrTooManyAttempts    = errors.New("too many attempts")

	// Lock gate errors.
	ErrInvalidPin  = errors.New("invalid pin")
	ErrPinRequired = errors.New("pin verification required")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Export errors.
	ErrStorageDisabled = errors.New("object storage is not configured")
)
