// Package common defines shared constants and sentinel errors used across
// client and server layers of registo. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// ErrIndexRequired is returned when a snapshot is requested in an order
	// the collection has no index for.
	ErrIndexRequired = errors.New("index required for requested ordering")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("missing token")
	ErrTokenExpired = errors.New("token expired")
)
