// Package common defines shared constants and sentinel errors used across
// the MindEase server and client. Callers should use errors.Is to match
// these values; the HTTP layer is the only place that maps them to statuses.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Input errors (user-correctable).
	ErrValidation   = errors.New("validation error")
	ErrDuplicateKey = errors.New("duplicate key")

	// Authentication errors. Login failures are intentionally undifferentiated.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("no token provided")
	ErrInvalidToken       = errors.New("invalid token")

	// Infrastructure errors.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUpstreamFailure  = errors.New("upstream failure")
)
