// Package common defines shared constants and sentinel errors used across
// the realty server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Authentication errors. ErrInvalidCredentials covers both an unknown
	// username and a wrong password so the two are indistinguishable to the
	// caller. ErrUnauthenticated covers every bad-token outcome uniformly.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// Authorization / throttling errors.
	ErrForbidden   = errors.New("forbidden")
	ErrRateLimited = errors.New("rate limit exceeded")

	// Token lifecycle errors (normalized to ErrUnauthenticated before they
	// reach the transport).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
