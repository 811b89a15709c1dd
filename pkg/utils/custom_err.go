package utils

import (
	"errors"
	"time"
)

var (
	ErrUnauthenticated    = errors.New("unauthorized")
	ErrValidation         = errors.New("invalid request")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrUpstream           = errors.New("upstream service error")
	ErrDatabaseError      = errors.New("database error")
	ErrNotFound           = errors.New("not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// RateLimitError carries the window information for a rejected request.
// It matches ErrRateLimited with errors.Is.
type RateLimitError struct {
	Limit      int
	Unit       string
	Window     time.Duration
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
