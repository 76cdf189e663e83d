package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrInvalidPurpose    = errors.New("invalid purpose")
	ErrInvalidCodeFormat = errors.New("invalid code format")
	ErrInvalidCode       = errors.New("invalid or expired code")
	ErrRateLimited       = errors.New("rate limited")
	ErrUserConflict      = errors.New("phone already registered")
	ErrUserNotFound      = errors.New("user not found")
)

// RateLimitedError carries how long the caller has to wait before another
// code can be issued. It matches ErrRateLimited with errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry after %ds", e.RetryAfterSeconds())
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// RetryAfterSeconds rounds up to whole seconds and never reports less than one.
func (e *RateLimitedError) RetryAfterSeconds() int64 {
	secs := int64((e.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
