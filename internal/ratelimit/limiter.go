// Package ratelimit gates code issuance per (phone, purpose) with a cooldown
// window. Every implementation checks and records in a single atomic step.
package ratelimit

import (
	"context"
	"time"

	"phoneauth/internal/domain"
)

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

type Limiter interface {
	CheckAndRecord(ctx context.Context, phone string, purpose domain.Purpose) (Decision, error)
}

func key(phone string, purpose domain.Purpose) string {
	return string(purpose) + ":" + phone
}
