package service

import (
	"context"

	"phoneauth/internal/domain"
)

// Verifier decides whether a submitted code is valid, consuming it on success.
type Verifier interface {
	Verify(ctx context.Context, phone string, purpose domain.Purpose, code string) error
}
