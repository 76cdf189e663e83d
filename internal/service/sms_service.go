package service

import (
	"context"
	"time"

	"phoneauth/internal/domain"
)

type SMSService interface {
	SendCode(ctx context.Context, phone, code string, purpose domain.Purpose, ttl time.Duration) error
}
