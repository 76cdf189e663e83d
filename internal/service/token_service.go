package service

import (
	"context"

	"phoneauth/internal/domain"
	"phoneauth/internal/session"
)

type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (session.Token, error)
	Verify(token string) (*session.Claims, error)
}
