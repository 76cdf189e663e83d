package service

import (
	"context"

	"github.com/google/uuid"

	"phoneauth/internal/dto"
)

type AuthService interface {
	RequestCode(ctx context.Context, r dto.SendCodeRequest) (*dto.SendCodeResponse, error)
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserSummary, error)
}
