package dto

import (
	"time"

	"phoneauth/internal/domain"
)

type UserSummary struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserSummary(u *domain.User) UserSummary {
	return UserSummary{ID: u.ID.String(), Phone: u.Phone, CreatedAt: u.CreatedAt}
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}

type ErrorResponse struct {
	Success           bool   `json:"success"`
	Error             string `json:"error"`
	RetryAfterSeconds int64  `json:"retryAfterSeconds,omitempty"`
}
