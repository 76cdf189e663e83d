package domain

import (
	"strings"
	"time"
)

type Purpose string

const (
	PurposeLogin    Purpose = "login"
	PurposeRegister Purpose = "register"
)

func ParsePurpose(raw string) (Purpose, error) {
	switch p := Purpose(strings.ToLower(strings.TrimSpace(raw))); p {
	case PurposeLogin, PurposeRegister:
		return p, nil
	default:
		return "", ErrInvalidPurpose
	}
}

func (p Purpose) String() string { return string(p) }

// VerificationCode is the single row kept per (phone, purpose). Issuing a new
// code overwrites the row, which is what supersedes the previous code.
// CodeHash holds the keyed digest of the code, never the code itself.
type VerificationCode struct {
	ID        CodeID    `gorm:"type:uuid;primaryKey" db:"id"`
	Phone     string    `gorm:"type:text;not null;uniqueIndex:ux_verification_codes_phone_purpose,priority:1" db:"phone"`
	Purpose   Purpose   `gorm:"type:text;not null;uniqueIndex:ux_verification_codes_phone_purpose,priority:2" db:"purpose"`
	CodeHash  string    `gorm:"type:text;not null" db:"code_hash"`
	ExpiresAt time.Time `gorm:"not null;index" db:"expires_at"`
	Consumed  bool      `gorm:"not null" db:"consumed"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (VerificationCode) TableName() string { return "verification_codes" }

func (v *VerificationCode) Active(now time.Time) bool {
	return !v.Consumed && now.Before(v.ExpiresAt)
}

// ConsumeResult is the outcome of an attempt to consume a code.
type ConsumeResult int

const (
	ConsumeOK ConsumeResult = iota
	ConsumeMismatch
	ConsumeExpired
	ConsumeNotFound
)

func (r ConsumeResult) String() string {
	switch r {
	case ConsumeOK:
		return "consumed"
	case ConsumeMismatch:
		return "mismatch"
	case ConsumeExpired:
		return "expired"
	default:
		return "not_found"
	}
}
