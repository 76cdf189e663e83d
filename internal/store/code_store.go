package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"phoneauth/internal/domain"
)

type CodeStore struct{ db *gorm.DB }

func (s *Store) Codes() *CodeStore { return &CodeStore{db: s.DB} }

// Put stores c as the only code for its (phone, purpose), superseding any
// earlier one. Requires the unique index on verification_codes(phone, purpose).
func (cs *CodeStore) Put(ctx context.Context, c *domain.VerificationCode) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.Consumed = false

	return cs.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}, {Name: "purpose"}},
		DoUpdates: clause.AssignmentColumns([]string{"id", "code_hash", "expires_at", "consumed", "created_at"}),
	}).Create(c).Error
}

// FindActive returns the unconsumed, unexpired code for (phone, purpose).
func (cs *CodeStore) FindActive(ctx context.Context, phone string, purpose domain.Purpose, now time.Time) (*domain.VerificationCode, error) {
	var out domain.VerificationCode
	err := cs.db.WithContext(ctx).
		Where("phone = ? AND purpose = ? AND consumed = ? AND expires_at > ?", phone, purpose, false, now).
		First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &out, nil
}

// TryConsume flips consumed in one conditional UPDATE. Only the statement that
// changes the row succeeds; every concurrent duplicate sees zero rows affected.
// The follow-up read only labels the failure and never grants success.
func (cs *CodeStore) TryConsume(ctx context.Context, phone string, purpose domain.Purpose, codeHash string, now time.Time) (domain.ConsumeResult, error) {
	res := cs.db.WithContext(ctx).
		Model(&domain.VerificationCode{}).
		Where("phone = ? AND purpose = ? AND code_hash = ? AND consumed = ? AND expires_at > ?",
			phone, purpose, codeHash, false, now).
		Update("consumed", true)
	if res.Error != nil {
		return domain.ConsumeNotFound, res.Error
	}
	if res.RowsAffected == 1 {
		return domain.ConsumeOK, nil
	}

	var rec domain.VerificationCode
	if err := cs.db.WithContext(ctx).First(&rec, "phone = ? AND purpose = ?", phone, purpose).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ConsumeNotFound, nil
		}
		return domain.ConsumeNotFound, err
	}
	switch {
	case rec.Consumed:
		return domain.ConsumeNotFound, nil
	case !now.Before(rec.ExpiresAt):
		return domain.ConsumeExpired, nil
	case rec.CodeHash != codeHash:
		return domain.ConsumeMismatch, nil
	default:
		return domain.ConsumeNotFound, nil
	}
}

// PurgeExpired deletes expired and consumed codes.
func (cs *CodeStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := cs.db.WithContext(ctx).
		Where("expires_at <= ? OR consumed = ?", now, true).
		Delete(&domain.VerificationCode{})
	return res.RowsAffected, res.Error
}
