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

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

// Create inserts a new user. A phone that is already taken yields
// domain.ErrUserConflict.
func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
	}
	if err := u.db.WithContext(ctx).Create(usr).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserConflict
		}
		return err
	}
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindOrCreate returns the user for phone, inserting it when absent. The bool
// reports whether this call created the row; a concurrent insert for the same
// phone loses the ON CONFLICT race and reads the winner back.
func (u *UserStore) FindOrCreate(ctx context.Context, phone string, now time.Time) (*domain.User, bool, error) {
	candidate := &domain.User{ID: uuid.New(), Phone: phone, CreatedAt: now}
	res := u.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}}, DoNothing: true}).
		Create(candidate)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return candidate, true, nil
	}
	existing, err := u.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
