package domain

import "time"

type User struct {
	ID        UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Phone     string    `gorm:"type:text;not null;uniqueIndex:ux_users_phone" db:"phone" json:"phone"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (User) TableName() string { return "users" }
