package events

import "time"

type UserRegistered struct {
	UserID string    `json:"userId"`
	Phone  string    `json:"phone"` // masked
	At     time.Time `json:"at"`
}

type UserLoggedIn struct {
	UserID      string    `json:"userId"`
	Provisioned bool      `json:"provisioned"`
	At          time.Time `json:"at"`
}
