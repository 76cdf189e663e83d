package events

import "time"

type CodeIssued struct {
	Phone     string    `json:"phone"` // masked
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expiresAt"`
	At        time.Time `json:"at"`
}
