package models

import "time"

// LoginLog records a successful login for the admin audit view.
type LoginLog struct {
	ID        int       `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name,omitempty"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
