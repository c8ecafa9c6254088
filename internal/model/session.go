package model

import "time"

// SessionData contains the data stored with a session token.
type SessionData struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarHash  string    `json:"avatar_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
