package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleCrew       = "crew"
)

type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      *string   `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"` // "admin", "dispatcher" or "crew"
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FCMToken is a Firebase Cloud Messaging device token registered by a user
type FCMToken struct {
	ID         int    `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	Token      string `json:"token" db:"token"`
	DeviceType string `json:"device_type" db:"device_type"` // "ios" or "android"
}
