package models

import "time"

// SecurityLog records events written by the request-admission gate (rate
// limiting, blocked input, login attempts). The gate itself is an external
// collaborator; the core only persists and queries these rows.
type SecurityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventType string    `gorm:"size:30;index" json:"event_type"`
	Message   string    `json:"message"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	UserID    *uint     `json:"user_id,omitempty"`
	Path      string    `gorm:"size:255" json:"path"`
	Method    string    `gorm:"size:10" json:"method"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}
