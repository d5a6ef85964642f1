package models

import "time"

// Notification types emitted on workflow transitions.
const (
	NotificationNewRequest   = "new_request"
	NotificationApproved     = "approved"
	NotificationRejected     = "rejected"
	NotificationExit         = "exit"
	NotificationReturn       = "return"
	NotificationVerification = "verification"
)

// Notification is append-only; only IsRead is ever mutated.
type Notification struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index" json:"user_id"`
	GatePassID       uint      `gorm:"index" json:"gatepass_id"`
	NotificationType string    `gorm:"size:20" json:"notification_type"`
	Message          string    `json:"message"`
	IsRead           bool      `gorm:"default:false" json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}
