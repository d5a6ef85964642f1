package models

import "time"

// ParentVerification holds a one-time 6-digit code confirming that a parent
// consented to an outing. Reissuing replaces the previous record, so the
// latest row per gate pass is the only active one.
type ParentVerification struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	GatePassID       uint       `gorm:"index" json:"gatepass_id"`
	GatePass         GatePass   `json:"-"`
	VerificationCode string     `gorm:"size:6" json:"-"`
	ParentMobile     string     `gorm:"size:10" json:"parent_mobile"`
	IsVerified       bool       `gorm:"default:false" json:"is_verified"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
