package models

import "time"

const (
	RoleStudent    = "student"
	RoleWarden     = "warden"
	RoleSecurity   = "security"
	RoleSuperadmin = "superadmin"
)

// User is the identity record behind every role. Users are never hard
// deleted; deactivation flips IsActive.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150" json:"username"`
	Email        string    `gorm:"size:254" json:"email,omitempty"`
	Password     string    `json:"-"`
	Role         string    `gorm:"size:20;index" json:"role"`
	Gender       string    `gorm:"size:1" json:"gender"`
	MobileNumber string    `gorm:"size:10" json:"mobile_number,omitempty"`
	IsApproved   bool      `gorm:"default:false" json:"is_approved"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
