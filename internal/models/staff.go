package models

// Warden is the profile attached to a User with role "warden".
type Warden struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"uniqueIndex" json:"user_id"`
	User       User   `json:"user,omitempty"`
	Name       string `gorm:"size:100" json:"name"`
	Department string `gorm:"size:100" json:"department"`
}

// Security is the profile attached to a User with role "security".
type Security struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex" json:"user_id"`
	User   User   `json:"user,omitempty"`
	Name   string `gorm:"size:100" json:"name"`
	Shift  string `gorm:"size:10" json:"shift"`
}
