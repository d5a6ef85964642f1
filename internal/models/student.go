package models

import "time"

// Student is the profile attached to a User with role "student".
// HallTicketNo and ParentMobile are globally unique.
type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex" json:"user_id"`
	User         User      `json:"user,omitempty"`
	HallTicketNo string    `gorm:"uniqueIndex;size:20" json:"hall_ticket_no"`
	StudentName  string    `gorm:"size:100" json:"student_name"`
	RoomNo       string    `gorm:"size:10" json:"room_no"`
	ParentName   string    `gorm:"size:100" json:"parent_name"`
	ParentMobile string    `gorm:"uniqueIndex;size:10" json:"parent_mobile"`
	Photo        string    `json:"photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
