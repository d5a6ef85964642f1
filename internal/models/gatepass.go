package models

import (
	"strings"
	"time"
)

// Gate pass lifecycle states. warden_rejected is a terminal side branch
// reachable only from pending; everything else advances left to right.
const (
	StatusPending          = "pending"
	StatusWardenApproved   = "warden_approved"
	StatusWardenRejected   = "warden_rejected"
	StatusSecurityApproved = "security_approved"
	StatusReturned         = "returned"
	StatusCompleted        = "completed"
)

var validStatuses = []string{
	StatusPending, StatusWardenApproved, StatusWardenRejected,
	StatusSecurityApproved, StatusReturned, StatusCompleted,
}

// statusSynonyms maps the human-readable spellings accepted by bulk import
// onto canonical status values.
var statusSynonyms = map[string]string{
	"pending":           StatusPending,
	"warden approved":   StatusWardenApproved,
	"warden_approved":   StatusWardenApproved,
	"warden rejected":   StatusWardenRejected,
	"warden_rejected":   StatusWardenRejected,
	"security approved": StatusSecurityApproved,
	"security_approved": StatusSecurityApproved,
	"returned":          StatusReturned,
	"completed":         StatusCompleted,
}

// NormalizeStatus lowercases raw and resolves known synonyms. The second
// return value reports whether the result is a valid status.
func NormalizeStatus(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := statusSynonyms[s]; ok {
		return canonical, true
	}
	for _, v := range validStatuses {
		if s == v {
			return s, true
		}
	}
	return s, false
}

// ValidStatuses returns the canonical status values in lifecycle order.
func ValidStatuses() []string {
	out := make([]string, len(validStatuses))
	copy(out, validStatuses)
	return out
}

// GatePass is a request-and-approval record for a student's temporary exit
// from campus housing. Dates are stored date-only; times as "HH:MM" in 24h
// form so lexical comparison matches chronological order.
type GatePass struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	StudentID             uint       `gorm:"index" json:"student_id"`
	Student               Student    `json:"student,omitempty"`
	OutingDate            time.Time  `gorm:"type:date" json:"outing_date"`
	OutingTime            string     `gorm:"size:5" json:"outing_time"`
	ExpectedReturnDate    time.Time  `gorm:"type:date" json:"expected_return_date"`
	ExpectedReturnTime    string     `gorm:"size:5" json:"expected_return_time"`
	SecurityExitDate      *time.Time `gorm:"type:date" json:"security_exit_date,omitempty"`
	SecurityExitTime      string     `gorm:"size:5" json:"security_exit_time,omitempty"`
	ActualReturnDate      *time.Time `gorm:"type:date" json:"actual_return_date,omitempty"`
	ActualReturnTime      string     `gorm:"size:5" json:"actual_return_time,omitempty"`
	Purpose               string     `json:"purpose"`
	Photo                 string     `json:"photo,omitempty"`
	Status                string     `gorm:"size:20;index;default:pending" json:"status"`
	WardenApproval        bool       `gorm:"default:false" json:"warden_approval"`
	SecurityApproval      bool       `gorm:"default:false" json:"security_approval"`
	WardenRejectionReason string     `json:"warden_rejection_reason,omitempty"`
	ParentVerification    bool       `gorm:"default:false" json:"parent_verification"`
	ReturnNotes           string     `json:"return_notes,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
