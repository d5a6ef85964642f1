package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"pending":           StatusPending,
		"Pending":           StatusPending,
		"  completed  ":     StatusCompleted,
		"Warden Approved":   StatusWardenApproved,
		"warden_approved":   StatusWardenApproved,
		"WARDEN REJECTED":   StatusWardenRejected,
		"Security Approved": StatusSecurityApproved,
		"security_approved": StatusSecurityApproved,
		"Returned":          StatusReturned,
	}
	for raw, want := range cases {
		got, ok := NormalizeStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestNormalizeStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "approved", "done", "in progress"} {
		_, ok := NormalizeStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestValidStatusesIsACopy(t *testing.T) {
	got := ValidStatuses()
	got[0] = "mutated"
	assert.Equal(t, StatusPending, ValidStatuses()[0])
}
