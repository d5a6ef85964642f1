package gperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("UNIQUE constraint failed")))

	assert.True(t, IsTransient(errors.New("database is locked")))
	assert.True(t, IsTransient(errors.New("database table is locked")))
	assert.True(t, IsTransient(errors.New("disk I/O error")))
	assert.True(t, IsTransient(&TransientStorageError{Err: errors.New("boom")}))
	assert.True(t, IsTransient(fmt.Errorf("batch failed: %w",
		&TransientStorageError{Err: errors.New("boom")})))
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := &InvalidTransition{Current: "pending", Action: "complete", Reason: "only returned passes can be completed"}
	assert.Contains(t, err.Error(), "complete")
	assert.Contains(t, err.Error(), "pending")
	assert.Contains(t, err.Error(), "only returned passes")
}

func TestValidationFormats(t *testing.T) {
	err := Validation("unknown status %q", "done")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, `unknown status "done"`, ve.Msg)
}
