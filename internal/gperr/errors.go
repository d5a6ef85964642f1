// Package gperr defines the error taxonomy shared by the workflow engine,
// the verification subsystem and the bulk import pipeline. Controllers map
// these onto HTTP statuses with errors.As / errors.Is.
package gperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyVerified is returned when a verification code is submitted
	// for a gate pass whose parent verification is already complete.
	ErrAlreadyVerified = errors.New("parent verification already completed")

	// ErrCodeMismatch is returned when a submitted code does not match the
	// latest issued verification code.
	ErrCodeMismatch = errors.New("verification code does not match")
)

// ValidationError reports malformed input caught before any mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a workflow guard failure. It always carries the
// current state, the attempted action and the unmet precondition.
type InvalidTransition struct {
	Current string
	Action  string
	Reason  string
}

func (e *InvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s a gate pass in state %q: %s", e.Action, e.Current, e.Reason)
}

// NotFound reports a referenced entity that does not exist.
type NotFound struct {
	Entity string
	Key    interface{}
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

// Conflict reports a uniqueness violation (duplicate hall ticket, username,
// mobile number).
type Conflict struct {
	Msg string
}

func (e *Conflict) Error() string {
	return e.Msg
}

// TransientStorageError wraps a retryable lock or I/O fault from the storage
// backend.
type TransientStorageError struct {
	Err error
}

func (e *TransientStorageError) Error() string {
	return "transient storage error: " + e.Err.Error()
}

func (e *TransientStorageError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying. Besides explicit
// TransientStorageError wrappers it recognizes the lock and I/O faults the
// embedded sqlite backend raises under short-lived exclusive locks.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var tse *TransientStorageError
	if errors.As(err, &tse) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "disk i/o error")
}
