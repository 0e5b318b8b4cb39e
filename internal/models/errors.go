package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrReorderInProgress is returned when a scope is already being saved
	ErrReorderInProgress = &ValidationError{Message: "reorder already in progress for this scope"}
)

// ValidationError is returned for requests rejected before any write happens
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ReorderPhase names the step of the two-phase reorder that failed
type ReorderPhase string

const (
	PhaseQuarantine ReorderPhase = "quarantine"
	PhaseFinal      ReorderPhase = "final"
)

// PersistenceError is returned when a write to the store fails
type PersistenceError struct {
	Phase ReorderPhase
	Op    string
	Err   error
}

func (e *PersistenceError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("failed to persist %s (%s phase): %v", e.Op, e.Phase, e.Err)
	}
	return fmt.Sprintf("failed to persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
