// Package domain defines the core entities of the generation service and
// the errors shared across it.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a request fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrTaskNotFound is returned when no task exists for the given id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskNotReady is returned when a result is requested for a task
	// that has not reached a terminal state yet.
	ErrTaskNotReady = errors.New("task not ready")

	// ErrTaskFailed is returned when a result is requested for a task
	// that reached the failed state. The stored task message carries the
	// human-readable cause.
	ErrTaskFailed = errors.New("task failed")

	// ErrUnknownStyle is returned when a submission names a style preset
	// that is not in the catalogue.
	ErrUnknownStyle = errors.New("unknown style option")
)
