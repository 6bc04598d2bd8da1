package api

import (
	"errors"
	"net/http"

	"github.com/styleshift/styleshift-api/internal/domain"
	"github.com/styleshift/styleshift-api/internal/task"
)

// MapErrorToStatusCode maps domain errors to the appropriate HTTP status
// code. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnknownStyle):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTaskNotReady):
		return http.StatusAccepted
	case errors.Is(err, task.ErrQueueFull), errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the given error.
// Internal error details never reach the response body.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "Invalid request"
	case errors.Is(err, domain.ErrUnknownStyle):
		return "Unknown style"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, task.ErrQueueFull), errors.Is(err, task.ErrQueueClosed):
		return "Server busy, try again later"
	default:
		return "An internal error occurred"
	}
}
