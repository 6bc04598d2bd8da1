package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a generation task.
type TaskStatus string

// Possible task status values, in lifecycle order.
const (
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusSubmitting TaskStatus = "submitting"
	TaskStatusGenerating TaskStatus = "generating"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusFailed     TaskStatus = "failed"
)

// Rank returns the position of the status in the lifecycle ordering
// queued < submitting < generating < done/failed. Terminal states share
// the highest rank. Unknown statuses rank below queued.
func (s TaskStatus) Rank() int {
	switch s {
	case TaskStatusQueued:
		return 1
	case TaskStatusSubmitting:
		return 2
	case TaskStatusGenerating:
		return 3
	case TaskStatusDone, TaskStatusFailed:
		return 4
	default:
		return 0
	}
}

// IsTerminal reports whether no further transitions can occur.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone || s == TaskStatusFailed
}

// Task is one end-to-end generation request, tracked from acceptance until
// it reaches a terminal state. Task state is volatile: it lives only for
// the lifetime of the process.
type Task struct {
	// ID is the caller-visible task identifier.
	ID uuid.UUID

	// Status is the task's position in the lifecycle state machine.
	Status TaskStatus

	// Progress is a coarse completion estimate in the range 0-100.
	Progress int

	// Message is a human-readable description of the current state.
	Message string

	// ProviderJobID is the provider-side job identifier, set once the
	// submission succeeds.
	ProviderJobID string

	// ResultImageURL holds the generated image on success. It is either a
	// fetchable URL or a data URI, depending on what the provider returned.
	ResultImageURL string

	// CreatedAt is the timestamp when the task was accepted.
	CreatedAt time.Time
}

// Snapshot is the read-only view of a task handed to progress subscribers
// and HTTP consumers.
type Snapshot struct {
	Status         TaskStatus `json:"status"`
	Progress       int        `json:"progress"`
	Message        string     `json:"message"`
	ProviderJobID  string     `json:"providerJobId,omitempty"`
	ResultImageURL string     `json:"imageUrl,omitempty"`
}

// Snapshot returns the task's current externally visible state.
func (t *Task) Snapshot() Snapshot {
	return Snapshot{
		Status:         t.Status,
		Progress:       t.Progress,
		Message:        t.Message,
		ProviderJobID:  t.ProviderJobID,
		ResultImageURL: t.ResultImageURL,
	}
}

// NewTask creates a task in the initial queued state.
func NewTask() Task {
	return Task{
		ID:        uuid.New(),
		Status:    TaskStatusQueued,
		Progress:  0,
		Message:   "waiting in queue",
		CreatedAt: time.Now(),
	}
}
