// Package store holds the authoritative in-memory task state. Task state
// is intentionally volatile: nothing survives a process restart, and tasks
// are never deleted while the process lives. Both are caller-visible
// limitations of the service, not storage details to hide.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/styleshift/styleshift-api/internal/domain"
)

// TaskRegistry is the mapping from task id to current task record. It is
// mutated only by the submission handler (creation) and the worker
// (transitions); everything else reads snapshots.
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]domain.Task
}

// NewTaskRegistry creates an empty registry.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		tasks: make(map[uuid.UUID]domain.Task),
	}
}

// Create stores a new task record.
func (r *TaskRegistry) Create(task domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
}

// Get returns a snapshot of the task's current state and whether the id
// is known.
func (r *TaskRegistry) Get(id uuid.UUID) (domain.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return domain.Snapshot{}, false
	}
	return task.Snapshot(), true
}

// Update applies mutate to the stored task under the registry lock and
// returns the resulting snapshot. Unknown ids report ok false and mutate
// is not called.
func (r *TaskRegistry) Update(id uuid.UUID, mutate func(*domain.Task)) (domain.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return domain.Snapshot{}, false
	}
	mutate(&task)
	r.tasks[id] = task
	return task.Snapshot(), true
}

// Len reports the number of tracked tasks.
func (r *TaskRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
