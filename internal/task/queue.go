package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Common errors returned by the Queue.
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// Entry is one accepted job waiting for the worker: the task id plus the
// minimal payload needed to submit it. The queue owns an entry until the
// worker dequeues it.
type Entry struct {
	TaskID   uuid.UUID
	Prompt   string
	ImageURL string
}

// Queue is the buffered FIFO submission queue feeding the worker.
type Queue struct {
	entries chan Entry
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewQueue creates a queue with the specified buffer size.
func NewQueue(size int, logger *slog.Logger) *Queue {
	return &Queue{
		entries: make(chan Entry, size),
		logger:  logger,
	}
}

// Enqueue adds an entry for processing without blocking.
// Returns an error if the queue is full or closed.
func (q *Queue) Enqueue(entry Entry) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.entries <- entry:
		q.logger.Debug("task enqueued",
			"task_id", entry.TaskID,
			"queue_len", len(q.entries),
			"queue_cap", cap(q.entries))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.entries))
	}
}

// Close closes the queue, preventing further submission. The worker
// drains whatever is already buffered.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.entries)
		q.logger.Info("task queue closed")
	}
}

// Chan returns the read side for the worker.
func (q *Queue) Chan() <-chan Entry {
	return q.entries
}
