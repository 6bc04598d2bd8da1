// Package events carries task progress from the worker to any number of
// live subscribers. The broadcaster knows nothing about the transport;
// the SSE layer adapts its channels onto open connections.
package events

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/styleshift/styleshift-api/internal/domain"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls further behind than this simply misses intermediate
// snapshots; it never blocks the publisher or its peers.
const subscriberBuffer = 16

// ProgressBroadcaster fans task status snapshots out to the subscribers of
// each task id. Delivery is best-effort and retains no history: a
// subscriber sees the snapshots published after it subscribed, nothing
// earlier.
type ProgressBroadcaster struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]map[chan domain.Snapshot]struct{}
	logger      *slog.Logger
}

// NewProgressBroadcaster creates an empty broadcaster.
func NewProgressBroadcaster(logger *slog.Logger) *ProgressBroadcaster {
	return &ProgressBroadcaster{
		subscribers: make(map[uuid.UUID]map[chan domain.Snapshot]struct{}),
		logger:      logger.With("component", "progress_broadcaster"),
	}
}

// Subscribe registers a listener for the given task id and returns the
// channel snapshots arrive on together with a cancel function. Cancel
// removes the listener and prunes the task's subscriber set when it
// becomes empty; it is safe to call more than once.
func (b *ProgressBroadcaster) Subscribe(taskID uuid.UUID) (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, subscriberBuffer)

	b.mu.Lock()
	set, ok := b.subscribers[taskID]
	if !ok {
		set = make(map[chan domain.Snapshot]struct{})
		b.subscribers[taskID] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subscribers[taskID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.subscribers, taskID)
				}
			}
			b.mu.Unlock()
		})
	}

	return ch, cancel
}

// Publish delivers the snapshot to every subscriber of the task id. A
// subscriber whose buffer is full is skipped so one slow or dead listener
// cannot block the rest. Publishing to a task with no subscribers is a
// no-op.
func (b *ProgressBroadcaster) Publish(taskID uuid.UUID, snap domain.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.subscribers[taskID]
	if !ok {
		return
	}

	for ch := range set {
		select {
		case ch <- snap:
		default:
			// Subscriber not keeping up; it will catch the next snapshot.
			b.logger.Debug("dropping snapshot for slow subscriber",
				"task_id", taskID,
				"status", snap.Status)
		}
	}
}

// SubscriberCount reports the number of live subscribers for a task id.
func (b *ProgressBroadcaster) SubscriberCount(taskID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[taskID])
}
