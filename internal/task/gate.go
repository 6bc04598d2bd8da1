package task

import "context"

// Gate is the submission admission control: a counting semaphore bounding
// how many jobs may be mid-submission to the provider at once. The
// reference deployment runs it at capacity 1, fully serializing submits;
// the capacity exists for a future multi-worker setup.
type Gate struct {
	slots chan struct{}
}

// NewGate creates a gate with the given capacity. Capacities below 1 are
// raised to 1.
func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{slots: make(chan struct{}, capacity)}
}

// Acquire blocks until a submission slot is free or the context is done.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot. Releasing more than was acquired is a no-op, so
// 0 <= InUse() <= capacity holds at all times.
func (g *Gate) Release() {
	select {
	case <-g.slots:
	default:
	}
}

// InUse reports the number of occupied slots.
func (g *Gate) InUse() int {
	return len(g.slots)
}
