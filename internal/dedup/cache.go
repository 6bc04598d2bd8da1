// Package dedup suppresses duplicate generation submissions within a short
// window. It is a best-effort optimization: two tasks slipping through for
// the same input is acceptable, two different inputs collapsing into one
// task is not.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// noImagePayload stands in for the image part of the digest when a
// submission carries no image at all.
const noImagePayload = "NO_IMAGE"

// Fingerprint derives the deduplication key for a submission. A non-empty
// caller-supplied token is used verbatim (the caller asserts uniqueness);
// otherwise the key is a sha256 digest over the prompt and the image
// reference. For data URIs only the payload after the comma is digested,
// so re-encoded metadata in the prefix does not defeat deduplication.
func Fingerprint(prompt, imageRef, token string) string {
	if token != "" {
		return token
	}

	payload := noImagePayload
	if imageRef != "" {
		payload = imageRef
		if strings.HasPrefix(imageRef, "data:") {
			if _, after, found := strings.Cut(imageRef, ","); found && after != "" {
				payload = after
			}
		}
	}

	sum := sha256.Sum256([]byte(prompt + "|" + payload))
	return hex.EncodeToString(sum[:])
}

type entry struct {
	taskID     uuid.UUID
	reservedAt time.Time
}

// Cache maps fingerprints to recently created task ids. Entries younger
// than the active window suppress new submissions; entries older than the
// sweep age are reclaimed opportunistically on each call, so no background
// timer is needed.
type Cache struct {
	mu           sync.Mutex
	entries      map[string]entry
	activeWindow time.Duration
	sweepAge     time.Duration
	now          func() time.Time
}

// NewCache creates a dedup cache with the given suppression window and
// reclamation age.
func NewCache(activeWindow, sweepAge time.Duration) *Cache {
	return &Cache{
		entries:      make(map[string]entry),
		activeWindow: activeWindow,
		sweepAge:     sweepAge,
		now:          time.Now,
	}
}

// LookupOrReserve returns the task id previously reserved for fp if the
// reservation is still inside the active window. Otherwise it reserves fp
// for taskID and reports no existing task, signaling the caller to proceed
// with a fresh submission.
func (c *Cache) LookupOrReserve(fp string, taskID uuid.UUID) (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweepLocked(now)

	if e, ok := c.entries[fp]; ok && now.Sub(e.reservedAt) < c.activeWindow {
		return e.taskID, true
	}

	c.entries[fp] = entry{taskID: taskID, reservedAt: now}
	return uuid.Nil, false
}

// Release removes a reservation. It is called only when the reserved
// submission never became a task (the upload relay failed); a failed task
// keeps its reservation until the window expires.
func (c *Cache) Release(fp string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fp)
}

// Len reports the number of live reservations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) sweepLocked(now time.Time) {
	for fp, e := range c.entries {
		if now.Sub(e.reservedAt) > c.sweepAge {
			delete(c.entries, fp)
		}
	}
}
