package dedup

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFingerprintTokenTakesPrecedence(t *testing.T) {
	fp := Fingerprint("a cat", "https://img.example/cat.jpg", "req-123")
	assert.Equal(t, "req-123", fp)
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("a cat", "https://img.example/cat.jpg", "")
	b := Fingerprint("a cat", "https://img.example/cat.jpg", "")
	c := Fingerprint("a dog", "https://img.example/cat.jpg", "")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // sha256 hex
}

func TestFingerprintIgnoresDataURIPrefix(t *testing.T) {
	// Same payload behind different data-URI metadata must collapse.
	a := Fingerprint("p", "data:image/jpeg;base64,Zm9vYmFy", "")
	b := Fingerprint("p", "data:image/png;base64,Zm9vYmFy", "")
	assert.Equal(t, a, b)

	// But different payloads must not.
	c := Fingerprint("p", "data:image/jpeg;base64,b3RoZXI=", "")
	assert.NotEqual(t, a, c)
}

func TestFingerprintNoImage(t *testing.T) {
	a := Fingerprint("p", "", "")
	b := Fingerprint("p", "", "")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Fingerprint("p", "https://img.example/x.jpg", ""))
}

func TestLookupOrReserveCollapsesDuplicates(t *testing.T) {
	cache := NewCache(10*time.Second, time.Minute)
	first := uuid.New()

	existing, hit := cache.LookupOrReserve("fp", first)
	assert.False(t, hit)
	assert.Equal(t, uuid.Nil, existing)

	existing, hit = cache.LookupOrReserve("fp", uuid.New())
	assert.True(t, hit)
	assert.Equal(t, first, existing)
}

func TestLookupOrReserveExpiredWindow(t *testing.T) {
	cache := NewCache(10*time.Second, time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	first := uuid.New()
	_, hit := cache.LookupOrReserve("fp", first)
	assert.False(t, hit)

	// Just past the active window: the entry no longer suppresses, and
	// the fingerprint is re-reserved for the new task.
	now = now.Add(11 * time.Second)
	second := uuid.New()
	_, hit = cache.LookupOrReserve("fp", second)
	assert.False(t, hit)

	existing, hit := cache.LookupOrReserve("fp", uuid.New())
	assert.True(t, hit)
	assert.Equal(t, second, existing)
}

func TestSweepReclaimsOldEntries(t *testing.T) {
	cache := NewCache(10*time.Second, time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.LookupOrReserve("old", uuid.New())
	assert.Equal(t, 1, cache.Len())

	// Any call past the sweep age reclaims the stale entry.
	now = now.Add(2 * time.Minute)
	cache.LookupOrReserve("new", uuid.New())
	assert.Equal(t, 1, cache.Len())
}

func TestRelease(t *testing.T) {
	cache := NewCache(10*time.Second, time.Minute)
	first := uuid.New()
	cache.LookupOrReserve("fp", first)

	cache.Release("fp")

	second := uuid.New()
	_, hit := cache.LookupOrReserve("fp", second)
	assert.False(t, hit)
}
