package task

import (
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func newEntry() Entry {
	return Entry{
		TaskID:   uuid.New(),
		Prompt:   "a prompt",
		ImageURL: "https://img.example/in.jpg",
	}
}

func TestNewQueue(t *testing.T) {
	queue := NewQueue(10, setupTestLogger())
	assert.NotNil(t, queue)
	assert.Equal(t, 10, cap(queue.entries))
}

func TestEnqueue(t *testing.T) {
	queue := NewQueue(2, setupTestLogger())

	require.NoError(t, queue.Enqueue(newEntry()))
	require.NoError(t, queue.Enqueue(newEntry()))

	err := queue.Enqueue(newEntry())
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestEnqueueAfterClose(t *testing.T) {
	queue := NewQueue(2, setupTestLogger())
	queue.Close()

	err := queue.Enqueue(newEntry())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	queue := NewQueue(2, setupTestLogger())
	queue.Close()
	queue.Close() // must not panic on double close
}

func TestFIFOOrder(t *testing.T) {
	queue := NewQueue(5, setupTestLogger())

	entries := make([]Entry, 5)
	for i := range entries {
		entries[i] = newEntry()
		require.NoError(t, queue.Enqueue(entries[i]))
	}
	queue.Close()

	var drained []Entry
	for e := range queue.Chan() {
		drained = append(drained, e)
	}
	assert.Equal(t, entries, drained)
}
