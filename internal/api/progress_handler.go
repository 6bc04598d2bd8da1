package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/styleshift/styleshift-api/internal/api/shared"
	"github.com/styleshift/styleshift-api/internal/domain"
)

// statusUnknown is streamed as the initial snapshot when a subscriber
// shows up with a task id the registry has never seen. The id may simply
// not have been created yet, so the stream stays open.
const statusUnknown domain.TaskStatus = "unknown"

// Subscription is the read side of the progress broadcaster.
type Subscription interface {
	Subscribe(taskID uuid.UUID) (<-chan domain.Snapshot, func())
}

// ProgressHandler streams task progress over Server-Sent Events.
type ProgressHandler struct {
	store       TaskStore
	broadcaster Subscription
	logger      *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(store TaskStore, broadcaster Subscription, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{
		store:       store,
		broadcaster: broadcaster,
		logger:      logger.With("component", "progress_handler"),
	}
}

// Progress handles GET /api/progress/{taskID} requests. The response is an
// SSE stream: the first event is the task's current snapshot, every
// subsequent event is a transition. The stream ends when the client
// disconnects or the server shuts down.
func (h *ProgressHandler) Progress(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Comment frame confirms the stream is live before any data arrives.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	// Subscribe before reading the snapshot. A transition published in
	// between lands in the channel, and the rank guard below drops
	// anything older than what was already sent.
	events, cancel := h.broadcaster.Subscribe(taskID)
	defer cancel()

	snap, found := h.store.Get(taskID)
	if !found {
		snap = domain.Snapshot{Status: statusUnknown}
	}

	if err := writeEvent(w, flusher, snap); err != nil {
		return
	}
	lastRank := snap.Status.Rank()

	h.logger.Debug("progress subscriber attached", "task_id", taskID)

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("progress subscriber detached", "task_id", taskID)
			return
		case snap := <-events:
			if snap.Status.Rank() < lastRank {
				continue
			}
			if err := writeEvent(w, flusher, snap); err != nil {
				return
			}
			lastRank = snap.Status.Rank()
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
