package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/styleshift/styleshift-api/internal/api/shared"
	"github.com/styleshift/styleshift-api/internal/domain"
)

// ResultHandler serves the final outcome of a task.
type ResultHandler struct {
	store  TaskStore
	logger *slog.Logger
}

// NewResultHandler creates a ResultHandler.
func NewResultHandler(store TaskStore, logger *slog.Logger) *ResultHandler {
	return &ResultHandler{
		store:  store,
		logger: logger.With("component", "result_handler"),
	}
}

// Result handles GET /api/result/{taskID} requests. Terminal success
// returns the image URL; a task still in flight returns 202 with its
// current status; terminal failure returns 500 carrying the stored
// failure message.
func (h *ResultHandler) Result(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	snap, found := h.store.Get(taskID)
	if !found {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	switch {
	case snap.Status == domain.TaskStatusFailed:
		shared.RespondWithError(w, r, http.StatusInternalServerError, snap.Message)
	case snap.Status != domain.TaskStatusDone:
		shared.RespondWithJSON(w, r, http.StatusAccepted, ResultPendingResponse{Status: string(snap.Status)})
	default:
		shared.RespondWithJSON(w, r, http.StatusOK, ResultResponse{ImageURL: snap.ResultImageURL})
	}
}
