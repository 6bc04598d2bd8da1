package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/styleshift/styleshift-api/internal/api/shared"
	"github.com/styleshift/styleshift-api/internal/dedup"
	"github.com/styleshift/styleshift-api/internal/domain"
	"github.com/styleshift/styleshift-api/internal/task"
)

// requestIDHeader carries an optional caller-supplied idempotency token.
// When present it replaces the content fingerprint for deduplication.
const requestIDHeader = "X-Request-Id"

// TaskStore is the task state the handlers read and create into.
type TaskStore interface {
	Create(task domain.Task)
	Get(id uuid.UUID) (domain.Snapshot, bool)
	Update(id uuid.UUID, mutate func(*domain.Task)) (domain.Snapshot, bool)
}

// Uploader turns an embedded image payload into a publicly fetchable URL.
type Uploader interface {
	Materialize(ctx context.Context, embedded string) (string, error)
}

// Submitter accepts entries for asynchronous processing.
type Submitter interface {
	Enqueue(entry task.Entry) error
}

// DedupCache collapses duplicate submissions onto an existing task id.
type DedupCache interface {
	LookupOrReserve(fp string, taskID uuid.UUID) (uuid.UUID, bool)
	Release(fp string)
}

// GenerateHandler handles generation submission requests.
type GenerateHandler struct {
	store            TaskStore
	cache            DedupCache
	uploader         Uploader
	queue            Submitter
	fallbackImageURL string
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewGenerateHandler creates a GenerateHandler wired to the given
// collaborators.
func NewGenerateHandler(
	store TaskStore,
	cache DedupCache,
	uploader Uploader,
	queue Submitter,
	fallbackImageURL string,
	logger *slog.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		store:            store,
		cache:            cache,
		uploader:         uploader,
		queue:            queue,
		fallbackImageURL: fallbackImageURL,
		validator:        validator.New(),
		logger:           logger.With("component", "generate_handler"),
	}
}

// Generate handles POST /api/generate requests. Accepted submissions get
// 202 with a task id; a duplicate inside the dedup window gets 200 with
// the existing task's id.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	prompt, err := expandPrompt(req.Prompt, req.StyleID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	// Dedup runs on the raw image reference so a duplicate is caught
	// before paying for another upload.
	fp := dedup.Fingerprint(prompt, req.ImageURL, r.Header.Get(requestIDHeader))

	newTask := domain.NewTask()
	if existingID, hit := h.cache.LookupOrReserve(fp, newTask.ID); hit {
		h.logger.Info("duplicate submission collapsed",
			"task_id", existingID,
			"trace_id", shared.GetTraceID(r.Context()))
		shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{TaskID: existingID.String()})
		return
	}

	imageURL, err := h.resolveImage(r.Context(), req.ImageURL)
	if err != nil {
		// The reservation points at a task that will never exist; free it
		// so a retry is not swallowed by the dedup window.
		h.cache.Release(fp)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "upload_failed", err)
		return
	}

	h.store.Create(newTask)

	entry := task.Entry{TaskID: newTask.ID, Prompt: prompt, ImageURL: imageURL}
	if err := h.queue.Enqueue(entry); err != nil {
		h.cache.Release(fp)
		h.store.Update(newTask.ID, func(t *domain.Task) {
			t.Status = domain.TaskStatusFailed
			t.Progress = 0
			t.Message = "server busy, task rejected"
		})
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("task accepted",
		"task_id", newTask.ID,
		"has_image", req.ImageURL != "",
		"style_id", req.StyleID,
		"trace_id", shared.GetTraceID(r.Context()))

	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateResponse{TaskID: newTask.ID.String()})
}

// resolveImage returns the public URL for the submission's image: embedded
// payloads are relayed to a public host, plain URLs pass through, and an
// absent image falls back to the configured sample.
func (h *GenerateHandler) resolveImage(ctx context.Context, imageRef string) (string, error) {
	switch {
	case strings.HasPrefix(imageRef, "data:"):
		return h.uploader.Materialize(ctx, imageRef)
	case imageRef != "":
		return imageRef, nil
	default:
		return h.fallbackImageURL, nil
	}
}

// expandPrompt prepends the chosen style preset's prompt template to the
// caller's prompt.
func expandPrompt(prompt, styleID string) (string, error) {
	if styleID == "" {
		return prompt, nil
	}
	option, ok := domain.StyleOptionByID(styleID)
	if !ok {
		return "", domain.ErrUnknownStyle
	}
	if prompt == "" {
		return option.PromptTemplate, nil
	}
	return option.PromptTemplate + ", " + prompt, nil
}
