package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/styleshift/styleshift-api/internal/domain"
	"github.com/styleshift/styleshift-api/internal/platform/jimeng"
)

// Progress constants for the non-terminal transitions.
const (
	progressSubmitting = 5
	progressGenerating = 20
)

// Terminal failure messages. Submission failures, provider-reported
// generation failures, and unparsable results are distinct failure
// classes and must stay distinguishable for operators. A poll that runs
// out the deadline shares the unparsable-result message.
const (
	msgSubmissionFailed = "submission failed"
	msgGenerationFailed = "generation failed"
	msgResultUnparsable = "generation finished but no image could be extracted (or timed out)"
	msgWaitingToSubmit  = "waiting to submit"
	msgGeneratingImage  = "generating image"
	msgGenerationDone   = "done"
)

// Provider is the slice of the generation client the runner needs.
type Provider interface {
	SubmitWithRetry(ctx context.Context, job jimeng.Job, deadline time.Time) (string, error)
	GetResult(ctx context.Context, jobID string) (jimeng.Result, error)
}

// Registry is the slice of the task store the runner mutates.
type Registry interface {
	Update(id uuid.UUID, mutate func(*domain.Task)) (domain.Snapshot, bool)
}

// Broadcaster receives every status transition the runner makes.
type Broadcaster interface {
	Publish(taskID uuid.UUID, snap domain.Snapshot)
}

// RunnerConfig holds the timing knobs of the worker loop.
type RunnerConfig struct {
	// PollInterval is the sleep between result polls.
	PollInterval time.Duration

	// TaskDeadline bounds one task's submission retries and polling
	// combined.
	TaskDeadline time.Duration
}

// Runner is the single long-lived worker draining the submission queue.
// It processes one task fully, through submission and the entire poll
// loop, before dequeuing the next.
type Runner struct {
	queue       *Queue
	gate        *Gate
	provider    Provider
	registry    Registry
	broadcaster Broadcaster
	config      RunnerConfig
	logger      *slog.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	startOnce  sync.Once
}

// NewRunner creates a runner. Start must be called before entries are
// processed.
func NewRunner(
	queue *Queue,
	gate *Gate,
	provider Provider,
	registry Registry,
	broadcaster Broadcaster,
	config RunnerConfig,
	logger *slog.Logger,
) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		queue:       queue,
		gate:        gate,
		provider:    provider,
		registry:    registry,
		broadcaster: broadcaster,
		config:      config,
		logger:      logger.With("component", "task_runner"),
		ctx:         ctx,
		cancelFunc:  cancel,
	}
}

// Start launches the worker goroutine. Calling Start on a runner that is
// already running is a no-op.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.worker()
	})
}

// Stop cancels the worker and waits for it to finish the entry in flight.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// worker drains the queue strictly FIFO until the queue closes or the
// runner is stopped.
func (r *Runner) worker() {
	defer r.wg.Done()

	r.logger.Info("worker started")

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Info("worker stopping")
			return
		case entry, ok := <-r.queue.Chan():
			if !ok {
				r.logger.Info("queue closed, worker stopping")
				return
			}
			r.process(entry)
		}
	}
}

// process drives one task from queued to a terminal state. A failure in
// one task never escapes to the worker loop: subsequent queued tasks must
// not be blocked by a bad one.
func (r *Runner) process(entry Entry) {
	logger := r.logger.With("task_id", entry.TaskID)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic while processing task", "panic", rec)
			r.transition(entry.TaskID, func(t *domain.Task) {
				t.Status = domain.TaskStatusFailed
				t.Progress = 0
				t.Message = msgSubmissionFailed
			})
		}
	}()

	deadline := time.Now().Add(r.config.TaskDeadline)

	logger.Info("processing task")

	r.transition(entry.TaskID, func(t *domain.Task) {
		t.Status = domain.TaskStatusSubmitting
		t.Progress = progressSubmitting
		t.Message = msgWaitingToSubmit
	})

	jobID, err := r.submit(entry, deadline)
	if err != nil {
		logger.Error("submission failed", "error", err)
		r.transition(entry.TaskID, func(t *domain.Task) {
			t.Status = domain.TaskStatusFailed
			t.Progress = 0
			t.Message = msgSubmissionFailed
		})
		return
	}

	logger.Info("job submitted", "provider_job_id", jobID)

	r.transition(entry.TaskID, func(t *domain.Task) {
		t.Status = domain.TaskStatusGenerating
		t.Progress = progressGenerating
		t.Message = msgGeneratingImage
		t.ProviderJobID = jobID
	})

	image, outcome := r.poll(jobID, deadline, logger)
	switch outcome {
	case pollExtracted:
		logger.Info("task completed")
		r.transition(entry.TaskID, func(t *domain.Task) {
			t.Status = domain.TaskStatusDone
			t.Progress = 100
			t.Message = msgGenerationDone
			t.ResultImageURL = image
		})
	case pollProviderFailed:
		logger.Error("provider reported generation failure")
		r.transition(entry.TaskID, func(t *domain.Task) {
			t.Status = domain.TaskStatusFailed
			t.Progress = 0
			t.Message = msgGenerationFailed
		})
	default:
		logger.Error("no image extracted before deadline")
		r.transition(entry.TaskID, func(t *domain.Task) {
			t.Status = domain.TaskStatusFailed
			t.Progress = 0
			t.Message = msgResultUnparsable
		})
	}
}

// submit acquires a submission slot, runs the retrying submit call, and
// releases the slot on every path.
func (r *Runner) submit(entry Entry, deadline time.Time) (string, error) {
	if err := r.gate.Acquire(r.ctx); err != nil {
		return "", err
	}
	defer r.gate.Release()

	return r.provider.SubmitWithRetry(r.ctx, jimeng.Job{
		Prompt:   entry.Prompt,
		ImageURL: entry.ImageURL,
	}, deadline)
}

type pollOutcome int

const (
	pollExhausted pollOutcome = iota
	pollExtracted
	pollProviderFailed
)

// poll asks the provider for the job result every PollInterval until the
// deadline. Transient call failures are logged and retried on the next
// tick; only an explicit provider failure status or deadline exhaustion
// ends the loop without an image.
func (r *Runner) poll(jobID string, deadline time.Time, logger *slog.Logger) (string, pollOutcome) {
	for time.Now().Before(deadline) {
		if err := sleepCtx(r.ctx, r.config.PollInterval); err != nil {
			return "", pollExhausted
		}

		result, err := r.provider.GetResult(r.ctx, jobID)
		if err != nil {
			logger.Warn("poll failed, retrying next tick", "error", err)
			continue
		}

		if result.Failed() {
			return "", pollProviderFailed
		}
		if result.Done() {
			if image, ok := jimeng.ExtractImage(result); ok {
				return image, pollExtracted
			}
			return "", pollExhausted
		}

		logger.Debug("job still running", "provider_status", result.Status)
	}
	return "", pollExhausted
}

// transition applies the mutation and synchronously publishes the
// resulting snapshot before the worker proceeds.
func (r *Runner) transition(taskID uuid.UUID, mutate func(*domain.Task)) {
	snap, ok := r.registry.Update(taskID, mutate)
	if !ok {
		r.logger.Error("transition for unknown task", "task_id", taskID)
		return
	}
	r.broadcaster.Publish(taskID, snap)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
