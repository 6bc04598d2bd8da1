package main

import (
	"fmt"
	"log/slog"

	"github.com/styleshift/styleshift-api/internal/config"
	"github.com/styleshift/styleshift-api/internal/dedup"
	"github.com/styleshift/styleshift-api/internal/events"
	"github.com/styleshift/styleshift-api/internal/platform/imagehost"
	"github.com/styleshift/styleshift-api/internal/platform/jimeng"
	"github.com/styleshift/styleshift-api/internal/platform/logger"
	"github.com/styleshift/styleshift-api/internal/store"
	"github.com/styleshift/styleshift-api/internal/task"
)

// application holds the long-lived components of the service and wires
// them together: the task registry, the dedup cache, the submission queue,
// the provider client, the upload relay, and the worker runner.
type application struct {
	config *config.Config
	logger *slog.Logger

	registry    *store.TaskRegistry
	broadcaster *events.ProgressBroadcaster
	dedupCache  *dedup.Cache
	queue       *task.Queue
	relay       *imagehost.Relay
	provider    *jimeng.Client
	runner      *task.Runner
}

// newApplication loads configuration and constructs every component. No
// goroutines are started; callers start the runner and the HTTP server.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	provider, err := jimeng.NewClient(cfg.Provider, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider client: %w", err)
	}

	app := &application{
		config:      cfg,
		logger:      log,
		registry:    store.NewTaskRegistry(),
		broadcaster: events.NewProgressBroadcaster(log),
		dedupCache:  dedup.NewCache(cfg.Dedup.ActiveWindow, cfg.Dedup.SweepAge),
		queue:       task.NewQueue(cfg.Queue.Size, log),
		relay:       imagehost.NewRelay(cfg.Upload, log),
		provider:    provider,
	}

	app.runner = task.NewRunner(
		app.queue,
		task.NewGate(cfg.Queue.Concurrency),
		app.provider,
		app.registry,
		app.broadcaster,
		task.RunnerConfig{
			PollInterval: cfg.Provider.PollInterval,
			TaskDeadline: cfg.Provider.TaskDeadline,
		},
		log,
	)

	log.Info("application initialized",
		"port", cfg.Server.Port,
		"queue_size", cfg.Queue.Size,
		"poll_interval", cfg.Provider.PollInterval,
		"task_deadline", cfg.Provider.TaskDeadline)

	return app, nil
}

// cleanup stops accepting work and waits for the worker to finish the
// entry it is processing.
func (app *application) cleanup() {
	app.queue.Close()
	app.runner.Stop()
	app.logger.Info("application cleanup completed")
}
