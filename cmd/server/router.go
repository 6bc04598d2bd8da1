package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/styleshift/styleshift-api/internal/api"
	apiMiddleware "github.com/styleshift/styleshift-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	generateHandler := api.NewGenerateHandler(
		app.registry,
		app.dedupCache,
		app.relay,
		app.queue,
		app.config.Server.FallbackImageURL,
		app.logger,
	)
	progressHandler := api.NewProgressHandler(app.registry, app.broadcaster, app.logger)
	resultHandler := api.NewResultHandler(app.registry, app.logger)
	optionsHandler := api.NewOptionsHandler()
	healthHandler := api.NewHealthHandler(app.config.Server.Port)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", generateHandler.Generate)
		r.Get("/progress/{taskID}", progressHandler.Progress)
		r.Get("/result/{taskID}", resultHandler.Result)
		r.Get("/options", optionsHandler.Options)
		r.Get("/health", healthHandler.Health)
	})

	return r
}
