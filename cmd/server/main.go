// Package main implements the entry point for the StyleShift API server,
// which accepts image generation requests, relays them to the Jimeng
// text-to-image provider, and streams progress to clients over SSE.
package main

import (
	"context"
	"log"
)

func main() {
	app, err := newApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.runner.Start()

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
