// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"net/http"

	"github.com/styleshift/styleshift-api/internal/api/shared"
)

// TraceMiddleware attaches a trace ID to the request context so handlers
// and log lines emitted while serving the request can be correlated. An
// incoming X-Trace-ID header is honored; otherwise a new ID is generated.
// The trace ID is echoed back in the response headers.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")

		ctx := r.Context()
		if traceID != "" {
			ctx = shared.WithTraceID(ctx, traceID)
		} else {
			ctx = shared.SetTraceID(ctx)
		}

		w.Header().Set("X-Trace-ID", shared.GetTraceID(ctx))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
