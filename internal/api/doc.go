// Package api contains the HTTP handlers for the generation service:
// submission, progress streaming, result retrieval, the preset catalogue,
// and health. Handlers translate between HTTP and the task engine; they
// hold no task state of their own.
package api
