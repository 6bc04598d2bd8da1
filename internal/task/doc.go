// Package task implements the job dispatch engine: the in-memory FIFO
// submission queue, the admission gate bounding concurrent provider
// submissions, and the single worker that drives each accepted job
// through the provider state machine to a terminal state.
package task
