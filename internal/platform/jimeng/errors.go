package jimeng

import "errors"

// Sentinel errors returned by the provider client.
var (
	// ErrRateLimited indicates the provider rejected the call because of a
	// concurrency or rate limit. Such calls are worth retrying after a
	// backoff delay; everything else fails fast.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrNoJobID indicates the submit call succeeded but the response
	// carried no provider job id.
	ErrNoJobID = errors.New("provider returned no job id")

	// ErrSubmitDeadline indicates the submission retries exhausted the
	// task deadline without a successful submit.
	ErrSubmitDeadline = errors.New("submission deadline exceeded")

	// ErrJobFailed indicates the provider reported a terminal failure
	// status for the job.
	ErrJobFailed = errors.New("provider reported job failure")
)

// IsRateLimited reports whether err represents a transient capacity
// rejection that submitWithRetry should wait out.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
