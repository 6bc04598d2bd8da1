package imagehost

import "errors"

// Sentinel errors returned by the upload relay.
var (
	// ErrInvalidDataURI is returned when the embedded image payload is not
	// valid base64 data.
	ErrInvalidDataURI = errors.New("invalid data URI payload")

	// ErrNoUploadURL is returned when a host accepted the upload but its
	// response carried no usable URL.
	ErrNoUploadURL = errors.New("upload host returned no usable URL")

	// ErrAllHostsFailed is returned when every attempt against every host
	// was exhausted. It wraps the last underlying cause.
	ErrAllHostsFailed = errors.New("all upload hosts failed")
)
