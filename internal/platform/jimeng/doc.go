// Package jimeng is the client for the asynchronous image generation
// provider behind visual.volcengineapi.com. It signs each call with the
// provider's HMAC-SHA256 request signature and exposes exactly two remote
// operations: submitting a generation job and fetching its result.
//
// The client carries no state between calls beyond its configuration; all
// retry decisions are local to the call that makes them.
package jimeng
