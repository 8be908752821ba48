// Package gitlab is the single point of outbound calls to the GitLab REST API.
//
// A Client is constructed per session and injected into callers; it owns the
// rate-limit state observed from response headers, converts HTTP failures into
// the typed errors in errors.go, and provides FetchBatch for issuing groups of
// calls with bounded concurrency and a fixed inter-batch delay.
//
// The client never retries on its own. A 429 surfaces as a RateLimitError
// carrying the server-reported reset time so the caller can decide whether to
// wait; WaitForLimit offers the one built-in throttling primitive for callers
// that want to block until the quota window rolls over.
package gitlab
