package gitlab

import (
	"errors"
	"fmt"
	"time"
)

// ErrBranchNotFound is returned when a merge request references a source
// branch that does not exist in the project.
var ErrBranchNotFound = errors.New("branch does not exist")

// NetworkError wraps a transport-level failure where no HTTP response was
// received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError represents a 401 response. Unless the request was issued with
// PropagateAuthError, the client has already invoked its session-invalidation
// handler by the time the caller sees this error.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// RateLimitError represents a 429 response. The client never retries these;
// retry policy belongs to the caller.
type RateLimitError struct {
	// Reset is the server-reported time at which the quota window rolls
	// over. Zero when the server did not report one.
	Reset time.Time
	// RetryAfter is the Retry-After header value in seconds, 0 when absent.
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfter)
	}
	if !e.Reset.IsZero() {
		return fmt.Sprintf("rate limited until %s", e.Reset.Format(time.RFC3339))
	}
	return "rate limited"
}

// NotFoundError represents a 404 response.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ValidationError represents a 4xx response other than 401, 404, or 429.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request rejected (status %d): %s", e.Status, e.Message)
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsRateLimited reports whether err is a rate-limit rejection.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
