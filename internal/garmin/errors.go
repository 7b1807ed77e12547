// ABOUTME: Typed errors for the training service client.
// ABOUTME: Callers branch on these to decide retry/skip/abort behaviour.
package garmin

import "fmt"

// AuthError means the credential store is missing, expired or rejected.
// It is unrecoverable at the client level and aborts bulk operations.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("authentication failed (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// NotFoundError is returned per item; bulk operations continue past it.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// RateLimitError is surfaced without automatic retry; the caller backs off.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %s", e.Message)
}

// TransportError wraps network and server-side failures. The client retries
// once before surfacing it.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
