package github

import (
	"fmt"
	"time"
)

// NetworkError indicates a transport-level failure before any HTTP status
// was received.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the API responded with a throttling status
// (HTTP 403 or 429). RetryAfter carries the server's suggested wait,
// defaulting to 60 seconds when the Retry-After header is absent.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// HTTPError indicates a non-2xx response that is not a rate limit signal.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %s", e.Status)
}

// DecodeError indicates a malformed response payload.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
