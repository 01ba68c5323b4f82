package ai

import "fmt"

// TransportError reports a failed call to an external AI provider:
// network problems, auth rejections, rate limits, malformed provider
// responses. It never carries content-level validation failures.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

// Error implements error interface
func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ai transport: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("ai transport: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether the provider rejected the call for quota reasons.
func (e *TransportError) IsRateLimited() bool {
	return e.Status == 429
}
