package marketing

import (
	"errors"
	"fmt"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
)

// ErrMissingTiming is returned by timestamp generation when the transcript
// carries no chapter timing. There is nothing to anchor a placeholder to, so
// unlike the other kinds this aborts the request before any completion call.
var ErrMissingTiming = errors.New("transcript has no chapters to anchor timestamps")

// ValidationReason narrows down why a completion response was rejected.
type ValidationReason string

const (
	ReasonParse      ValidationReason = "parse"      // Response is not JSON
	ReasonShape      ValidationReason = "shape"      // A required key is missing
	ReasonConstraint ValidationReason = "constraint" // A count, type, or length bound is violated
)

// ValidationError reports a completion response that failed parsing or shape
// validation. All three reasons drive the same control flow (one repair
// attempt, then fallback) but the reason is kept for diagnosis.
type ValidationError struct {
	Kind   entities.ArtifactKind
	Reason ValidationReason
	Field  string
	Err    error
}

// Error implements error interface
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s response invalid (%s)", e.Kind, e.Reason)
	if e.Field != "" {
		msg += ": field " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func parseErr(kind entities.ArtifactKind, err error) *ValidationError {
	return &ValidationError{Kind: kind, Reason: ReasonParse, Err: err}
}

func shapeErr(kind entities.ArtifactKind, field string) *ValidationError {
	return &ValidationError{Kind: kind, Reason: ReasonShape, Field: field}
}

func constraintErr(kind entities.ArtifactKind, field string, err error) *ValidationError {
	return &ValidationError{Kind: kind, Reason: ReasonConstraint, Field: field, Err: err}
}
