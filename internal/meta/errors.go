package meta

import (
	"fmt"

	"nixos-type-generator/internal/errs"
)

// AnnotationError reports a malformed annotation. It is fatal for the
// compile call that encountered it.
type AnnotationError struct {
	Path       string // field or type the annotation is attached to
	Annotation string // tag key or directive
	Message    string
	Suggestion string // closest known spelling, if any
}

// Error implements the error interface.
func (e *AnnotationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Path, e.Annotation, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

// Unwrap makes errors.Is(err, errs.ErrAnnotation) hold.
func (e *AnnotationError) Unwrap() error {
	return errs.ErrAnnotation
}
