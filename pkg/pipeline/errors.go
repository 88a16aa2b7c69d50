package pipeline

import (
	"errors"
	"fmt"
)

// Error taxonomy. Both classes abort the run before any artifact is
// written; empty-result conditions are values, not errors, and a single
// region's render failure is contained in Result.RenderErrors.
var (
	// ErrDataIntegrity covers unusable input: missing required columns,
	// an unresolvable projection side, invalid configuration.
	ErrDataIntegrity = errors.New("data integrity failure")
	// ErrAlignment covers attribute rows that cannot be reconciled with
	// the graph node order.
	ErrAlignment = errors.New("alignment failure")
)

// StageError tags an error with the pipeline stage that raised it. The
// wrapped error carries its taxonomy class, so errors.Is works against
// both ErrDataIntegrity/ErrAlignment and the underlying sentinel.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func integrityError(stage string, err error) error {
	return &StageError{Stage: stage, Err: fmt.Errorf("%w: %w", ErrDataIntegrity, err)}
}

func alignmentError(stage string, err error) error {
	return &StageError{Stage: stage, Err: fmt.Errorf("%w: %w", ErrAlignment, err)}
}
