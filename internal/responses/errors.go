package responses

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation error")
	// ErrInsufficientData matches every *InsufficientDataError via errors.Is.
	ErrInsufficientData = errors.New("insufficient data")
)

// ValidationError reports a value outside its declared domain. Index is the
// position of the offending response in the session, or -1 when the error is
// not tied to a single response.
type ValidationError struct {
	Index  int
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	where := e.Field
	if e.Index >= 0 {
		where = fmt.Sprintf("responses[%d].%s", e.Index, e.Field)
	}
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", where, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %v)", where, e.Reason, e.Value)
}

// Is lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InsufficientDataError reports that a component was handed fewer responses
// than it needs.
type InsufficientDataError struct {
	Component string
	Need      int
	Got       int
}

func (e *InsufficientDataError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: need at least %d responses, got %d", e.Component, e.Need, e.Got)
}

// Is lets callers match with errors.Is(err, ErrInsufficientData).
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// Invalid is shorthand for building a *ValidationError.
func Invalid(index int, field string, value any, reason string) *ValidationError {
	return &ValidationError{Index: index, Field: field, Value: value, Reason: reason}
}

// Reindex rewrites the Index of a *ValidationError using positions, which maps
// indexes of a sub-slice back to the enclosing session. Other errors pass
// through unchanged.
func Reindex(err error, positions []int) error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	if verr.Index < 0 || verr.Index >= len(positions) {
		return err
	}
	out := *verr
	out.Index = positions[verr.Index]
	return &out
}
