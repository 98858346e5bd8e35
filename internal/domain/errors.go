package domain

import (
	"errors"
	"fmt"
)

// Common domain errors reported by the poll model. None of them are fatal:
// the operation that returns one leaves its receiver in the last valid state.
var (
	// ErrValidationRejected indicates that a numeric field was set to a
	// value outside its legal range and kept its previous value.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrCapacityExceeded indicates an add to a full Poll or PollList.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrNilInput indicates that a nil Party or Poll was passed to an add
	// operation.
	ErrNilInput = errors.New("nil input")

	// ErrNotFound indicates a lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrInvalidVisualization indicates non-positive star width or scale
	// passed to a text visualization.
	ErrInvalidVisualization = errors.New("invalid visualization parameters")
)

// FieldError represents a rejected assignment to a single field.
// It provides context about which entity and field refused the value.
type FieldError struct {
	// Entity is the name of the record whose field rejected the value.
	Entity string

	// Field names the rejected field.
	Field string

	// Value is the rejected input.
	Value float64

	// Err is the underlying error, normally ErrValidationRejected.
	Err error
}

// Error implements the error interface for FieldError.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field error: entity=%s, field=%s, value=%g, err=%v", e.Entity, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying error, supporting Go 1.13+ error unwrapping.
func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError creates a FieldError wrapping ErrValidationRejected.
func NewFieldError(entity, field string, value float64) *FieldError {
	return &FieldError{
		Entity: entity,
		Field:  field,
		Value:  value,
		Err:    ErrValidationRejected,
	}
}

// CapacityError reports an add to a bounded collection that had no free slot.
type CapacityError struct {
	// Collection is the kind of collection, "poll" or "poll list".
	Collection string

	// Name identifies the rejected item.
	Name string

	// Capacity is the fixed slot count of the collection.
	Capacity int
}

// Error implements the error interface for CapacityError.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s full: cannot add %q, capacity=%d", e.Collection, e.Name, e.Capacity)
}

// Unwrap returns ErrCapacityExceeded.
func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// VisualizationError reports the parameters a text visualization refused.
type VisualizationError struct {
	MaxStars int
	PerStar  float64
	// Markers is set when the bar would need more than MaxBarMarkers.
	Markers float64
}

// Error implements the error interface for VisualizationError.
func (e *VisualizationError) Error() string {
	if e.Markers > 0 {
		return fmt.Sprintf("invalid visualization: bar needs %g markers, limit is %d", e.Markers, MaxBarMarkers)
	}
	return fmt.Sprintf("invalid visualization: max_stars=%d, per_star=%g; both must be positive", e.MaxStars, e.PerStar)
}

// Unwrap returns ErrInvalidVisualization.
func (e *VisualizationError) Unwrap() error { return ErrInvalidVisualization }

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Unwrap returns ErrValidationRejected so that callers can match any
// validation failure with errors.Is.
func (e *ValidationError) Unwrap() error { return ErrValidationRejected }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
