package flatrecord

import (
	"github.com/pkg/errors"
)

// Errors reported by layouts, descriptors and decorators. Every error returned
// by this package can be matched against one of these with errors.Is.
var (
	// ErrInvalidDescriptor is returned when a field descriptor is constructed
	// with a negative position, a non-positive length or an unknown pad
	// direction, or when a layout is given a descriptor of the wrong kind.
	ErrInvalidDescriptor = errors.New("invalid field descriptor")

	// ErrDecoratorConfig is returned when a decorator is constructed with an
	// invalid configuration.
	ErrDecoratorConfig = errors.New("invalid decorator configuration")

	// ErrFieldOverwrite is returned by a strict layout when a field name or
	// index is registered twice.
	ErrFieldOverwrite = errors.New("field already defined")

	// ErrFieldOverlap is returned by a strict fixed-width layout when the byte
	// ranges of two fields intersect.
	ErrFieldOverlap = errors.New("field overlaps another field")

	// ErrLineTooShort is returned by a strict fixed-width layout when the
	// input is shorter than the record length.
	ErrLineTooShort = errors.New("line is shorter than record length")

	// ErrFieldTooLong is returned when an encoded value does not fit in its
	// field and truncation is disabled.
	ErrFieldTooLong = errors.New("value exceeds field length")

	// ErrInvalidValue is returned when a decorator cannot convert a value or
	// its text form.
	ErrInvalidValue = errors.New("invalid field value")

	// ErrAccessor is returned when an accessor rejects a value.
	ErrAccessor = errors.New("accessor rejected value")
)

// A FieldError describes a failed layout operation on a single field.
type FieldError struct {
	Op    string // operation, e.g. "add", "parse", "serialize"
	Field string // field name, empty for record level errors
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return "flatrecord: " + e.Op + ": " + e.Err.Error()
	}
	return "flatrecord: " + e.Op + " " + e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldError(op, field string, err error) error {
	return &FieldError{Op: op, Field: field, Err: err}
}
