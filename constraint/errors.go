package constraint

import (
	"errors"
	"fmt"
)

// Sentinel errors for joint construction and row submission.
var (
	// ErrRowOverflow indicates a joint submitted more rows than its declared degrees of freedom.
	ErrRowOverflow = errors.New("constraint: row count exceeds joint degrees of freedom")

	// ErrForeignBody indicates a joint submitted rows into a descriptor begun for other bodies.
	ErrForeignBody = errors.New("constraint: row references a body outside the joint pair")

	// ErrInvalidTimestep indicates a descriptor was begun with a non positive timestep.
	ErrInvalidTimestep = errors.New("constraint: timestep must be positive")

	// ErrInvalidFrame indicates an attachment frame that is not an invertible affine transform.
	ErrInvalidFrame = errors.New("constraint: attachment frame is not an invertible affine transform")

	// ErrMissingBody indicates a joint built without a child or parent body.
	ErrMissingBody = errors.New("constraint: joint requires two bodies")

	// ErrUnknownJoint indicates a registry lookup for a joint type that was never registered.
	ErrUnknownJoint = errors.New("constraint: unknown joint type")

	// ErrDuplicateJoint indicates a joint type registered twice.
	ErrDuplicateJoint = errors.New("constraint: joint type already registered")
)

// PreconditionError is the panic payload raised by a descriptor when a joint breaks
// the submission contract. The step cannot continue after one.
type PreconditionError struct {
	Kind     Kind
	Rows     int
	Capacity int
	Wrapped  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%v (joint %s, rows %d, capacity %d)", e.Wrapped, e.Kind, e.Rows, e.Capacity)
}

func (e *PreconditionError) Unwrap() error {
	return e.Wrapped
}
