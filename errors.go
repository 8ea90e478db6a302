package sinew

import (
	"errors"
	"fmt"

	"github.com/akmonengine/sinew/constraint"
)

var (
	// ErrBodyNotInWorld indicates a joint attached to a body the world does not own.
	ErrBodyNotInWorld = errors.New("sinew: joint body is not in the world")

	// ErrJointInWorld indicates a joint added twice.
	ErrJointInWorld = errors.New("sinew: joint already in the world")

	// ErrNoSolver indicates a step requested without a solver to hand the rows to.
	ErrNoSolver = errors.New("sinew: world has no solver")
)

// StepError reports the joint that halted a step. The solver was not called
// and body state is unchanged.
type StepError struct {
	Island int
	Joint  constraint.Joint
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sinew: step halted at island %d, joint %s: %v", e.Island, e.Joint.Kind(), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
