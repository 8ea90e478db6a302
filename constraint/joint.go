package constraint

import (
	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies a joint variant
type Kind uint8

const (
	KindNone Kind = iota
	KindHinge
	KindIkSwivelPositionEffector
)

func (k Kind) String() string {
	switch k {
	case KindHinge:
		return "hinge"
	case KindIkSwivelPositionEffector:
		return "ik_swivel_position_effector"
	default:
		return "none"
	}
}

// SolverModel tells the external solver how the joint wants to be solved
type SolverModel uint8

const (
	JointIterative SolverModel = iota
	KinematicOpenLoop
	KinematicCloseLoop
)

// Joint is the contract every joint variant fulfills.
// A variant must embed a Bilateral, which is the only way to provide base().
type Joint interface {
	// JacobianDerivative submits the joint rows for the current step.
	// It reads the bodies and never mutates them.
	JacobianDerivative(desc *Descriptor)
	Kind() Kind
	MaxDOF() int
	Bodies() (child, parent *actor.RigidBody)
	SolverModel() SolverModel
	DebugJoint(drawer DebugDrawer)

	base() *Bilateral
}

// DebugDrawer receives joint visualization. It has no effect on the simulation.
type DebugDrawer interface {
	DrawLine(p0, p1 mgl64.Vec3, color mgl64.Vec4)
	DrawFrame(frame mgl64.Mat4)
}

// Bilateral is the state shared by joints binding a child body to a parent body
type Bilateral struct {
	body0 *actor.RigidBody // child
	body1 *actor.RigidBody // parent

	// attachment frames, in body local space
	localMatrix0 mgl64.Mat4
	localMatrix1 mgl64.Mat4

	maxDOF      int
	solverModel SolverModel
}

// newBilateral attaches the two global pin-and-pivot frames to their bodies
func newBilateral(maxDOF int, child, parent *actor.RigidBody, pinAndPivotChild, pinAndPivotParent mgl64.Mat4) Bilateral {
	return Bilateral{
		body0:        child,
		body1:        parent,
		localMatrix0: child.Matrix().Inv().Mul4(pinAndPivotChild),
		localMatrix1: parent.Matrix().Inv().Mul4(pinAndPivotParent),
		maxDOF:       maxDOF,
		solverModel:  JointIterative,
	}
}

func (b *Bilateral) base() *Bilateral {
	return b
}

func (b *Bilateral) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return b.body0, b.body1
}

func (b *Bilateral) Body0() *actor.RigidBody {
	return b.body0
}

func (b *Bilateral) Body1() *actor.RigidBody {
	return b.body1
}

// MaxDOF is the most rows the joint submits in one step
func (b *Bilateral) MaxDOF() int {
	return b.maxDOF
}

func (b *Bilateral) SolverModel() SolverModel {
	return b.solverModel
}

func (b *Bilateral) SetSolverModel(model SolverModel) {
	b.solverModel = model
}

// LocalMatrices returns the attachment frames in child and parent space
func (b *Bilateral) LocalMatrices() (mgl64.Mat4, mgl64.Mat4) {
	return b.localMatrix0, b.localMatrix1
}

// CalculateGlobalMatrix returns both attachment frames in world space for the current poses
func (b *Bilateral) CalculateGlobalMatrix() (matrix0, matrix1 mgl64.Mat4) {
	matrix0 = b.body0.Matrix().Mul4(b.localMatrix0)
	matrix1 = b.body1.Matrix().Mul4(b.localMatrix1)
	return matrix0, matrix1
}

// checkDescriptor panics when desc was begun for another body pair
func (b *Bilateral) checkDescriptor(desc *Descriptor) {
	body0, body1 := desc.Bodies()
	if body0 != b.body0 || body1 != b.body1 {
		panic(&PreconditionError{Kind: desc.kind, Rows: desc.Len() + 1, Capacity: desc.limit, Wrapped: ErrForeignBody})
	}
}

// relativeVelocity projects both body velocities on a row; static bodies do not move
func (b *Bilateral) relativeVelocity(jacobian0, jacobian1 Jacobian) float64 {
	var v float64
	if !b.body0.IsStatic() {
		v += jacobian0.Dot(b.body0.Velocity, b.body0.AngularVelocity)
	}
	if !b.body1.IsStatic() {
		v += jacobian1.Dot(b.body1.Velocity, b.body1.AngularVelocity)
	}
	return v
}

// addLinearRowJacobian submits a row keeping posit0 (on the child) and posit1
// (on the parent) together along dir. The row error is (posit0 - posit1)·dir.
func addLinearRowJacobian(desc *Descriptor, b *Bilateral, posit0, posit1, dir mgl64.Vec3) int {
	b.checkDescriptor(desc)

	r0 := posit0.Sub(b.body0.Transform.Position)
	r1 := posit1.Sub(b.body1.Transform.Position)

	jacobian0 := Jacobian{Linear: dir, Angular: r0.Cross(dir)}
	jacobian1 := Jacobian{Linear: dir.Mul(-1), Angular: dir.Cross(r1)}

	return desc.AddLinearRow(jacobian0, jacobian1, posit0.Sub(posit1).Dot(dir), b.relativeVelocity(jacobian0, jacobian1))
}

// addAngularRowJacobian submits a row about dir. relAngle is the rotation
// taking the child frame onto the parent frame about dir; the row error is -relAngle.
func addAngularRowJacobian(desc *Descriptor, b *Bilateral, dir mgl64.Vec3, relAngle float64) int {
	b.checkDescriptor(desc)

	jacobian0 := Jacobian{Angular: dir}
	jacobian1 := Jacobian{Angular: dir.Mul(-1)}

	return desc.AddAngularRow(jacobian0, jacobian1, -relAngle, b.relativeVelocity(jacobian0, jacobian1))
}

// setBounds sets a symmetric force/torque bound on a row
func setBounds(desc *Descriptor, index int, bound float64) {
	desc.SetLowerFriction(index, -bound)
	desc.SetHighFriction(index, bound)
}

// Submit begins desc for joint and runs its row submission.
// A broken submission contract is returned as *PreconditionError; the caller
// must abandon the step.
func Submit(joint Joint, desc *Descriptor, timestep float64) (err error) {
	if err := desc.Begin(joint, timestep); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			precondition, ok := r.(*PreconditionError)
			if !ok {
				panic(r)
			}
			err = precondition
		}
	}()

	joint.JacobianDerivative(desc)
	return nil
}
