package constraint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// RotationType selects how the effector drives the child orientation
type RotationType uint8

const (
	// RotationShortestPath drives all three rotation axes along the minimal rotation.
	RotationShortestPath RotationType = iota
	// RotationFixAxis only drives the twist about the target front axis.
	RotationFixAxis
)

const (
	defaultEffectorSpring      = 1000.0
	defaultEffectorDamper      = 50.0
	defaultEffectorRegularizer = 5.0e-3
)

// IkSwivelPositionEffector drives the child pivot toward a target frame
// expressed in the parent pivot frame.
type IkSwivelPositionEffector struct {
	Bilateral

	targetFrame mgl64.Mat4

	localSwivelMatrix0 mgl64.Mat4
	localSwivelMatrix1 mgl64.Mat4
	swivelAngle        float64

	rotationType RotationType
	linear       Drive
	angular      Drive
}

// NewIkSwivelPositionEffector builds an effector whose target starts at the
// current child pivot. swivelFrame is a world frame whose front is the swivel axis.
func NewIkSwivelPositionEffector(pinAndPivotChild, pinAndPivotParent, swivelFrame mgl64.Mat4, child, parent *actor.RigidBody) *IkSwivelPositionEffector {
	j := &IkSwivelPositionEffector{
		Bilateral:          newBilateral(6, child, parent, pinAndPivotChild, pinAndPivotParent),
		targetFrame:        pinAndPivotParent.Inv().Mul4(pinAndPivotChild),
		localSwivelMatrix0: child.Matrix().Inv().Mul4(swivelFrame),
		localSwivelMatrix1: parent.Matrix().Inv().Mul4(swivelFrame),
		rotationType:       RotationShortestPath,
		linear: Drive{
			Regularizer: defaultEffectorRegularizer,
			Spring:      defaultEffectorSpring,
			Damper:      defaultEffectorDamper,
			MaxForce:    MaxBound,
		},
		angular: Drive{
			Regularizer: defaultEffectorRegularizer,
			Spring:      defaultEffectorSpring,
			Damper:      defaultEffectorDamper,
			MaxForce:    MaxBound,
		},
	}
	j.solverModel = KinematicCloseLoop

	return j
}

func (j *IkSwivelPositionEffector) Kind() Kind {
	return KindIkSwivelPositionEffector
}

// TargetFrame is the child pivot target, relative to the parent pivot frame
func (j *IkSwivelPositionEffector) TargetFrame() mgl64.Mat4 {
	return j.targetFrame
}

func (j *IkSwivelPositionEffector) SetTargetFrame(frame mgl64.Mat4) {
	j.targetFrame = frame
}

// Position is the target position in the parent pivot frame
func (j *IkSwivelPositionEffector) Position() mgl64.Vec3 {
	return actor.Posit(j.targetFrame)
}

func (j *IkSwivelPositionEffector) SetPosition(posit mgl64.Vec3) {
	j.targetFrame = actor.WithPosit(j.targetFrame, posit)
}

// SwivelAngle is the twist between the swivel frames measured at the last step
func (j *IkSwivelPositionEffector) SwivelAngle() float64 {
	return j.swivelAngle
}

func (j *IkSwivelPositionEffector) RotationType() RotationType {
	return j.rotationType
}

func (j *IkSwivelPositionEffector) SetRotationType(rotationType RotationType) {
	j.rotationType = rotationType
}

func (j *IkSwivelPositionEffector) MaxForce() float64 {
	return j.linear.MaxForce
}

// SetMaxForce sets the linear row bound; the sign is dropped
func (j *IkSwivelPositionEffector) SetMaxForce(force float64) {
	j.linear.MaxForce = math.Abs(force)
}

func (j *IkSwivelPositionEffector) MaxTorque() float64 {
	return j.angular.MaxForce
}

// SetMaxTorque sets the angular row bound; the sign is dropped
func (j *IkSwivelPositionEffector) SetMaxTorque(torque float64) {
	j.angular.MaxForce = math.Abs(torque)
}

// SetLinearSpringDamper stores |spring| and |damper| and clamps the regularizer
// into [MinRegularizer, MaxRegularizer]
func (j *IkSwivelPositionEffector) SetLinearSpringDamper(regularizer, spring, damper float64) {
	j.linear.Spring = math.Abs(spring)
	j.linear.Damper = math.Abs(damper)
	j.linear.Regularizer = ClampRegularizer(regularizer)
}

func (j *IkSwivelPositionEffector) LinearSpringDamper() (regularizer, spring, damper float64) {
	return j.linear.Regularizer, j.linear.Spring, j.linear.Damper
}

// SetAngularSpringDamper stores |spring| and |damper| and clamps the regularizer
func (j *IkSwivelPositionEffector) SetAngularSpringDamper(regularizer, spring, damper float64) {
	j.angular.Spring = math.Abs(spring)
	j.angular.Damper = math.Abs(damper)
	j.angular.Regularizer = ClampRegularizer(regularizer)
}

func (j *IkSwivelPositionEffector) AngularSpringDamper() (regularizer, spring, damper float64) {
	return j.angular.Regularizer, j.angular.Spring, j.angular.Damper
}

func (j *IkSwivelPositionEffector) JacobianDerivative(desc *Descriptor) {
	matrix0, matrix1 := j.CalculateGlobalMatrix()

	swivelMatrix0 := j.body0.Matrix().Mul4(j.localSwivelMatrix0)
	swivelMatrix1 := j.body1.Matrix().Mul4(j.localSwivelMatrix1)
	j.swivelAngle = actor.AngleAbout(actor.Up(swivelMatrix0), actor.Up(swivelMatrix1), actor.Front(swivelMatrix1))

	j.submitLinearAxis(desc, matrix0, matrix1)
	j.submitAngularAxis(desc, matrix0, matrix1)
}

// submitLinearAxis drives each parent axis independently toward the target position
func (j *IkSwivelPositionEffector) submitLinearAxis(desc *Descriptor, matrix0, matrix1 mgl64.Mat4) {
	posit0 := actor.Posit(matrix0)
	posit1 := mgl64.TransformCoordinate(actor.Posit(j.targetFrame), matrix1)

	for i := 0; i < 3; i++ {
		index := addLinearRowJacobian(desc, &j.Bilateral, posit0, posit1, actor.Axis(matrix1, i))
		desc.SetMassSpringDamperAcceleration(index, j.linear.Regularizer, j.linear.Spring, j.linear.Damper*2.0)
		setBounds(desc, index, j.linear.MaxForce)
	}
}

func (j *IkSwivelPositionEffector) submitAngularAxis(desc *Descriptor, matrix0, matrix1 mgl64.Mat4) {
	target := matrix1.Mul4(j.targetFrame)

	switch j.rotationType {
	case RotationFixAxis:
		pin := actor.Front(target)
		angle := actor.AngleAbout(actor.Up(matrix0), actor.Up(target), pin)
		index := addAngularRowJacobian(desc, &j.Bilateral, pin, angle)
		desc.SetMassSpringDamperAcceleration(index, j.angular.Regularizer, j.angular.Spring, j.angular.Damper)
		setBounds(desc, index, j.angular.MaxForce)
	default:
		SubmitShortestPathAxis(desc, j, matrix0, target, j.angular)
	}
}

// DebugJoint draws the target line, the swivel frames and the pivot frames
func (j *IkSwivelPositionEffector) DebugJoint(drawer DebugDrawer) {
	matrix0, matrix1 := j.CalculateGlobalMatrix()
	target := matrix1.Mul4(j.targetFrame)

	swivelMatrix0 := j.body0.Matrix().Mul4(j.localSwivelMatrix0)
	swivelMatrix1 := j.body1.Matrix().Mul4(j.localSwivelMatrix1)
	midPoint := actor.Posit(target).Add(actor.Posit(matrix1)).Mul(0.5)

	drawer.DrawLine(actor.Posit(target), actor.Posit(matrix1), mgl64.Vec4{1, 1, 0, 1})
	drawer.DrawFrame(actor.WithPosit(swivelMatrix0, midPoint))
	drawer.DrawFrame(actor.WithPosit(swivelMatrix1, midPoint))
	drawer.DrawFrame(matrix0)
	drawer.DrawFrame(matrix1)
	drawer.DrawFrame(target)
}
