package constraint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// hingePenetrationRecoverySpeed is the angular speed (rad/s) pushing a hinge back out of a limit.
	hingePenetrationRecoverySpeed = 0.1
	// hingePenetrationLimit is the penetration at which the recovery speed saturates.
	hingePenetrationLimit = 10.0 * math.Pi / 180.0
	// hingeLockTolerance: limits tighter than this on both sides lock the hinge.
	hingeLockTolerance = 1.0 * math.Pi / 180.0
)

// Hinge lets the child rotate about the front axis of the pin frame
type Hinge struct {
	Bilateral

	angle    float64
	omega    float64
	minLimit float64
	maxLimit float64
	friction float64

	hasLimits bool
	limit     HingeLimit
}

// NewHinge builds a hinge about the front axis of pinAndPivotFrame, a world space frame
func NewHinge(pinAndPivotFrame mgl64.Mat4, child, parent *actor.RigidBody) *Hinge {
	return &Hinge{
		Bilateral: newBilateral(6, child, parent, pinAndPivotFrame, pinAndPivotFrame),
		minLimit:  -math.MaxFloat64,
		maxLimit:  math.MaxFloat64,
	}
}

func (j *Hinge) Kind() Kind {
	return KindHinge
}

// Angle is the accumulated rotation of the child relative to the parent; it is not wrapped
func (j *Hinge) Angle() float64 {
	return j.angle
}

// Omega is the relative angular speed about the pin at the last step
func (j *Hinge) Omega() float64 {
	return j.omega
}

func (j *Hinge) Friction() float64 {
	return j.friction
}

// SetFriction sets the torque opposing rotation when no limit is engaged
func (j *Hinge) SetFriction(frictionTorque float64) {
	j.friction = math.Abs(frictionTorque)
}

// EnableLimits turns the angle range on or off
func (j *Hinge) EnableLimits(state bool, minLimit, maxLimit float64) {
	if minLimit > maxLimit {
		minLimit, maxLimit = maxLimit, minLimit
	}
	j.hasLimits = state
	j.minLimit = minLimit
	j.maxLimit = maxLimit
	if !state {
		j.limit = HingeLimit{State: HingeUnlimitedFree}
	}
}

// Limits returns whether limits are enabled and the range
func (j *Hinge) Limits() (enabled bool, minLimit, maxLimit float64) {
	return j.hasLimits, j.minLimit, j.maxLimit
}

// LimitState is the limit state computed at the last step
func (j *Hinge) LimitState() HingeLimit {
	return j.limit
}

func (j *Hinge) locked() bool {
	return j.minLimit > -hingeLockTolerance && j.maxLimit < hingeLockTolerance
}

func (j *Hinge) JacobianDerivative(desc *Descriptor) {
	matrix0, matrix1 := j.CalculateGlobalMatrix()

	j.applyBaseRows(desc, matrix0, matrix1)

	front0 := actor.Front(matrix0)
	deltaAngle := actor.AnglesAdd(-actor.AngleAbout(actor.Up(matrix0), actor.Up(matrix1), front0), -j.angle)
	j.angle += deltaAngle
	j.omega = front0.Dot(j.body0.AngularVelocity.Sub(j.body1.AngularVelocity))

	if j.hasLimits && j.locked() {
		j.limit = HingeLimit{State: HingeLimitReached}
		index := addAngularRowJacobian(desc, &j.Bilateral, actor.Front(matrix1), -j.angle)
		desc.SetRole(index, RoleLimit)
		return
	}

	predicted := j.angle + j.omega*desc.Timestep()
	j.limit = nextHingeLimit(j.limit, j.hasLimits, j.angle, predicted, j.omega, j.minLimit, j.maxLimit)

	if j.limit.State == HingeLimitReached {
		j.submitLimitRow(desc, front0, predicted)
		return
	}

	if j.friction > 0 {
		index := addAngularRowJacobian(desc, &j.Bilateral, front0, 0)
		desc.SetMotorAcceleration(index, -j.omega*desc.InvTimestep())
		desc.SetRole(index, RoleFriction)
		setBounds(desc, index, j.friction)
	}
}

// applyBaseRows keeps the pivots together and the pins aligned: three linear rows, two angular rows
func (j *Hinge) applyBaseRows(desc *Descriptor, matrix0, matrix1 mgl64.Mat4) {
	posit0, posit1 := actor.Posit(matrix0), actor.Posit(matrix1)
	for i := 0; i < 3; i++ {
		addLinearRowJacobian(desc, &j.Bilateral, posit0, posit1, actor.Axis(matrix1, i))
	}

	front0, front1 := actor.Front(matrix0), actor.Front(matrix1)
	up1, right1 := actor.Up(matrix1), actor.Right(matrix1)
	addAngularRowJacobian(desc, &j.Bilateral, up1, actor.AngleAbout(front0, front1, up1))
	addAngularRowJacobian(desc, &j.Bilateral, right1, actor.AngleAbout(front0, front1, right1))
}

// submitLimitRow stops the hinge at the engaged bound. The row only pushes
// away from the bound; pulling into it is bounded by the friction.
func (j *Hinge) submitLimitRow(desc *Descriptor, pin mgl64.Vec3, predicted float64) {
	index := addAngularRowJacobian(desc, &j.Bilateral, pin, 0)
	desc.SetRole(index, RoleLimit)
	stopAccel := desc.ZeroAcceleration(index)

	if j.limit.Side == LimitLower {
		penetration := min(predicted-j.minLimit, 0)
		recovering := -desc.InvTimestep() * hingePenetrationRecoverySpeed * min(math.Abs(penetration/hingePenetrationLimit), 1)
		desc.SetMotorAcceleration(index, stopAccel-recovering)
		desc.SetLowerFriction(index, -j.friction)
		return
	}

	penetration := max(predicted-j.maxLimit, 0)
	recovering := desc.InvTimestep() * hingePenetrationRecoverySpeed * min(math.Abs(penetration/hingePenetrationLimit), 1)
	desc.SetMotorAcceleration(index, stopAccel-recovering)
	desc.SetHighFriction(index, j.friction)
}

// DebugJoint draws both pin frames, the pin and the limit range
func (j *Hinge) DebugJoint(drawer DebugDrawer) {
	matrix0, matrix1 := j.CalculateGlobalMatrix()
	drawer.DrawFrame(matrix0)
	drawer.DrawFrame(matrix1)

	origin := actor.Posit(matrix1)
	front := actor.Front(matrix1)
	drawer.DrawLine(origin.Sub(front.Mul(0.5)), origin.Add(front.Mul(0.5)), mgl64.Vec4{1, 1, 0, 1})

	if !j.hasLimits || j.locked() {
		return
	}
	up := actor.Up(matrix1)
	for _, bound := range [2]float64{j.minLimit, j.maxLimit} {
		dir := mgl64.QuatRotate(bound, front).Rotate(up)
		drawer.DrawLine(origin, origin.Add(dir.Mul(0.5)), mgl64.Vec4{1, 0, 0, 1})
	}
}
