package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces and joints
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// A joint may use one as its parent to anchor the child to the world
	BodyTypeStatic
)

// RigidBody is the handle joints read during row submission.
// The world owns it; joints only keep a reference and never mutate it.
type RigidBody struct {
	Id any

	Transform Transform

	Velocity        mgl64.Vec3 // Linear velocity (m/s)
	AngularVelocity mgl64.Vec3 // Angular velocity (rad/s)

	mass                float64
	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	IsSleeping bool
	BodyType   BodyType
}

// NewRigidBody creates a rigid body with the given mass and local inertia tensor.
// mass and inertia are ignored for static bodies.
func NewRigidBody(transform Transform, bodyType BodyType, mass float64, inertia mgl64.Mat3) *RigidBody {
	if transform.Rotation.Len() == 0 {
		transform.Rotation = mgl64.QuatIdent()
	}
	transform.Rotation = transform.Rotation.Normalize()
	transform.InverseRotation = transform.Rotation.Inverse()

	rb := &RigidBody{
		Transform: transform,
		BodyType:  bodyType,
	}

	if bodyType == BodyTypeStatic {
		rb.mass = math.Inf(1)
		return rb
	}

	rb.mass = mass
	rb.InertiaLocal = inertia
	rb.InverseInertiaLocal = inertia.Inv()

	return rb
}

// IsStatic reports whether the body is immovable
func (rb *RigidBody) IsStatic() bool {
	return rb.BodyType == BodyTypeStatic
}

func (rb *RigidBody) Mass() float64 {
	return rb.mass
}

// InverseMass is zero for static bodies
func (rb *RigidBody) InverseMass() float64 {
	if rb.IsStatic() || rb.mass <= 0 {
		return 0
	}
	return 1.0 / rb.mass
}

// Matrix returns the body pose as an affine frame
func (rb *RigidBody) Matrix() mgl64.Mat4 {
	return rb.Transform.Matrix()
}

// SetMatrix moves the body to the given pose
func (rb *RigidBody) SetMatrix(m mgl64.Mat4) {
	rb.Transform = TransformFromMatrix(m)
}

// AddForce accumulates a force (N) for the next integration
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque accumulates a torque (N⋅m) for the next integration
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
	}
}

func (rb *RigidBody) AccumulatedForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

func (rb *RigidBody) AccumulatedTorque() mgl64.Vec3 {
	return rb.accumulatedTorque
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// VelocityAt returns the velocity of a world point attached to the body
func (rb *RigidBody) VelocityAt(point mgl64.Vec3) mgl64.Vec3 {
	r := point.Sub(rb.Transform.Position)
	return rb.Velocity.Add(rb.AngularVelocity.Cross(r))
}

// GetInertiaWorld returns the inertia tensor in world space
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// GetInverseInertiaWorld returns the inverse inertia tensor in world space
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
