package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a position and an orientation in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// TransformFromMatrix extracts the rigid part of an affine frame
func TransformFromMatrix(m mgl64.Mat4) Transform {
	rotation := mgl64.Mat4ToQuat(m).Normalize()
	return Transform{
		Position:        Posit(m),
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// Matrix returns the transform as an affine frame.
// Columns are front (x), up (y), right (z) and the position.
func (t Transform) Matrix() mgl64.Mat4 {
	rotation := t.Rotation
	if rotation.Len() == 0 {
		rotation = mgl64.QuatIdent()
	}
	m := rotation.Normalize().Mat4()
	m.SetCol(3, t.Position.Vec4(1))
	return m
}

// Front is the x axis of a frame
func Front(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(0).Vec3()
}

// Up is the y axis of a frame
func Up(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(1).Vec3()
}

// Right is the z axis of a frame
func Right(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(2).Vec3()
}

// Posit is the origin of a frame
func Posit(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// Axis returns front, up or right for i = 0, 1, 2
func Axis(m mgl64.Mat4, i int) mgl64.Vec3 {
	return m.Col(i).Vec3()
}

// WithPosit returns m with its origin replaced
func WithPosit(m mgl64.Mat4, posit mgl64.Vec3) mgl64.Mat4 {
	m.SetCol(3, posit.Vec4(1))
	return m
}

// IsAffineInvertible reports whether m is an affine frame (last row 0 0 0 1)
// whose linear part can be inverted
func IsAffineInvertible(m mgl64.Mat4) bool {
	for i := 0; i < 16; i++ {
		if math.IsNaN(m[i]) || math.IsInf(m[i], 0) {
			return false
		}
	}
	if m.At(3, 0) != 0 || m.At(3, 1) != 0 || m.At(3, 2) != 0 || m.At(3, 3) != 1 {
		return false
	}

	return math.Abs(m.Mat3().Det()) > 1e-12
}

// BasisFromDir builds an orthonormal frame whose front axis is dir.
// The origin of the returned frame is zero.
func BasisFromDir(dir mgl64.Vec3) mgl64.Mat4 {
	front := dir.Normalize()

	// pick the world axis least aligned with front to seed the cross products
	helper := mgl64.Vec3{1, 0, 0}
	if math.Abs(front.X()) > 0.577 {
		helper = mgl64.Vec3{0, 1, 0}
	}
	right := front.Cross(helper).Normalize()
	up := right.Cross(front)

	return mgl64.Mat4{
		front.X(), front.Y(), front.Z(), 0,
		up.X(), up.Y(), up.Z(), 0,
		right.X(), right.Y(), right.Z(), 0,
		0, 0, 0, 1,
	}
}

// RelativeRotation returns the world space rotation taking the orientation of m0 onto m1.
// The quaternion is canonical (W >= 0) so its vector part points along the shortest path.
func RelativeRotation(m0, m1 mgl64.Mat4) mgl64.Quat {
	q0 := mgl64.Mat4ToQuat(m0).Normalize()
	q1 := mgl64.Mat4ToQuat(m1).Normalize()

	q := q1.Mul(q0.Inverse()).Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	return q
}

// AngleAbout returns the signed angle between dir and cosDir, measured about sinDir.
// dir is projected on the plane normal to sinDir first.
func AngleAbout(dir, cosDir, sinDir mgl64.Vec3) float64 {
	projected := dir.Sub(sinDir.Mul(dir.Dot(sinDir)))
	cosAngle := projected.Dot(cosDir)
	sinAngle := sinDir.Dot(projected.Cross(cosDir))
	return math.Atan2(sinAngle, cosAngle)
}

// AnglesAdd adds two angles and wraps the result into [-pi, pi]
func AnglesAdd(angle0, angle1 float64) float64 {
	s := angle0 + angle1
	return math.Atan2(math.Sin(s), math.Cos(s))
}
