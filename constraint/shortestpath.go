package constraint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ShortestPathTolerance is the vector part magnitude under which the rotation
// axis is too noisy to use and the per axis fallback takes over.
const ShortestPathTolerance = 3.0 * math.Pi / 180.0

// Drive holds the spring-damper settings and the symmetric bound of a group of rows.
// MaxForce is a force for linear rows and a torque for angular rows. Created
// through the registry, a zero MaxForce keeps the joint default bound.
type Drive struct {
	Regularizer float64
	Spring      float64
	Damper      float64
	MaxForce    float64
}

// Branch is the path taken by the shortest path resolver
type Branch uint8

const (
	BranchSmall Branch = iota
	BranchLarge
)

func (b Branch) String() string {
	if b == BranchLarge {
		return "large"
	}
	return "small"
}

// ShortestPath describes the minimal rotation between two frames.
// Axis, Angle and Basis are only set on the large branch.
type ShortestPath struct {
	Branch   Branch
	Rotation mgl64.Quat
	Axis     mgl64.Vec3
	// Angle is atan2(|v|, w), half of the rotation angle.
	Angle float64
	// Basis is an orthonormal frame whose front is Axis.
	Basis mgl64.Mat4
}

// ResolveShortestPath picks the branch for the rotation taking matrix0 onto matrix1.
// A vector part magnitude equal to the tolerance, and a zero rotation, stay on the small branch.
func ResolveShortestPath(matrix0, matrix1 mgl64.Mat4) ShortestPath {
	rotation := actor.RelativeRotation(matrix0, matrix1)
	pin := rotation.V
	dirMag2 := pin.Dot(pin)

	if dirMag2 <= ShortestPathTolerance*ShortestPathTolerance {
		return ShortestPath{Branch: BranchSmall, Rotation: rotation}
	}

	dirMag := math.Sqrt(dirMag2)
	axis := pin.Mul(1.0 / dirMag)
	return ShortestPath{
		Branch:   BranchLarge,
		Rotation: rotation,
		Axis:     axis,
		Angle:    math.Atan2(dirMag, rotation.W),
		Basis:    actor.BasisFromDir(axis),
	}
}

// SubmitShortestPathAxis submits three angular rows pulling the orientation of
// matrix0 onto matrix1.
//
// On the large branch the first row is driven along the rotation axis and the
// two rows across it only carry the torque bound. On the small branch each of
// up, right and front of matrix1 gets a driven row.
func SubmitShortestPathAxis(desc *Descriptor, joint Joint, matrix0, matrix1 mgl64.Mat4, drive Drive) ShortestPath {
	b := joint.base()
	path := ResolveShortestPath(matrix0, matrix1)

	if path.Branch == BranchLarge {
		index := addAngularRowJacobian(desc, b, actor.Front(path.Basis), path.Angle)
		desc.SetMassSpringDamperAcceleration(index, drive.Regularizer, drive.Spring, drive.Damper)
		setBounds(desc, index, drive.MaxForce)

		for _, pin := range [2]mgl64.Vec3{actor.Up(path.Basis), actor.Right(path.Basis)} {
			index = addAngularRowJacobian(desc, b, pin, 0)
			desc.SetMotorAcceleration(index, 0)
			desc.SetRole(index, RoleFree)
			setBounds(desc, index, drive.MaxForce)
		}
		return path
	}

	front0, up0 := actor.Front(matrix0), actor.Up(matrix0)
	front1, up1, right1 := actor.Front(matrix1), actor.Up(matrix1), actor.Right(matrix1)

	rows := [3]struct {
		pin   mgl64.Vec3
		angle float64
	}{
		{up1, actor.AngleAbout(front0, front1, up1)},
		{right1, actor.AngleAbout(front0, front1, right1)},
		{front1, actor.AngleAbout(up0, up1, front1)},
	}
	for _, row := range rows {
		index := addAngularRowJacobian(desc, b, row.pin, row.angle)
		desc.SetMassSpringDamperAcceleration(index, drive.Regularizer, drive.Spring, drive.Damper)
		setBounds(desc, index, drive.MaxForce)
	}

	return path
}
