package sinew

import (
	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const testTimestep = 1.0 / 60.0

// createTestBody creates a unit body at position
func createTestBody(id interface{}, position mgl64.Vec3, bodyType actor.BodyType) *actor.RigidBody {
	rb := actor.NewRigidBody(
		actor.Transform{Position: position, Rotation: mgl64.QuatIdent()},
		bodyType,
		1.0,
		actor.SphereInertia(1.0, 0.5),
	)
	rb.Id = id
	return rb
}

// recordingSolver keeps the row count of each joint, per island, for each call
type recordingSolver struct {
	calls [][]int
	err   error
}

func (s *recordingSolver) Solve(island *Island, rows []*constraint.Descriptor, timestep float64) error {
	counts := make([]int, len(rows))
	for i, desc := range rows {
		counts[i] = desc.Len()
	}
	s.calls = append(s.calls, counts)
	return s.err
}

// doubleHinge submits its hinge rows twice and overflows its descriptor
type doubleHinge struct {
	*constraint.Hinge
}

func (j doubleHinge) JacobianDerivative(desc *constraint.Descriptor) {
	j.Hinge.JacobianDerivative(desc)
	j.Hinge.JacobianDerivative(desc)
}

type drawCounter struct {
	lines, frames int
}

func (d *drawCounter) DrawLine(p0, p1 mgl64.Vec3, color mgl64.Vec4) { d.lines++ }
func (d *drawCounter) DrawFrame(frame mgl64.Mat4)                  { d.frames++ }
