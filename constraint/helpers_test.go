package constraint

import (
	"math"
	"testing"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const testTimestep = 0.01

func newTestBody(position mgl64.Vec3, rotation mgl64.Quat, bodyType actor.BodyType) *actor.RigidBody {
	return actor.NewRigidBody(actor.Transform{
		Position: position,
		Rotation: rotation,
	}, bodyType, 1.0, mgl64.Ident3())
}

func newTestPair() (*actor.RigidBody, *actor.RigidBody) {
	child := newTestBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), actor.BodyTypeDynamic)
	parent := newTestBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), actor.BodyTypeStatic)
	return child, parent
}

// submit runs a joint into a fresh descriptor and fails the test on a precondition error
func submit(t *testing.T, joint Joint) *Descriptor {
	t.Helper()
	desc := NewDescriptor(MaxDOF)
	if err := Submit(joint, desc, testTimestep); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return desc
}

func countRole(desc *Descriptor, role RowRole) int {
	n := 0
	for _, row := range desc.Rows() {
		if row.Role == role {
			n++
		}
	}
	return n
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func vec3ApproxEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func quatApproxEqual(a, b mgl64.Quat, tolerance float64) bool {
	return math.Abs(a.W-b.W) < tolerance && vec3ApproxEqual(a.V, b.V, tolerance)
}

func mat4ApproxEqual(a, b mgl64.Mat4, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) >= tolerance {
			return false
		}
	}
	return true
}

// recordingDrawer counts debug callbacks
type recordingDrawer struct {
	lines  int
	frames int
}

func (d *recordingDrawer) DrawLine(p0, p1 mgl64.Vec3, color mgl64.Vec4) {
	d.lines++
}

func (d *recordingDrawer) DrawFrame(frame mgl64.Mat4) {
	d.frames++
}
