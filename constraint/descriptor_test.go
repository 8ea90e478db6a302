package constraint

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDescriptor_Begin(t *testing.T) {
	child, parent := newTestPair()
	hinge := NewHinge(mgl64.Ident4(), child, parent)

	tests := []struct {
		name     string
		capacity int
		timestep float64
		wantErr  error
	}{
		{"valid", MaxDOF, testTimestep, nil},
		{"zero timestep", MaxDOF, 0, ErrInvalidTimestep},
		{"negative timestep", MaxDOF, -0.1, ErrInvalidTimestep},
		{"too small for the joint", 3, testTimestep, ErrRowOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := NewDescriptor(tt.capacity)
			err := desc.Begin(hinge, tt.timestep)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Begin() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil {
				if desc.Timestep() != tt.timestep || !approx(desc.InvTimestep(), 1/tt.timestep, 1e-12) {
					t.Errorf("timestep not recorded: %v / %v", desc.Timestep(), desc.InvTimestep())
				}
				body0, body1 := desc.Bodies()
				if body0 != child || body1 != parent {
					t.Error("descriptor bound to the wrong bodies")
				}
			}
		})
	}
}

func TestDescriptor_AddRows(t *testing.T) {
	child, parent := newTestPair()
	hinge := NewHinge(mgl64.Ident4(), child, parent)
	desc := NewDescriptor(MaxDOF)
	if err := desc.Begin(hinge, testTimestep); err != nil {
		t.Fatal(err)
	}

	jacobian := Jacobian{Linear: mgl64.Vec3{1, 0, 0}, Angular: mgl64.Vec3{0, 0, 1}}
	for i := 0; i < 3; i++ {
		if index := desc.AddLinearRow(jacobian, jacobian, 0, 0); index != i {
			t.Errorf("AddLinearRow() index = %d, want %d", index, i)
		}
	}
	if index := desc.AddAngularRow(jacobian, jacobian, 0.1, 0); index != 3 {
		t.Errorf("AddAngularRow() index = %d, want 3", index)
	}

	if desc.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", desc.Len())
	}

	row := desc.Row(3)
	if row.Kind != RowAngular || row.Role != RoleConstraint {
		t.Errorf("row kind/role = %v/%v", row.Kind, row.Role)
	}
	if row.Lower != -MaxBound || row.Upper != MaxBound {
		t.Errorf("default bounds = [%v, %v], want unbounded", row.Lower, row.Upper)
	}
	if row.Jacobian1 != (Jacobian{}) {
		t.Errorf("static parent jacobian = %v, want zero", row.Jacobian1)
	}
	if row.Jacobian0 != jacobian {
		t.Errorf("dynamic child jacobian = %v, want %v", row.Jacobian0, jacobian)
	}

	desc.SetLowerFriction(3, -2)
	desc.SetHighFriction(3, 5)
	desc.SetDiagonalRegularizer(3, 7)
	desc.SetMotorAcceleration(3, 1.5)
	row = desc.Row(3)
	if row.Lower != -2 || row.Upper != 5 || row.Regularizer != MaxRegularizer || row.Acceleration != 1.5 {
		t.Errorf("setters not applied: %+v", row)
	}
}

func TestDescriptor_ZeroAcceleration(t *testing.T) {
	child, parent := newTestPair()
	child.AngularVelocity = mgl64.Vec3{0, 0, 2}
	hinge := NewHinge(mgl64.Ident4(), child, parent)
	desc := NewDescriptor(MaxDOF)
	if err := desc.Begin(hinge, testTimestep); err != nil {
		t.Fatal(err)
	}

	index := addAngularRowJacobian(desc, &hinge.Bilateral, mgl64.Vec3{0, 0, 1}, 0)
	if got := desc.ZeroAcceleration(index); !approx(got, -200, 1e-9) {
		t.Errorf("ZeroAcceleration() = %v, want -200", got)
	}
}

func TestDescriptor_OverflowPanics(t *testing.T) {
	child, parent := newTestPair()
	hinge := NewHinge(mgl64.Ident4(), child, parent)
	desc := NewDescriptor(MaxDOF)
	if err := desc.Begin(hinge, testTimestep); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < hinge.MaxDOF(); i++ {
		desc.AddLinearRow(Jacobian{}, Jacobian{}, 0, 0)
	}

	defer func() {
		r := recover()
		precondition, ok := r.(*PreconditionError)
		if !ok {
			t.Fatalf("expected *PreconditionError panic, got %v", r)
		}
		if !errors.Is(precondition, ErrRowOverflow) {
			t.Errorf("panic wraps %v, want ErrRowOverflow", precondition.Wrapped)
		}
		if precondition.Kind != KindHinge || precondition.Capacity != 6 || precondition.Rows != 7 {
			t.Errorf("unexpected precondition detail: %+v", precondition)
		}
	}()
	desc.AddLinearRow(Jacobian{}, Jacobian{}, 0, 0)
}

func TestDescriptor_AddBeforeBeginPanics(t *testing.T) {
	desc := NewDescriptor(MaxDOF)

	defer func() {
		if _, ok := recover().(*PreconditionError); !ok {
			t.Error("expected *PreconditionError panic")
		}
	}()
	desc.AddAngularRow(Jacobian{}, Jacobian{}, 0, 0)
}

func TestDescriptorPool(t *testing.T) {
	pool := NewDescriptorPool()
	child, parent := newTestPair()
	hinge := NewHinge(mgl64.Ident4(), child, parent)

	desc := pool.Get()
	if desc.Capacity() != MaxDOF {
		t.Fatalf("Capacity() = %d, want %d", desc.Capacity(), MaxDOF)
	}
	if err := Submit(hinge, desc, testTimestep); err != nil {
		t.Fatal(err)
	}
	pool.Put(desc)

	if desc.Len() != 0 {
		t.Errorf("Put() should reset the descriptor, Len() = %d", desc.Len())
	}
	if body0, _ := desc.Bodies(); body0 != nil {
		t.Error("Put() should unbind the bodies")
	}
}

func TestRowStrings(t *testing.T) {
	if RowLinear.String() != "linear" || RowAngular.String() != "angular" {
		t.Error("unexpected RowKind names")
	}
	roles := map[RowRole]string{
		RoleConstraint: "constraint",
		RoleDrive:      "drive",
		RoleFree:       "free",
		RoleFriction:   "friction",
		RoleLimit:      "limit",
	}
	for role, want := range roles {
		if role.String() != want {
			t.Errorf("RowRole(%d).String() = %q, want %q", role, role.String(), want)
		}
	}
}
