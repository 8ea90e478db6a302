package constraint

import (
	"fmt"
	"sync"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxDOF is the largest number of rows a single joint may submit per step.
	MaxDOF = 6

	// MaxBound is the force/torque bound of an unbounded row.
	MaxBound = 1.0e15
)

// RowKind tells whether a row constrains relative translation or relative rotation.
type RowKind uint8

const (
	RowLinear RowKind = iota
	RowAngular
)

func (k RowKind) String() string {
	if k == RowAngular {
		return "angular"
	}
	return "linear"
}

// RowRole records what a row is for, so solvers and debug tools can tell
// rigid rows from drives, friction and limits.
type RowRole uint8

const (
	// RoleConstraint rows hold a kinematic restriction rigidly.
	RoleConstraint RowRole = iota
	// RoleDrive rows chase a target through the spring-damper model.
	RoleDrive
	// RoleFree rows carry friction bounds only, with a zero target.
	RoleFree
	// RoleFriction rows oppose relative motion up to a bounded force.
	RoleFriction
	// RoleLimit rows stop motion at a range bound.
	RoleLimit
)

func (r RowRole) String() string {
	switch r {
	case RoleDrive:
		return "drive"
	case RoleFree:
		return "free"
	case RoleFriction:
		return "friction"
	case RoleLimit:
		return "limit"
	default:
		return "constraint"
	}
}

// Jacobian is one body's share of a row: Linear multiplies the body velocity,
// Angular multiplies its angular velocity.
type Jacobian struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
}

// Dot projects a body's velocities onto the jacobian
func (j Jacobian) Dot(velocity, omega mgl64.Vec3) float64 {
	return j.Linear.Dot(velocity) + j.Angular.Dot(omega)
}

// Row is one scalar equation handed to the solver
type Row struct {
	Kind RowKind
	Role RowRole

	Jacobian0 Jacobian // child
	Jacobian1 Jacobian // parent

	// Error is the position or angle error along the row,
	// RelativeVelocity the velocity J·v at submission time.
	Error            float64
	RelativeVelocity float64

	// Acceleration is the target relative acceleration the solver should achieve.
	Acceleration float64
	Regularizer  float64

	// Spring and Damper are kept when the acceleration came from the spring-damper model.
	SpringDamper bool
	Spring       float64
	Damper       float64

	Lower float64
	Upper float64
}

// Descriptor accumulates the rows of one joint for one step.
// It has a fixed capacity; a joint appending past its declared degrees of
// freedom is a precondition failure and panics with *PreconditionError.
type Descriptor struct {
	rows     []Row
	capacity int
	limit    int

	kind        Kind
	body0       *actor.RigidBody
	body1       *actor.RigidBody
	timestep    float64
	invTimestep float64
}

// NewDescriptor allocates a descriptor able to hold capacity rows
func NewDescriptor(capacity int) *Descriptor {
	return &Descriptor{
		rows:     make([]Row, 0, capacity),
		capacity: capacity,
	}
}

// Begin clears the descriptor and binds it to joint for a step of length timestep
func (d *Descriptor) Begin(joint Joint, timestep float64) error {
	d.Reset()

	if timestep <= 0 {
		return ErrInvalidTimestep
	}
	dof := joint.MaxDOF()
	if dof > d.capacity {
		return fmt.Errorf("%w: joint %s declares %d, descriptor holds %d", ErrRowOverflow, joint.Kind(), dof, d.capacity)
	}
	body0, body1 := joint.Bodies()
	if body0 == nil || body1 == nil {
		return ErrMissingBody
	}

	d.kind = joint.Kind()
	d.limit = dof
	d.body0 = body0
	d.body1 = body1
	d.timestep = timestep
	d.invTimestep = 1.0 / timestep

	return nil
}

// Reset drops every row and unbinds the descriptor
func (d *Descriptor) Reset() {
	d.rows = d.rows[:0]
	d.limit = 0
	d.kind = KindNone
	d.body0 = nil
	d.body1 = nil
	d.timestep = 0
	d.invTimestep = 0
}

func (d *Descriptor) Timestep() float64 {
	return d.timestep
}

func (d *Descriptor) InvTimestep() float64 {
	return d.invTimestep
}

func (d *Descriptor) Capacity() int {
	return d.capacity
}

// Len is the number of rows submitted so far
func (d *Descriptor) Len() int {
	return len(d.rows)
}

// Rows returns the submitted rows. The slice is owned by the descriptor.
func (d *Descriptor) Rows() []Row {
	return d.rows
}

func (d *Descriptor) Row(index int) Row {
	return d.rows[index]
}

// Bodies returns the pair the descriptor was begun for
func (d *Descriptor) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return d.body0, d.body1
}

// AddLinearRow appends a translational row and returns its index.
// The row starts rigid: unbounded, with an acceleration that removes its
// velocity and part of posError within the step.
func (d *Descriptor) AddLinearRow(jacobian0, jacobian1 Jacobian, posError, relVeloc float64) int {
	return d.push(RowLinear, jacobian0, jacobian1, posError, relVeloc)
}

// AddAngularRow appends a rotational row and returns its index
func (d *Descriptor) AddAngularRow(jacobian0, jacobian1 Jacobian, angleError, relOmega float64) int {
	return d.push(RowAngular, jacobian0, jacobian1, angleError, relOmega)
}

func (d *Descriptor) push(kind RowKind, jacobian0, jacobian1 Jacobian, posError, relVeloc float64) int {
	if d.body0 == nil {
		panic(&PreconditionError{Kind: d.kind, Rows: len(d.rows) + 1, Capacity: d.limit, Wrapped: ErrForeignBody})
	}
	index := len(d.rows)
	if index >= d.limit {
		panic(&PreconditionError{Kind: d.kind, Rows: index + 1, Capacity: d.limit, Wrapped: ErrRowOverflow})
	}

	if d.body0.IsStatic() {
		jacobian0 = Jacobian{}
	}
	if d.body1.IsStatic() {
		jacobian1 = Jacobian{}
	}

	d.rows = append(d.rows, Row{
		Kind:             kind,
		Role:             RoleConstraint,
		Jacobian0:        jacobian0,
		Jacobian1:        jacobian1,
		Error:            posError,
		RelativeVelocity: relVeloc,
		Acceleration:     RigidAcceleration(d.invTimestep, posError, relVeloc),
		Regularizer:      DefaultRegularizer,
		Lower:            -MaxBound,
		Upper:            MaxBound,
	})

	return index
}

// SetRole tags the row with its purpose
func (d *Descriptor) SetRole(index int, role RowRole) {
	d.rows[index].Role = role
}

// SetLowerFriction sets the lower force/torque bound of a row
func (d *Descriptor) SetLowerFriction(index int, lower float64) {
	d.rows[index].Lower = lower
}

// SetHighFriction sets the upper force/torque bound of a row
func (d *Descriptor) SetHighFriction(index int, upper float64) {
	d.rows[index].Upper = upper
}

// SetMotorAcceleration overrides the target acceleration of a row
func (d *Descriptor) SetMotorAcceleration(index int, accel float64) {
	row := &d.rows[index]
	row.Acceleration = accel
	row.SpringDamper = false
	row.Spring = 0
	row.Damper = 0
}

// SetDiagonalRegularizer sets the softness the solver adds to the row diagonal
func (d *Descriptor) SetDiagonalRegularizer(index int, regularizer float64) {
	d.rows[index].Regularizer = ClampRegularizer(regularizer)
}

// SetMassSpringDamperAcceleration turns a row into a spring-damper drive.
// The acceleration is resolved with the descriptor timestep from the row's
// error and relative velocity.
func (d *Descriptor) SetMassSpringDamperAcceleration(index int, regularizer, spring, damper float64) {
	row := &d.rows[index]
	row.Acceleration = SpringDamperAcceleration(d.timestep, spring, row.Error, damper, row.RelativeVelocity)
	row.Regularizer = ClampRegularizer(regularizer)
	row.SpringDamper = true
	row.Spring = spring
	row.Damper = damper
	row.Role = RoleDrive
}

// ZeroAcceleration is the acceleration that cancels the row's relative velocity in one step
func (d *Descriptor) ZeroAcceleration(index int) float64 {
	return -d.rows[index].RelativeVelocity * d.invTimestep
}

// DescriptorPool recycles descriptors between steps
type DescriptorPool struct {
	pool sync.Pool
}

func NewDescriptorPool() *DescriptorPool {
	return &DescriptorPool{
		pool: sync.Pool{
			New: func() interface{} {
				return NewDescriptor(MaxDOF)
			},
		},
	}
}

func (p *DescriptorPool) Get() *Descriptor {
	return p.pool.Get().(*Descriptor)
}

func (p *DescriptorPool) Put(d *Descriptor) {
	d.Reset()
	p.pool.Put(d)
}
