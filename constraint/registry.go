package constraint

import (
	"fmt"
	"sort"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// LimitParams is an optional angle range
type LimitParams struct {
	Enabled bool
	Min     float64
	Max     float64
}

// JointParams is everything a factory needs to build and tune a joint.
// Zero frames fall back to ChildFrame; zero drives keep the joint defaults.
type JointParams struct {
	ChildFrame  mgl64.Mat4
	ParentFrame mgl64.Mat4
	SwivelFrame mgl64.Mat4

	Friction float64
	Limits   LimitParams

	Linear   Drive
	Angular  Drive
	Rotation RotationType
}

// JointFactory builds a joint between child and parent
type JointFactory func(params JointParams, child, parent *actor.RigidBody) (Joint, error)

// Registry maps joint type names to factories. It is filled explicitly at startup.
type Registry struct {
	factories map[string]JointFactory
}

// NewRegistry returns a registry holding every joint of this package
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]JointFactory),
	}

	r.factories[KindHinge.String()] = newHingeFromParams
	r.factories[KindIkSwivelPositionEffector.String()] = newEffectorFromParams

	return r
}

// Register adds a factory under name
func (r *Registry) Register(name string, factory JointFactory) error {
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJoint, name)
	}
	r.factories[name] = factory
	return nil
}

// Create builds a joint of the named type
func (r *Registry) Create(name string, params JointParams, child, parent *actor.RigidBody) (Joint, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJoint, name)
	}
	if child == nil || parent == nil {
		return nil, ErrMissingBody
	}
	return factory(params, child, parent)
}

// Names lists registered joint types in lexical order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func frameOr(frame, fallback mgl64.Mat4) mgl64.Mat4 {
	if frame == (mgl64.Mat4{}) {
		return fallback
	}
	return frame
}

func validateFrames(frames ...mgl64.Mat4) error {
	for _, frame := range frames {
		if !actor.IsAffineInvertible(frame) {
			return ErrInvalidFrame
		}
	}
	return nil
}

func newHingeFromParams(params JointParams, child, parent *actor.RigidBody) (Joint, error) {
	if err := validateFrames(params.ChildFrame, child.Matrix(), parent.Matrix()); err != nil {
		return nil, fmt.Errorf("hinge: %w", err)
	}

	hinge := NewHinge(params.ChildFrame, child, parent)
	hinge.SetFriction(params.Friction)
	if params.Limits.Enabled {
		hinge.EnableLimits(true, params.Limits.Min, params.Limits.Max)
	}
	return hinge, nil
}

func newEffectorFromParams(params JointParams, child, parent *actor.RigidBody) (Joint, error) {
	parentFrame := frameOr(params.ParentFrame, params.ChildFrame)
	swivelFrame := frameOr(params.SwivelFrame, params.ChildFrame)
	if err := validateFrames(params.ChildFrame, parentFrame, swivelFrame, child.Matrix(), parent.Matrix()); err != nil {
		return nil, fmt.Errorf("ik_swivel_position_effector: %w", err)
	}

	effector := NewIkSwivelPositionEffector(params.ChildFrame, parentFrame, swivelFrame, child, parent)
	effector.SetRotationType(params.Rotation)
	if params.Linear != (Drive{}) {
		effector.SetLinearSpringDamper(params.Linear.Regularizer, params.Linear.Spring, params.Linear.Damper)
		if params.Linear.MaxForce != 0 {
			effector.SetMaxForce(params.Linear.MaxForce)
		}
	}
	if params.Angular != (Drive{}) {
		effector.SetAngularSpringDamper(params.Angular.Regularizer, params.Angular.Spring, params.Angular.Damper)
		if params.Angular.MaxForce != 0 {
			effector.SetMaxTorque(params.Angular.MaxForce)
		}
	}
	return effector, nil
}
