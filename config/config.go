// Package config loads the world and joint settings of a scene from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/akmonengine/sinew/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimestep = 1.0 / 60.0
	DefaultSteps    = 120
	DefaultWorkers  = 1

	DefaultEffectorSpring      = 1000.0
	DefaultEffectorDamper      = 50.0
	DefaultEffectorRegularizer = 5.0e-3

	RotationShortestPath = "shortest_path"
	RotationFixAxis      = "fix_axis"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	World    WorldConfig    `yaml:"world"`
	Hinge    HingeConfig    `yaml:"hinge"`
	Effector EffectorConfig `yaml:"effector"`
}

type WorldConfig struct {
	Timestep float64 `yaml:"timestep"`
	Steps    int     `yaml:"steps"`
	Workers  int     `yaml:"workers"`
}

type HingeConfig struct {
	Friction float64     `yaml:"friction"`
	Limits   LimitConfig `yaml:"limits"`
}

// LimitConfig angles are in degrees
type LimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

type EffectorConfig struct {
	Rotation string      `yaml:"rotation"`
	Target   [3]float64  `yaml:"target,flow"`
	Linear   DriveConfig `yaml:"linear"`
	Angular  DriveConfig `yaml:"angular"`
}

type DriveConfig struct {
	Regularizer float64 `yaml:"regularizer"`
	Spring      float64 `yaml:"spring"`
	Damper      float64 `yaml:"damper"`
	MaxForce    float64 `yaml:"max_force"`
}

func DefaultConfig() *Config {
	drive := DriveConfig{
		Regularizer: DefaultEffectorRegularizer,
		Spring:      DefaultEffectorSpring,
		Damper:      DefaultEffectorDamper,
		MaxForce:    constraint.MaxBound,
	}

	return &Config{
		World: WorldConfig{
			Timestep: DefaultTimestep,
			Steps:    DefaultSteps,
			Workers:  DefaultWorkers,
		},
		Hinge: HingeConfig{
			Limits: LimitConfig{Min: -45, Max: 45},
		},
		Effector: EffectorConfig{
			Rotation: RotationShortestPath,
			Linear:   drive,
			Angular:  drive,
		},
	}
}

// Load reads path over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no joint or world can run with
func (c *Config) Validate() error {
	if c.World.Timestep <= 0 {
		return fmt.Errorf("%w: world.timestep %v must be positive", ErrInvalidConfig, c.World.Timestep)
	}
	if c.World.Steps < 0 {
		return fmt.Errorf("%w: world.steps %d is negative", ErrInvalidConfig, c.World.Steps)
	}
	if c.World.Workers < 0 {
		return fmt.Errorf("%w: world.workers %d is negative", ErrInvalidConfig, c.World.Workers)
	}
	if c.Hinge.Limits.Enabled && c.Hinge.Limits.Min > c.Hinge.Limits.Max {
		return fmt.Errorf("%w: hinge.limits min %v above max %v", ErrInvalidConfig, c.Hinge.Limits.Min, c.Hinge.Limits.Max)
	}
	if _, err := c.Effector.RotationType(); err != nil {
		return err
	}
	drives := [2]struct {
		name  string
		drive DriveConfig
	}{{"linear", c.Effector.Linear}, {"angular", c.Effector.Angular}}
	for _, d := range drives {
		if d.drive.Spring < 0 || d.drive.Damper < 0 || d.drive.MaxForce < 0 {
			return fmt.Errorf("%w: effector.%s has a negative drive value", ErrInvalidConfig, d.name)
		}
	}
	return nil
}

func (e EffectorConfig) RotationType() (constraint.RotationType, error) {
	switch e.Rotation {
	case "", RotationShortestPath:
		return constraint.RotationShortestPath, nil
	case RotationFixAxis:
		return constraint.RotationFixAxis, nil
	default:
		return 0, fmt.Errorf("%w: effector.rotation %q", ErrInvalidConfig, e.Rotation)
	}
}

func (d DriveConfig) Drive() constraint.Drive {
	return constraint.Drive{
		Regularizer: d.Regularizer,
		Spring:      d.Spring,
		Damper:      d.Damper,
		MaxForce:    d.MaxForce,
	}
}

// HingeParams builds the joint parameters of a hinge pinned at frame
func (c *Config) HingeParams(frame mgl64.Mat4) constraint.JointParams {
	return constraint.JointParams{
		ChildFrame: frame,
		Friction:   c.Hinge.Friction,
		Limits: constraint.LimitParams{
			Enabled: c.Hinge.Limits.Enabled,
			Min:     mgl64.DegToRad(c.Hinge.Limits.Min),
			Max:     mgl64.DegToRad(c.Hinge.Limits.Max),
		},
	}
}

// EffectorParams builds the joint parameters of an effector. parentFrame and
// swivelFrame may be zero to reuse childFrame.
func (c *Config) EffectorParams(childFrame, parentFrame, swivelFrame mgl64.Mat4) constraint.JointParams {
	rotation, _ := c.Effector.RotationType()
	return constraint.JointParams{
		ChildFrame:  childFrame,
		ParentFrame: parentFrame,
		SwivelFrame: swivelFrame,
		Linear:      c.Effector.Linear.Drive(),
		Angular:     c.Effector.Angular.Drive(),
		Rotation:    rotation,
	}
}

// TargetPosition is the effector target position in the parent pivot frame
func (e EffectorConfig) TargetPosition() mgl64.Vec3 {
	return mgl64.Vec3(e.Target)
}
