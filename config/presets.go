package config

import (
	"sort"

	"github.com/akmonengine/sinew/constraint"
)

var Presets = map[string]*Config{
	"door": {
		World: WorldConfig{Timestep: DefaultTimestep, Steps: 240, Workers: 1},
		Hinge: HingeConfig{Friction: 2, Limits: LimitConfig{Enabled: true, Min: -0.5, Max: 110}},
		Effector: EffectorConfig{
			Rotation: RotationFixAxis,
			Linear:   DriveConfig{Regularizer: DefaultEffectorRegularizer, Spring: 200, Damper: 20, MaxForce: 50},
			Angular:  DriveConfig{Regularizer: DefaultEffectorRegularizer, Spring: 200, Damper: 20, MaxForce: 20},
		},
	},
	"arm": {
		World: WorldConfig{Timestep: DefaultTimestep, Steps: 120, Workers: 2},
		Hinge: HingeConfig{Limits: LimitConfig{Enabled: true, Min: -150, Max: 0}},
		Effector: EffectorConfig{
			Rotation: RotationShortestPath,
			Target:   [3]float64{0.4, -0.6, 0},
			Linear:   DriveConfig{Regularizer: DefaultEffectorRegularizer, Spring: DefaultEffectorSpring, Damper: DefaultEffectorDamper, MaxForce: constraint.MaxBound},
			Angular:  DriveConfig{Regularizer: DefaultEffectorRegularizer, Spring: DefaultEffectorSpring, Damper: DefaultEffectorDamper, MaxForce: constraint.MaxBound},
		},
	},
	"locked": {
		World: WorldConfig{Timestep: DefaultTimestep, Steps: 60, Workers: 1},
		Hinge: HingeConfig{Limits: LimitConfig{Enabled: true, Min: -0.1, Max: 0.1}},
		Effector: EffectorConfig{
			Rotation: RotationShortestPath,
			Linear:   DriveConfig{Regularizer: 0.99, Spring: 10, Damper: 1, MaxForce: 5},
			Angular:  DriveConfig{Regularizer: 0.99, Spring: 10, Damper: 1, MaxForce: 5},
		},
	},
}

// GetPreset returns a copy of the named preset, nil if unknown
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
