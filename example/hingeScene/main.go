package main

import (
	"fmt"
	"log"
	"os"

	"github.com/akmonengine/sinew"
	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/config"
	"github.com/akmonengine/sinew/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// PrintSolver prints the rows it receives instead of solving them
type PrintSolver struct {
	Step int
}

func (s *PrintSolver) Solve(island *sinew.Island, rows []*constraint.Descriptor, timestep float64) error {
	fmt.Printf("  island: %d bodies, %d joints\n", len(island.Bodies), len(island.Joints))
	for i, desc := range rows {
		joint := island.Joints[i]
		fmt.Printf("   %s (%d rows)\n", joint.Kind(), desc.Len())
		for j, row := range desc.Rows() {
			fmt.Printf("     #%d %-7s %-10s err=% .5f accel=% 10.3f bounds=[%.3g, %.3g]\n",
				j, row.Kind, row.Role, row.Error, row.Acceleration, row.Lower, row.Upper)
		}
	}
	return nil
}

// SetupScene creates a static shoulder, an upper arm on a hinge and a hand
// following an effector target
func SetupScene(cfg *config.Config) (*sinew.World, *actor.RigidBody, *constraint.Hinge, error) {
	registry := constraint.NewRegistry()
	world := &sinew.World{
		Workers: cfg.World.Workers,
		Solver:  &PrintSolver{},
		Events:  sinew.NewEvents(),
		Logger:  log.New(os.Stderr, "hingeScene: ", 0),
	}

	shoulder := actor.NewRigidBody(actor.Transform{Position: mgl64.Vec3{0, 0, 0}}, actor.BodyTypeStatic, 0, mgl64.Mat3{})
	upperArm := actor.NewRigidBody(actor.Transform{
		Position: mgl64.Vec3{0, -0.5, 0},
	}, actor.BodyTypeDynamic, 2.0, actor.BoxInertia(2.0, mgl64.Vec3{0.05, 0.5, 0.05}))
	hand := actor.NewRigidBody(actor.Transform{
		Position: mgl64.Vec3{0, -1.1, 0},
	}, actor.BodyTypeDynamic, 0.5, actor.SphereInertia(0.5, 0.1))

	world.AddBody(shoulder)
	world.AddBody(upperArm)
	world.AddBody(hand)

	// the pin runs along z, the front axis of the hinge frame
	pin := mgl64.HomogRotate3D(mgl64.DegToRad(-90), mgl64.Vec3{0, 1, 0})
	joint, err := registry.Create("hinge", cfg.HingeParams(pin), upperArm, shoulder)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := world.AddJoint(joint); err != nil {
		return nil, nil, nil, err
	}

	wrist := mgl64.Translate3D(0, -1, 0)
	effector, err := registry.Create("ik_swivel_position_effector", cfg.EffectorParams(wrist.Mul4(pin), wrist, mgl64.Mat4{}), hand, upperArm)
	if err != nil {
		return nil, nil, nil, err
	}
	if target := cfg.Effector.TargetPosition(); target != (mgl64.Vec3{}) {
		effector.(*constraint.IkSwivelPositionEffector).SetPosition(target)
	}
	if err := world.AddJoint(effector); err != nil {
		return nil, nil, nil, err
	}

	return world, upperArm, joint.(*constraint.Hinge), nil
}

func loadConfig() (*config.Config, error) {
	if len(os.Args) < 2 {
		return config.DefaultConfig(), nil
	}
	if preset := config.GetPreset(os.Args[1]); preset != nil {
		return preset, nil
	}
	return config.Load(os.Args[1])
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	world, upperArm, hinge, err := SetupScene(cfg)
	if err != nil {
		log.Fatal(err)
	}

	world.Events.Subscribe(sinew.LIMIT_REACHED, func(event sinew.Event) {
		e := event.(sinew.LimitReachedEvent)
		fmt.Printf("  >> limit reached (%v) at %.1f°\n", e.Side, mgl64.RadToDeg(e.Angle))
	})
	world.Events.Subscribe(sinew.LIMIT_RELEASED, func(event sinew.Event) {
		e := event.(sinew.LimitReleasedEvent)
		fmt.Printf("  << limit released (%v) at %.1f°\n", e.Side, mgl64.RadToDeg(e.Angle))
	})

	// swing the upper arm back and forth about the pin
	dt := cfg.World.Timestep
	omega := 2.0
	angle := 0.0
	axis := mgl64.Vec3{0, 0, 1}

	for step := 0; step < cfg.World.Steps; step++ {
		if step%60 == 0 {
			omega = -omega
		}
		angle += omega * dt
		upperArm.Transform.Rotation = mgl64.QuatRotate(angle, axis)
		upperArm.AngularVelocity = axis.Mul(omega)

		fmt.Printf("--- STEP %d ---\n", step+1)
		if err := world.Step(dt); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("  hinge angle %.2f° omega %.2f rad/s (%v)\n", mgl64.RadToDeg(hinge.Angle()), hinge.Omega(), hinge.LimitState().State)
	}

	fmt.Println("done")
}
