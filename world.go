package sinew

import (
	"fmt"
	"log"
	"slices"

	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/constraint"
)

const DEFAULT_WORKERS = 1

// Solver consumes the rows submitted for an island and moves its bodies.
// rows[i] belongs to island.Joints[i].
type Solver interface {
	Solve(island *Island, rows []*constraint.Descriptor, timestep float64) error
}

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Joints between bodies of the world
	Joints  []constraint.Joint
	Workers int
	Solver  Solver

	Events Events
	// Logger receives halted steps; nil disables logging
	Logger *log.Logger

	pool *constraint.DescriptorPool
}

// islandRows are the descriptors submitted for one island
type islandRows struct {
	island *Island
	rows   []*constraint.Descriptor
	err    error
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body and every joint attached to it
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := slices.Index(w.Bodies, body)
	if k != -1 {
		w.Bodies = slices.Delete(w.Bodies, k, k+1)
	}

	n := 0
	for _, joint := range w.Joints {
		child, parent := joint.Bodies()
		if child == body || parent == body {
			w.Events.forgetJoint(joint)
			continue
		}
		w.Joints[n] = joint
		n++
	}
	clear(w.Joints[n:])
	w.Joints = w.Joints[:n]

	w.Events.forgetBody(body)
}

// AddJoint adds a joint whose bodies are already in the world
func (w *World) AddJoint(joint constraint.Joint) error {
	if slices.Contains(w.Joints, joint) {
		return ErrJointInWorld
	}

	child, parent := joint.Bodies()
	for _, body := range [2]*actor.RigidBody{child, parent} {
		if !slices.Contains(w.Bodies, body) {
			return fmt.Errorf("%w: %s joint", ErrBodyNotInWorld, joint.Kind())
		}
	}

	w.Joints = append(w.Joints, joint)
	return nil
}

// RemoveJoint removes a joint from the world; its bodies remain
func (w *World) RemoveJoint(joint constraint.Joint) {
	k := slices.Index(w.Joints, joint)
	if k == -1 {
		return
	}
	w.Joints = slices.Delete(w.Joints, k, k+1)
	w.Events.forgetJoint(joint)
}

// Step submits the rows of every awake island and hands them to the Solver.
//
// Islands are submitted in parallel, the joints of an island in order.
// If any joint breaks the submission contract the step halts with a
// *StepError before the Solver runs.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return constraint.ErrInvalidTimestep
	}
	if w.Solver == nil {
		return ErrNoSolver
	}
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	if w.pool == nil {
		w.pool = constraint.NewDescriptorPool()
	}
	if w.Events.listeners == nil {
		w.Events = NewEvents()
	}

	// Phase 1: Islands
	islands := awakeIslands(BuildIslands(w.Bodies, w.Joints))
	batches := make([]*islandRows, len(islands))
	for i, island := range islands {
		batches[i] = &islandRows{island: island}
	}
	defer w.release(batches)

	// Phase 2: Row submission
	task(w.Workers, batches, func(index int, batch *islandRows) {
		w.submit(index, batch, dt)
	})

	for _, batch := range batches {
		if batch.err != nil {
			w.logf("%v", batch.err)
			return batch.err
		}
	}

	// Phase 3: Solver, islands are independent and solved in order
	for i, batch := range batches {
		if err := w.Solver.Solve(batch.island, batch.rows, dt); err != nil {
			err = fmt.Errorf("sinew: solve island %d: %w", i, err)
			w.logf("%v", err)
			return err
		}
	}

	// Phase 4: Events
	w.Events.processLimitEvents(w.Joints)
	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()

	return nil
}

// submit fills one descriptor per joint of the island
func (w *World) submit(index int, batch *islandRows, dt float64) {
	batch.rows = make([]*constraint.Descriptor, 0, len(batch.island.Joints))
	for _, joint := range batch.island.Joints {
		desc := w.pool.Get()
		batch.rows = append(batch.rows, desc)

		if err := constraint.Submit(joint, desc, dt); err != nil {
			batch.err = &StepError{Island: index, Joint: joint, Err: err}
			return
		}
	}
}

func (w *World) release(batches []*islandRows) {
	for _, batch := range batches {
		for _, desc := range batch.rows {
			w.pool.Put(desc)
		}
		batch.rows = nil
	}
}

// DebugDraw forwards every joint to drawer
func (w *World) DebugDraw(drawer constraint.DebugDrawer) {
	for _, joint := range w.Joints {
		joint.DebugJoint(drawer)
	}
}

func (w *World) logf(format string, args ...any) {
	if w.Logger != nil {
		w.Logger.Printf(format, args...)
	}
}
