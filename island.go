package sinew

import (
	"slices"

	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/constraint"
)

// Island is a group of dynamic bodies connected by joints, solved together.
// Static bodies anchor islands but never join two of them.
type Island struct {
	Bodies []*actor.RigidBody
	Joints []constraint.Joint
}

// IsSleeping reports whether every dynamic body of the island sleeps
func (island *Island) IsSleeping() bool {
	for _, body := range island.Bodies {
		if !body.IsStatic() && !body.IsSleeping {
			return false
		}
	}
	return true
}

// BuildIslands groups bodies by the joints connecting them.
// Islands follow the order of bodies, joints inside an island follow the order of joints.
// Joints between two static bodies belong to no island.
func BuildIslands(bodies []*actor.RigidBody, joints []constraint.Joint) []*Island {
	adjacency := make(map[*actor.RigidBody][]int, len(bodies))
	for i, joint := range joints {
		child, parent := joint.Bodies()
		adjacency[child] = append(adjacency[child], i)
		if parent != child {
			adjacency[parent] = append(adjacency[parent], i)
		}
	}

	visited := make(map[*actor.RigidBody]bool, len(bodies))
	jointUsed := make([]bool, len(joints))
	islands := make([]*Island, 0)

	for _, root := range bodies {
		if root.IsStatic() || visited[root] {
			continue
		}

		island := &Island{}
		anchors := make(map[*actor.RigidBody]bool)
		jointIndices := make([]int, 0)

		stack := []*actor.RigidBody{root}
		visited[root] = true
		for len(stack) > 0 {
			body := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			island.Bodies = append(island.Bodies, body)

			for _, i := range adjacency[body] {
				if jointUsed[i] {
					continue
				}
				jointUsed[i] = true
				jointIndices = append(jointIndices, i)

				child, parent := joints[i].Bodies()
				for _, other := range [2]*actor.RigidBody{child, parent} {
					if other.IsStatic() {
						if !anchors[other] {
							anchors[other] = true
							island.Bodies = append(island.Bodies, other)
						}
						continue
					}
					if !visited[other] {
						visited[other] = true
						stack = append(stack, other)
					}
				}
			}
		}

		slices.Sort(jointIndices)
		island.Joints = make([]constraint.Joint, len(jointIndices))
		for k, i := range jointIndices {
			island.Joints[k] = joints[i]
		}

		islands = append(islands, island)
	}

	return islands
}

// awakeIslands drops the islands whose dynamic bodies all sleep
func awakeIslands(islands []*Island) []*Island {
	n := 0
	for _, island := range islands {
		if !island.IsSleeping() {
			islands[n] = island
			n++
		}
	}
	return islands[:n]
}
