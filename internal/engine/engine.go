// Package engine moves the Collector agent through its arena. It owns the
// position and heading of the agent, keeps it out of walls and obstacles and
// reports which entities it touched, which is all the simulation core needs
// from a physics host.
package engine

import (
	"math"

	platformcore "github.com/vovakirdan/collector/internal/core"
	"github.com/vovakirdan/collector/internal/games/collector/core"
)

// RotStep is the heading change per tick at a rotation rate of 1.
const RotStep = math.Pi / 20

// wallMargin is how far from its center the agent probes for walls.
const wallMargin = 0.45

// Collision reports what stopped the agent during a move.
type Collision int

const (
	CollisionNone Collision = iota
	CollisionWall
	CollisionObstacle
)

// String returns a short name for the collision.
func (c Collision) String() string {
	switch c {
	case CollisionWall:
		return "wall"
	case CollisionObstacle:
		return "obstacle"
	default:
		return "none"
	}
}

// Move integrates the agent for one tick. A blocked move first tries to slide
// along each axis and otherwise stops the agent in place.
func Move(ep *core.Episode) Collision {
	agent := ep.Ship().Entity()
	agent.Rot += agent.VRot * RotStep

	next := agent.Pos.Add(agent.Vel)
	hit := blocked(ep, next, agent.Radius)
	if hit == CollisionNone {
		agent.Pos = next
		return CollisionNone
	}

	slideX := platformcore.Vec2{X: next.X, Y: agent.Pos.Y}
	slideY := platformcore.Vec2{X: agent.Pos.X, Y: next.Y}
	switch {
	case agent.Vel.X != 0 && blocked(ep, slideX, agent.Radius) == CollisionNone:
		agent.Pos = slideX
		agent.Vel.Y = 0
	case agent.Vel.Y != 0 && blocked(ep, slideY, agent.Radius) == CollisionNone:
		agent.Pos = slideY
		agent.Vel.X = 0
	default:
		agent.Vel = platformcore.Vec2{}
	}
	return hit
}

// Contacts returns the indices of active goals and collectibles overlapping
// the agent.
func Contacts(ep *core.Episode) []int {
	w := ep.World()
	agentIdx := ep.Ship().Agent
	agent := w.At(agentIdx)

	var out []int
	for i := 0; i < w.Len(); i++ {
		if i == agentIdx {
			continue
		}
		e := w.At(i)
		if !e.Active() || e.Kind == core.KindObstacle {
			continue
		}
		if platformcore.Dist(agent.Pos, e.Pos) < agent.Radius+e.Radius {
			out = append(out, i)
		}
	}
	return out
}

// Advance runs one full tick: action, movement, contacts and economy.
func Advance(ep *core.Episode, action int) (core.StepData, error) {
	sd, _, err := AdvanceContacts(ep, action)
	return sd, err
}

// AdvanceContacts is Advance that also returns the entities touched.
func AdvanceContacts(ep *core.Episode, action int) (core.StepData, []int, error) {
	if err := ep.ApplyAction(action); err != nil {
		return core.StepData{}, nil, err
	}
	Move(ep)
	contacts := Contacts(ep)
	sd, err := ep.Step(contacts)
	return sd, contacts, err
}

func blocked(ep *core.Episode, pos platformcore.Vec2, radius float64) Collision {
	g := ep.Grid()
	m := math.Min(wallMargin, radius)
	probes := [...]platformcore.Vec2{
		pos,
		{X: pos.X - m, Y: pos.Y},
		{X: pos.X + m, Y: pos.Y},
		{X: pos.X, Y: pos.Y - m},
		{X: pos.X, Y: pos.Y + m},
	}
	for _, p := range probes {
		if g.Blocked(p) {
			return CollisionWall
		}
	}

	w := ep.World()
	for _, idx := range ep.Obstacles().All() {
		o := w.At(idx)
		if o.Active() && platformcore.Dist(pos, o.Pos) < radius+o.Radius {
			return CollisionObstacle
		}
	}
	return CollisionNone
}
