// Package core implements the Collector level generator and resource economy.
// It is pure simulation: no terminal, no I/O, all randomness from one seeded RNG.
package core

// Kind identifies the category of an entity in the world arena.
type Kind int

const (
	KindAgent Kind = iota
	KindGoalGreen
	KindGoalRed
	KindResourceGreen
	KindResourceRed
	KindFuel
	KindObstacle
)

// Shared entity geometry.
const (
	EntityRadius = 0.5
	AgentRadius  = 0.5
)

// Reward shaping constants.
const (
	ResourceRewardScale = 1.0
	GreenGoalReward     = 100.0
	RedGoalPenalty      = 200.0
	TickPenalty         = 10.0
	FuelDeficitPenalty  = 100.0

	epsilon = 1e-10
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "agent"
	case KindGoalGreen:
		return "goal_green"
	case KindGoalRed:
		return "goal_red"
	case KindResourceGreen:
		return "resource_green"
	case KindResourceRed:
		return "resource_red"
	case KindFuel:
		return "fuel"
	case KindObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// IsGoal reports whether k is a goal kind.
func (k Kind) IsGoal() bool {
	return k == KindGoalGreen || k == KindGoalRed
}

// IsResource reports whether k is a collectible (cargo or fuel).
func (k Kind) IsResource() bool {
	return k == KindResourceGreen || k == KindResourceRed || k == KindFuel
}

// Code is the numeric tag written into observation vectors.
// Goals: red 1, green 2. Resources: red 1, green 2, fuel 3.
func (k Kind) Code() float32 {
	switch k {
	case KindGoalRed, KindResourceRed:
		return 1
	case KindGoalGreen, KindResourceGreen:
		return 2
	case KindFuel:
		return 3
	default:
		return 0
	}
}
