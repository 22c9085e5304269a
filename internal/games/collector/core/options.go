package core

import (
	"errors"
	"fmt"
)

// LocatorType selects the initial layout strategy.
type LocatorType int

const (
	LocatorRandom    LocatorType = 1
	LocatorSymmetric LocatorType = 2
	LocatorInLine    LocatorType = 3
)

// String returns the config name of the locator.
func (t LocatorType) String() string {
	switch t {
	case LocatorRandom:
		return "random"
	case LocatorSymmetric:
		return "symmetric"
	case LocatorInLine:
		return "in_line"
	default:
		return fmt.Sprintf("locator(%d)", int(t))
	}
}

// ParseLocatorType maps a config name to a locator.
func ParseLocatorType(name string) (LocatorType, error) {
	switch name {
	case "random":
		return LocatorRandom, nil
	case "symmetric":
		return LocatorSymmetric, nil
	case "in_line", "inline":
		return LocatorInLine, nil
	}
	return 0, fmt.Errorf("unknown locator %q: %w", name, ErrInvalidOptions)
}

// Options fully describes an episode.
type Options struct {
	WorldDim int
	Locator  LocatorType

	NumGoalsGreen     int
	NumGoalsRed       int
	NumResourcesGreen int
	NumResourcesRed   int
	NumFuel           int
	NumObstacles      int

	GoalMax  float64
	GoalInit float64

	AgentMaxFuel            float64
	AgentInitFuel           float64
	AgentMaxResources       float64
	AgentInitResourcesGreen float64
	AgentInitResourcesRed   float64

	// Timeout ends the episode after this many ticks; 0 disables it.
	Timeout int

	// CargoCoalesce merges consecutive pickups of one kind into a slot.
	CargoCoalesce bool

	Respawn RespawnPolicy
}

// DefaultOptions returns the standard Collector setup.
func DefaultOptions() Options {
	return Options{
		WorldDim:          16,
		Locator:           LocatorSymmetric,
		NumGoalsGreen:     1,
		NumGoalsRed:       1,
		NumResourcesGreen: 2,
		NumResourcesRed:   2,
		NumFuel:           2,
		NumObstacles:      2,
		GoalMax:           100,
		GoalInit:          0,
		AgentMaxFuel:      100,
		AgentInitFuel:     100,
		AgentMaxResources: 100,
	}
}

// NumGoals returns the total goal count.
func (o Options) NumGoals() int {
	return o.NumGoalsGreen + o.NumGoalsRed
}

// NumResources returns the total collectible count, fuel included.
func (o Options) NumResources() int {
	return o.NumResourcesGreen + o.NumResourcesRed + o.NumFuel
}

// Validate checks that the options describe a level every locator can lay out.
// All violations are reported together.
func (o Options) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(o.WorldDim >= 4, "world_dim %d is below 4", o.WorldDim)
	switch o.Locator {
	case LocatorRandom, LocatorSymmetric, LocatorInLine:
	default:
		errs = append(errs, fmt.Errorf("init_locator_type %d is not 1, 2 or 3", int(o.Locator)))
	}

	counts := []struct {
		name string
		n    int
	}{
		{"num_goals_green", o.NumGoalsGreen},
		{"num_goals_red", o.NumGoalsRed},
		{"num_resources_green", o.NumResourcesGreen},
		{"num_resources_red", o.NumResourcesRed},
		{"num_fuel", o.NumFuel},
		{"num_obstacles", o.NumObstacles},
	}
	for _, c := range counts {
		check(c.n >= 0, "%s is negative", c.name)
	}

	check(o.NumGoalsRed == o.NumGoalsGreen, "num_goals_red %d != num_goals_green %d", o.NumGoalsRed, o.NumGoalsGreen)
	check(o.NumResourcesRed == o.NumResourcesGreen, "num_resources_red %d != num_resources_green %d", o.NumResourcesRed, o.NumResourcesGreen)
	check(o.NumFuel%2 == 0, "num_fuel %d is odd", o.NumFuel)
	check(o.NumObstacles%2 == 0, "num_obstacles %d is odd", o.NumObstacles)
	if o.Locator == LocatorInLine {
		check(o.NumGoalsGreen >= 1, "in_line needs at least one green goal")
	}

	check(o.GoalMax > 0, "goal_max must be positive")
	check(o.GoalInit >= 0 && o.GoalInit <= o.GoalMax, "goal_init %.2f outside [0, goal_max]", o.GoalInit)
	check(o.AgentMaxFuel >= o.AgentInitFuel, "agent_init_fuel %.2f exceeds agent_max_fuel %.2f", o.AgentInitFuel, o.AgentMaxFuel)
	check(o.AgentInitFuel >= 0, "agent_init_fuel is negative")
	check(o.AgentMaxResources >= o.AgentInitResourcesGreen+o.AgentInitResourcesRed,
		"initial cargo %.2f exceeds agent_max_resources %.2f",
		o.AgentInitResourcesGreen+o.AgentInitResourcesRed, o.AgentMaxResources)
	check(o.AgentInitResourcesGreen >= 0 && o.AgentInitResourcesRed >= 0, "initial cargo is negative")
	check(o.Timeout >= 0, "timeout is negative")
	if o.Respawn.Timing == RespawnRandom {
		check(o.Respawn.DelayMax > o.Respawn.Delay, "respawn delay_max %d must exceed delay %d", o.Respawn.DelayMax, o.Respawn.Delay)
	}
	check(o.Respawn.Delay >= 0, "respawn delay is negative")

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
}
