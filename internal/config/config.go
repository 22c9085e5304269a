// Package config provides YAML-based option loading for the Collector
// environment, with an embedded default and JSON-schema validation.
package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CollectorConfig is the on-disk form of the episode options.
type CollectorConfig struct {
	WorldDim        int         `yaml:"world_dim"`
	InitLocatorType LocatorName `yaml:"init_locator_type"`

	NumGoalsGreen     int `yaml:"num_goals_green"`
	NumGoalsRed       int `yaml:"num_goals_red"`
	NumResourcesGreen int `yaml:"num_resources_green"`
	NumResourcesRed   int `yaml:"num_resources_red"`
	NumFuel           int `yaml:"num_fuel"`
	NumObstacles      int `yaml:"num_obstacles"`

	GoalMax  float64 `yaml:"goal_max"`
	GoalInit float64 `yaml:"goal_init"`

	AgentMaxFuel            float64 `yaml:"agent_max_fuel"`
	AgentInitFuel           float64 `yaml:"agent_init_fuel"`
	AgentMaxResources       float64 `yaml:"agent_max_resources"`
	AgentInitResourcesGreen float64 `yaml:"agent_init_resources_green"`
	AgentInitResourcesRed   float64 `yaml:"agent_init_resources_red"`

	Timeout       int  `yaml:"timeout"` // ticks, 0 = no limit
	CargoCoalesce bool `yaml:"cargo_coalesce"`

	Respawn RespawnConfig `yaml:"respawn"`
	Play    PlayConfig    `yaml:"play"`
}

// RespawnConfig selects what happens to depleted resources.
type RespawnConfig struct {
	Timing      string  `yaml:"timing"`   // "never", "now", "fixed" or "random"
	Delay       int     `yaml:"delay"`    // fixed delay, or lower bound for random
	DelayMax    int     `yaml:"delay_max"` // exclusive upper bound for random
	Location    string  `yaml:"location"` // "static", "next", "random", "next_away" or "random_away"
	MinDistance float64 `yaml:"min_distance"`
}

// PlayConfig holds settings for interactive hosts.
type PlayConfig struct {
	TickRate int `yaml:"tick_rate"`
}

// LocatorName is a layout strategy name. YAML files may give either the name
// or its numeric id (1 random, 2 symmetric, 3 in_line).
type LocatorName string

const (
	LocatorRandom    LocatorName = "random"
	LocatorSymmetric LocatorName = "symmetric"
	LocatorInLine    LocatorName = "in_line"
)

// UnmarshalYAML accepts a name or a numeric id.
func (l *LocatorName) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("init_locator_type: expected a scalar at line %d", n.Line)
	}
	if n.Tag == "!!int" {
		id, err := strconv.Atoi(n.Value)
		if err != nil {
			return fmt.Errorf("init_locator_type: %w", err)
		}
		switch id {
		case 1:
			*l = LocatorRandom
		case 2:
			*l = LocatorSymmetric
		case 3:
			*l = LocatorInLine
		default:
			return fmt.Errorf("init_locator_type: unknown id %d at line %d", id, n.Line)
		}
		return nil
	}
	*l = LocatorName(n.Value)
	return nil
}
