package config

import (
	_ "embed"
)

//go:embed defaults/collector.yaml
var defaultCollectorYAML []byte

//go:embed defaults/collector.schema.json
var collectorSchemaJSON []byte

// DefaultCollectorConfig returns the default Collector configuration.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		WorldDim:          16,
		InitLocatorType:   LocatorSymmetric,
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
		Timeout:           0,
		Respawn: RespawnConfig{
			Timing:      "never",
			Location:    "static",
			MinDistance: 4,
		},
		Play: PlayConfig{
			TickRate: 30,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultCollectorYAML
}

// GetSchema returns the embedded JSON schema for Collector YAML files.
func GetSchema() []byte {
	return collectorSchemaJSON
}
