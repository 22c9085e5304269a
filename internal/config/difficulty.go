package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficultyPreset maps a flag value to a preset. Empty means normal.
func ParseDifficultyPreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyHard:
		return DifficultyPreset(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q (easy, normal, hard)", s)
}

// ApplyCollectorPreset adjusts cfg for a difficulty preset. Normal leaves
// the loaded values alone.
func ApplyCollectorPreset(cfg *CollectorConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.NumObstacles = 0
		cfg.NumFuel += 2
		cfg.Timeout = 0
		cfg.Respawn.Timing = "now"
		cfg.Respawn.Location = "random_away"
	case DifficultyHard:
		cfg.NumObstacles += 4
		if cfg.NumFuel >= 2 {
			cfg.NumFuel -= 2
		}
		cfg.AgentInitFuel = cfg.AgentMaxFuel * 0.6
		if cfg.Timeout == 0 {
			cfg.Timeout = 1500
		}
	}
}
