// Package registry keeps the playable Collector presets. Presets register
// themselves in init() functions, so hosts can list and create them without
// importing the game packages directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/collector/internal/core"
)

// Game is what every host (TUI, SSH, CLI) drives. Implementations hold pure
// simulation state; input mapping, timing and output stay in the platform.
type Game interface {
	// ID returns the preset identifier used by the CLI and the episode store.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Reset starts a new episode from cfg.Seed. On error the game stays over.
	Reset(cfg core.RuntimeConfig) error

	// Step advances one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen.
	Render(dst *core.Screen)

	// State returns the current status.
	State() core.GameState
}

// Result summarizes a finished episode.
type Result struct {
	GameID        string  `json:"game_id"`
	Seed          int64   `json:"seed"`
	Locator       string  `json:"locator"`
	Ticks         int     `json:"ticks"`
	TotalReward   float64 `json:"total_reward"`
	LevelComplete bool    `json:"level_complete"`
	FuelLeft      float64 `json:"fuel_left"`
}

// Reporter is implemented by games that can describe their last episode.
type Reporter interface {
	Result() Result
}

// GameInfo contains metadata about a registered preset.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory. Panics if id is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered presets sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a preset by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
