// Package collector registers the playable Collector presets. A preset wraps
// one episode of the simulation core, drives it through the engine and draws
// it into the platform screen.
package collector

import (
	"fmt"
	"sync"

	platformcore "github.com/vovakirdan/collector/internal/core"
	"github.com/vovakirdan/collector/internal/engine"
	"github.com/vovakirdan/collector/internal/games/collector/core"
	"github.com/vovakirdan/collector/internal/registry"
)

// preset is a registered variant of the environment. A zero locator keeps
// the configured one; a task replaces the level contents while the configured
// timeout, respawn and cargo settings stay.
type preset struct {
	id      string
	title   string
	locator core.LocatorType
	task    *task
}

// task is a fixed training scenario.
type task struct {
	locator            core.LocatorType
	goals              int // per color
	resources          int // per color
	fuel, obstacles    int
	goalMax            float64
	initGreen, initRed float64
}

var presets = []preset{
	{id: "collector", title: "Collector"},
	{id: "collector_random", title: "Collector (random layout)", locator: core.LocatorRandom},
	{id: "collector_symmetric", title: "Collector (symmetric layout)", locator: core.LocatorSymmetric},
	{id: "collector_inline", title: "Collector (in-line layout)", locator: core.LocatorInLine},

	// Starts loaded with both colors; deliver green to its goal.
	{id: "collector_gotogreen", title: "Task: go to green", task: &task{
		locator: core.LocatorSymmetric, goals: 1, goalMax: 20, initGreen: 20, initRed: 20,
	}},
	// The red goal sits between the ship and the green goal.
	{id: "collector_avoidred", title: "Task: avoid red", task: &task{
		locator: core.LocatorInLine, goals: 1, goalMax: 20, initGreen: 20, initRed: 10,
	}},
	// Pick up the green resource, then deliver it.
	{id: "collector_collectgreen", title: "Task: collect green", task: &task{
		locator: core.LocatorSymmetric, goals: 1, resources: 1, goalMax: 10,
	}},
	{id: "collector_default", title: "Task: full level", task: &task{
		locator: core.LocatorSymmetric, goals: 1, resources: 2, fuel: 2, obstacles: 4, goalMax: 30,
	}},
}

func (t *task) apply(o *core.Options) {
	o.WorldDim = 16
	o.Locator = t.locator
	o.NumGoalsGreen, o.NumGoalsRed = t.goals, t.goals
	o.NumResourcesGreen, o.NumResourcesRed = t.resources, t.resources
	o.NumFuel = t.fuel
	o.NumObstacles = t.obstacles
	o.GoalMax, o.GoalInit = t.goalMax, 0
	o.AgentMaxFuel, o.AgentInitFuel = 100, 100
	o.AgentMaxResources = 100
	o.AgentInitResourcesGreen, o.AgentInitResourcesRed = t.initGreen, t.initRed
}

// Package-level options shared by every preset.
var (
	optsMu   sync.RWMutex
	baseOpts = core.DefaultOptions()
)

// SetOptions replaces the options new episodes start from.
func SetOptions(o core.Options) {
	optsMu.Lock()
	baseOpts = o
	optsMu.Unlock()
}

// Options returns the options new episodes start from.
func Options() core.Options {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return baseOpts
}

// PresetOptions returns the options a registered preset starts episodes
// with.
func PresetOptions(id string) (core.Options, error) {
	for _, p := range presets {
		if p.id == id {
			return p.options(), nil
		}
	}
	return core.Options{}, fmt.Errorf("collector: unknown preset %q", id)
}

func (p preset) options() core.Options {
	o := Options()
	if p.task != nil {
		p.task.apply(&o)
	}
	if p.locator != 0 {
		o.Locator = p.locator
	}
	return o
}

func init() {
	for _, p := range presets {
		registry.Register(p.id, func() registry.Game {
			return New(p)
		})
	}
}

// endReason explains why an episode stopped.
type endReason int

const (
	endNone endReason = iota
	endComplete
	endFuel
	endTimeout
	endError
)

// Game is one interactive Collector session.
type Game struct {
	preset preset
	ep     *core.Episode
	err    error

	screenW int
	screenH int

	ready      bool // a level was laid out
	paused     bool
	lastReward float64
	reason     endReason
}

// New creates a game for preset p.
func New(p preset) *Game {
	return &Game{preset: p}
}

// ID returns the preset identifier.
func (g *Game) ID() string {
	return g.preset.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.preset.title
}

// Episode returns the running episode, or nil before the first Reset.
func (g *Game) Episode() *core.Episode {
	return g.ep
}

// Err returns the error that stopped the last episode, if any.
func (g *Game) Err() error {
	return g.err
}

// Reset builds a fresh level from cfg.Seed.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) error {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.ready = false
	g.paused = false
	g.lastReward = 0
	g.reason = endNone
	g.err = nil

	opts := g.preset.options()

	ep, err := core.NewEpisode(opts)
	if err != nil {
		g.ep = nil
		g.fail(err)
		return err
	}
	g.ep = ep
	if err := ep.Reset(cfg.Seed); err != nil {
		g.fail(err)
		return err
	}
	g.ready = true
	return nil
}

func (g *Game) fail(err error) {
	g.err = err
	g.reason = endError
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	if input.Has(platformcore.ActionRestart) && g.ep != nil {
		_ = g.Reset(platformcore.RuntimeConfig{
			ScreenW: g.screenW,
			ScreenH: g.screenH,
			Seed:    g.ep.Seed() + 1,
		})
		return platformcore.StepResult{State: g.State()}
	}

	if input.Has(platformcore.ActionPause) && g.reason == endNone {
		g.paused = !g.paused
	}

	if g.paused || g.ep == nil || !g.ep.Running() {
		return platformcore.StepResult{State: g.State()}
	}

	sd, err := engine.Advance(g.ep, ActionFromInput(input))
	if err != nil {
		g.fail(err)
		return platformcore.StepResult{State: g.State()}
	}
	g.lastReward = sd.Reward
	if sd.Done {
		g.reason = classify(sd)
	}
	return platformcore.StepResult{State: g.State(), Reward: sd.Reward}
}

func classify(sd core.StepData) endReason {
	switch {
	case sd.LevelComplete:
		return endComplete
	case sd.OutOfFuel:
		return endFuel
	default:
		return endTimeout
	}
}

// State returns the current game status.
func (g *Game) State() platformcore.GameState {
	if g.ep == nil {
		return platformcore.GameState{GameOver: true}
	}
	return platformcore.GameState{
		Score:    g.ep.TotalReward(),
		Tick:     g.ep.Tick(),
		GameOver: g.reason != endNone,
		Won:      g.reason == endComplete,
		Paused:   g.paused,
	}
}

// Result describes the current or last episode.
func (g *Game) Result() registry.Result {
	r := registry.Result{GameID: g.preset.id}
	if g.ep == nil {
		return r
	}
	r.Seed = g.ep.Seed()
	r.Locator = g.ep.Options().Locator.String()
	r.Ticks = g.ep.Tick()
	r.TotalReward = g.ep.TotalReward()
	r.LevelComplete = g.reason == endComplete
	r.FuelLeft = g.ep.Ship().Fuel.Value()
	return r
}

// ActionFromInput maps held keys onto the discrete action space.
func ActionFromInput(in platformcore.InputFrame) int {
	turn := 1
	switch {
	case in.Has(platformcore.ActionLeft) && !in.Has(platformcore.ActionRight):
		turn = 2
	case in.Has(platformcore.ActionRight) && !in.Has(platformcore.ActionLeft):
		turn = 0
	}
	thrust := 1
	switch {
	case in.Has(platformcore.ActionThrust) && !in.Has(platformcore.ActionBrake):
		thrust = 2
	case in.Has(platformcore.ActionBrake) && !in.Has(platformcore.ActionThrust):
		thrust = 0
	}
	return turn*3 + thrust
}
