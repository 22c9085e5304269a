package core

import (
	"fmt"

	platformcore "github.com/vovakirdan/collector/internal/core"
)

// Phase is the lifecycle state of an episode.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
)

// StepData is the outcome of one tick.
type StepData struct {
	Reward        float64
	Done          bool
	LevelComplete bool
	OutOfFuel     bool
	TimedOut      bool
	Tick          int
}

// Episode runs one Collector level: layout on Reset, economy and reward on
// Step. It is not safe for concurrent use.
type Episode struct {
	opts Options
	seed int64
	rng  *platformcore.RNG

	grid      *Grid
	cells     *CellManager
	world     *World
	ship      *Ship
	goals     *GoalManager
	resources *ResourceManager
	obstacles *ObstacleManager
	respawner *Respawner
	obs       *ObsBuffers

	phase   Phase
	total   float64
	scratch []float32
}

// NewEpisode validates o and declares the observation buffers. The episode
// starts idle; call Reset before Step.
func NewEpisode(o Options) (*Episode, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	w := NewWorld()
	ship, err := NewShip(w, o.AgentMaxFuel, o.AgentInitFuel, o.AgentMaxResources,
		o.AgentInitResourcesGreen, o.AgentInitResourcesRed, o.CargoCoalesce)
	if err != nil {
		return nil, err
	}

	e := &Episode{
		opts:      o,
		world:     w,
		ship:      ship,
		cells:     NewCellManager(nil),
		goals:     NewGoalManager(w, o.GoalInit, o.GoalMax),
		resources: NewResourceManager(w),
		obstacles: NewObstacleManager(w),
		respawner: NewRespawner(o.Respawn),
		obs:       NewObsBuffers(),
	}
	e.obs.Register(ObsShip, ShipStateSize)
	e.obs.Register(ObsGoals, o.NumGoals()*GoalStateSize)
	e.obs.Register(ObsResources, o.NumResources()*ResourceStateSize)
	e.obs.Register(ObsObstacles, o.NumObstacles*ObstacleStateSize)
	e.obs.RegisterInfo(InfoLevelComplete, 1)
	return e, nil
}

// Reset lays out a new level from seed. On failure the episode stays idle.
func (e *Episode) Reset(seed int64) error {
	e.phase = PhaseIdle
	e.seed = seed
	e.rng = platformcore.NewRNG(seed)
	e.total = 0

	e.grid = BuildArena(e.opts.WorldDim)
	e.cells.SetRNG(e.rng)
	e.cells.Reset(e.grid.Width(), e.grid.Height())
	e.cells.AddCells(e.grid.SpaceCells()...)
	e.cells.Randomize()

	e.world.Reset()
	e.goals.Reset()
	e.resources.Reset()
	e.obstacles.Reset()
	e.respawner.Reset()

	agent := e.world.Spawn(Entity{Kind: KindAgent, Radius: AgentRadius, Cell: -1})
	e.ship.Reset(agent)

	layout := &Layout{
		Cells:     e.cells,
		World:     e.world,
		Ship:      e.ship,
		Goals:     e.goals,
		Resources: e.resources,
		Obstacles: e.obstacles,
	}
	if err := Locate(e.opts.Locator, layout, e.opts); err != nil {
		return fmt.Errorf("reset seed %d: %w", seed, err)
	}
	e.ship.Entity().Cell = e.cells.PosToCell(e.ship.Pos())

	e.writeObservations(false)
	e.phase = PhaseRunning
	return nil
}

// ApplyAction feeds a discrete action to the ship before the engine moves it.
func (e *Episode) ApplyAction(a int) error {
	if e.phase != PhaseRunning {
		return ErrNotRunning
	}
	e.ship.ApplyAction(a)
	return nil
}

// Step advances one tick. contacts are the world indices the agent touched
// during the engine's move. The episode goes idle once Done is reported.
func (e *Episode) Step(contacts []int) (StepData, error) {
	if e.phase != PhaseRunning {
		return StepData{}, ErrNotRunning
	}

	e.world.Advance()
	tick := e.world.Tick()
	if _, err := e.respawner.Due(tick, e.world, e.cells, e.ship.Pos(), e.rng); err != nil {
		e.phase = PhaseIdle
		return StepData{Tick: tick}, err
	}

	var sd StepData
	sd.Tick = tick
	for _, idx := range contacts {
		sd.Reward += e.HandleContact(idx)
	}

	if e.ship.Fuel.Value() < epsilon {
		sd.Done = true
		sd.OutOfFuel = true
	}
	if e.goals.AnyComplete() {
		sd.Done = true
		sd.LevelComplete = true
	}
	if e.opts.Timeout > 0 && tick >= e.opts.Timeout {
		sd.Done = true
		sd.TimedOut = true
	}

	e.writeObservations(sd.LevelComplete)

	sd.Reward -= TickPenalty
	if sd.Done {
		sd.Reward -= (1 - e.ship.Fuel.Percentage()) * FuelDeficitPenalty
		e.phase = PhaseIdle
	}
	e.total += sd.Reward
	return sd, nil
}

// HandleContact applies the effect of the agent touching entity idx and
// returns the reward it earned. Inactive entities are ignored.
func (e *Episode) HandleContact(idx int) float64 {
	if idx < 0 || idx >= e.world.Len() {
		return 0
	}
	ent := e.world.At(idx)
	if !ent.Active() {
		return 0
	}

	switch ent.Kind {
	case KindResourceGreen, KindResourceRed:
		v := e.ship.Cargo.ConsumeKind(&ent.Reserve.Container, ent.Kind)
		if ent.Reserve.Value() <= 0 {
			e.deplete(idx)
		}
		if ent.Kind == KindResourceRed {
			return -v * ResourceRewardScale
		}
		return v * ResourceRewardScale
	case KindFuel:
		e.ship.Fuel.ConsumeGreedy(&ent.Reserve.Container)
		if ent.Reserve.Value() <= 0 {
			e.deplete(idx)
		}
	case KindGoalGreen:
		return ent.ConsumeCargo(e.ship.Cargo) * GreenGoalReward
	case KindGoalRed:
		return -ent.ConsumeCargo(e.ship.Cargo) * RedGoalPenalty
	}
	return 0
}

// deplete removes a drained resource, frees its cell and schedules its return.
func (e *Episode) deplete(idx int) {
	ent := e.world.At(idx)
	ent.Erased = true
	e.cells.Push(ent.Cell)
	e.respawner.Schedule(idx, e.world.Tick(), e.rng)
}

func (e *Episode) writeObservations(levelComplete bool) {
	e.scratch = e.ship.AppendState(e.scratch[:0])
	e.obs.Write(ObsShip, e.scratch)
	e.scratch = e.goals.AppendState(e.scratch[:0])
	e.obs.Write(ObsGoals, e.scratch)
	e.scratch = e.resources.AppendState(e.scratch[:0])
	e.obs.Write(ObsResources, e.scratch)
	e.scratch = e.obstacles.AppendState(e.scratch[:0])
	e.obs.Write(ObsObstacles, e.scratch)

	var info uint8
	if levelComplete {
		info = 1
	}
	e.obs.WriteInfo(InfoLevelComplete, []uint8{info})
}

// Options returns the episode options.
func (e *Episode) Options() Options { return e.opts }

// Seed returns the seed of the last Reset.
func (e *Episode) Seed() int64 { return e.seed }

// Phase returns the lifecycle state.
func (e *Episode) Phase() Phase { return e.phase }

// Running reports whether Step may be called.
func (e *Episode) Running() bool { return e.phase == PhaseRunning }

// Tick returns the number of completed ticks.
func (e *Episode) Tick() int { return e.world.Tick() }

// TotalReward returns the reward accumulated since Reset.
func (e *Episode) TotalReward() float64 { return e.total }

// Grid returns the tile layer.
func (e *Episode) Grid() *Grid { return e.grid }

// Cells returns the free-cell pool.
func (e *Episode) Cells() *CellManager { return e.cells }

// World returns the entity arena.
func (e *Episode) World() *World { return e.world }

// Ship returns the agent.
func (e *Episode) Ship() *Ship { return e.ship }

// Goals returns the goal manager.
func (e *Episode) Goals() *GoalManager { return e.goals }

// Resources returns the resource manager.
func (e *Episode) Resources() *ResourceManager { return e.resources }

// Obstacles returns the obstacle manager.
func (e *Episode) Obstacles() *ObstacleManager { return e.obstacles }

// Obs returns the observation buffers.
func (e *Episode) Obs() *ObsBuffers { return e.obs }
