package core

import (
	"errors"
	"math"
	"testing"
)

func TestNewEpisodeRejectsInvalidOptions(t *testing.T) {
	o := DefaultOptions()
	o.NumFuel = 3
	if _, err := NewEpisode(o); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("NewEpisode() error = %v, expected ErrInvalidOptions", err)
	}
}

func TestEpisodeStepBeforeReset(t *testing.T) {
	e, err := NewEpisode(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Step(nil); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Step() error = %v, expected ErrNotRunning", err)
	}
	if err := e.ApplyAction(5); !errors.Is(err, ErrNotRunning) {
		t.Errorf("ApplyAction() error = %v, expected ErrNotRunning", err)
	}
}

func TestEpisodeBufferSizes(t *testing.T) {
	o := DefaultOptions()
	e, err := NewEpisode(o)
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]int{
		ObsShip:      9,
		ObsGoals:     2 * 4,
		ObsResources: 6 * 4,
		ObsObstacles: 2 * 3,
	}
	for _, spec := range e.Obs().Specs() {
		if expected[spec.Name] != spec.Size {
			t.Errorf("%s size %d, expected %d", spec.Name, spec.Size, expected[spec.Name])
		}
	}
	if len(e.Obs().GetInfo(InfoLevelComplete)) != 1 {
		t.Error("level_complete info buffer missing")
	}
}

func TestEpisodeIdleStep(t *testing.T) {
	e := resetEpisode(t, DefaultOptions(), 1)
	sd, err := e.Step(nil)
	if err != nil {
		t.Fatal(err)
	}
	if sd.Done || sd.LevelComplete || sd.Tick != 1 {
		t.Errorf("StepData = %+v, expected a plain first tick", sd)
	}
	if sd.Reward != -TickPenalty {
		t.Errorf("reward = %v, expected %v", sd.Reward, -TickPenalty)
	}
	if e.TotalReward() != -TickPenalty {
		t.Errorf("TotalReward() = %v", e.TotalReward())
	}
}

func TestEpisodeContacts(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(o *Options)
		target   func(e *Episode) int
		expected float64
		check    func(t *testing.T, e *Episode)
	}{
		{
			name:     "green resource",
			target:   func(e *Episode) int { return e.Resources().All()[0] },
			expected: 1 - TickPenalty,
			check: func(t *testing.T, e *Episode) {
				if e.Ship().Cargo.ValueOf(KindResourceGreen) != 1 {
					t.Errorf("green cargo = %v, expected 1", e.Ship().Cargo.ValueOf(KindResourceGreen))
				}
			},
		},
		{
			name:     "red resource",
			target:   func(e *Episode) int { return e.Resources().All()[1] },
			expected: -1 - TickPenalty,
		},
		{
			name:     "fuel",
			setup:    func(o *Options) { o.AgentInitFuel = 50 },
			target:   func(e *Episode) int { return e.Resources().All()[4] },
			expected: -TickPenalty,
			check: func(t *testing.T, e *Episode) {
				if e.Ship().Fuel.Value() != 51 {
					t.Errorf("fuel = %v, expected 51", e.Ship().Fuel.Value())
				}
			},
		},
		{
			name:     "green goal",
			setup:    func(o *Options) { o.AgentInitResourcesGreen = 5 },
			target:   func(e *Episode) int { return e.Goals().OfKind(KindGoalGreen)[0] },
			expected: 5*GreenGoalReward - TickPenalty,
			check: func(t *testing.T, e *Episode) {
				g := e.World().At(e.Goals().OfKind(KindGoalGreen)[0])
				if math.Abs(g.Reserve.Value()-5.1) > 1e-9 {
					t.Errorf("goal value = %v, expected 5.1", g.Reserve.Value())
				}
			},
		},
		{
			name:     "red goal",
			setup:    func(o *Options) { o.AgentInitResourcesRed = 5 },
			target:   func(e *Episode) int { return e.Goals().OfKind(KindGoalRed)[0] },
			expected: -5*RedGoalPenalty - TickPenalty,
		},
		{
			name:     "green goal ignores red cargo",
			setup:    func(o *Options) { o.AgentInitResourcesRed = 5 },
			target:   func(e *Episode) int { return e.Goals().OfKind(KindGoalGreen)[0] },
			expected: -TickPenalty,
			check: func(t *testing.T, e *Episode) {
				if e.Ship().Cargo.Value() != 5 {
					t.Errorf("cargo = %v, expected untouched", e.Ship().Cargo.Value())
				}
			},
		},
		{
			name:     "obstacle",
			target:   func(e *Episode) int { return e.Obstacles().All()[0] },
			expected: -TickPenalty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := DefaultOptions()
			if tc.setup != nil {
				tc.setup(&o)
			}
			e := resetEpisode(t, o, 3)
			sd, err := e.Step([]int{tc.target(e)})
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(sd.Reward-tc.expected) > 1e-9 {
				t.Errorf("reward = %v, expected %v", sd.Reward, tc.expected)
			}
			if tc.check != nil {
				tc.check(t, e)
			}
		})
	}
}

func TestEpisodeDepletedResourceDisappears(t *testing.T) {
	e := resetEpisode(t, DefaultOptions(), 5)
	idx := e.Resources().All()[0]
	cell := e.World().At(idx).Cell

	if _, err := e.Step([]int{idx}); err != nil {
		t.Fatal(err)
	}
	if e.World().At(idx).Active() {
		t.Fatal("drained resource still active")
	}
	if !e.Cells().Contains(cell) {
		t.Error("drained resource cell not returned to the pool")
	}
	if got := e.Obs().Get(ObsResources)[3]; got != 0 {
		t.Errorf("existing flag = %v, expected 0", got)
	}

	// erased entities no longer react to contact
	sd, _ := e.Step([]int{idx})
	if sd.Reward != -TickPenalty {
		t.Errorf("contact with erased resource rewarded %v", sd.Reward+TickPenalty)
	}
}

func TestEpisodeRespawnNow(t *testing.T) {
	o := DefaultOptions()
	o.Respawn = RespawnPolicy{Timing: RespawnNow, Location: LocationRandom}
	e := resetEpisode(t, o, 5)
	idx := e.Resources().All()[0]

	e.Step([]int{idx})
	if e.World().At(idx).Active() {
		t.Fatal("resource should be gone for the rest of its tick")
	}
	if _, err := e.Step(nil); err != nil {
		t.Fatal(err)
	}
	if !e.World().At(idx).Active() {
		t.Error("resource did not respawn")
	}
	if e.Cells().Contains(e.World().At(idx).Cell) {
		t.Error("respawn cell still free")
	}
}

func TestEpisodeTermination(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(o *Options)
		steps    int
		complete bool
		noFuel   bool
		timedOut bool
		reward   float64
	}{
		{"out of fuel", func(o *Options) { o.AgentInitFuel = 0 }, 1, false, true, false, -TickPenalty - FuelDeficitPenalty},
		{"goal filled", func(o *Options) { o.GoalInit = 99.95 }, 1, true, false, false, -TickPenalty},
		{"complete wins over empty tank", func(o *Options) {
			o.GoalInit = 99.95
			o.AgentInitFuel = 0
		}, 1, true, true, false, -TickPenalty - FuelDeficitPenalty},
		{"half tank penalty", func(o *Options) {
			o.GoalInit = 99.95
			o.AgentInitFuel = 50
		}, 1, true, false, false, -TickPenalty - FuelDeficitPenalty/2},
		{"timeout", func(o *Options) { o.Timeout = 3 }, 3, false, false, true, -TickPenalty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := DefaultOptions()
			tc.setup(&o)
			e := resetEpisode(t, o, 9)

			var sd StepData
			for i := 0; i < tc.steps; i++ {
				if sd.Done {
					t.Fatalf("done early at tick %d", sd.Tick)
				}
				var err error
				if sd, err = e.Step(nil); err != nil {
					t.Fatal(err)
				}
			}
			if !sd.Done || sd.LevelComplete != tc.complete {
				t.Fatalf("StepData = %+v, expected done with complete=%v", sd, tc.complete)
			}
			if sd.OutOfFuel != tc.noFuel || sd.TimedOut != tc.timedOut {
				t.Errorf("StepData = %+v, expected out of fuel %v, timed out %v", sd, tc.noFuel, tc.timedOut)
			}
			if math.Abs(sd.Reward-tc.reward) > 1e-9 {
				t.Errorf("final reward = %v, expected %v", sd.Reward, tc.reward)
			}

			var flag uint8
			if tc.complete {
				flag = 1
			}
			if got := e.Obs().GetInfo(InfoLevelComplete)[0]; got != flag {
				t.Errorf("level_complete = %d, expected %d", got, flag)
			}
			if e.Running() {
				t.Error("episode still running after done")
			}
			if _, err := e.Step(nil); !errors.Is(err, ErrNotRunning) {
				t.Errorf("Step() after done error = %v", err)
			}

			if err := e.Reset(10); err != nil {
				t.Fatal(err)
			}
			if !e.Running() || e.Tick() != 0 || e.TotalReward() != 0 {
				t.Error("Reset did not start a fresh episode")
			}
		})
	}
}

func TestEpisodeGoalsFillOnTheirOwn(t *testing.T) {
	e := resetEpisode(t, DefaultOptions(), 2)
	var sd StepData
	var err error
	for !sd.Done {
		if sd, err = e.Step(nil); err != nil {
			t.Fatal(err)
		}
	}
	if sd.Tick != 1000 || !sd.LevelComplete {
		t.Errorf("finished at tick %d complete=%v, expected tick 1000 complete", sd.Tick, sd.LevelComplete)
	}
}

func TestEpisodeBoundBuffers(t *testing.T) {
	o := DefaultOptions()
	o.AgentInitFuel = 70
	e, err := NewEpisode(o)
	if err != nil {
		t.Fatal(err)
	}
	ship := make([]float32, ShipStateSize)
	done := make([]uint8, 1)
	if err := e.Obs().Bind(ObsShip, ship); err != nil {
		t.Fatal(err)
	}
	if err := e.Obs().BindInfo(InfoLevelComplete, done); err != nil {
		t.Fatal(err)
	}
	if err := e.Reset(4); err != nil {
		t.Fatal(err)
	}
	if ship[6] != 70 {
		t.Errorf("bound fuel = %v, expected 70", ship[6])
	}

	if err := e.ApplyAction(5); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Step(nil); err != nil {
		t.Fatal(err)
	}
	if ship[6] >= 70 {
		t.Errorf("bound fuel = %v, expected burn below 70", ship[6])
	}
}

func TestEpisodeResetFailureStaysIdle(t *testing.T) {
	o := DefaultOptions()
	o.WorldDim = 4
	o.NumObstacles = 40
	e, err := NewEpisode(o)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Reset(1); !errors.Is(err, ErrNoCell) {
		t.Fatalf("Reset() error = %v, expected ErrNoCell", err)
	}
	if e.Running() {
		t.Error("failed Reset left the episode running")
	}
}
