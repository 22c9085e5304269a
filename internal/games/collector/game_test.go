package collector

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/collector/internal/config"
	platformcore "github.com/vovakirdan/collector/internal/core"
	"github.com/vovakirdan/collector/internal/games/collector/core"
	"github.com/vovakirdan/collector/internal/registry"
)

func testConfig(seed int64) platformcore.RuntimeConfig {
	return platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: seed}
}

func withOptions(t *testing.T, o core.Options) {
	t.Helper()
	prev := Options()
	SetOptions(o)
	t.Cleanup(func() { SetOptions(prev) })
}

func frame(actions ...platformcore.Action) platformcore.InputFrame {
	in := platformcore.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestPresetsRegistered(t *testing.T) {
	for _, p := range presets {
		if !registry.Exists(p.id) {
			t.Errorf("preset %q not registered", p.id)
		}
	}
	g, err := registry.Create("collector_inline")
	if err != nil {
		t.Fatal(err)
	}
	// an in-line layout may run out of cells; the episode still carries its options
	if err := g.Reset(testConfig(1)); err != nil && !errors.Is(err, core.ErrNoCell) {
		t.Fatal(err)
	}
	if got := g.(*Game).Episode().Options().Locator; got != core.LocatorInLine {
		t.Errorf("locator = %v, expected in_line", got)
	}
}

func TestTaskPresets(t *testing.T) {
	base := core.DefaultOptions()
	base.Timeout = 77
	base.CargoCoalesce = true
	withOptions(t, base)

	tests := []struct {
		id                          string
		locator                     core.LocatorType
		goals, resources            int
		fuel, obstacles             int
		goalMax, initGreen, initRed float64
	}{
		{"collector_gotogreen", core.LocatorSymmetric, 1, 0, 0, 0, 20, 20, 20},
		{"collector_avoidred", core.LocatorInLine, 1, 0, 0, 0, 20, 20, 10},
		{"collector_collectgreen", core.LocatorSymmetric, 1, 1, 0, 0, 10, 0, 0},
		{"collector_default", core.LocatorSymmetric, 1, 2, 2, 4, 30, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			o, err := PresetOptions(tt.id)
			if err != nil {
				t.Fatal(err)
			}
			if o.Locator != tt.locator || o.NumGoalsGreen != tt.goals || o.NumGoalsRed != tt.goals ||
				o.NumResourcesGreen != tt.resources || o.NumResourcesRed != tt.resources ||
				o.NumFuel != tt.fuel || o.NumObstacles != tt.obstacles || o.GoalMax != tt.goalMax ||
				o.AgentInitResourcesGreen != tt.initGreen || o.AgentInitResourcesRed != tt.initRed {
				t.Errorf("options = %+v", o)
			}
			if o.WorldDim != 16 || o.Timeout != 77 || !o.CargoCoalesce {
				t.Errorf("task did not keep the configured settings: %+v", o)
			}
			if err := o.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}

			g, err := registry.Create(tt.id)
			if err != nil {
				t.Fatal(err)
			}
			played := 0
			for seed := int64(1); seed <= 10; seed++ {
				if err := g.Reset(testConfig(seed)); err != nil {
					if !errors.Is(err, core.ErrNoCell) {
						t.Fatalf("seed %d: Reset() = %v", seed, err)
					}
					continue
				}
				played++
				ship := g.(*Game).Episode().Ship()
				if got := ship.Cargo.ValueOf(core.KindResourceGreen); got != tt.initGreen {
					t.Errorf("seed %d: green cargo %v, expected %v", seed, got, tt.initGreen)
				}
				if got := ship.Cargo.ValueOf(core.KindResourceRed); got != tt.initRed {
					t.Errorf("seed %d: red cargo %v, expected %v", seed, got, tt.initRed)
				}
			}
			if played == 0 {
				t.Error("no seed produced a level")
			}
		})
	}
}

func TestActionFromInput(t *testing.T) {
	tests := []struct {
		name string
		in   []platformcore.Action
		want int
	}{
		{"idle", nil, 4},
		{"thrust", []platformcore.Action{platformcore.ActionThrust}, 5},
		{"brake", []platformcore.Action{platformcore.ActionBrake}, 3},
		{"left", []platformcore.Action{platformcore.ActionLeft}, 7},
		{"right", []platformcore.Action{platformcore.ActionRight}, 1},
		{"thrust right", []platformcore.Action{platformcore.ActionThrust, platformcore.ActionRight}, 2},
		{"brake left", []platformcore.Action{platformcore.ActionBrake, platformcore.ActionLeft}, 6},
		{"both turns cancel", []platformcore.Action{platformcore.ActionLeft, platformcore.ActionRight}, 4},
		{"both thrusts cancel", []platformcore.Action{platformcore.ActionThrust, platformcore.ActionBrake}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActionFromInput(frame(tt.in...)); got != tt.want {
				t.Errorf("ActionFromInput() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() (platformcore.GameState, registry.Result) {
		g := New(presets[0])
		if err := g.Reset(testConfig(12345)); err != nil {
			t.Fatal(err)
		}
		var st platformcore.GameState
		for i := 0; i < 200; i++ {
			in := frame(platformcore.ActionThrust)
			if i%7 == 0 {
				in.Set(platformcore.ActionLeft)
			}
			st = g.Step(in).State
			if st.GameOver {
				break
			}
		}
		return st, g.Result()
	}

	s1, r1 := run()
	s2, r2 := run()
	if s1 != s2 {
		t.Errorf("states differ: %+v vs %+v", s1, s2)
	}
	if r1 != r2 {
		t.Errorf("results differ: %+v vs %+v", r1, r2)
	}
}

func TestGameStepReward(t *testing.T) {
	g := New(presets[0])
	if err := g.Reset(testConfig(3)); err != nil {
		t.Fatal(err)
	}
	res := g.Step(frame())
	if res.State.Tick != 1 || res.State.GameOver {
		t.Errorf("state = %+v", res.State)
	}
	if res.Reward > -core.TickPenalty+core.ResourceMax {
		t.Errorf("reward = %v", res.Reward)
	}
	if res.State.Score != res.Reward {
		t.Errorf("score %v != first reward %v", res.State.Score, res.Reward)
	}
}

func TestGamePause(t *testing.T) {
	g := New(presets[0])
	if err := g.Reset(testConfig(3)); err != nil {
		t.Fatal(err)
	}
	if st := g.Step(frame(platformcore.ActionPause)).State; !st.Paused || st.Tick != 0 {
		t.Errorf("after pause: %+v", st)
	}
	g.Step(frame())
	if g.State().Tick != 0 {
		t.Error("paused game advanced")
	}
	g.Step(frame(platformcore.ActionPause))
	if st := g.State(); st.Paused || st.Tick != 1 {
		t.Errorf("after unpause: %+v", st)
	}
}

func TestGameOutOfFuel(t *testing.T) {
	o := core.DefaultOptions()
	o.AgentInitFuel = 0
	withOptions(t, o)

	g := New(presets[0])
	if err := g.Reset(testConfig(8)); err != nil {
		t.Fatal(err)
	}
	st := g.Step(frame()).State
	if !st.GameOver || st.Won {
		t.Fatalf("state = %+v, expected lost", st)
	}
	if g.reason != endFuel {
		t.Errorf("reason = %v, expected out of fuel", g.reason)
	}

	// A finished game ignores input until restarted.
	if st := g.Step(frame(platformcore.ActionThrust)).State; st.Tick != 1 {
		t.Errorf("finished game advanced to tick %d", st.Tick)
	}

	r := g.Result()
	if r.GameID != "collector" || r.Seed != 8 || r.Ticks != 1 || r.LevelComplete || r.FuelLeft != 0 {
		t.Errorf("Result() = %+v", r)
	}
	if r.Locator != "symmetric" {
		t.Errorf("locator = %q", r.Locator)
	}

	scr := platformcore.NewScreen(80, 24)
	g.Render(scr)
	if out := scr.String(); !strings.Contains(out, "Out of fuel") || !strings.Contains(out, "┌") {
		t.Errorf("expected a framed out-of-fuel notice:\n%s", out)
	}

	g.Step(frame(platformcore.ActionRestart))
	if g.Episode().Seed() != 9 || g.State().GameOver {
		t.Errorf("restart: seed %d, state %+v", g.Episode().Seed(), g.State())
	}
}

func TestGameLevelComplete(t *testing.T) {
	o := core.DefaultOptions()
	o.GoalInit = o.GoalMax - 0.05
	withOptions(t, o)

	g := New(presets[0])
	if err := g.Reset(testConfig(4)); err != nil {
		t.Fatal(err)
	}
	st := g.Step(frame()).State
	if !st.GameOver || !st.Won || !g.Result().LevelComplete {
		t.Errorf("state = %+v, expected won", st)
	}
}

func TestGameResetError(t *testing.T) {
	o := core.DefaultOptions()
	o.WorldDim = 4
	o.Locator = core.LocatorRandom
	o.NumObstacles = 40
	withOptions(t, o)

	g := New(presets[0])
	err := g.Reset(testConfig(1))
	if !errors.Is(err, core.ErrNoCell) {
		t.Fatalf("Reset() error = %v, expected ErrNoCell", err)
	}
	if !g.State().GameOver || g.Err() == nil {
		t.Errorf("failed game should be over, state %+v", g.State())
	}

	for _, width := range []int{80, 30} {
		scr := platformcore.NewScreen(width, 24)
		g.Render(scr)
		out := scr.String()
		for _, want := range []string{"Layout failed", "satisfies", "constraints", "R: try the next seed"} {
			if !strings.Contains(out, want) {
				t.Errorf("width %d: render missing %q:\n%s", width, want, out)
			}
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  []string
	}{
		{"no cell left", 40, []string{"no cell left"}},
		{"no cell left", 7, []string{"no cell", "left"}},
		{"a  b", 1, []string{"a", "b"}},
		{"abcdefgh ij", 3, []string{"abc", "def", "gh", "ij"}},
		{"", 10, nil},
	}
	for _, tt := range tests {
		got := wrapText(tt.s, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("wrapText(%q, %d) = %q, expected %q", tt.s, tt.width, got, tt.want)
		}
		for _, line := range got {
			if n := len([]rune(line)); n > tt.width {
				t.Errorf("wrapText(%q, %d) line %q is %d wide", tt.s, tt.width, line, n)
			}
		}
	}
}

func TestFitText(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"Paused", 10, "Paused"},
		{"Paused", 6, "Paused"},
		{"Paused", 4, "Pau…"},
		{"Paused", 1, "P"},
		{"Paused", 0, ""},
	}
	for _, tt := range tests {
		if got := fitText(tt.s, tt.width); got != tt.want {
			t.Errorf("fitText(%q, %d) = %q, expected %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestOverlayFitsScreen(t *testing.T) {
	scr := platformcore.NewScreen(20, 8)
	overlay(scr, 4, "Step failed", strings.Repeat("x", 60), platformcore.ColorRed)

	if scr.Get(0, 3) != '┌' || scr.Get(19, 3) != '┐' {
		t.Errorf("box does not span the screen:\n%s", scr)
	}
	if row := scr.Row(5); !strings.Contains(row, "…") {
		t.Errorf("long detail was not cut: %q", row)
	}
	if !strings.Contains(scr.Row(4), "Step failed") {
		t.Errorf("title missing: %q", scr.Row(4))
	}
}

func TestRender(t *testing.T) {
	g := New(presets[0])
	if err := g.Reset(testConfig(2)); err != nil {
		t.Fatal(err)
	}
	scr := platformcore.NewScreen(80, 24)
	g.Render(scr)
	out := scr.String()

	for _, want := range []string{"Collector", "seed 2", "Fuel", "Cargo", "Goals", "G", "F", "█"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	agent := g.Episode().Ship().Entity()
	x, y := int(agent.Pos.X)*cellW, hudHeight+int(agent.Pos.Y)
	if scr.Get(x, y) != arrowFor(agent.Rot) {
		t.Errorf("agent glyph %q at (%d,%d), expected %q", scr.Get(x, y), x, y, arrowFor(agent.Rot))
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New(presets[0])
	if err := g.Reset(testConfig(2)); err != nil {
		t.Fatal(err)
	}
	scr := platformcore.NewScreen(30, 10)
	g.Render(scr)
	if !strings.Contains(scr.String(), "too small") {
		t.Errorf("expected a too-small notice:\n%s", scr)
	}
}

func TestArrowFor(t *testing.T) {
	tests := []struct {
		from, to platformcore.Vec2
		want     rune
	}{
		{platformcore.V(5, 5), platformcore.V(9, 5), '→'},
		{platformcore.V(5, 5), platformcore.V(1, 5), '←'},
		{platformcore.V(5, 5), platformcore.V(5, 9), '↓'},
		{platformcore.V(5, 5), platformcore.V(5, 1), '↑'},
		{platformcore.V(5, 5), platformcore.V(9, 9), '↘'},
	}
	for _, tt := range tests {
		if got := arrowFor(platformcore.Heading(tt.from, tt.to)); got != tt.want {
			t.Errorf("arrowFor(%v -> %v) = %q, expected %q", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultCollectorConfig()
	cfg.InitLocatorType = config.LocatorInLine
	cfg.Respawn = config.RespawnConfig{Timing: "random", Delay: 5, DelayMax: 10, Location: "next_away", MinDistance: 3}
	cfg.Timeout = 500

	o, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if o.Locator != core.LocatorInLine || o.Timeout != 500 || o.WorldDim != cfg.WorldDim {
		t.Errorf("options = %+v", o)
	}
	want := core.RespawnPolicy{Timing: core.RespawnRandom, Delay: 5, DelayMax: 10, Location: core.LocationNextAway, MinDistance: 3}
	if o.Respawn != want {
		t.Errorf("respawn = %+v, expected %+v", o.Respawn, want)
	}

	def, err := OptionsFromConfig(config.DefaultCollectorConfig())
	if err != nil {
		t.Fatal(err)
	}
	if def.Respawn.MinDistance != 4 {
		t.Errorf("default min distance = %v", def.Respawn.MinDistance)
	}
	def.Respawn.MinDistance = 0
	if def != core.DefaultOptions() {
		t.Errorf("default config = %+v\nexpected %+v", def, core.DefaultOptions())
	}
}

func TestOptionsFromConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.CollectorConfig)
		want   string
	}{
		{"locator", func(c *config.CollectorConfig) { c.InitLocatorType = "spiral" }, "spiral"},
		{"timing", func(c *config.CollectorConfig) { c.Respawn.Timing = "later" }, "later"},
		{"location", func(c *config.CollectorConfig) { c.Respawn.Location = "moon" }, "moon"},
		{"odd fuel", func(c *config.CollectorConfig) { c.NumFuel = 3 }, "num_fuel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultCollectorConfig()
			tt.mutate(&cfg)
			_, err := OptionsFromConfig(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, expected mention of %q", err, tt.want)
			}
			if !errors.Is(err, core.ErrInvalidOptions) {
				t.Errorf("error %v does not wrap ErrInvalidOptions", err)
			}
		})
	}
}
