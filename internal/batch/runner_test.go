package batch

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vovakirdan/collector/internal/games/collector"
	"github.com/vovakirdan/collector/internal/games/collector/core"
	"github.com/vovakirdan/collector/internal/recording"
	"github.com/vovakirdan/collector/internal/registry"
)

type memorySaver struct {
	mu      sync.Mutex
	results []registry.Result
}

func (s *memorySaver) SaveEpisode(r registry.Result) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return int64(len(s.results)), nil
}

func TestRunOrderAndDeterminism(t *testing.T) {
	jobs := Jobs("collector", "seek", 100, 8)

	cfg := DefaultConfig()
	cfg.Workers = 3
	first, err := NewRunner(cfg).Run(context.Background(), jobs, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	cfg.Workers = 1
	second, err := NewRunner(cfg).Run(context.Background(), jobs, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, r := range first {
		if r.Seed != jobs[i].Seed || r.GameID != "collector" {
			t.Errorf("result %d = %+v, expected seed %d", i, r, jobs[i].Seed)
		}
		if r != second[i] {
			t.Errorf("result %d differs between runs: %+v vs %+v", i, r, second[i])
		}
		if r.Ticks == 0 || r.Ticks > 1000 {
			t.Errorf("result %d ran %d ticks, expected 1..1000", i, r.Ticks)
		}
	}
}

func TestRunIdleEndsWhenGoalFills(t *testing.T) {
	res, err := NewRunner(DefaultConfig()).RunEpisode(context.Background(), Job{GameID: "collector_random", Seed: 1, Policy: "idle"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 1000 || !res.LevelComplete {
		t.Errorf("idle episode = %+v, expected completion at tick 1000", res)
	}
	if res.Locator != "random" {
		t.Errorf("locator = %q", res.Locator)
	}
	if res.FuelLeft != 100 {
		t.Errorf("idle ship burned fuel: %v", res.FuelLeft)
	}
	// 1000 tick penalties and no fuel deficit.
	if math.Abs(res.TotalReward+1000*core.TickPenalty) > 1e-6 {
		t.Errorf("reward = %v, expected %v", res.TotalReward, -1000*core.TickPenalty)
	}
}

func TestRunMaxTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTicks = 10
	res, err := NewRunner(cfg).RunEpisode(context.Background(), Job{GameID: "collector", Seed: 2, Policy: "idle"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticks != 10 || res.LevelComplete {
		t.Errorf("result = %+v, expected a stop at tick 10", res)
	}
}

func TestRunSavesRecordsAndReports(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.RecordDir = dir
	r := NewRunner(cfg)
	saver := &memorySaver{}
	r.SetResultSaver(saver)

	jobs := Jobs("collector_symmetric", "random", 7, 3)
	events := make(chan Event, 16)
	results, err := r.Run(context.Background(), jobs, events)
	if err != nil {
		t.Fatal(err)
	}
	close(events)

	if len(saver.results) != len(jobs) {
		t.Errorf("saved %d results, expected %d", len(saver.results), len(jobs))
	}

	var started, finished int
	for ev := range events {
		switch e := ev.(type) {
		case EpisodeStartedEvent:
			started++
		case EpisodeFinishedEvent:
			finished++
			if e.Recording != filepath.Join(dir, recording.FileName(e.Job.GameID, e.Job.Seed)) {
				t.Errorf("recording path = %q", e.Recording)
			}
		case EpisodeFailedEvent:
			t.Errorf("unexpected failure: %v", e.Err)
		}
	}
	if started != 3 || finished != 3 {
		t.Errorf("events: %d started, %d finished", started, finished)
	}

	lines, err := recording.ReadFile(filepath.Join(dir, recording.FileName("collector_symmetric", 8)))
	if err != nil {
		t.Fatal(err)
	}
	if lines[0].Type != recording.TypeHeader || lines[0].Layout.Locator != "symmetric" {
		t.Errorf("first line = %+v", lines[0])
	}
	last := lines[len(lines)-1]
	if last.Type != recording.TypeResult || *last.Result != results[1] {
		t.Errorf("last line = %+v, expected result %+v", last, results[1])
	}
	if steps := len(lines) - 2; steps != results[1].Ticks {
		t.Errorf("%d step lines for %d ticks", steps, results[1].Ticks)
	}
}

func TestRunInLineFailuresAreLayoutErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTicks = 5
	jobs := Jobs("collector_inline", "idle", 1, 30)
	events := make(chan Event, 2*len(jobs))
	results, err := NewRunner(cfg).Run(context.Background(), jobs, events)
	close(events)

	failed := 0
	for ev := range events {
		if e, ok := ev.(EpisodeFailedEvent); ok {
			failed++
			if !errors.Is(e.Err, core.ErrNoCell) {
				t.Errorf("seed %d failed with %v, expected ErrNoCell", e.Job.Seed, e.Err)
			}
		}
	}
	if (failed > 0) != (err != nil) {
		t.Errorf("%d failed episodes but Run() error = %v", failed, err)
	}
	if err != nil && !errors.Is(err, core.ErrNoCell) {
		t.Errorf("Run() error = %v, expected ErrNoCell", err)
	}

	sum := Summarize(results)
	if sum.Episodes+failed != len(jobs) || sum.Episodes == 0 {
		t.Errorf("%d finished and %d failed of %d", sum.Episodes, failed, len(jobs))
	}
	for _, r := range results {
		if r.GameID != "" && (r.Locator != "in_line" || r.Ticks != 5) {
			t.Errorf("result = %+v", r)
		}
	}
}

func TestRunCollectsFailures(t *testing.T) {
	jobs := []Job{
		{GameID: "collector", Seed: 1, Policy: "idle"},
		{GameID: "missing", Seed: 2, Policy: "idle"},
		{GameID: "collector", Seed: 3, Policy: "teleport"},
	}
	cfg := DefaultConfig()
	cfg.MaxTicks = 5
	results, err := NewRunner(cfg).Run(context.Background(), jobs, nil)
	if err == nil {
		t.Fatal("expected an error for bad jobs")
	}
	if results[0].Ticks != 5 {
		t.Errorf("good job result = %+v", results[0])
	}
	if results[1].GameID != "" || results[2].GameID != "" {
		t.Errorf("failed jobs left results: %+v", results[1:])
	}
	if s := Summarize(results); s.Episodes != 1 {
		t.Errorf("summary counted %d episodes, expected 1", s.Episodes)
	}
}

func TestRunLayoutFailure(t *testing.T) {
	o := core.DefaultOptions()
	o.WorldDim = 4
	o.NumObstacles = 40
	prev := collector.Options()
	collector.SetOptions(o)
	t.Cleanup(func() { collector.SetOptions(prev) })

	_, err := NewRunner(DefaultConfig()).RunEpisode(context.Background(), Job{GameID: "collector_random", Seed: 1})
	if !errors.Is(err, core.ErrNoCell) {
		t.Errorf("error = %v, expected ErrNoCell", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(DefaultConfig()).Run(ctx, Jobs("collector", "seek", 1, 20), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, expected context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]registry.Result{
		{GameID: "a", TotalReward: -100, Ticks: 10},
		{},
		{GameID: "a", TotalReward: 50, Ticks: 30, LevelComplete: true},
	})
	if s.Episodes != 2 || s.Completed != 1 || s.BestReward != 50 || s.MeanReward != -25 || s.MeanTicks != 20 {
		t.Errorf("Summarize() = %+v", s)
	}
}

func TestNewPolicy(t *testing.T) {
	for _, name := range PolicyNames {
		if _, err := NewPolicy(name, 1); err != nil {
			t.Errorf("NewPolicy(%q) error = %v", name, err)
		}
	}
	if _, err := NewPolicy("teleport", 1); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestAngleDiff(t *testing.T) {
	tests := []struct{ a, b, want float64 }{
		{0.5, 0.2, 0.3},
		{0.1, 2*math.Pi - 0.1, 0.2},
		{-3, 3, 2*math.Pi - 6},
		{math.Pi, 0, math.Pi},
	}
	for _, tt := range tests {
		if got := angleDiff(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("angleDiff(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSeekTurnsTowardTarget(t *testing.T) {
	o := core.DefaultOptions()
	o.Locator = core.LocatorRandom
	o.NumGoalsGreen, o.NumGoalsRed = 0, 0
	o.NumResourcesGreen, o.NumResourcesRed = 1, 1
	o.NumFuel, o.NumObstacles = 0, 0
	ep, err := core.NewEpisode(o)
	if err != nil {
		t.Fatal(err)
	}
	if err := ep.Reset(3); err != nil {
		t.Fatal(err)
	}

	var green *core.Entity
	for _, idx := range ep.Resources().All() {
		if e := ep.World().At(idx); e.Kind == core.KindResourceGreen {
			green = e
		}
	}
	ship := ep.Ship()

	ship.SetPoseFacing(ship.Pos(), green.Pos)
	if a := (seekPolicy{}).Action(ep); a != 5 {
		t.Errorf("facing the target: action %d, expected 5 (thrust, no turn)", a)
	}

	ship.Entity().Rot += math.Pi / 2
	if a := (seekPolicy{}).Action(ep); a/3 != 0 || a%3 != 1 {
		t.Errorf("target to the side: action %d, expected a turn back without thrust", a)
	}
}

func TestRecordingFilesAreCompressed(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.RecordDir = dir
	cfg.MaxTicks = 50
	if _, err := NewRunner(cfg).RunEpisode(context.Background(), Job{GameID: "collector", Seed: 4, Policy: "random"}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, recording.FileName("collector", 4)))
	if err != nil {
		t.Fatal(err)
	}
	// zstd frame magic
	if len(raw) < 4 || raw[0] != 0x28 || raw[1] != 0xB5 || raw[2] != 0x2F || raw[3] != 0xFD {
		t.Errorf("file does not start with a zstd frame: % x", raw[:min(4, len(raw))])
	}
}
