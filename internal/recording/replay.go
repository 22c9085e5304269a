package recording

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/collector/internal/engine"
	"github.com/vovakirdan/collector/internal/games/collector/core"
)

// ErrDiverged is returned when a replayed episode stops matching its
// recording.
var ErrDiverged = errors.New("recording: replay diverged")

const replayTolerance = 1e-9

// Header returns the layout line of a recording.
func Header(lines []Line) (*Layout, error) {
	if len(lines) == 0 || lines[0].Type != TypeHeader || lines[0].Layout == nil {
		return nil, errors.New("recording: missing header")
	}
	return lines[0].Layout, nil
}

// Replay feeds the recorded actions to ep, which must already be reset to the
// recorded seed, and checks every tick against the recording. It returns the
// number of ticks replayed.
func Replay(ep *core.Episode, lines []Line) (int, error) {
	hdr, err := Header(lines)
	if err != nil {
		return 0, err
	}
	if err := compareLayout(hdr, Snapshot(hdr.GameID, ep)); err != nil {
		return 0, err
	}

	ticks := 0
	for _, l := range lines[1:] {
		if l.Type != TypeStep || l.Step == nil {
			continue
		}
		want := l.Step
		sd, err := engine.Advance(ep, want.Action)
		if err != nil {
			return ticks, fmt.Errorf("%w at tick %d: %v", ErrDiverged, want.Tick, err)
		}
		ticks++

		agent := ep.Ship().Entity()
		switch {
		case sd.Tick != want.Tick:
			return ticks, fmt.Errorf("%w: tick %d, recorded %d", ErrDiverged, sd.Tick, want.Tick)
		case !near(sd.Reward, want.Reward):
			return ticks, fmt.Errorf("%w at tick %d: reward %v, recorded %v", ErrDiverged, want.Tick, sd.Reward, want.Reward)
		case !near(agent.Pos.X, want.X) || !near(agent.Pos.Y, want.Y):
			return ticks, fmt.Errorf("%w at tick %d: agent at (%v, %v), recorded (%v, %v)",
				ErrDiverged, want.Tick, agent.Pos.X, agent.Pos.Y, want.X, want.Y)
		case !near(ep.Ship().Fuel.Value(), want.Fuel):
			return ticks, fmt.Errorf("%w at tick %d: fuel %v, recorded %v", ErrDiverged, want.Tick, ep.Ship().Fuel.Value(), want.Fuel)
		case sd.Done != want.Done:
			return ticks, fmt.Errorf("%w at tick %d: done %v, recorded %v", ErrDiverged, want.Tick, sd.Done, want.Done)
		}
	}
	return ticks, nil
}

func compareLayout(want *Layout, got Layout) error {
	if want.Seed != got.Seed || want.Width != got.Width || want.Height != got.Height {
		return fmt.Errorf("%w: layout header differs", ErrDiverged)
	}
	if len(want.Entities) != len(got.Entities) {
		return fmt.Errorf("%w: %d entities, recorded %d", ErrDiverged, len(got.Entities), len(want.Entities))
	}
	for i, w := range want.Entities {
		g := got.Entities[i]
		if w.Kind != g.Kind || w.Cell != g.Cell || !near(w.X, g.X) || !near(w.Y, g.Y) {
			return fmt.Errorf("%w: entity %d is %s at cell %d, recorded %s at cell %d",
				ErrDiverged, w.Index, g.Kind, g.Cell, w.Kind, w.Cell)
		}
	}
	return nil
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= replayTolerance
}
