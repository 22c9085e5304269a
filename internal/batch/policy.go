package batch

import (
	"fmt"
	"math"

	platformcore "github.com/vovakirdan/collector/internal/core"
	"github.com/vovakirdan/collector/internal/engine"
	"github.com/vovakirdan/collector/internal/games/collector/core"
)

// Policy picks the next action for an episode.
type Policy interface {
	Action(ep *core.Episode) int
}

// PolicyNames lists the built-in policies.
var PolicyNames = []string{"idle", "random", "seek"}

// NewPolicy creates a built-in policy. seed drives any randomness it uses.
func NewPolicy(name string, seed int64) (Policy, error) {
	switch name {
	case "idle":
		return idlePolicy{}, nil
	case "random":
		return &randomPolicy{rng: platformcore.NewRNG(seed)}, nil
	case "", "seek":
		return seekPolicy{}, nil
	}
	return nil, fmt.Errorf("batch: unknown policy %q", name)
}

type idlePolicy struct{}

func (idlePolicy) Action(*core.Episode) int { return 4 }

type randomPolicy struct {
	rng *platformcore.RNG
}

func (p *randomPolicy) Action(*core.Episode) int {
	return p.rng.Intn(core.NumActions)
}

// seekPolicy steers toward whatever the ship needs most: fuel when the tank
// runs low, the green goal once green cargo is aboard, and otherwise the
// nearest green resource. Red entities are never targeted.
type seekPolicy struct{}

const (
	lowFuel   = 0.3
	cargoGoal = 5.0
	aimCone   = math.Pi / 4
)

func (seekPolicy) Action(ep *core.Episode) int {
	ship := ep.Ship()
	pos := ship.Pos()

	target, ok := seekTarget(ep)
	if !ok {
		return 4
	}

	diff := angleDiff(platformcore.Heading(pos, target), ship.Entity().Rot)
	turn := 1
	switch {
	case diff > engine.RotStep/2:
		turn = 2
	case diff < -engine.RotStep/2:
		turn = 0
	}
	thrust := 1
	if math.Abs(diff) < aimCone {
		thrust = 2
	}
	return turn*3 + thrust
}

func seekTarget(ep *core.Episode) (platformcore.Vec2, bool) {
	ship := ep.Ship()
	pos := ship.Pos()

	if ship.Fuel.Percentage() < lowFuel {
		if p, ok := nearest(ep, pos, core.KindFuel); ok {
			return p, true
		}
	}
	green := ship.Cargo.ValueOf(core.KindResourceGreen)
	if green >= cargoGoal || (green > 0 && !hasActive(ep, core.KindResourceGreen)) {
		if p, ok := nearest(ep, pos, core.KindGoalGreen); ok {
			return p, true
		}
	}
	if p, ok := nearest(ep, pos, core.KindResourceGreen); ok {
		return p, true
	}
	return nearest(ep, pos, core.KindGoalGreen)
}

func nearest(ep *core.Episode, from platformcore.Vec2, kind core.Kind) (platformcore.Vec2, bool) {
	w := ep.World()
	best, found := math.Inf(1), false
	var at platformcore.Vec2
	for i := 0; i < w.Len(); i++ {
		e := w.At(i)
		if e.Kind != kind || !e.Active() {
			continue
		}
		if d := platformcore.Dist(from, e.Pos); d < best {
			best, at, found = d, e.Pos, true
		}
	}
	return at, found
}

func hasActive(ep *core.Episode, kind core.Kind) bool {
	_, ok := nearest(ep, platformcore.Vec2{}, kind)
	return ok
}

// angleDiff returns a-b wrapped into (-pi, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	switch {
	case d > math.Pi:
		d -= 2 * math.Pi
	case d <= -math.Pi:
		d += 2 * math.Pi
	}
	return d
}
