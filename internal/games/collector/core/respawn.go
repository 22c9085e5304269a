package core

import (
	"fmt"

	platformcore "github.com/vovakirdan/collector/internal/core"
)

// RespawnTiming decides how many ticks a depleted resource stays away.
type RespawnTiming int

const (
	RespawnNever RespawnTiming = iota
	RespawnNow
	RespawnFixed
	RespawnRandom
)

// RespawnLocation decides where a depleted resource comes back.
type RespawnLocation int

const (
	LocationStatic RespawnLocation = iota
	LocationNext
	LocationRandom
	LocationNextAway
	LocationRandomAway
)

// RespawnPolicy combines a timing and a location rule.
type RespawnPolicy struct {
	Timing      RespawnTiming
	Delay       int // RespawnFixed delay, or RespawnRandom lower bound
	DelayMax    int // RespawnRandom upper bound (exclusive)
	Location    RespawnLocation
	MinDistance float64 // for the *Away locations
}

// ParseRespawnTiming maps a config name to a timing rule.
func ParseRespawnTiming(name string) (RespawnTiming, error) {
	switch name {
	case "", "never":
		return RespawnNever, nil
	case "now":
		return RespawnNow, nil
	case "fixed":
		return RespawnFixed, nil
	case "random":
		return RespawnRandom, nil
	}
	return RespawnNever, fmt.Errorf("respawn: unknown timing %q: %w", name, ErrInvalidOptions)
}

// ParseRespawnLocation maps a config name to a location rule.
func ParseRespawnLocation(name string) (RespawnLocation, error) {
	switch name {
	case "", "static":
		return LocationStatic, nil
	case "next":
		return LocationNext, nil
	case "random":
		return LocationRandom, nil
	case "next_away":
		return LocationNextAway, nil
	case "random_away":
		return LocationRandomAway, nil
	}
	return LocationStatic, fmt.Errorf("respawn: unknown location %q: %w", name, ErrInvalidOptions)
}

type pendingRespawn struct {
	entity int
	due    int
}

// Respawner schedules depleted resources and brings them back when due.
type Respawner struct {
	policy  RespawnPolicy
	pending []pendingRespawn
}

// NewRespawner creates a scheduler for policy.
func NewRespawner(p RespawnPolicy) *Respawner {
	return &Respawner{policy: p}
}

// Reset drops every scheduled respawn.
func (r *Respawner) Reset() {
	r.pending = r.pending[:0]
}

// Pending returns the number of scheduled respawns.
func (r *Respawner) Pending() int {
	return len(r.pending)
}

// Schedule queues entity idx to return after the policy delay.
// RespawnNever leaves it gone for the rest of the episode.
func (r *Respawner) Schedule(idx, tick int, rng *platformcore.RNG) {
	var delay int
	switch r.policy.Timing {
	case RespawnNever:
		return
	case RespawnNow:
		delay = 0
	case RespawnFixed:
		delay = r.policy.Delay
	case RespawnRandom:
		delay = rng.IntRange(r.policy.Delay, r.policy.DelayMax)
	}
	r.pending = append(r.pending, pendingRespawn{entity: idx, due: tick + delay})
}

// Due brings back every resource whose time has come and returns their indices.
func (r *Respawner) Due(tick int, w *World, cells *CellManager, agent Vec2, rng *platformcore.RNG) ([]int, error) {
	var back []int
	keep := r.pending[:0]
	for i, p := range r.pending {
		if p.due > tick {
			keep = append(keep, p)
			continue
		}
		e := w.At(p.entity)
		cell, err := r.pick(cells, e.Cell, agent, rng)
		if err != nil {
			r.pending = append(keep, r.pending[i:]...)
			return back, fmt.Errorf("respawn %s: %w", e.Kind, err)
		}
		e.Cell = cell
		e.Pos = cells.CellToPos(cell)
		e.Erased = false
		e.Reserve.Restore()
		back = append(back, p.entity)
	}
	r.pending = keep
	return back, nil
}

func (r *Respawner) pick(cells *CellManager, last int, agent Vec2, rng *platformcore.RNG) (int, error) {
	switch r.policy.Location {
	case LocationStatic:
		if cells.Contains(last) {
			return cells.PopCell(last)
		}
		return cells.PopRandom()
	case LocationNext:
		return cells.PopNext()
	case LocationRandom:
		return cells.PopRandom()
	case LocationNextAway:
		for i := 0; i < cells.Size(); i++ {
			c, _ := cells.Peek(i)
			if platformcore.Dist(cells.CellToPos(c), agent) > r.policy.MinDistance {
				return cells.PopAt(i)
			}
		}
		return cells.PopNext()
	case LocationRandomAway:
		for _, i := range rng.Perm(cells.Size()) {
			c, _ := cells.Peek(i)
			if platformcore.Dist(cells.CellToPos(c), agent) > r.policy.MinDistance {
				return cells.PopAt(i)
			}
		}
		return cells.PopRandom()
	}
	return 0, ErrNoCell
}
