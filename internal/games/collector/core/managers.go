package core

import "fmt"

// Default reserve parameters for collectibles.
const (
	ResourceInit = 0.0
	ResourceStep = 1.0
	ResourceMax  = 10.0

	// Goals fill completely on their own after this many ticks.
	goalFillTicks = 1000.0
)

// GoalManager spawns goals into the world and keeps their indices in spawn
// order.
type GoalManager struct {
	world *World
	init  float64
	step  float64
	max   float64
	goals []int
}

// NewGoalManager creates a goal factory. Goals start at init and grow by
// max/1000 per tick.
func NewGoalManager(w *World, init, max float64) *GoalManager {
	return &GoalManager{world: w, init: init, step: max / goalFillTicks, max: max}
}

// Reset forgets all goals.
func (m *GoalManager) Reset() {
	m.goals = m.goals[:0]
}

// Spawn places a goal of kind at pos. Green goals take green cargo and red
// goals take red cargo.
func (m *GoalManager) Spawn(kind Kind, pos Vec2, cell int) (int, error) {
	var accepts Kind
	switch kind {
	case KindGoalGreen:
		accepts = KindResourceGreen
	case KindGoalRed:
		accepts = KindResourceRed
	default:
		return -1, fmt.Errorf("goals: unknown goal kind %v: %w", kind, ErrInvalidOptions)
	}
	idx := m.world.Spawn(Entity{
		Kind:    kind,
		Pos:     pos,
		Radius:  EntityRadius,
		Cell:    cell,
		Reserve: NewReserve(m.init, m.step, m.max),
		Accepts: []Kind{accepts},
	})
	m.goals = append(m.goals, idx)
	return idx, nil
}

// Ignore makes goal idx leave cargo of kind untouched.
func (m *GoalManager) Ignore(idx int, kind Kind) {
	e := m.world.At(idx)
	e.Ignores = append(e.Ignores, kind)
}

// All returns goal indices in spawn order.
func (m *GoalManager) All() []int {
	return m.goals
}

// OfKind returns goal indices of one kind in spawn order.
func (m *GoalManager) OfKind(kind Kind) []int {
	var out []int
	for _, idx := range m.goals {
		if m.world.At(idx).Kind == kind {
			out = append(out, idx)
		}
	}
	return out
}

// AnyComplete reports whether some goal is full.
func (m *GoalManager) AnyComplete() bool {
	for _, idx := range m.goals {
		if m.world.At(idx).Complete() {
			return true
		}
	}
	return false
}

// AppendState appends (code, x, y, value) per goal.
func (m *GoalManager) AppendState(dst []float32) []float32 {
	for _, idx := range m.goals {
		e := m.world.At(idx)
		dst = append(dst, e.Kind.Code(), float32(e.Pos.X), float32(e.Pos.Y), float32(e.Reserve.Value()))
	}
	return dst
}

// ResourceManager spawns collectibles (green, red and fuel).
type ResourceManager struct {
	world     *World
	resources []int
}

// NewResourceManager creates a collectible factory.
func NewResourceManager(w *World) *ResourceManager {
	return &ResourceManager{world: w}
}

// Reset forgets all resources.
func (m *ResourceManager) Reset() {
	m.resources = m.resources[:0]
}

// Spawn places a collectible of kind at pos.
func (m *ResourceManager) Spawn(kind Kind, pos Vec2, cell int) (int, error) {
	if !kind.IsResource() {
		return -1, fmt.Errorf("resources: unknown resource kind %v: %w", kind, ErrInvalidOptions)
	}
	idx := m.world.Spawn(Entity{
		Kind:    kind,
		Pos:     pos,
		Radius:  EntityRadius,
		Cell:    cell,
		Reserve: NewReserve(ResourceInit, ResourceStep, ResourceMax),
	})
	m.resources = append(m.resources, idx)
	return idx, nil
}

// All returns resource indices in spawn order.
func (m *ResourceManager) All() []int {
	return m.resources
}

// AppendState appends (code, x, y, existing) per resource.
func (m *ResourceManager) AppendState(dst []float32) []float32 {
	for _, idx := range m.resources {
		e := m.world.At(idx)
		var existing float32
		if e.Active() {
			existing = 1
		}
		dst = append(dst, e.Kind.Code(), float32(e.Pos.X), float32(e.Pos.Y), existing)
	}
	return dst
}

// ObstacleManager spawns static obstacles.
type ObstacleManager struct {
	world     *World
	obstacles []int
}

// NewObstacleManager creates an obstacle factory.
func NewObstacleManager(w *World) *ObstacleManager {
	return &ObstacleManager{world: w}
}

// Reset forgets all obstacles.
func (m *ObstacleManager) Reset() {
	m.obstacles = m.obstacles[:0]
}

// Spawn places an obstacle at pos.
func (m *ObstacleManager) Spawn(pos Vec2, cell int) int {
	idx := m.world.Spawn(Entity{
		Kind:   KindObstacle,
		Pos:    pos,
		Radius: EntityRadius,
		Cell:   cell,
	})
	m.obstacles = append(m.obstacles, idx)
	return idx
}

// All returns obstacle indices in spawn order.
func (m *ObstacleManager) All() []int {
	return m.obstacles
}

// AppendState appends (x, y, 1) per obstacle.
func (m *ObstacleManager) AppendState(dst []float32) []float32 {
	for _, idx := range m.obstacles {
		e := m.world.At(idx)
		dst = append(dst, float32(e.Pos.X), float32(e.Pos.Y), 1)
	}
	return dst
}
