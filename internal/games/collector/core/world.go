package core

import "slices"

// Reserve is the growing value carried by resources and goals.
type Reserve struct {
	Container
	Step float64
	Init float64
}

// NewReserve creates a reserve starting at init.
func NewReserve(init, step, max float64) *Reserve {
	return &Reserve{Container: *NewContainer(max, init), Step: step, Init: init}
}

// Grow adds one tick of growth, never past capacity.
func (r *Reserve) Grow() {
	r.Deposit(r.Step)
}

// Restore sets the value back to its initial amount.
func (r *Reserve) Restore() {
	r.ResetTo(r.Init)
}

// Entity is one object in the world arena. Position and rotation belong to
// the engine; the simulation core mutates velocity, rotation rate and flags.
type Entity struct {
	Kind   Kind
	Pos    Vec2
	Vel    Vec2
	Rot    float64
	VRot   float64
	Radius float64

	// Cell is the cell the entity was last placed on.
	Cell int

	// Erased entities are ignored by the engine until they reappear.
	Erased bool

	Reserve *Reserve
	Accepts []Kind
	Ignores []Kind
}

// Active reports whether the entity takes part in collisions.
func (e *Entity) Active() bool {
	return !e.Erased
}

// AcceptsKind reports whether a goal takes cargo of kind.
func (e *Entity) AcceptsKind(k Kind) bool {
	return slices.Contains(e.Accepts, k)
}

// IgnoresKind reports whether a goal leaves cargo of kind in place.
func (e *Entity) IgnoresKind(k Kind) bool {
	return slices.Contains(e.Ignores, k)
}

// ConsumeCargo unloads accepted slots into the goal, newest first. Ignored and
// unaccepted slots stay in the cargo. Amounts beyond goal capacity are lost.
// Returns the amount the goal actually took in.
func (e *Entity) ConsumeCargo(cargo *SlottedContainer) float64 {
	var total float64
	for i := cargo.NumSlots() - 1; i >= 0; i-- {
		k := cargo.SlotAt(i).Kind
		if e.IgnoresKind(k) || !e.AcceptsKind(k) {
			continue
		}
		slot, _ := cargo.WithdrawSlot(i)
		total += e.Reserve.Deposit(slot.Amount)
	}
	return total
}

// ConsumeScalar drains src and credits the goal when kind is accepted.
func (e *Entity) ConsumeScalar(src *Container, kind Kind) float64 {
	v := src.Withdraw(src.Value())
	if !e.AcceptsKind(kind) {
		return 0
	}
	return e.Reserve.Deposit(v)
}

// Complete reports whether a goal has reached its capacity.
func (e *Entity) Complete() bool {
	return e.Reserve != nil && e.Reserve.Full()
}

// World owns every entity of an episode. Indices stay valid until Reset.
type World struct {
	entities []Entity
	tick     int
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{}
}

// Reset removes all entities.
func (w *World) Reset() {
	w.entities = w.entities[:0]
	w.tick = 0
}

// Spawn adds an entity and returns its index.
func (w *World) Spawn(e Entity) int {
	w.entities = append(w.entities, e)
	return len(w.entities) - 1
}

// At returns the entity at index i. The pointer is invalidated by Spawn.
func (w *World) At(i int) *Entity {
	return &w.entities[i]
}

// Len returns the number of entities, erased ones included.
func (w *World) Len() int {
	return len(w.entities)
}

// Tick returns the number of completed ticks.
func (w *World) Tick() int {
	return w.tick
}

// Positions returns the positions of all active entities.
func (w *World) Positions() []Vec2 {
	out := make([]Vec2, 0, len(w.entities))
	for i := range w.entities {
		if w.entities[i].Active() {
			out = append(out, w.entities[i].Pos)
		}
	}
	return out
}

// Advance grows every active reserve and counts the tick.
func (w *World) Advance() {
	for i := range w.entities {
		e := &w.entities[i]
		if e.Active() && e.Reserve != nil {
			e.Reserve.Grow()
		}
	}
	w.tick++
}
