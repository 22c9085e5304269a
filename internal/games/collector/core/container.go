package core

import "math"

// Container is a capacity-bounded scalar store. All transfers clamp so that
// 0 <= value <= max always holds.
type Container struct {
	value float64
	max   float64
}

// NewContainer creates a container holding min(init, max).
func NewContainer(max, init float64) *Container {
	c := &Container{max: max}
	c.ResetTo(init)
	return c
}

// Value returns the current amount.
func (c *Container) Value() float64 { return c.value }

// Max returns the capacity.
func (c *Container) Max() float64 { return c.max }

// Percentage returns value/max, or 0 for a zero-capacity container.
func (c *Container) Percentage() float64 {
	if c.max <= 0 {
		return 0
	}
	return c.value / c.max
}

// Full reports whether the container is within epsilon of capacity.
func (c *Container) Full() bool {
	return c.value >= c.max-epsilon
}

// Deposit adds up to v and returns the amount accepted.
func (c *Container) Deposit(v float64) float64 {
	v = math.Min(math.Max(v, 0), c.max-c.value)
	c.value += v
	return v
}

// Withdraw removes up to v and returns the amount removed.
func (c *Container) Withdraw(v float64) float64 {
	v = math.Min(math.Max(v, 0), c.value)
	c.value -= v
	return v
}

// Consume takes as much of src as fits. src keeps the rest.
func (c *Container) Consume(src *Container) float64 {
	return src.Withdraw(c.Deposit(src.value))
}

// ConsumeGreedy drains src completely. Anything beyond capacity is lost.
func (c *Container) ConsumeGreedy(src *Container) float64 {
	return c.Deposit(src.Withdraw(src.value))
}

// Reset empties the container.
func (c *Container) Reset() {
	c.value = 0
}

// ResetTo sets the value, clamped to [0, max].
func (c *Container) ResetTo(v float64) {
	c.value = math.Min(math.Max(v, 0), c.max)
}

// Slot is one contiguous run of a single kind inside slotted cargo.
type Slot struct {
	Kind   Kind
	Amount float64
}

// SlottedContainer is an ordered multi-kind store. The scalar total always
// equals the sum of slot amounts and slots drain last-in first-out.
type SlottedContainer struct {
	total    Container
	slots    []Slot
	coalesce bool
}

// NewSlottedContainer creates empty cargo. With coalesce set, deposits of
// the same kind as the newest slot extend it instead of opening a new slot.
func NewSlottedContainer(max float64, coalesce bool) *SlottedContainer {
	return &SlottedContainer{total: Container{max: max}, coalesce: coalesce}
}

// Value returns the total amount across slots.
func (s *SlottedContainer) Value() float64 { return s.total.value }

// Max returns the capacity.
func (s *SlottedContainer) Max() float64 { return s.total.max }

// Percentage returns the filled share of capacity.
func (s *SlottedContainer) Percentage() float64 { return s.total.Percentage() }

// Full reports whether the cargo is within epsilon of capacity.
func (s *SlottedContainer) Full() bool { return s.total.Full() }

// DepositKind deposits v of kind using the container's coalesce policy.
func (s *SlottedContainer) DepositKind(v float64, kind Kind) float64 {
	return s.DepositSlot(v, kind, s.coalesce)
}

// DepositSlot deposits v of kind. When sameSlot is set and the newest slot
// holds the same kind, the amount is merged into it.
func (s *SlottedContainer) DepositSlot(v float64, kind Kind, sameSlot bool) float64 {
	v = s.total.Deposit(v)
	if v <= 0 {
		return 0
	}
	if n := len(s.slots); sameSlot && n > 0 && s.slots[n-1].Kind == kind {
		s.slots[n-1].Amount += v
		return v
	}
	s.slots = append(s.slots, Slot{Kind: kind, Amount: v})
	return v
}

// Withdraw is not defined for slotted cargo and panics with ErrScalarWithdraw.
func (s *SlottedContainer) Withdraw(float64) float64 {
	panic(ErrScalarWithdraw)
}

// WithdrawLastSlot removes the newest slot and returns it.
func (s *SlottedContainer) WithdrawLastSlot() (Slot, bool) {
	n := len(s.slots)
	if n == 0 {
		return Slot{}, false
	}
	return s.WithdrawSlot(n - 1)
}

// WithdrawSlot removes slot idx and returns it.
func (s *SlottedContainer) WithdrawSlot(idx int) (Slot, bool) {
	if idx < 0 || idx >= len(s.slots) {
		return Slot{}, false
	}
	slot := s.slots[idx]
	s.slots = append(s.slots[:idx], s.slots[idx+1:]...)
	s.total.value = max(s.total.value-slot.Amount, 0)
	return slot, true
}

// NumSlots returns the number of slots.
func (s *SlottedContainer) NumSlots() int { return len(s.slots) }

// SlotAt returns slot idx.
func (s *SlottedContainer) SlotAt(idx int) Slot { return s.slots[idx] }

// Slots returns a copy of all slots, oldest first.
func (s *SlottedContainer) Slots() []Slot {
	return append([]Slot(nil), s.slots...)
}

// ValueOf returns the total amount of kind across slots.
func (s *SlottedContainer) ValueOf(kind Kind) float64 {
	var sum float64
	for _, sl := range s.slots {
		if sl.Kind == kind {
			sum += sl.Amount
		}
	}
	return sum
}

// Percentages returns each slot's share of capacity, oldest first.
func (s *SlottedContainer) Percentages() []float64 {
	out := make([]float64, len(s.slots))
	if s.total.max <= 0 {
		return out
	}
	for i, sl := range s.slots {
		out[i] = sl.Amount / s.total.max
	}
	return out
}

// ConsumeKind takes as much of src as fits, recorded as kind.
func (s *SlottedContainer) ConsumeKind(src *Container, kind Kind) float64 {
	return src.Withdraw(s.DepositKind(src.value, kind))
}

// Reset empties all slots.
func (s *SlottedContainer) Reset() {
	s.total.value = 0
	s.slots = s.slots[:0]
}
