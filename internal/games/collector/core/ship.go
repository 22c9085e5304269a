package core

import (
	"fmt"
	"math"

	platformcore "github.com/vovakirdan/collector/internal/core"
)

// Thrust model.
const (
	MaxSpeed      = 0.5
	MixRate       = 0.9
	VelocityDecay = 0.9
	ReverseScale  = 0.33
	thrustScale   = 0.2

	// NumActions is the size of the discrete action space.
	NumActions = 9
)

// ShipStateSize is the length of the ship state vector.
const ShipStateSize = 9

// Ship is the agent: an entity in the world plus its fuel tank and cargo hold.
type Ship struct {
	world *World
	Agent int

	Fuel  *Container
	Cargo *SlottedContainer

	initFuel  float64
	initGreen float64
	initRed   float64
}

// NewShip creates a ship with the given tank and hold capacities. Initial
// amounts may not exceed capacities.
func NewShip(w *World, maxFuel, initFuel, maxCargo, initGreen, initRed float64, coalesce bool) (*Ship, error) {
	if maxFuel < initFuel {
		return nil, fmt.Errorf("ship: init fuel %.2f exceeds max %.2f: %w", initFuel, maxFuel, ErrInvalidOptions)
	}
	if maxCargo < initGreen+initRed {
		return nil, fmt.Errorf("ship: init cargo %.2f exceeds max %.2f: %w", initGreen+initRed, maxCargo, ErrInvalidOptions)
	}
	return &Ship{
		world:     w,
		Agent:     -1,
		Fuel:      NewContainer(maxFuel, initFuel),
		Cargo:     NewSlottedContainer(maxCargo, coalesce),
		initFuel:  initFuel,
		initGreen: initGreen,
		initRed:   initRed,
	}, nil
}

// Reset binds the ship to agent entity idx, stops it and refills the tank and
// hold to their initial amounts, green cargo first.
func (s *Ship) Reset(idx int) {
	s.Agent = idx
	e := s.Entity()
	e.Vel = Vec2{}
	e.VRot = 0
	s.Fuel.ResetTo(s.initFuel)
	s.Cargo.Reset()
	s.Cargo.DepositKind(s.initGreen, KindResourceGreen)
	s.Cargo.DepositKind(s.initRed, KindResourceRed)
}

// Entity returns the agent entity.
func (s *Ship) Entity() *Entity {
	return s.world.At(s.Agent)
}

// Pos returns the agent position.
func (s *Ship) Pos() Vec2 {
	return s.Entity().Pos
}

// SetPose moves the agent to pos.
func (s *Ship) SetPose(pos Vec2) {
	s.Entity().Pos = pos
}

// SetPoseFacing moves the agent to pos and turns it toward target.
func (s *Ship) SetPoseFacing(pos, target Vec2) {
	e := s.Entity()
	e.Pos = pos
	e.Rot = platformcore.Heading(pos, target)
}

// ApplyAction applies discrete action a in [0, NumActions). a%3 selects
// reverse, coast or forward thrust and a/3 selects the turn direction.
// Thrust only changes velocity while fuel remains, but any thrust burns fuel
// proportional to the resulting speed.
func (s *Ship) ApplyAction(a int) {
	if a < 0 || a >= NumActions {
		a = 4
	}
	e := s.Entity()
	accel := float64(a%3 - 1)
	if accel < 0 {
		accel *= ReverseScale
	}
	theta := -e.Rot + math.Pi/2
	e.VRot = float64(a/3 - 1)

	acc := Vec2{X: accel * math.Cos(theta), Y: accel * math.Sin(theta)}.Scale(MaxSpeed * thrustScale)
	next := e.Vel.Add(acc.Scale(MixRate))
	if s.Fuel.Value() > 0 {
		e.Vel = next
	}
	if acc.Len() > 0 {
		s.Fuel.Withdraw(next.Len())
	}
	e.Vel = e.Vel.Scale(VelocityDecay)
}

// AppendState appends x, y, rotation, vx, vy, vrot, fuel, green cargo and
// red cargo.
func (s *Ship) AppendState(dst []float32) []float32 {
	e := s.Entity()
	return append(dst,
		float32(e.Pos.X), float32(e.Pos.Y), float32(e.Rot),
		float32(e.Vel.X), float32(e.Vel.Y), float32(e.VRot),
		float32(s.Fuel.Value()),
		float32(s.Cargo.ValueOf(KindResourceGreen)),
		float32(s.Cargo.ValueOf(KindResourceRed)),
	)
}
