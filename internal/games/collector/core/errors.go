package core

import "errors"

var (
	// ErrInvalidOptions is returned when options cannot produce a level.
	ErrInvalidOptions = errors.New("collector: invalid options")

	// ErrNoCell is returned when no free cell satisfies a placement query.
	ErrNoCell = errors.New("collector: no cell satisfies constraints")

	// ErrDegenerateAxis is returned when a mirror line has coincident endpoints.
	ErrDegenerateAxis = errors.New("collector: degenerate mirror axis")

	// ErrNotRunning is returned by Step before Reset succeeds or after termination.
	ErrNotRunning = errors.New("collector: episode not running")

	// ErrScalarWithdraw is the panic value for a scalar withdraw on slotted cargo.
	ErrScalarWithdraw = errors.New("collector: scalar withdraw on slotted container")
)
