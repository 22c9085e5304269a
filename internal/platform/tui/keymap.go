package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/collector/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "w", "up":
		return core.ActionThrust, false
	case "s", "down":
		return core.ActionBrake, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionEpisodes
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionEpisodes
	}
	return MenuActionNone
}

// HeldKeys keeps steering keys active for a few ticks after each press.
// Terminals repeat a held key but never report its release, so without a
// hold window the ship would stutter between repeats.
type HeldKeys struct {
	hold int
	left map[core.Action]int
}

// opposite pairs cancel each other on press.
var opposite = map[core.Action]core.Action{
	core.ActionThrust: core.ActionBrake,
	core.ActionBrake:  core.ActionThrust,
	core.ActionLeft:   core.ActionRight,
	core.ActionRight:  core.ActionLeft,
}

// NewHeldKeys returns a tracker that keeps a key down for hold ticks.
func NewHeldKeys(hold int) *HeldKeys {
	if hold < 1 {
		hold = 1
	}
	return &HeldKeys{hold: hold, left: make(map[core.Action]int)}
}

// holdTicks picks a hold window of roughly 0.4s, which bridges the usual
// key repeat gap.
func holdTicks(tickRate int) int {
	return max(2, tickRate*2/5)
}

// Press marks a steering action as held. Other actions are ignored and
// reported as false.
func (h *HeldKeys) Press(a core.Action) bool {
	other, ok := opposite[a]
	if !ok {
		return false
	}
	delete(h.left, other)
	h.left[a] = h.hold
	return true
}

// Apply sets every held action on frame and ages the hold windows by one
// tick.
func (h *HeldKeys) Apply(frame *core.InputFrame) {
	for a, n := range h.left {
		frame.Set(a)
		if n <= 1 {
			delete(h.left, a)
		} else {
			h.left[a] = n - 1
		}
	}
}

// Release drops every held key.
func (h *HeldKeys) Release() {
	clear(h.left)
}
