// Package ui implements the UI state and input dispatcher: the focus
// model, selected-process index, keymap lookup, and routing of events
// either to process supervisors or to global engine actions.
package ui

import "procmux/internal/keys"

// Focus names which pane receives forwarded keystrokes.
type Focus int

const (
	FocusProcs Focus = iota
	FocusTerm
)

// Action is a global action resolved by the keymap.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSelectNext
	ActionSelectPrev
	ActionSelectIndex
	ActionKillProc
	ActionStartProc
	ActionRestartProc
	ActionFocusTerm
	ActionFocusProcs
	ActionScrollUp
	ActionScrollDown
)

// Dispatch is the outcome of handling one input event.
type Dispatch struct {
	Action Action
	Index  int // for ActionSelectIndex
	N      int // for ActionScrollUp/Down
	Forward bool
	Key     keys.KeyEvent
}

// State holds focus, selection, the cached terminal size, and how far the
// selected process's view is scrolled back into its scrollback mirror.
type State struct {
	Focus      Focus
	Selected   int
	N          int // process count
	TermRows   int
	TermCols   int
	ScrollOffset int
}

// Next advances the selection, wrapping from N-1 back to 0.
func (s *State) Next() {
	if s.N == 0 {
		return
	}
	s.Selected = (s.Selected + 1) % s.N
	s.ScrollOffset = 0
}

// Prev retreats the selection, wrapping from 0 back to N-1.
func (s *State) Prev() {
	if s.N == 0 {
		return
	}
	s.Selected = (s.Selected - 1 + s.N) % s.N
	s.ScrollOffset = 0
}

// SetCount updates N when processes are added/removed, clamping Selected.
func (s *State) SetCount(n int) {
	s.N = n
	if n == 0 {
		s.Selected = 0
		return
	}
	if s.Selected >= n {
		s.Selected = n - 1
	}
}
