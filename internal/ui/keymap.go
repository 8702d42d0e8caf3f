package ui

import "procmux/internal/keys"

// Keymap is a finite function from KeyEvent to Action.
type Keymap map[keys.KeyEvent]Action

// DefaultProcsKeymap binds the process-list pane's keys: q quit, C-a focus
// term, j/k select next/prev, x kill, s start.
func DefaultProcsKeymap() Keymap {
	return Keymap{
		{Code: keys.CodeChar, Rune: 'q'}:                   ActionQuit,
		{Code: keys.CodeChar, Rune: 'a', Mods: keys.ModCtrl}: ActionFocusTerm,
		{Code: keys.CodeChar, Rune: 'j'}:                   ActionSelectNext,
		{Code: keys.CodeChar, Rune: 'k'}:                   ActionSelectPrev,
		{Code: keys.CodeDown}:                               ActionSelectNext,
		{Code: keys.CodeUp}:                                 ActionSelectPrev,
		{Code: keys.CodeChar, Rune: 'x'}:                   ActionKillProc,
		{Code: keys.CodeChar, Rune: 's'}:                   ActionStartProc,
		{Code: keys.CodeChar, Rune: 'r'}:                   ActionRestartProc,
	}
}

// DefaultTermKeymap binds the focused-terminal pane's keys: only the
// focus-toggle survives; everything else, including q, is forwarded to
// the child (see Dispatcher.Handle).
func DefaultTermKeymap() Keymap {
	return Keymap{
		{Code: keys.CodeChar, Rune: 'a', Mods: keys.ModCtrl}: ActionFocusProcs,
	}
}

// Dispatcher routes input events per §4.6: look up in the active map; if
// found, resolve to an Action; otherwise, when focused on Term, forward
// the key to the selected process; otherwise drop.
type Dispatcher struct {
	ProcsMap Keymap
	TermMap  Keymap
}

// NewDispatcher builds a Dispatcher with the default keymaps.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{ProcsMap: DefaultProcsKeymap(), TermMap: DefaultTermKeymap()}
}

// Handle resolves one key event against state.Focus's active map.
func (d *Dispatcher) Handle(state *State, ev keys.KeyEvent) Dispatch {
	active := d.ProcsMap
	if state.Focus == FocusTerm {
		active = d.TermMap
	}
	if action, ok := active[ev]; ok {
		return Dispatch{Action: action, Key: ev}
	}
	if state.Focus == FocusTerm && state.N > 0 {
		return Dispatch{Action: ActionNone, Forward: true, Key: ev}
	}
	return Dispatch{Action: ActionNone}
}
