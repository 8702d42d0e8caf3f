package ui

import (
	"testing"

	"procmux/internal/keys"
)

func TestSelectionWrap(t *testing.T) {
	s := &State{N: 3}
	for start := 0; start < 3; start++ {
		s.Selected = start
		for i := 0; i < 3; i++ {
			s.Next()
		}
		if s.Selected != start {
			t.Errorf("after 3 Next() from %d, got %d, want %d", start, s.Selected, start)
		}
	}
}

func TestPrevWrapsFromZero(t *testing.T) {
	s := &State{N: 4, Selected: 0}
	s.Prev()
	if s.Selected != 3 {
		t.Errorf("Prev() from 0 = %d, want 3", s.Selected)
	}
}

func TestNextWrapsFromLast(t *testing.T) {
	s := &State{N: 4, Selected: 3}
	s.Next()
	if s.Selected != 0 {
		t.Errorf("Next() from N-1 = %d, want 0", s.Selected)
	}
}

func TestDispatchQuit(t *testing.T) {
	d := NewDispatcher()
	s := &State{Focus: FocusProcs, N: 2}
	got := d.Handle(s, keys.KeyEvent{Code: keys.CodeChar, Rune: 'q'})
	if got.Action != ActionQuit {
		t.Errorf("expected ActionQuit, got %v", got.Action)
	}
}

func TestDispatchForwardsUnboundKeyWhenFocusedOnTerm(t *testing.T) {
	d := NewDispatcher()
	s := &State{Focus: FocusTerm, N: 1}
	ev := keys.KeyEvent{Code: keys.CodeChar, Rune: 'x'}
	got := d.Handle(s, ev)
	if got.Action != ActionNone || !got.Forward {
		t.Errorf("expected forwarded key, got %+v", got)
	}
}

func TestDispatchDropsWhenFocusedOnProcsAndUnbound(t *testing.T) {
	d := NewDispatcher()
	s := &State{Focus: FocusProcs, N: 1}
	ev := keys.KeyEvent{Code: keys.CodeChar, Rune: 'z'}
	got := d.Handle(s, ev)
	if got.Action != ActionNone || got.Forward {
		t.Errorf("expected dropped key, got %+v", got)
	}
}
