// Package render implements the render scheduler: coalescing damage
// notifications from all processes into at most one frame per cooperative
// yield.
package render

import "sync"

// Scheduler coalesces any number of Schedule() calls within one tick into
// a single fire of the registered listeners.
type Scheduler struct {
	mu      sync.Mutex
	pending bool
	yield   func(func())
	onFrame []func()
}

// New creates a Scheduler. yield enqueues its argument to run on the next
// cooperative tick (e.g. an idle channel send, or a zero-delay timer); a
// nil yield runs the callback synchronously, so every Schedule call fires
// its own frame and no coalescing takes place.
func New(yield func(func())) *Scheduler {
	if yield == nil {
		yield = func(f func()) { f() }
	}
	return &Scheduler{yield: yield}
}

// OnRender registers a listener fired once per coalesced frame.
func (s *Scheduler) OnRender(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = append(s.onFrame, fn)
}

// Schedule requests a render. Idempotent within one tick: the first call
// enqueues the frame, subsequent calls before it fires are no-ops.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()

	s.yield(s.fire)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.pending = false
	listeners := append([]func(){}, s.onFrame...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
