package render

import "testing"

func TestSynchronousYieldFiresOncePerSchedule(t *testing.T) {
	s := New(nil)
	fired := 0
	s.OnRender(func() { fired++ })

	// With a synchronous (nil) yield the frame fires inside Schedule and
	// clears pending before returning, so each Schedule call renders exactly
	// once and a later Schedule renders again. Coalescing within one tick is
	// covered by TestCoalescingWithDeferredYield.
	s.Schedule()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	s.Schedule()
	if fired != 2 {
		t.Fatalf("fired = %d, want 2 after second tick", fired)
	}
}

func TestCoalescingWithDeferredYield(t *testing.T) {
	var queued []func()
	s := New(func(f func()) { queued = append(queued, f) })

	fired := 0
	s.OnRender(func() { fired++ })

	for i := 0; i < 5; i++ {
		s.Schedule()
	}
	if len(queued) != 1 {
		t.Fatalf("expected exactly one queued frame for 5 schedules in one tick, got %d", len(queued))
	}

	queued[0]()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	// After the frame fires, pending is cleared so a subsequent Schedule
	// queues again.
	s.Schedule()
	if len(queued) != 2 {
		t.Fatalf("expected a second queued frame after fire, got %d", len(queued))
	}
}
