package proc

import (
	"sync"
	"testing"
	"time"

	"procmux/internal/config"
)

func waitForState(t *testing.T, p *Proc, want State, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if p.State() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("proc did not reach state %v within %v (got %v)", want, timeout, p.State())
}

func TestSpawnSeeOutputTTY(t *testing.T) {
	decl := config.ProcessDecl{Name: "a", Cmd: []string{"printf", "hi\\n"}}
	p := New(decl, 24, 80)

	var rerendered = make(chan struct{}, 16)
	p.OnRerender(func() {
		select {
		case rerendered <- struct{}{}:
		default:
		}
	})

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-rerendered:
	case <-time.After(2 * time.Second):
		t.Fatal("no rerender observed")
	}

	waitForState(t, p, Stopped, 2*time.Second)
	code, _ := p.ExitInfo()
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestSpawnSeeOutputSimple(t *testing.T) {
	tty := false
	decl := config.ProcessDecl{Name: "a", Cmd: []string{"printf", "hi\\n"}, TTY: &tty}
	p := New(decl, 24, 80)

	// The kind, and with it Lines, is gone once Stopped, so capture the
	// lines while output is still arriving.
	var mu sync.Mutex
	var lines []string
	p.OnRerender(func() {
		got := p.Lines()
		mu.Lock()
		lines = got
		mu.Unlock()
	})

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForState(t, p, Stopped, 2*time.Second)
	mu.Lock()
	defer mu.Unlock()
	if len(lines) == 0 || lines[0] != "hi" {
		t.Errorf("lines = %v, want first line \"hi\"", lines)
	}
}

func TestStateMachineStartStopNoop(t *testing.T) {
	decl := config.ProcessDecl{Name: "a", Shell: "sleep 5"}
	p := New(decl, 24, 80)

	if err := p.Stop(); err != nil || p.State() != Stopped {
		t.Fatalf("Stop on Stopped should be a no-op, got state %v err %v", p.State(), err)
	}

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForState(t, p, Running, time.Second)

	if err := p.Start(); err != nil {
		t.Fatalf("Start on Running should be a no-op: %v", err)
	}
	if p.State() != Running {
		t.Fatalf("expected still Running, got %v", p.State())
	}

	p.ForceStop()
	waitForState(t, p, Stopped, 2*time.Second)
}

func TestAutorestart(t *testing.T) {
	decl := config.ProcessDecl{Name: "a", Cmd: []string{"false"}, Autorestart: true}
	p := New(decl, 24, 80)

	var transitions []State
	done := make(chan struct{})
	p.OnStateChange(func(s State) {
		transitions = append(transitions, s)
		if len(transitions) >= 4 {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})

	// autorestart only fires after aliveThreshold: false exits instantly
	// and must NOT autorestart under the ">= 1s alive" rule (the crash-loop
	// guard). The positive case is TestAutorestartFiresPastAliveThreshold.
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForState(t, p, Stopped, 2*time.Second)
	time.Sleep(200 * time.Millisecond)
	if p.State() != Stopped {
		t.Errorf("expected no autorestart for a process that exited immediately, got %v", p.State())
	}
}

func TestAutorestartFiresPastAliveThreshold(t *testing.T) {
	decl := config.ProcessDecl{Name: "a", Shell: "sleep 1.2", Autorestart: true}
	p := New(decl, 24, 80)

	var mu sync.Mutex
	var transitions []State
	sawSecondStop := make(chan struct{})
	p.OnStateChange(func(s State) {
		mu.Lock()
		transitions = append(transitions, s)
		stops := 0
		for _, t := range transitions {
			if t == Stopped {
				stops++
			}
		}
		mu.Unlock()
		if stops >= 2 {
			select {
			case <-sawSecondStop:
			default:
				close(sawSecondStop)
			}
		}
	})

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.ForceStop()

	select {
	case <-sawSecondStop:
	case <-time.After(8 * time.Second):
		t.Fatal("expected a second Stopped transition after autorestart")
	}

	mu.Lock()
	defer mu.Unlock()
	sawRunningBetween := false
	firstStop := -1
	for i, s := range transitions {
		if s != Stopped {
			continue
		}
		if firstStop < 0 {
			firstStop = i
			continue
		}
		for _, between := range transitions[firstStop+1 : i] {
			if between == Running {
				sawRunningBetween = true
			}
		}
		break
	}
	if !sawRunningBetween {
		t.Errorf("expected a Running phase between two Stopped transitions, got %v", transitions)
	}
}

func TestResizeIgnoredOnSimpleKind(t *testing.T) {
	tty := false
	decl := config.ProcessDecl{Name: "a", Shell: "cat", TTY: &tty}
	p := New(decl, 24, 80)
	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.ForceStop()
	waitForState(t, p, Running, time.Second)
	p.Resize(40, 100) // must not panic for SimpleKind
}
