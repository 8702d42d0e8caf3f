// Package proc implements the process supervisor: one Proc per declared
// process, owning either a PTY+VT pair ("vterm" kind) or a line-buffered
// pipe pair ("simple" kind), and exposing the Stopped/Running/Stopping
// state machine plus the input API.
package proc

import (
	"sync"
	"time"

	"procmux/internal/config"
	"procmux/internal/keys"
	"procmux/internal/pty"
	"procmux/internal/vterm"
)

// State is a Proc's place in the Stopped/Running/Stopping machine.
type State int

const (
	Stopped State = iota
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "stopped"
	}
}

// aliveThreshold is how long a process must have run before an unexpected
// exit is eligible for autorestart, to avoid crash-restart loops.
const aliveThreshold = 1 * time.Second

// Proc supervises one declared process's lifecycle.
type Proc struct {
	Name string
	Decl config.ProcessDecl

	mu         sync.Mutex
	state      State
	rows, cols int
	startedAt  time.Time
	lastOutput time.Time
	exitCode   int
	exitErr    error
	restarting bool
	debugKeys  []string

	vkind *vtermKind
	skind *simpleKind

	onStateChange []func(State)
	onRerender    []func()
}

// New constructs a Proc in the Stopped state, sized rows x cols.
func New(decl config.ProcessDecl, rows, cols int) *Proc {
	return &Proc{
		Name: decl.Name,
		Decl: decl,
		rows: rows,
		cols: cols,
	}
}

// State returns the current state.
func (p *Proc) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ExitInfo returns the last known exit code and error, valid once Stopped.
func (p *Proc) ExitInfo() (code int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, p.exitErr
}

// OnStateChange subscribes to state transitions, observed in causal order.
func (p *Proc) OnStateChange(fn func(State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onStateChange = append(p.onStateChange, fn)
}

// OnRerender subscribes to the kind's rerender-triggering event (VT damage
// or a completed Simple line).
func (p *Proc) OnRerender(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onRerender = append(p.onRerender, fn)
}

func (p *Proc) fireStateChange(s State) {
	p.mu.Lock()
	subs := append([]func(State){}, p.onStateChange...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

func (p *Proc) fireRerender() {
	p.mu.Lock()
	p.lastOutput = time.Now()
	subs := append([]func(){}, p.onRerender...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Start transitions Stopped -> Running. A no-op on any other state.
func (p *Proc) Start() error {
	p.mu.Lock()
	if p.state != Stopped {
		p.mu.Unlock()
		return nil
	}
	p.state = Running
	p.startedAt = time.Now()
	rows, cols := p.rows, p.cols
	p.mu.Unlock()

	var err error
	if p.Decl.UsesTTY() {
		err = p.startVterm(rows, cols)
	} else {
		err = p.startSimple()
	}

	if err != nil {
		// SpawnFailed: the proc transitions directly to Stopped with a
		// synthetic nonzero exit, per the error taxonomy.
		p.mu.Lock()
		p.state = Stopped
		p.exitCode = -1
		p.exitErr = err
		p.mu.Unlock()
		p.fireStateChange(Stopped)
		return err
	}

	p.fireStateChange(Running)
	go p.waitAndTransition()
	return nil
}

func (p *Proc) waitAndTransition() {
	var code int
	var werr error
	if p.vkind != nil {
		st := p.vkind.pty.Wait()
		code = st.Code
		if st.Signaled {
			werr = errSignaled(st.Signal)
		}
	} else if p.skind != nil {
		code, werr = p.skind.wait()
	}

	p.mu.Lock()
	wasRunning := p.state == Running
	aliveFor := time.Since(p.startedAt)
	p.state = Stopped
	p.exitCode = code
	p.exitErr = werr
	p.vkind = nil
	p.skind = nil
	shouldAutorestart := wasRunning && p.Decl.Autorestart && aliveFor >= aliveThreshold
	p.mu.Unlock()

	p.fireStateChange(Stopped)

	if shouldAutorestart {
		p.Start()
	}
}

// Stop transitions Running -> Stopping, issuing the configured stop mode.
// A no-op on any other state (including Stopped).
func (p *Proc) Stop() error {
	p.mu.Lock()
	if p.state != Running {
		p.mu.Unlock()
		return nil
	}
	p.state = Stopping
	vk, sk := p.vkind, p.skind
	spec := p.Decl.Stop
	p.mu.Unlock()

	p.fireStateChange(Stopping)

	if vk != nil {
		return vk.stop(spec)
	}
	if sk != nil {
		return sk.stop(spec)
	}
	return nil
}

// ForceStop escalates directly to HardKill, usable while Stopping or
// Running.
func (p *Proc) ForceStop() error {
	p.mu.Lock()
	vk, sk := p.vkind, p.skind
	state := p.state
	p.mu.Unlock()
	if state == Stopped {
		return nil
	}
	if vk != nil {
		return vk.pty.Kill(pty.HardKill)
	}
	if sk != nil {
		return sk.kill()
	}
	return nil
}

// Restart issues Stop, then Start once the Stopped transition is observed.
func (p *Proc) Restart() error {
	p.mu.Lock()
	if p.state == Stopped {
		p.mu.Unlock()
		return p.Start()
	}
	if p.restarting {
		p.mu.Unlock()
		return nil
	}
	p.restarting = true
	p.mu.Unlock()

	var once sync.Once
	p.OnStateChange(func(s State) {
		if s != Stopped {
			return
		}
		once.Do(func() {
			p.mu.Lock()
			p.restarting = false
			p.mu.Unlock()
			p.Start()
		})
	})
	return p.Stop()
}

// Resize updates the cached size and, for a live VtermKind, resizes the
// PTY and VTerm. SimpleKind ignores resize.
func (p *Proc) Resize(rows, cols int) {
	p.mu.Lock()
	p.rows, p.cols = rows, cols
	vk := p.vkind
	p.mu.Unlock()
	if vk != nil {
		vk.resize(rows, cols)
	}
}

// SendInput encodes ev for this proc's kind and forwards it. Discarded
// when Stopped.
func (p *Proc) SendInput(ev keys.KeyEvent) {
	p.mu.Lock()
	vk, sk := p.vkind, p.skind
	p.mu.Unlock()
	if vk != nil {
		vk.sendInput(ev)
		p.recordDebugKeys(keys.EncodeVterm(ev))
	} else if sk != nil {
		sk.sendInput(ev)
		p.recordDebugKeys(keys.EncodeSimple(ev))
	}
}

// VTerm returns the live vterm for a VtermKind proc, or nil.
func (p *Proc) VTerm() *vterm.VTerm {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.vkind == nil {
		return nil
	}
	return p.vkind.vt
}

// Lines returns the completed-line deque for a SimpleKind proc, or nil.
func (p *Proc) Lines() []string {
	p.mu.Lock()
	sk := p.skind
	p.mu.Unlock()
	if sk == nil {
		return nil
	}
	return sk.snapshot()
}

// IsVterm reports whether this proc's decl selects the PTY-backed kind
// (tty, default true), whether or not a kind is currently live.
func (p *Proc) IsVterm() bool {
	return p.Decl.UsesTTY()
}

type signaledError string

func (e signaledError) Error() string { return "killed by signal " + string(e) }
func errSignaled(sig string) error    { return signaledError(sig) }
