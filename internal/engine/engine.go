// Package engine owns the process array and orchestrates start-all,
// stop-all, resize-all, and quit completion, wiring the UI dispatcher to
// the process supervisors and the render scheduler.
package engine

import (
	"sync"

	"procmux/internal/config"
	"procmux/internal/keys"
	"procmux/internal/proc"
	"procmux/internal/render"
	"procmux/internal/ui"
)

// Engine is the top-level lifecycle owner: one per run.
type Engine struct {
	mu     sync.Mutex
	procs  []*proc.Proc
	byName map[string]*proc.Proc

	UI         *ui.State
	Dispatcher *ui.Dispatcher
	Scheduler  *render.Scheduler

	quitOnce sync.Once
	quitCh   chan struct{}
}

// New builds an Engine from a loaded config and an initial terminal size.
// The process array is fixed after this call, except through AddProc and
// RemoveProc. No render is issued and no child is spawned here; Start
// issues the initial render before spawning any child PTYs.
func New(cfg *config.Config, rows, cols int, yield func(func())) *Engine {
	decls := cfg.Decls()
	e := &Engine{
		byName:     make(map[string]*proc.Proc, len(decls)),
		UI:         &ui.State{Focus: ui.FocusProcs, TermRows: rows, TermCols: cols},
		Dispatcher: ui.NewDispatcher(),
		Scheduler:  render.New(yield),
		quitCh:     make(chan struct{}),
	}

	for _, decl := range decls {
		p := proc.New(decl, rows, cols)
		e.procs = append(e.procs, p)
		e.byName[decl.Name] = p
		e.wireRerender(p)
	}
	e.UI.SetCount(len(e.procs))

	return e
}

// wireRerender attaches the listener that forwards a proc's rerender
// events to the scheduler only while it is the selected process.
func (e *Engine) wireRerender(p *proc.Proc) {
	p.OnRerender(func() {
		e.mu.Lock()
		selected := e.selectedProc()
		e.mu.Unlock()
		if selected == p {
			e.Scheduler.Schedule()
		}
	})
}

func (e *Engine) selectedProc() *proc.Proc {
	if e.UI.Selected < 0 || e.UI.Selected >= len(e.procs) {
		return nil
	}
	return e.procs[e.UI.Selected]
}

// SelectedProc returns the currently selected Proc, or nil if there are
// none.
func (e *Engine) SelectedProc() *proc.Proc {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedProc()
}

// Procs returns the process array in declaration order (plus any procs
// appended later via AddProc).
func (e *Engine) Procs() []*proc.Proc {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*proc.Proc(nil), e.procs...)
}

// Start issues an initial render, then autostarts every proc whose decl
// requests it.
func (e *Engine) Start() {
	e.Scheduler.Schedule()
	for _, p := range e.Procs() {
		if p.Decl.ShouldAutostart() {
			p.Start()
		}
	}
}

// Resize caches the new size in UI state and fans it out to every proc.
func (e *Engine) Resize(rows, cols int) {
	e.mu.Lock()
	e.UI.TermRows, e.UI.TermCols = rows, cols
	e.mu.Unlock()
	for _, p := range e.Procs() {
		p.Resize(rows, cols)
	}
	e.Scheduler.Schedule()
}

// HandleKey runs one key event through the dispatcher and applies its
// resolved action.
func (e *Engine) HandleKey(ev keys.KeyEvent) {
	e.mu.Lock()
	d := e.Dispatcher.Handle(e.UI, ev)
	e.mu.Unlock()

	switch d.Action {
	case ui.ActionQuit:
		e.Quit()
	case ui.ActionSelectNext:
		e.SelectNext()
	case ui.ActionSelectPrev:
		e.SelectPrev()
	case ui.ActionSelectIndex:
		e.SelectIndex(d.Index)
	case ui.ActionFocusTerm:
		e.FocusTerm()
	case ui.ActionFocusProcs:
		e.FocusProcs()
	case ui.ActionKillProc:
		if p := e.SelectedProc(); p != nil {
			p.Stop()
		}
	case ui.ActionStartProc:
		if p := e.SelectedProc(); p != nil {
			p.Start()
		}
	case ui.ActionRestartProc:
		if p := e.SelectedProc(); p != nil {
			p.Restart()
		}
	case ui.ActionScrollUp:
		n := d.N
		if n == 0 {
			n = 1
		}
		e.ScrollBy(n)
	case ui.ActionScrollDown:
		n := d.N
		if n == 0 {
			n = 1
		}
		e.ScrollBy(-n)
	case ui.ActionNone:
		if d.Forward {
			if p := e.SelectedProc(); p != nil {
				p.SendInput(d.Key)
			}
		}
	}
}

// ByName looks up a proc by its declared name, for remote-control
// commands that address a proc by name.
func (e *Engine) ByName(name string) *proc.Proc {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.byName[name]
}

// SelectNext advances the selection, wrapping, and schedules a render.
func (e *Engine) SelectNext() {
	e.mu.Lock()
	e.UI.Next()
	e.mu.Unlock()
	e.Scheduler.Schedule()
}

// SelectPrev retreats the selection, wrapping, and schedules a render.
func (e *Engine) SelectPrev() {
	e.mu.Lock()
	e.UI.Prev()
	e.mu.Unlock()
	e.Scheduler.Schedule()
}

// SelectIndex selects the proc at index if in range, and schedules a
// render. Out-of-range indices are silently ignored.
func (e *Engine) SelectIndex(index int) {
	e.mu.Lock()
	if index >= 0 && index < e.UI.N {
		e.UI.Selected = index
	}
	e.mu.Unlock()
	e.Scheduler.Schedule()
}

// FocusTerm routes subsequent unbound keystrokes to the selected proc.
func (e *Engine) FocusTerm() {
	e.mu.Lock()
	e.UI.Focus = ui.FocusTerm
	e.mu.Unlock()
	e.Scheduler.Schedule()
}

// FocusProcs routes the process list to receive navigation keystrokes.
func (e *Engine) FocusProcs() {
	e.mu.Lock()
	e.UI.Focus = ui.FocusProcs
	e.mu.Unlock()
	e.Scheduler.Schedule()
}

// ToggleFocus switches between the procs pane and the term pane.
func (e *Engine) ToggleFocus() {
	e.mu.Lock()
	focus := e.UI.Focus
	e.mu.Unlock()
	if focus == ui.FocusProcs {
		e.FocusTerm()
	} else {
		e.FocusProcs()
	}
}

// ScrollBy moves the selected process's view by delta lines; positive
// scrolls back into history, negative scrolls toward the live tail. The
// offset floors at zero (live) and is clamped to the available
// scrollback on render.
func (e *Engine) ScrollBy(delta int) {
	e.mu.Lock()
	e.UI.ScrollOffset += delta
	if e.UI.ScrollOffset < 0 {
		e.UI.ScrollOffset = 0
	}
	e.mu.Unlock()
	e.Scheduler.Schedule()
}

// AddProc appends a new process declaration to the fixed array, wiring it
// exactly as New does at startup. Used only by the remote-control
// add-proc command; procs present at construction time are never
// reordered or replaced by this.
func (e *Engine) AddProc(decl config.ProcessDecl) *proc.Proc {
	e.mu.Lock()
	rows, cols := e.UI.TermRows, e.UI.TermCols
	p := proc.New(decl, rows, cols)
	e.procs = append(e.procs, p)
	e.byName[decl.Name] = p
	e.UI.SetCount(len(e.procs))
	e.mu.Unlock()
	e.wireRerender(p)
	e.Scheduler.Schedule()
	return p
}

// RemoveProc force-stops and removes the named proc from the array. It
// reports whether a proc with that name was found.
func (e *Engine) RemoveProc(name string) bool {
	e.mu.Lock()
	p, ok := e.byName[name]
	if !ok {
		e.mu.Unlock()
		return false
	}
	delete(e.byName, name)
	for i, cand := range e.procs {
		if cand == p {
			e.procs = append(e.procs[:i:i], e.procs[i+1:]...)
			break
		}
	}
	e.UI.SetCount(len(e.procs))
	e.mu.Unlock()
	p.ForceStop()
	e.Scheduler.Schedule()
	return true
}

// RenameProc renames the currently selected proc, updating the name
// index. It reports whether a proc was selected.
func (e *Engine) RenameProc(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.selectedProc()
	if p == nil {
		return false
	}
	delete(e.byName, p.Name)
	p.Name = name
	e.byName[name] = p
	return true
}

// Quit issues Stop on every proc and arranges for Done to close once every
// Stopped transition has been observed. It returns immediately; the wait
// for each proc's configured stop (for a pty-backed proc with the default
// mode: SIGINT, then SIGTERM, then SIGKILL, seconds apart) runs on its own
// goroutine, so a caller on the single-executor loop is never blocked
// waiting for it. Safe to call more than once.
func (e *Engine) Quit() {
	e.quitOnce.Do(func() {
		go e.awaitQuit()
	})
}

// awaitQuit issues Stop on every proc, awaits all Stopped transitions in
// parallel, then resolves the quit completion. Errors during stop do not
// prevent completion.
func (e *Engine) awaitQuit() {
	var wg sync.WaitGroup
	for _, p := range e.Procs() {
		p := p
		if p.State() == proc.Stopped {
			continue
		}
		wg.Add(1)
		done := make(chan struct{})
		var once sync.Once
		p.OnStateChange(func(s proc.State) {
			if s == proc.Stopped {
				once.Do(func() { close(done) })
			}
		})
		p.Stop()
		go func() {
			<-done
			wg.Done()
		}()
	}
	wg.Wait()
	close(e.quitCh)
}

// Done returns a channel closed once Quit has completed.
func (e *Engine) Done() <-chan struct{} {
	return e.quitCh
}
