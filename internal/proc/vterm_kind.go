package proc

import (
	"time"

	"procmux/internal/config"
	"procmux/internal/keys"
	"procmux/internal/pty"
	"procmux/internal/vterm"
)

// vtermKind is a PTY+VT pair: the child's output is parsed into an
// in-memory VTerm, and encoded input is written back to the PTY master.
type vtermKind struct {
	pty *pty.Handle
	vt  *vterm.VTerm
}

const ptyWriteTimeout = 3 * time.Second

func (p *Proc) startVterm(rows, cols int) error {
	program, args, err := p.Decl.Program()
	if err != nil {
		return err
	}
	env := resolveEnv(p.Decl.Env)

	h, err := pty.Spawn(program, args, env, p.Decl.Cwd, rows, cols)
	if err != nil {
		return err
	}

	vt := vterm.New(rows, cols)
	vt.SetOutput(h.Master)

	vk := &vtermKind{pty: h, vt: vt}
	vt.SetDamageCallback(p.fireRerender)

	p.mu.Lock()
	p.vkind = vk
	p.mu.Unlock()

	go pipeOutput(h, vt)
	return nil
}

// pipeOutput is the async read loop: PTY master bytes feed into the VTerm
// until the child exits (EndOfFile), at which point the loop returns.
func pipeOutput(h *pty.Handle, vt *vterm.VTerm) {
	buf := make([]byte, 4096)
	for {
		n, err := h.Read(buf)
		if n > 0 {
			vt.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func resolveEnv(overrides map[string]*string) map[string]string {
	if len(overrides) == 0 {
		return nil
	}
	env := make(map[string]string, len(overrides))
	for k, v := range overrides {
		if v != nil {
			env[k] = *v
		}
	}
	return env
}

func (vk *vtermKind) resize(rows, cols int) {
	vk.vt.Resize(rows, cols)
	if err := vk.pty.Resize(rows, cols); err != nil {
		// PtyResizeFailed: the error is dropped and not logged; the next
		// resize attempt will simply retry.
		return
	}
}

func (vk *vtermKind) sendInput(ev keys.KeyEvent) {
	b := keys.EncodeVterm(ev)
	if len(b) == 0 {
		return
	}
	vk.pty.Write(b, ptyWriteTimeout)
}

func (vk *vtermKind) stop(spec config.StopSpec) error {
	if spec.IsSendKeys() {
		return vk.sendStopKeys(spec.SendKeys)
	}
	switch spec.SignalMode() {
	case config.StopSIGTERM:
		return vk.pty.Kill(pty.SoftTerminate)
	case config.StopSIGKILL, config.StopHardKill:
		return vk.pty.Kill(pty.HardKill)
	default:
		return vk.pty.Kill(pty.SoftInterrupt)
	}
}

// sendStopKeys forwards a send-keys stop sequence to the child instead of
// delivering a signal, one parsed key at a time (e.g. "C-c" then "enter"
// to interrupt then confirm a REPL's exit prompt).
func (vk *vtermKind) sendStopKeys(specs []string) error {
	for _, s := range specs {
		ev, err := keys.ParseKey(s)
		if err != nil {
			return err
		}
		vk.sendInput(ev)
	}
	return nil
}
