package proc

import (
	"os"
	"os/exec"
	"sync"

	"procmux/internal/config"
	"procmux/internal/keys"
)

const maxSimpleLines = 1000

// simpleKind is a line-buffered pipe pair: stdout/stderr are read
// byte-by-byte into a last-line buffer, pushing a completed line on '\n'
// and dropping '\r'.
type simpleKind struct {
	cmd   *exec.Cmd
	stdin *os.File

	mu       sync.Mutex
	lastLine []byte
	lines    []string

	done chan struct{}
	code int
	err  error
}

func (p *Proc) startSimple() error {
	program, args, err := p.Decl.Program()
	if err != nil {
		return err
	}

	cmd := exec.Command(program, args...)
	cmd.Dir = p.Decl.Cwd
	if env := resolveEnv(p.Decl.Env); env != nil {
		cmd.Env = mergeEnv(os.Environ(), env)
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return err
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		stdinR.Close()
		stdinW.Close()
		return err
	}
	cmd.Stdin = stdinR
	cmd.Stdout = outW
	cmd.Stderr = outW

	if err := cmd.Start(); err != nil {
		stdinR.Close()
		stdinW.Close()
		outR.Close()
		outW.Close()
		return err
	}
	stdinR.Close()
	outW.Close()

	sk := &simpleKind{
		cmd:   cmd,
		stdin: stdinW,
		done:  make(chan struct{}),
	}

	p.mu.Lock()
	p.skind = sk
	p.mu.Unlock()

	go sk.readLoop(outR, p.fireRerender)
	return nil
}

func mergeEnv(base []string, overrides map[string]string) []string {
	env := append([]string{}, base...)
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}

func (sk *simpleKind) readLoop(r *os.File, onUpdate func()) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sk.feed(buf[0], onUpdate)
		}
		if err != nil {
			break
		}
	}
	r.Close()
	werr := sk.cmd.Wait()
	sk.mu.Lock()
	sk.err = werr
	if sk.cmd.ProcessState != nil {
		sk.code = sk.cmd.ProcessState.ExitCode()
	}
	sk.mu.Unlock()
	close(sk.done)
}

func (sk *simpleKind) feed(b byte, onUpdate func()) {
	if b == '\r' {
		return
	}
	sk.mu.Lock()
	if b == '\n' {
		line := string(sk.lastLine)
		sk.lastLine = nil
		sk.lines = append(sk.lines, line)
		if len(sk.lines) > maxSimpleLines {
			sk.lines = sk.lines[len(sk.lines)-maxSimpleLines:]
		}
	} else {
		sk.lastLine = append(sk.lastLine, b)
	}
	sk.mu.Unlock()
	if onUpdate != nil {
		onUpdate()
	}
}

func (sk *simpleKind) snapshot() []string {
	sk.mu.Lock()
	defer sk.mu.Unlock()
	out := append([]string{}, sk.lines...)
	if len(sk.lastLine) > 0 {
		out = append(out, string(sk.lastLine))
	}
	return out
}

func (sk *simpleKind) wait() (int, error) {
	<-sk.done
	sk.mu.Lock()
	defer sk.mu.Unlock()
	return sk.code, sk.err
}

func (sk *simpleKind) sendInput(ev keys.KeyEvent) {
	b := keys.EncodeSimple(ev)
	if len(b) == 0 {
		return
	}
	sk.stdin.Write(b)
}

func (sk *simpleKind) stop(spec config.StopSpec) error {
	if sk.cmd.Process == nil {
		return nil
	}
	if spec.IsSendKeys() {
		return sk.sendStopKeys(spec.SendKeys)
	}
	return signalProcess(sk.cmd, spec.SignalMode())
}

// sendStopKeys forwards a send-keys stop sequence to the child's stdin
// instead of delivering a signal.
func (sk *simpleKind) sendStopKeys(specs []string) error {
	for _, s := range specs {
		ev, err := keys.ParseKey(s)
		if err != nil {
			return err
		}
		sk.sendInput(ev)
	}
	return nil
}

func (sk *simpleKind) kill() error {
	if sk.cmd.Process == nil {
		return nil
	}
	return sk.cmd.Process.Kill()
}
