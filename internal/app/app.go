// Package app wires the engine, the host terminal, the painter, the
// keyboard reader, and the control socket into one running instance,
// implementing the single-executor model: the render scheduler's yield
// posts to a channel drained only by this package's main loop, so every
// Paint call and every engine mutation happens on one goroutine.
package app

import (
	"fmt"
	"os"
	"time"

	"procmux/internal/config"
	"procmux/internal/ctl"
	"procmux/internal/engine"
	"procmux/internal/keys"
	"procmux/internal/logx"
	"procmux/internal/paint"
)

// escDisambiguate is how long readKeys waits after a lone ESC byte for a
// follow-up byte before deciding it was a real Escape keypress rather than
// the start of a CSI/SS3 sequence, mirroring the escape-sequence timeout
// terminal input readers in the ecosystem use for the same ambiguity.
const escDisambiguate = 25 * time.Millisecond

// Run starts the engine for cfg, attaches a control socket at sockPath,
// and blocks until the user quits or every process has stopped following
// a quit request.
func Run(cfg *config.Config, sockPath string, log *logx.Logger) error {
	host := paint.NewHost(os.Stdout)
	if !host.IsTTY() {
		return fmt.Errorf("stdout is not a terminal")
	}
	rows, cols, err := host.Size()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	renderCh := make(chan func(), 1)
	yield := func(f func()) {
		select {
		case renderCh <- f:
		default:
		}
	}

	e := engine.New(cfg, rows, cols, yield)
	painter := paint.New(os.Stdout, rows, cols)
	e.Scheduler.OnRender(func() { painter.Paint(e) })

	srv, err := ctl.Listen(sockPath, e, log)
	if err != nil {
		return fmt.Errorf("start control socket: %w", err)
	}
	defer srv.Close()

	if err := host.Enter(); err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer host.Exit()

	keyCh := make(chan keys.Event, 64)
	go readKeys(os.Stdin, keyCh)

	resizeCh := make(chan struct{}, 1)
	stopWatch := watchResize(resizeCh)
	defer stopWatch()

	e.Start()

	for {
		select {
		case f := <-renderCh:
			f()
		case <-resizeCh:
			if r, c, err := host.Size(); err == nil {
				painter.Resize(r, c)
				e.Resize(r, c)
			}
		case ev, ok := <-keyCh:
			if !ok {
				return nil
			}
			dispatchEvent(e, ev)
		case <-e.Done():
			return nil
		}
	}
}

func dispatchEvent(e *engine.Engine, ev keys.Event) {
	switch v := ev.(type) {
	case keys.KeyEvent:
		e.HandleKey(v)
	case keys.ResizeEvent:
		e.Resize(v.Rows, v.Cols)
	case keys.MouseEvent:
		// No mouse-bound action is defined; mouse reports are accepted by
		// the decoder but otherwise discarded at this layer.
	}
}

// readKeys decodes stdin into Events on a dedicated goroutine. A lone ESC
// byte is ambiguous until either more bytes arrive (completing a CSI/SS3
// sequence) or escDisambiguate elapses with nothing following (a real
// Escape keypress), so reads happen on their own goroutine feeding a
// channel the decode loop can select against a timer.
func readKeys(in *os.File, out chan<- keys.Event) {
	defer close(out)

	raw := make(chan []byte)
	readErr := make(chan struct{})
	go func() {
		defer close(readErr)
		buf := make([]byte, 4096)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				b := make([]byte, n)
				copy(b, buf[:n])
				raw <- b
			}
			if err != nil {
				return
			}
		}
	}()

	var dec keys.Decoder
	var timer *time.Timer
	var timeoutCh <-chan time.Time

	armTimeout := func() {
		if !dec.Pending() {
			if timer != nil && !timer.Stop() {
				<-timer.C
			}
			timeoutCh = nil
			return
		}
		if timer == nil {
			timer = time.NewTimer(escDisambiguate)
		} else {
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(escDisambiguate)
		}
		timeoutCh = timer.C
	}

	for {
		select {
		case b := <-raw:
			for _, ev := range dec.Feed(b) {
				out <- ev
			}
			armTimeout()
		case <-timeoutCh:
			for _, ev := range dec.Flush() {
				out <- ev
			}
			timeoutCh = nil
		case <-readErr:
			return
		}
	}
}
