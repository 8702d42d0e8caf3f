package paint

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const (
	seqAltScreenEnable  = "\x1b[?1049h"
	seqAltScreenDisable = "\x1b[?1049l"
	seqMouseEnable      = "\x1b[?1000h\x1b[?1006h"
	seqMouseDisable     = "\x1b[?1006l\x1b[?1000l"
	seqCursorHide       = "\x1b[?25l"
	seqCursorShow       = "\x1b[?25h"
)

// Host owns the physical terminal's raw mode, alternate screen, and mouse
// reporting, and guarantees they are restored on any exit path.
type Host struct {
	fd      int
	out     io.Writer
	restore *term.State
}

// NewHost wraps the given file as the host terminal (normally os.Stdout).
func NewHost(f *os.File) *Host {
	return &Host{fd: int(f.Fd()), out: f}
}

// IsTTY reports whether the wrapped file is a terminal.
func (h *Host) IsTTY() bool {
	return isatty.IsTerminal(uintptr(h.fd)) || isatty.IsCygwinTerminal(uintptr(h.fd))
}

// Enter puts the terminal into raw mode, switches to the alternate
// screen, enables SGR mouse reporting, and hides the cursor.
func (h *Host) Enter() error {
	state, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	h.restore = state
	fmt.Fprint(h.out, seqAltScreenEnable+seqMouseEnable+seqCursorHide)
	return nil
}

// Exit reverses Enter, in the opposite order, and is safe to call more
// than once or without a matching Enter.
func (h *Host) Exit() {
	fmt.Fprint(h.out, seqCursorShow+seqMouseDisable+seqAltScreenDisable)
	if h.restore != nil {
		term.Restore(h.fd, h.restore)
		h.restore = nil
	}
}

// Size returns the current terminal size in rows, cols.
func (h *Host) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(h.fd)
	return rows, cols, err
}
