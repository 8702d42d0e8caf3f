// Package vterm wraps a vito/midterm terminal emulator behind the VT
// parser/screen contract: a byte-stream parser maintaining a screen grid,
// cursor, styles and scrollback, with damage notification for the render
// scheduler.
package vterm

import (
	"io"
	"sync"

	"github.com/muesli/termenv"
	"github.com/vito/midterm"
)

// ColorKind classifies a Cell's foreground/background color.
type ColorKind int

const (
	ColorDefault ColorKind = iota
	ColorIndexed
	ColorRGB
)

// Color is one of default, 8-bit indexed, or 24-bit RGB.
type Color struct {
	Kind       ColorKind
	Index      uint8
	R, G, B    uint8
}

// Cell is one grid cell: a scalar, its colors, and a style bitmask.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color

	Bold      bool
	Italic    bool
	Underline bool
	Inverse   bool
}

// VTerm owns a screen grid, cursor, and scrollback, and forwards writes
// through the midterm parser. Every exported method is safe for
// concurrent use; a single mutex guards all state (§5's single-executor
// model still serialises callers, this only protects against the PTY
// read loop racing a resize/query from elsewhere).
type VTerm struct {
	mu   sync.Mutex
	term *midterm.Terminal
	sb   *midterm.Terminal // append-only scrollback mirror

	rows, cols int

	onDamage func()
	output   io.Writer // child's pty master, for query responses

	oscFG, oscBG string
}

const scrollbackLines = 1000

// New creates a VTerm sized rows x cols with a bounded scrollback.
func New(rows, cols int) *VTerm {
	vt := &VTerm{
		term: midterm.NewTerminal(rows, cols),
		sb:   midterm.NewTerminal(scrollbackLines, cols),
		rows: rows,
		cols: cols,
	}
	vt.sb.AutoResizeY = true
	vt.sb.AppendOnly = true
	return vt
}

// SetOutput plumbs the bytes the emulator wants written back to the child
// (device status reports, OSC color query responses) to w, normally the
// pty master.
func (vt *VTerm) SetOutput(w io.Writer) {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.output = w
	vt.term.ForwardResponses = w
}

// SetHostColors caches the host terminal's actual foreground/background
// color so OSC 10/11 queries from the child can be answered, since
// midterm itself swallows those queries rather than answering them.
func (vt *VTerm) SetHostColors(fg, bg termenv.Color) {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.oscFG = oscColorString(fg)
	vt.oscBG = oscColorString(bg)
}

// SetDamageCallback registers the listener fired after every Write,
// whether or not it changed the grid. Only one callback is supported; registering a new one
// replaces the previous (mirrors the Proc-owned single-subscription
// lifecycle described in §3 for kind replacement).
func (vt *VTerm) SetDamageCallback(fn func()) {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.onDamage = fn
}

// Write feeds child output through the parser. Always consumes all of p.
func (vt *VTerm) Write(p []byte) (int, error) {
	vt.mu.Lock()
	respondOSC(vt, p)
	vt.term.Write(p)
	vt.sb.Write(p)
	cb := vt.onDamage
	vt.mu.Unlock()
	if cb != nil {
		cb()
	}
	return len(p), nil
}

// Resize changes the grid size, preserving content relative to the cursor
// where midterm's own reflow logic does so, and clamping the cursor.
func (vt *VTerm) Resize(rows, cols int) {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.rows, vt.cols = rows, cols
	vt.term.Resize(rows, cols)
	vt.sb.ResizeX(cols)
}

// Size returns the current grid dimensions.
func (vt *VTerm) Size() (rows, cols int) {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.rows, vt.cols
}

// Cursor returns the cursor's row, column, and visibility.
func (vt *VTerm) Cursor() (row, col int, visible bool) {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	c := vt.term.Cursor
	return c.Y, c.X, vt.term.CursorVisible
}

// Row renders one row of the live grid as a slice of Cells, one per
// column, by walking midterm's run-length-encoded format regions.
func (vt *VTerm) Row(row int) []Cell {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return extractRow(vt.term, row, vt.cols)
}

// ScrollbackRow renders one row from the append-only scrollback mirror,
// with row 0 the oldest retained line.
func (vt *VTerm) ScrollbackRow(row int) []Cell {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return extractRow(vt.sb, row, vt.cols)
}

// ScrollbackLen returns the number of lines currently retained in the
// scrollback mirror.
func (vt *VTerm) ScrollbackLen() int {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return len(vt.sb.Content)
}

func extractRow(term *midterm.Terminal, row, cols int) []Cell {
	cells := make([]Cell, cols)
	if row < 0 || row >= len(term.Content) {
		return cells
	}
	line := term.Content[row]
	col := 0
	for region := range term.Format.Regions(row) {
		for i := 0; i < region.Size && col < cols; i++ {
			var r rune
			if col < len(line) {
				r = line[col]
			}
			cells[col] = cellFromFormat(r, region.F)
			col++
		}
	}
	for ; col < cols; col++ {
		var r rune
		if col < len(line) {
			r = line[col]
		}
		cells[col] = Cell{Rune: r}
	}
	return cells
}

func cellFromFormat(r rune, f midterm.Format) Cell {
	return Cell{
		Rune:      r,
		FG:        colorFromTermenv(f.Fg),
		BG:        colorFromTermenv(f.Bg),
		Bold:      f.Bold,
		Italic:    f.Italic,
		Underline: f.Underline,
		Inverse:   f.Reverse,
	}
}

func colorFromTermenv(c termenv.Color) Color {
	if c == nil {
		return Color{Kind: ColorDefault}
	}
	switch v := c.(type) {
	case termenv.RGBColor:
		r, g, b := hexToRGB(string(v))
		return Color{Kind: ColorRGB, R: r, G: g, B: b}
	case termenv.ANSIColor:
		return Color{Kind: ColorIndexed, Index: uint8(v)}
	case termenv.ANSI256Color:
		return Color{Kind: ColorIndexed, Index: uint8(v)}
	default:
		return Color{Kind: ColorDefault}
	}
}

func hexToRGB(hex string) (r, g, b uint8) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}
	parse := func(s string) uint8 {
		var n uint8
		for _, c := range s {
			n <<= 4
			switch {
			case c >= '0' && c <= '9':
				n |= uint8(c - '0')
			case c >= 'a' && c <= 'f':
				n |= uint8(c-'a') + 10
			case c >= 'A' && c <= 'F':
				n |= uint8(c-'A') + 10
			}
		}
		return n
	}
	return parse(hex[0:2]), parse(hex[2:4]), parse(hex[4:6])
}
