package paint

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"procmux/internal/engine"
	"procmux/internal/proc"
	"procmux/internal/ui"
	"procmux/internal/vterm"
)

const listWidth = 24

// Painter reads one process's screen grid per frame and blits cells to
// the terminal, plus a process-list pane and a help row.
type Painter struct {
	out  io.Writer
	rows int
	cols int
}

// New creates a Painter targeting out, sized rows x cols.
func New(out io.Writer, rows, cols int) *Painter {
	return &Painter{out: out, rows: rows, cols: cols}
}

// Resize updates the cached frame size used by the next Paint call.
func (p *Painter) Resize(rows, cols int) {
	p.rows, p.cols = rows, cols
}

// Paint renders one full frame for the engine's current state.
func (p *Painter) Paint(e *engine.Engine) {
	var b strings.Builder
	b.WriteString(seqCursorHide)

	rows := Vertical([]Constraint{{Kind: Min, N: 1}, {Kind: Length, N: 1}}, Area{Rows: p.rows, Cols: p.cols})
	mainArea, helpArea := rows[0], rows[1]
	cols := Horizontal([]Constraint{{Kind: Length, N: listWidth}, {Kind: Min, N: 1}}, mainArea)
	listArea, termArea := cols[0], cols[1]

	p.renderList(&b, e, listArea)
	p.renderTerm(&b, e, termArea)
	p.renderHelp(&b, e, helpArea)

	b.WriteString(seqCursorShow)
	io.WriteString(p.out, b.String())
}

func moveTo(b *strings.Builder, row, col int) {
	fmt.Fprintf(b, "\x1b[%d;%dH", row+1, col+1)
}

func (p *Painter) renderList(b *strings.Builder, e *engine.Engine, area Area) {
	procs := e.Procs()
	for i := 0; i < area.Rows; i++ {
		moveTo(b, area.Row+i, area.Col)
		b.WriteString("\x1b[2K")
		if i >= len(procs) {
			continue
		}
		proc := procs[i]
		marker := "  "
		if i == e.UI.Selected {
			marker = "> "
		}
		dot := stateDot(proc.State())
		name := truncate(proc.Name, area.Cols-6)
		fmt.Fprintf(b, "%s%s %s", marker, dot, name)
	}
}

func stateDot(s proc.State) string {
	switch s {
	case proc.Running:
		return "\x1b[32m●\x1b[0m"
	case proc.Stopping:
		return "\x1b[33m●\x1b[0m"
	default:
		return "\x1b[90m○\x1b[0m"
	}
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "")
}

func (p *Painter) renderTerm(b *strings.Builder, e *engine.Engine, area Area) {
	selected := e.SelectedProc()
	offset := e.UI.ScrollOffset
	for i := 0; i < area.Rows; i++ {
		moveTo(b, area.Row+i, area.Col)
		b.WriteString("\x1b[2K")
		if selected == nil {
			continue
		}
		if selected.IsVterm() {
			if vt := selected.VTerm(); vt != nil {
				renderVtermRow(b, vt, i, area.Rows, area.Cols, offset)
			}
			continue
		}
		lines := selected.Lines()
		renderSimpleLine(b, lines, i, area.Rows, area.Cols)
	}
}

// renderVtermRow converts one VTerm grid row into SGR-styled text,
// emitting an SGR reset whenever a cell's attributes differ from the
// previous cell's (coalescing runs the same way midterm's own
// Format.Regions run-length-encodes them). When offset is nonzero, rows
// are pulled from the scrollback mirror instead of the live grid.
func renderVtermRow(b *strings.Builder, vt *vterm.VTerm, row, paneRows, cols, offset int) {
	cells := vtermRowCells(vt, row, paneRows, offset)
	var lastSGR string
	for i := 0; i < cols && i < len(cells); i++ {
		c := cells[i]
		sgr := sgrFor(c)
		if sgr != lastSGR {
			b.WriteString("\x1b[0m")
			if sgr != "" {
				b.WriteString(sgr)
			}
			lastSGR = sgr
		}
		if c.Rune == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteRune(c.Rune)
		}
	}
	b.WriteString("\x1b[0m")
}

// vtermRowCells picks which row of the grid to show: the live screen when
// offset is zero, otherwise a row from the scrollback mirror, anchored so
// that offset 1 shows the line just above the live view.
func vtermRowCells(vt *vterm.VTerm, row, paneRows, offset int) []vterm.Cell {
	if offset == 0 {
		return vt.Row(row)
	}
	sbLen := vt.ScrollbackLen()
	start := sbLen - paneRows - offset
	if start < 0 {
		start = 0
	}
	return vt.ScrollbackRow(start + row)
}

func sgrFor(c vterm.Cell) string {
	var codes []string
	if c.Bold {
		codes = append(codes, "1")
	}
	if c.Italic {
		codes = append(codes, "3")
	}
	if c.Underline {
		codes = append(codes, "4")
	}
	if c.Inverse {
		codes = append(codes, "7")
	}
	codes = append(codes, colorCodes(c.FG, 38)...)
	codes = append(codes, colorCodes(c.BG, 48)...)
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func colorCodes(c vterm.Color, base int) []string {
	switch c.Kind {
	case vterm.ColorIndexed:
		return []string{fmt.Sprintf("%d;5;%d", base, c.Index)}
	case vterm.ColorRGB:
		return []string{fmt.Sprintf("%d;2;%d;%d;%d", base, c.R, c.G, c.B)}
	default:
		return nil
	}
}

func renderSimpleLine(b *strings.Builder, lines []string, row, paneRows, cols int) {
	start := 0
	if len(lines) > paneRows {
		start = len(lines) - paneRows
	}
	idx := start + row
	if idx < 0 || idx >= len(lines) {
		return
	}
	b.WriteString(truncate(lines[idx], cols))
}

func (p *Painter) renderHelp(b *strings.Builder, e *engine.Engine, area Area) {
	moveTo(b, area.Row, area.Col)
	b.WriteString("\x1b[2K")
	focus := "procs"
	if e.UI.Focus == ui.FocusTerm {
		focus = "term"
	}
	help := fmt.Sprintf("[%s] q:quit C-a:focus j/k:select x:kill s:start r:restart", focus)
	if selected := e.SelectedProc(); selected != nil {
		help += "  " + selected.Name + ": " + selected.StatusLabel() + selected.DebugLabel()
	}
	b.WriteString(truncate(help, area.Cols))
}
