// Package paint implements the painter glue (C8): per frame, it computes
// the process-list/main-output/help-row layout and blits the selected
// process's screen grid into terminal escape sequences. No TUI/painter
// library is wired in, matching the rest of the reference corpus, which
// hand-rolls ANSI rendering rather than using a ratatui/bubbletea-style
// crate. So this package implements the painter contract directly.
package paint

// Area is a rectangular region of the frame, in row/col cell coordinates.
type Area struct {
	Row, Col, Rows, Cols int
}

// ConstraintKind selects how Layout interprets a Constraint's value.
type ConstraintKind int

const (
	Length ConstraintKind = iota
	Min
	Max
	Percentage
	Ratio
)

// Constraint sizes one region produced by Layout.
type Constraint struct {
	Kind ConstraintKind
	N    int // Length, Min, Max, Percentage
	Num  int // Ratio numerator
	Den  int // Ratio denominator
}

// Vertical splits area into len(constraints) stacked sub-areas, top to
// bottom, each constraint's height resolved against area.Rows.
func Vertical(constraints []Constraint, area Area) []Area {
	heights := resolve(constraints, area.Rows)
	out := make([]Area, len(constraints))
	row := area.Row
	for i, h := range heights {
		out[i] = Area{Row: row, Col: area.Col, Rows: h, Cols: area.Cols}
		row += h
	}
	return out
}

// Horizontal splits area into len(constraints) side-by-side sub-areas,
// left to right, each constraint's width resolved against area.Cols.
func Horizontal(constraints []Constraint, area Area) []Area {
	widths := resolve(constraints, area.Cols)
	out := make([]Area, len(constraints))
	col := area.Col
	for i, w := range widths {
		out[i] = Area{Row: area.Row, Col: col, Rows: area.Rows, Cols: w}
		col += w
	}
	return out
}

func resolve(constraints []Constraint, total int) []int {
	sizes := make([]int, len(constraints))
	used := 0
	flexIdx := -1
	for i, c := range constraints {
		switch c.Kind {
		case Length, Min, Max:
			sizes[i] = c.N
			used += c.N
		case Percentage:
			sizes[i] = total * c.N / 100
			used += sizes[i]
		case Ratio:
			if c.Den > 0 {
				sizes[i] = total * c.Num / c.Den
			}
			used += sizes[i]
		}
		if c.Kind == Min {
			flexIdx = i
		}
	}
	if flexIdx >= 0 {
		remaining := total - used + sizes[flexIdx]
		if remaining > sizes[flexIdx] {
			sizes[flexIdx] = remaining
		}
	}
	return sizes
}
