package vterm

import (
	"bytes"
	"fmt"

	"github.com/muesli/termenv"
)

// respondOSC answers OSC 10/11 foreground/background color queries from
// the child, which midterm parses and discards rather than answering.
// Must be called with vt.mu held.
func respondOSC(vt *VTerm, data []byte) {
	if vt.output == nil {
		return
	}
	if vt.oscFG != "" && bytes.Contains(data, []byte("\033]10;?")) {
		fmt.Fprintf(vt.output, "\033]10;%s\033\\", vt.oscFG)
	}
	if vt.oscBG != "" && bytes.Contains(data, []byte("\033]11;?")) {
		fmt.Fprintf(vt.output, "\033]11;%s\033\\", vt.oscBG)
	}
}

// oscColorString renders a termenv.Color as the X11-style string an OSC
// 10/11 response expects ("rgb:rr/gg/bb").
func oscColorString(c termenv.Color) string {
	if c == nil {
		return ""
	}
	rgb, ok := c.(termenv.RGBColor)
	if !ok {
		return ""
	}
	r, g, b := hexToRGB(string(rgb))
	return fmt.Sprintf("rgb:%02x/%02x/%02x", r, g, b)
}
