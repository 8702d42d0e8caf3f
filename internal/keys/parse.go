package keys

import (
	"fmt"
	"strings"
)

// ParseKey turns a textual key name into a KeyEvent: single printable
// runes, the named keys understood by the keymap (enter, tab, esc,
// backspace, up, down, left, right, home, end), and a "C-"/"A-" prefix for
// control/alt chords. Used both by the remote-control send-key command and
// by a config's send-keys stop mode.
func ParseKey(s string) (KeyEvent, error) {
	if s == "" {
		return KeyEvent{}, fmt.Errorf("empty key")
	}
	mods := Mod(0)
	if strings.HasPrefix(s, "C-") {
		mods |= ModCtrl
		s = s[2:]
	}
	if strings.HasPrefix(s, "A-") {
		mods |= ModAlt
		s = s[2:]
	}
	if code, ok := namedKeys[s]; ok {
		return KeyEvent{Code: code, Mods: mods}, nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return KeyEvent{}, fmt.Errorf("unrecognized key %q", s)
	}
	return KeyEvent{Code: CodeChar, Rune: r[0], Mods: mods}, nil
}

var namedKeys = map[string]Code{
	"enter":     CodeEnter,
	"tab":       CodeTab,
	"esc":       CodeEscape,
	"escape":    CodeEscape,
	"backspace": CodeBackspace,
	"up":        CodeUp,
	"down":      CodeDown,
	"left":      CodeLeft,
	"right":     CodeRight,
	"home":      CodeHome,
	"end":       CodeEnd,
}
