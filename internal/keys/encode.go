package keys

import "fmt"

// xtermModParam maps a Mod bitmask to the xterm CSI modifier parameter
// (2=shift, 3=alt, 4=shift+alt, 5=ctrl, 6=shift+ctrl, 7=alt+ctrl, 8=all).
func xtermModParam(m Mod) int {
	n := 1
	if m&ModShift != 0 {
		n++
	}
	if m&ModAlt != 0 {
		n += 2
	}
	if m&ModCtrl != 0 {
		n += 4
	}
	return n
}

var namedFinal = map[Code]byte{
	CodeUp: 'A', CodeDown: 'B', CodeRight: 'C', CodeLeft: 'D',
	CodeHome: 'H', CodeEnd: 'F',
}

var namedTilde = map[Code]int{
	CodeInsert: 2, CodeDelete: 3, CodePageUp: 5, CodePageDown: 6,
}

// EncodeVterm encodes a KeyEvent as the byte sequence a pty-backed child
// expects (xterm-compatible).
func EncodeVterm(ev KeyEvent) []byte {
	mod := ev.Mods
	switch ev.Code {
	case CodeChar:
		return encodeChar(ev.Rune, mod)
	case CodeEnter:
		return []byte{'\r'}
	case CodeBackspace:
		return []byte{0x7f}
	case CodeTab:
		if mod&ModShift != 0 {
			return []byte("\x1b[Z")
		}
		return []byte{'\t'}
	case CodeBackTab:
		return []byte("\x1b[Z")
	case CodeEscape:
		return []byte{0x1b}
	case CodeDelete, CodeInsert, CodePageUp, CodePageDown:
		n := namedTilde[ev.Code]
		if mod == 0 {
			return []byte(fmt.Sprintf("\x1b[%d~", n))
		}
		return []byte(fmt.Sprintf("\x1b[%d;%d~", n, xtermModParam(mod)))
	case CodeUp, CodeDown, CodeLeft, CodeRight, CodeHome, CodeEnd:
		final := namedFinal[ev.Code]
		if mod == 0 {
			return []byte(fmt.Sprintf("\x1b[%c", final))
		}
		return []byte(fmt.Sprintf("\x1b[1;%d%c", xtermModParam(mod), final))
	case CodeF:
		return encodeFKey(ev.FNum, mod)
	case CodeNull:
		return []byte{0}
	default:
		return nil
	}
}

func encodeChar(r rune, mod Mod) []byte {
	if mod&ModCtrl != 0 && r >= 'a' && r <= 'z' {
		return []byte{byte(r) & 0x1f}
	}
	if mod&ModCtrl != 0 && r >= 'A' && r <= 'Z' {
		return []byte{byte(r) & 0x1f}
	}
	b := []byte(string(r))
	if mod&ModAlt != 0 {
		return append([]byte{0x1b}, b...)
	}
	return b
}

var fKeyTilde = map[int]int{1: 11, 2: 12, 3: 13, 4: 14, 5: 15, 6: 17, 7: 18, 8: 19, 9: 20, 10: 21, 11: 23, 12: 24}

func encodeFKey(n int, mod Mod) []byte {
	// F1-F4 use SS3/CSI letter form; F5+ use the tilde form.
	if n >= 1 && n <= 4 {
		final := byte('P' + n - 1)
		if mod == 0 {
			return []byte(fmt.Sprintf("\x1bO%c", final))
		}
		return []byte(fmt.Sprintf("\x1b[1;%d%c", xtermModParam(mod), final))
	}
	code, ok := fKeyTilde[n]
	if !ok {
		return nil
	}
	if mod == 0 {
		return []byte(fmt.Sprintf("\x1b[%d~", code))
	}
	return []byte(fmt.Sprintf("\x1b[%d;%d~", code, xtermModParam(mod)))
}

// EncodeSimple encodes a KeyEvent for a pipe-backed ("simple") child, which
// only understands literal character input and a handful of named keys.
// Everything else is dropped (returns nil).
func EncodeSimple(ev KeyEvent) []byte {
	switch ev.Code {
	case CodeChar:
		if ev.Mods&(ModCtrl|ModAlt) != 0 {
			return nil
		}
		return []byte(string(ev.Rune))
	case CodeEnter:
		return []byte{'\n'}
	case CodeTab:
		return []byte{'\t'}
	case CodeBackspace:
		return []byte{0x7f}
	case CodeEscape:
		return []byte{0x1b}
	default:
		return nil
	}
}
