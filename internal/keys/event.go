// Package keys implements the key/event codec: translating abstract key
// events into the byte sequences a child process expects, and parsing raw
// bytes read from the host terminal back into abstract events.
package keys

// Code names an abstract key, independent of any encoding.
type Code int

const (
	CodeChar Code = iota
	CodeBackspace
	CodeEnter
	CodeTab
	CodeBackTab
	CodeEscape
	CodeDelete
	CodeInsert
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
	CodeF
	CodeNull
)

// Mod is a bitmask of held modifier keys.
type Mod uint8

const (
	ModCtrl Mod = 1 << iota
	ModShift
	ModAlt
)

// KeyEvent is one abstract keypress: a code, an optional rune (for
// CodeChar), an optional function-key number (for CodeF), and modifiers.
type KeyEvent struct {
	Code Code
	Rune rune
	FNum int
	Mods Mod
}

// MouseEvent is a decoded SGR mouse report.
type MouseEvent struct {
	Button  int
	X, Y    int
	Release bool
	Mods    Mod
}

// ResizeEvent signals the host terminal changed size.
type ResizeEvent struct {
	Rows, Cols int
}

// Event is any of KeyEvent, MouseEvent, or ResizeEvent.
type Event interface{}
