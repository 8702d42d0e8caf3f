package keys

import "testing"

func TestDecodePlainChar(t *testing.T) {
	var d Decoder
	evs := d.Feed([]byte("x"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	ev, ok := evs[0].(KeyEvent)
	if !ok || ev.Code != CodeChar || ev.Rune != 'x' {
		t.Errorf("got %+v", evs[0])
	}
}

func TestDecodeCtrlChar(t *testing.T) {
	var d Decoder
	evs := d.Feed([]byte{0x03}) // Ctrl-C
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	ev := evs[0].(KeyEvent)
	if ev.Rune != 'c' || ev.Mods&ModCtrl == 0 {
		t.Errorf("got %+v, want ctrl-c", ev)
	}
}

func TestDecodeCSIArrow(t *testing.T) {
	var d Decoder
	evs := d.Feed([]byte("\x1b[A"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	ev := evs[0].(KeyEvent)
	if ev.Code != CodeUp {
		t.Errorf("got %+v, want CodeUp", ev)
	}
}

func TestDecodeCSISplitAcrossFeeds(t *testing.T) {
	var d Decoder
	if evs := d.Feed([]byte("\x1b[")); len(evs) != 0 {
		t.Fatalf("expected no events from a partial sequence, got %v", evs)
	}
	if !d.Pending() {
		t.Fatal("expected Pending after a partial CSI prefix")
	}
	evs := d.Feed([]byte("A"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	if ev := evs[0].(KeyEvent); ev.Code != CodeUp {
		t.Errorf("got %+v, want CodeUp", ev)
	}
	if d.Pending() {
		t.Error("expected no Pending bytes once the sequence completed")
	}
}

// TestDecodeLoneEscapeResolvesOnFlush covers the round trip for EncodeVterm
// applied to a bare Escape keypress: encode.go's CodeEscape encoding is a
// single 0x1b byte, indistinguishable on arrival from the start of a CSI
// or SS3 sequence until either more bytes follow or the caller's
// disambiguation timeout elapses and calls Flush.
func TestDecodeLoneEscapeResolvesOnFlush(t *testing.T) {
	var d Decoder
	if evs := d.Feed([]byte{0x1b}); len(evs) != 0 {
		t.Fatalf("expected no events yet, got %v", evs)
	}
	if !d.Pending() {
		t.Fatal("expected Pending after a lone ESC byte")
	}
	evs := d.Flush()
	if len(evs) != 1 {
		t.Fatalf("got %d events from Flush, want 1", len(evs))
	}
	ev, ok := evs[0].(KeyEvent)
	if !ok || ev.Code != CodeEscape {
		t.Errorf("got %+v, want CodeEscape", evs[0])
	}
	if d.Pending() {
		t.Error("expected Flush to clear Pending")
	}
}

func TestDecodeEscapeFollowedByCSIObeysSequenceNotFlush(t *testing.T) {
	var d Decoder
	d.Feed([]byte{0x1b})
	evs := d.Feed([]byte("[A"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	if ev := evs[0].(KeyEvent); ev.Code != CodeUp {
		t.Errorf("got %+v, want CodeUp (not a bare Escape)", ev)
	}
}

func TestDecodeAltChar(t *testing.T) {
	var d Decoder
	evs := d.Feed([]byte("\x1bx"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	ev := evs[0].(KeyEvent)
	if ev.Code != CodeChar || ev.Rune != 'x' || ev.Mods&ModAlt == 0 {
		t.Errorf("got %+v, want alt-x", ev)
	}
}

func TestDecodeSGRMouse(t *testing.T) {
	var d Decoder
	evs := d.Feed([]byte("\x1b[<0;10;20M"))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	ev, ok := evs[0].(MouseEvent)
	if !ok || ev.X != 9 || ev.Y != 19 || ev.Release {
		t.Errorf("got %+v", evs[0])
	}
}

func TestParseKeyNamedAndChord(t *testing.T) {
	ev, err := ParseKey("C-c")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if ev.Rune != 'c' || ev.Mods&ModCtrl == 0 {
		t.Errorf("got %+v, want ctrl-c", ev)
	}

	ev2, err := ParseKey("enter")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if ev2.Code != CodeEnter {
		t.Errorf("got %+v, want CodeEnter", ev2)
	}
}

func TestParseKeyEmpty(t *testing.T) {
	if _, err := ParseKey(""); err == nil {
		t.Error("expected error for empty key")
	}
}
