package ctl

import (
	"net"
	"path/filepath"
	"testing"

	"procmux/internal/config"
	"procmux/internal/engine"
	"procmux/internal/logx"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	no := false
	cfg := &config.Config{Procs: map[string]*config.ProcessDecl{
		"one": {Cmd: []string{"true"}, TTY: &no, Autostart: &no},
		"two": {Cmd: []string{"true"}, TTY: &no, Autostart: &no},
	}}
	return engine.New(cfg, 24, 80, nil)
}

func TestDispatchNextProc(t *testing.T) {
	e := testEngine(t)
	r := Dispatch(e, Command{C: "next-proc"})
	if !r.OK {
		t.Fatalf("next-proc: %v", r.Error)
	}
	if e.SelectedProc() != e.Procs()[1] {
		t.Errorf("expected selection to advance to proc 1")
	}
}

func TestDispatchSelectProcOutOfRange(t *testing.T) {
	e := testEngine(t)
	idx := 5
	r := Dispatch(e, Command{C: "select-proc", Index: &idx})
	if r.OK {
		t.Error("expected error for out-of-range index")
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	e := testEngine(t)
	r := Dispatch(e, Command{C: "bogus"})
	if r.OK {
		t.Error("expected error for unknown command")
	}
}

func TestDispatchBatchStopsOnFirstError(t *testing.T) {
	e := testEngine(t)
	idx := 9
	r := Dispatch(e, Command{C: "batch", Cmds: []Command{
		{C: "next-proc"},
		{C: "select-proc", Index: &idx},
		{C: "next-proc"},
	}})
	if r.OK {
		t.Error("expected batch to fail on the bad select-proc")
	}
}

func TestServerRoundTrip(t *testing.T) {
	e := testEngine(t)
	path := filepath.Join(t.TempDir(), "ctl.sock")
	srv, err := Listen(path, e, logx.Discard())
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	r, err := Send(path, Command{C: "next-proc"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !r.OK {
		t.Errorf("reply not OK: %v", r.Error)
	}
}

func TestListenRemovesStaleSocket(t *testing.T) {
	e := testEngine(t)
	path := filepath.Join(t.TempDir(), "ctl.sock")

	srv1, err := Listen(path, e, logx.Discard())
	if err != nil {
		t.Fatalf("first Listen: %v", err)
	}
	// simulate a crash: socket file remains, listener dead
	srv1.ln.(*net.UnixListener).SetUnlinkOnClose(false)
	srv1.ln.Close()

	srv2, err := Listen(path, e, logx.Discard())
	if err != nil {
		t.Fatalf("second Listen should recover stale socket: %v", err)
	}
	defer srv2.Close()

	if _, err := Send(path, Command{C: "next-proc"}); err != nil {
		t.Errorf("Send after recovery: %v", err)
	}
}

func TestParseYAML(t *testing.T) {
	cmd, err := ParseYAML("{c: select-proc, index: 2}")
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if cmd.C != "select-proc" || cmd.Index == nil || *cmd.Index != 2 {
		t.Errorf("got %+v", cmd)
	}
}

func TestParseYAMLSendKey(t *testing.T) {
	cmd, err := ParseYAML("{c: send-key, key: C-c}")
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if cmd.C != "send-key" || cmd.Key != "C-c" {
		t.Errorf("got %+v", cmd)
	}
}

func TestParseYAMLMissingC(t *testing.T) {
	if _, err := ParseYAML("{index: 2}"); err == nil {
		t.Error("expected error for missing c field")
	}
}

func TestParseKey(t *testing.T) {
	ev, err := parseKey("C-c")
	if err != nil {
		t.Fatalf("parseKey: %v", err)
	}
	if ev.Rune != 'c' {
		t.Errorf("rune = %q, want c", ev.Rune)
	}
}
