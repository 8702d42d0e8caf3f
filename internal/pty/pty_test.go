package pty

import (
	"strings"
	"testing"
	"time"
)

func TestSpawnReadWait(t *testing.T) {
	h, err := Spawn("printf", []string{"hi\\n"}, nil, "", 24, 80)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer h.Close()

	buf := make([]byte, 256)
	var out strings.Builder
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.Master.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, rerr := h.Read(buf)
		out.Write(buf[:n])
		if rerr != nil {
			break
		}
	}

	st := h.Wait()
	if st.Code != 0 {
		t.Errorf("exit code = %d, want 0", st.Code)
	}
	if !strings.Contains(out.String(), "hi") {
		t.Errorf("output = %q, want it to contain %q", out.String(), "hi")
	}
}

func TestSpawnBadSize(t *testing.T) {
	if _, err := Spawn("true", nil, nil, "", 0, 80); err != ErrBadSize {
		t.Errorf("expected ErrBadSize, got %v", err)
	}
}

func TestKillSoftInterrupt(t *testing.T) {
	h, err := Spawn("sleep", []string{"30"}, nil, "", 24, 80)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer h.Close()

	if err := h.Kill(SoftInterrupt); err != nil {
		t.Fatalf("Kill: %v", err)
	}

	select {
	case <-h.Exited():
	case <-time.After(2 * time.Second):
		t.Fatal("process did not exit after SIGINT")
	}
}
