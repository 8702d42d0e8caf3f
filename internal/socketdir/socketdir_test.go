package socketdir

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := os.Getenv("PROCMUX_DIR")
	os.Setenv("PROCMUX_DIR", dir)
	t.Cleanup(func() {
		os.Setenv("PROCMUX_DIR", old)
		ResetDirCache()
	})
	ResetDirCache()
	return dir
}

func TestDirCreatesSocketsSubdir(t *testing.T) {
	base := withTempConfigDir(t)
	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if dir != filepath.Join(base, "sockets") {
		t.Errorf("Dir() = %q, want %q", dir, filepath.Join(base, "sockets"))
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected sockets dir to exist: %v", err)
	}
}

func TestFindNoSockets(t *testing.T) {
	withTempConfigDir(t)
	if _, err := Find(); err == nil {
		t.Error("expected error when no sockets exist")
	}
}

func TestFindSingleSocket(t *testing.T) {
	withTempConfigDir(t)
	p, err := Path("main")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if err := os.WriteFile(p, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	found, err := Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found != p {
		t.Errorf("Find() = %q, want %q", found, p)
	}
}

func TestFindAmbiguous(t *testing.T) {
	withTempConfigDir(t)
	p1, _ := Path("one")
	p2, _ := Path("two")
	os.WriteFile(p1, nil, 0o600)
	os.WriteFile(p2, nil, 0o600)
	if _, err := Find(); err == nil {
		t.Error("expected error for ambiguous sockets")
	}
}
