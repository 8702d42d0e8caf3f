package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenWritesToFile(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Println("hello")
	l.Close()

	data, err := os.ReadFile(filepath.Join(dir, "procmux.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing written line, got %q", data)
	}
}

func TestOpenAppends(t *testing.T) {
	dir := t.TempDir()
	l1, _ := Open(dir)
	l1.Println("first")
	l1.Close()

	l2, _ := Open(dir)
	l2.Println("second")
	l2.Close()

	data, _ := os.ReadFile(filepath.Join(dir, "procmux.log"))
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("expected both lines retained, got %q", data)
	}
}

func TestDiscardDoesNotPanic(t *testing.T) {
	Discard().Println("ignored")
}
