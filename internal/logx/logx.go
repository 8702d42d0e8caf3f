// Package logx writes diagnostic output to a file instead of stdout or
// stderr, since the TUI owns the terminal and nothing else may write to
// it without corrupting the frame.
package logx

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// Logger wraps the standard library logger with a Close that releases
// the underlying file.
type Logger struct {
	*log.Logger
	f *os.File
}

// Open creates (or appends to) <dir>/procmux.log and returns a Logger
// writing timestamped lines to it.
func Open(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "procmux.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: log.New(f, "", log.LstdFlags), f: f}, nil
}

// Discard returns a Logger that drops everything written to it, for use
// where no log file is wanted (tests, one-shot --ctl client invocations).
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard, "", 0)}
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
