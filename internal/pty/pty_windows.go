//go:build windows

package pty

import (
	"errors"
	"os"
	"os/exec"
)

// ErrWindowsUnsupported is returned on Windows, where no pseudo-console
// library is wired in. The §4.1 windows algorithm (ConPTY + anonymous
// pipes) is documented but not implemented here for lack of a grounded
// dependency in the reference corpus.
var ErrWindowsUnsupported = errors.New("pty: windows pseudo-console not implemented")

func startWithSize(cmd *exec.Cmd, rows, cols int) (*os.File, error) {
	return nil, ErrWindowsUnsupported
}

func setSize(master *os.File, rows, cols int) error {
	return ErrWindowsUnsupported
}

func signalFromState(st *os.ProcessState) (string, bool) {
	return "", false
}

// kill on Windows: Soft == Hard (TerminateProcess), per the specified
// redesign decision.
func kill(cmd *exec.Cmd, mode KillMode) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
