//go:build windows

package proc

import (
	"os/exec"

	"procmux/internal/config"
)

// signalProcess on Windows: Soft == Hard, matching the redesign decision
// that Windows has no SIGINT equivalent worth distinguishing.
func signalProcess(cmd *exec.Cmd, mode config.StopMode) error {
	return cmd.Process.Kill()
}
