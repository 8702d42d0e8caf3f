//go:build !windows

package proc

import (
	"os/exec"

	"procmux/internal/config"
	"golang.org/x/sys/unix"
)

func signalProcess(cmd *exec.Cmd, mode config.StopMode) error {
	sig := unix.SIGINT
	switch mode {
	case config.StopSIGTERM:
		sig = unix.SIGTERM
	case config.StopSIGKILL, config.StopHardKill:
		sig = unix.SIGKILL
	}
	return unix.Kill(cmd.Process.Pid, sig)
}
