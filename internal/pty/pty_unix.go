//go:build !windows

package pty

import (
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

func startWithSize(cmd *exec.Cmd, rows, cols int) (*os.File, error) {
	return pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func setSize(master *os.File, rows, cols int) error {
	return pty.Setsize(master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func signalFromState(st *os.ProcessState) (string, bool) {
	if st == nil {
		return "", false
	}
	ws, ok := st.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return "", false
	}
	return ws.Signal().String(), true
}

// kill implements the soft-kill escalation timeline for SoftInterrupt:
// SIGINT immediately, SIGTERM after 5s if still running, SIGKILL after a
// further 5s. The timers are cancelled as soon as the process has exited.
// SoftTerminate sends a single SIGTERM and HardKill a single SIGKILL.
func kill(cmd *exec.Cmd, mode KillMode) error {
	if cmd.Process == nil {
		return nil
	}
	pid := cmd.Process.Pid

	if mode == HardKill {
		return unix.Kill(pid, unix.SIGKILL)
	}

	sig := unix.SIGINT
	if mode == SoftTerminate {
		sig = unix.SIGTERM
	}
	if err := unix.Kill(pid, sig); err != nil {
		return err
	}
	if mode == SoftTerminate {
		return nil
	}

	go func() {
		termTimer := time.NewTimer(5 * time.Second)
		defer termTimer.Stop()
		select {
		case <-waitDone(cmd):
			return
		case <-termTimer.C:
		}
		unix.Kill(pid, unix.SIGTERM)

		killTimer := time.NewTimer(5 * time.Second)
		defer killTimer.Stop()
		select {
		case <-waitDone(cmd):
			return
		case <-killTimer.C:
		}
		unix.Kill(pid, unix.SIGKILL)
	}()
	return nil
}

// waitDone polls for process exit without double-calling cmd.Wait (which
// the caller's reap loop already owns); process liveness is probed with
// signal 0.
func waitDone(cmd *exec.Cmd) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if cmd.Process == nil {
				return
			}
			if err := unix.Kill(cmd.Process.Pid, 0); err != nil {
				return
			}
			time.Sleep(200 * time.Millisecond)
		}
	}()
	return done
}
