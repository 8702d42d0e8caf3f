//go:build windows

package app

// watchResize is a no-op on Windows: there is no SIGWINCH, and ConPTY
// resize detection is out of scope (see pty_windows.go).
func watchResize(ch chan<- struct{}) func() {
	return func() {}
}
