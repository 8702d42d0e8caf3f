// Package socketdir resolves where procmux's remote-control Unix domain
// socket lives, keeping path length under the platform's sockaddr_un
// limit.
package socketdir

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"procmux/internal/config"
)

// maxSocketPathLen is the conservative limit for Unix domain socket
// paths. macOS has sizeof(sockaddr_un.sun_path) = 104; 100 leaves room
// for the socket filename.
const maxSocketPathLen = 100

var (
	socketDir     string
	socketDirOnce sync.Once
)

// Dir returns the socket directory, derived from the resolved config dir.
// If the resulting path would be too long for Unix domain sockets, a
// symlink from /tmp/procmux-<hash>/ is created and returned instead.
func Dir() (string, error) {
	var err error
	socketDirOnce.Do(func() {
		var base string
		base, err = config.Dir()
		if err != nil {
			return
		}
		socketDir = resolve(base)
	})
	return socketDir, err
}

// ResetDirCache resets the cached Dir result. For testing only.
func ResetDirCache() {
	socketDirOnce = sync.Once{}
	socketDir = ""
}

func resolve(base string) string {
	realDir := filepath.Join(base, "sockets")

	testPath := filepath.Join(realDir, "procmux-long-instance-name-example.sock")
	if len(testPath) <= maxSocketPathLen {
		os.MkdirAll(realDir, 0o700)
		return realDir
	}

	hash := sha256.Sum256([]byte(realDir))
	shortDir := filepath.Join(os.TempDir(), fmt.Sprintf("procmux-%x", hash[:8]))

	if target, err := os.Readlink(shortDir); err == nil && target == realDir {
		return shortDir
	}

	os.MkdirAll(realDir, 0o700)
	os.Remove(shortDir)
	if err := os.Symlink(realDir, shortDir); err != nil {
		return realDir
	}
	return shortDir
}

// Path returns the full socket path for a given instance name.
func Path(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".sock"), nil
}

// Find globs for "*.sock" in the socket directory and returns the single
// match. Returns an error if zero or more than one match.
func Find() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.sock"))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no procmux control socket found in %s", dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous: %d control sockets found in %s", len(matches), dir)
	}
}
