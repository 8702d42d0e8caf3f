package config

import (
	"os"
	"path/filepath"
)

const marker = ".procmux.yaml"

// ResolveConfigPath finds the config file to load: an explicit path wins;
// otherwise walk up from the current directory looking for .procmux.yaml.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for {
		candidate := filepath.Join(dir, marker)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Join(cwd, marker), nil
}

// Dir returns the directory used for the control socket and log file:
// $PROCMUX_DIR when set, otherwise the user's config dir ($XDG_CONFIG_HOME
// or ~/.config) joined with "procmux".
func Dir() (string, error) {
	if d := os.Getenv("PROCMUX_DIR"); d != "" {
		return d, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "procmux")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
