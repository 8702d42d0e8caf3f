// Package config loads the process declarations that drive the engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// StopMode names the signal used to stop a process.
type StopMode string

const (
	StopSIGINT   StopMode = "SIGINT"
	StopSIGTERM  StopMode = "SIGTERM"
	StopSIGKILL  StopMode = "SIGKILL"
	StopHardKill StopMode = "hard-kill"
)

// StopSpec is the configured way to stop a process: either a signal name
// ("SIGINT"|"SIGTERM"|"SIGKILL"|"hard-kill"), or a `{send-keys: [...]}`
// mapping naming a key sequence to forward to the child instead of
// delivering a signal at all (e.g. stopping a REPL with "C-c" then
// "enter").
type StopSpec struct {
	Signal   StopMode
	SendKeys []string
}

// UnmarshalYAML accepts either a bare scalar signal name or a
// `{send-keys: [...]}` mapping.
func (s *StopSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var str string
		if err := value.Decode(&str); err != nil {
			return err
		}
		s.Signal = StopMode(str)
		return nil
	}
	var m struct {
		SendKeys []string `yaml:"send-keys"`
	}
	if err := value.Decode(&m); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	if len(m.SendKeys) == 0 {
		return fmt.Errorf("stop: send-keys must name at least one key")
	}
	s.SendKeys = m.SendKeys
	return nil
}

// IsSendKeys reports whether this stop mode forwards a key sequence
// instead of delivering a signal.
func (s StopSpec) IsSendKeys() bool {
	return len(s.SendKeys) > 0
}

// SignalMode resolves the signal variant, defaulting to SIGINT.
// Meaningless when IsSendKeys is true.
func (s StopSpec) SignalMode() StopMode {
	switch s.Signal {
	case StopSIGTERM:
		return StopSIGTERM
	case StopSIGKILL:
		return StopSIGKILL
	case StopHardKill:
		return StopHardKill
	default:
		return StopSIGINT
	}
}

// ProcessDecl is one declared child process. Immutable after Load returns.
type ProcessDecl struct {
	Name        string             `yaml:"-"`
	Shell       string             `yaml:"shell,omitempty"`
	Cmd         []string           `yaml:"cmd,omitempty"`
	Env         map[string]*string `yaml:"env,omitempty"`
	Cwd         string             `yaml:"cwd,omitempty"`
	TTY         *bool              `yaml:"tty,omitempty"`
	Autostart   *bool              `yaml:"autostart,omitempty"`
	Autorestart bool               `yaml:"autorestart,omitempty"`
	Stop        StopSpec           `yaml:"stop,omitempty"`
}

// UsesTTY reports whether this decl wants a pty-backed process. Default true.
func (d ProcessDecl) UsesTTY() bool {
	if d.TTY == nil {
		return true
	}
	return *d.TTY
}

// ShouldAutostart reports whether the process should be started when the
// engine starts. Default true.
func (d ProcessDecl) ShouldAutostart() bool {
	if d.Autostart == nil {
		return true
	}
	return *d.Autostart
}

// StopMode resolves the configured stop signal, defaulting to SIGINT.
// Meaningless when d.Stop.IsSendKeys() is true; use d.Stop directly to
// handle both variants.
func (d ProcessDecl) StopMode() StopMode {
	return d.Stop.SignalMode()
}

// Program returns the program and arguments to exec, resolving a `shell:`
// decl to `sh -c <shell>` and a `cmd:` decl to its program/args pair.
func (d ProcessDecl) Program() (string, []string, error) {
	if d.Shell != "" && len(d.Cmd) > 0 {
		return "", nil, fmt.Errorf("proc %q: exactly one of shell or cmd must be set", d.Name)
	}
	if d.Shell != "" {
		return "sh", []string{"-c", d.Shell}, nil
	}
	if len(d.Cmd) > 0 {
		return d.Cmd[0], d.Cmd[1:], nil
	}
	return "", nil, fmt.Errorf("proc %q: neither shell nor cmd set", d.Name)
}

// Config is the top-level parsed declaration file.
type Config struct {
	Procs map[string]*ProcessDecl `yaml:"procs"`
}

// Decls returns the declared processes as a stable, name-sorted slice, with
// each decl's Name field populated from its map key.
func (c *Config) Decls() []ProcessDecl {
	names := make([]string, 0, len(c.Procs))
	for name := range c.Procs {
		names = append(names, name)
	}
	sortStrings(names)

	decls := make([]ProcessDecl, 0, len(names))
	for _, name := range names {
		d := *c.Procs[name]
		d.Name = name
		decls = append(decls, d)
	}
	return decls
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Load reads a procmux config file. A missing file is not an error; it
// yields an empty Config with no declared processes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Procs: map[string]*ProcessDecl{}}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Procs == nil {
		cfg.Procs = map[string]*ProcessDecl{}
	}
	return &cfg, nil
}

// FromNames builds a Config from a list of ad-hoc command strings, one
// proc per entry. Each string is split with shlex into a cmd: decl, or
// kept as a shell: decl when it cannot be split. Proc i is named names[i]
// when that entry exists and is non-empty, otherwise proc-i.
func FromNames(commands []string, names []string) (*Config, error) {
	cfg := &Config{Procs: map[string]*ProcessDecl{}}
	for i, c := range commands {
		name := fmt.Sprintf("proc-%d", i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		parts, err := shlex.Split(c)
		if err != nil || len(parts) == 0 {
			cfg.Procs[name] = &ProcessDecl{Shell: c}
			continue
		}
		cfg.Procs[name] = &ProcessDecl{Cmd: parts}
	}
	return cfg, nil
}

// FromNPMScripts loads package.json from dir and turns each entry under
// "scripts" into a ProcessDecl running `npm run <script>`.
func FromNPMScripts(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, fmt.Errorf("read package.json: %w", err)
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	cfg := &Config{Procs: map[string]*ProcessDecl{}}
	for name := range pkg.Scripts {
		cfg.Procs[name] = &ProcessDecl{Cmd: []string{"npm", "run", name}}
	}
	return cfg, nil
}

// Merge overlays other's procs onto c, other winning on name collision.
func (c *Config) Merge(other *Config) *Config {
	merged := &Config{Procs: map[string]*ProcessDecl{}}
	for name, d := range c.Procs {
		merged.Procs[name] = d
	}
	for name, d := range other.Procs {
		merged.Procs[name] = d
	}
	return merged
}
