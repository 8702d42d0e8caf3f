// Package ctl implements the remote-control protocol: a Unix domain
// socket accepting one line-delimited YAML command per connection and
// replying with one line-delimited YAML reply before closing.
package ctl

import (
	"procmux/internal/keys"
)

// Command is one remote-control request. Only the fields relevant to C
// are populated; the rest are left zero.
type Command struct {
	C     string    `yaml:"c"`
	Index *int      `yaml:"index,omitempty"`
	Name  string    `yaml:"name,omitempty"`
	Cmd   []string  `yaml:"cmd,omitempty"`
	Key   string    `yaml:"key,omitempty"`
	N     int       `yaml:"n,omitempty"`
	Cmds  []Command `yaml:"cmds,omitempty"`
}

// Reply is the single-line response to one Command.
type Reply struct {
	OK    bool   `yaml:"ok"`
	Error string `yaml:"error,omitempty"`
}

func errReply(err error) Reply {
	if err == nil {
		return Reply{OK: true}
	}
	return Reply{OK: false, Error: err.Error()}
}

// parseKey turns a send-key command's key string into a keys.KeyEvent,
// using the same parser a config's send-keys stop mode uses.
func parseKey(s string) (keys.KeyEvent, error) {
	return keys.ParseKey(s)
}
