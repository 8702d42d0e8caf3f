package ctl

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"gopkg.in/yaml.v3"
)

const dialTimeout = 2 * time.Second

// Send dials the control socket at path, writes cmd as one line of YAML,
// and returns the single-line Reply. The connection is closed after one
// round trip; Send does not support pipelining.
func Send(path string, cmd Command) (Reply, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return Reply{}, fmt.Errorf("dial %s: %w", path, err)
	}
	defer conn.Close()

	data, err := yaml.Marshal(cmd)
	if err != nil {
		return Reply{}, fmt.Errorf("encode command: %w", err)
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return Reply{}, fmt.Errorf("write command: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Reply{}, fmt.Errorf("read reply: %w", err)
		}
		return Reply{}, fmt.Errorf("read reply: connection closed with no reply")
	}
	var reply Reply
	if err := yaml.Unmarshal(scanner.Bytes(), &reply); err != nil {
		return Reply{}, fmt.Errorf("parse reply: %w", err)
	}
	return reply, nil
}

// ParseYAML decodes a --ctl flag value like "{c: quit}" or
// "{c: select-proc, index: 2}" into a Command.
func ParseYAML(s string) (Command, error) {
	var cmd Command
	if err := yaml.Unmarshal([]byte(s), &cmd); err != nil {
		return Command{}, fmt.Errorf("parse --ctl command: %w", err)
	}
	if cmd.C == "" {
		return Command{}, fmt.Errorf("parse --ctl command: missing \"c\" field")
	}
	return cmd, nil
}
