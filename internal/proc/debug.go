package proc

import (
	"fmt"
	"strings"
	"time"
)

// idleThreshold is how long output can go quiet before StatusLabel calls a
// running process idle rather than active.
const idleThreshold = 2 * time.Second

// maxDebugKeys bounds the ring of recently sent input bytes kept for
// DebugLabel, oldest dropped first.
const maxDebugKeys = 10

// IdleFor reports how long it has been since output last updated this
// process's screen, or zero if no output has been observed yet.
func (p *Proc) IdleFor() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastOutput.IsZero() {
		return 0
	}
	return time.Since(p.lastOutput)
}

// Uptime reports how long the process has been continuously running, or
// zero if it is not currently Running.
func (p *Proc) Uptime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Running {
		return 0
	}
	return time.Since(p.startedAt)
}

// StatusLabel reports uptime plus active/idle status, for the help row.
func (p *Proc) StatusLabel() string {
	if p.State() != Running {
		return "stopped"
	}
	uptime := formatIdleDuration(p.Uptime())
	idleFor := p.IdleFor()
	if idleFor == 0 || idleFor <= idleThreshold {
		return "up " + uptime + ", active"
	}
	return "up " + uptime + ", idle " + formatIdleDuration(idleFor)
}

// DebugKeys returns the most recent input bytes sent to this process,
// formatted for display, oldest first.
func (p *Proc) DebugKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.debugKeys...)
}

// DebugLabel formats the recent input-keystroke buffer for the help row,
// or "" if nothing has been sent yet.
func (p *Proc) DebugLabel() string {
	keys := p.DebugKeys()
	if len(keys) == 0 {
		return ""
	}
	return " keys: " + strings.Join(keys, " ")
}

func (p *Proc) recordDebugKeys(b []byte) {
	if len(b) == 0 {
		return
	}
	p.mu.Lock()
	for _, c := range b {
		p.debugKeys = append(p.debugKeys, formatDebugKey(c))
	}
	if len(p.debugKeys) > maxDebugKeys {
		p.debugKeys = p.debugKeys[len(p.debugKeys)-maxDebugKeys:]
	}
	p.mu.Unlock()
}

// formatDebugKey formats a single raw input byte for display.
func formatDebugKey(b byte) string {
	switch b {
	case 0x1b:
		return "esc"
	case 0x0d:
		return "cr"
	case 0x0a:
		return "lf"
	case 0x09:
		return "tab"
	case 0x7f:
		return "del"
	}
	if b < 0x20 {
		return fmt.Sprintf("0x%02x", b)
	}
	if b >= 0x20 && b <= 0x7e {
		return string([]byte{b})
	}
	return fmt.Sprintf("0x%02x", b)
}

// formatIdleDuration formats a duration into a compact human-readable
// string: seconds, then minutes, hours, and finally days.
func formatIdleDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 1 {
			secs = 1
		}
		return fmt.Sprintf("%ds", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
