package ctl

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"procmux/internal/config"
	"procmux/internal/engine"
	"procmux/internal/logx"
	"procmux/internal/proc"
)

// Server accepts remote-control connections on a Unix domain socket and
// dispatches each to the engine it was constructed with.
type Server struct {
	ln  net.Listener
	e   *engine.Engine
	log *logx.Logger
}

// Listen binds the control socket at path, removing a stale socket file
// left behind by a crashed prior run, and starts accepting connections in
// the background. A file lock on "<path>.lock" serializes socket
// creation against another procmux instance racing to bind the same
// path.
func Listen(path string, e *engine.Engine, log *logx.Logger) (*Server, error) {
	fl := flock.New(path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	defer fl.Unlock()

	ln, err := net.Listen("unix", path)
	if err != nil {
		// The socket file may be left over from a prior instance that
		// didn't exit cleanly. Confirm nothing is actually listening
		// before stealing it.
		if conn, dialErr := net.Dial("unix", path); dialErr == nil {
			conn.Close()
			return nil, fmt.Errorf("listen %s: another instance is already running", path)
		}
		os.Remove(path)
		ln, err = net.Listen("unix", path)
		if err != nil {
			return nil, fmt.Errorf("listen %s: %w", path, err)
		}
	}
	s := &Server{ln: ln, e: e, log: log}
	go s.acceptLoop()
	return s, nil
}

// Close stops accepting connections and removes the socket file.
func (s *Server) Close() error {
	path := s.ln.Addr().String()
	err := s.ln.Close()
	os.Remove(path)
	return err
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	connID := uuid.New().String()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	if !scanner.Scan() {
		return
	}
	var cmd Command
	if err := yaml.Unmarshal(scanner.Bytes(), &cmd); err != nil {
		if s.log != nil {
			s.log.Printf("ctl %s: parse error: %v", connID, err)
		}
		writeReply(conn, errReply(fmt.Errorf("parse command: %w", err)))
		return
	}
	if s.log != nil {
		s.log.Printf("ctl %s: %s", connID, cmd.C)
	}
	reply := Dispatch(s.e, cmd)
	writeReply(conn, reply)
}

func writeReply(conn net.Conn, r Reply) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return
	}
	conn.Write(data)
	conn.Write([]byte("\n"))
}

// Dispatch applies one Command to e and reports the outcome. Unknown
// commands and malformed arguments return a non-OK Reply rather than
// panicking.
func Dispatch(e *engine.Engine, cmd Command) Reply {
	switch cmd.C {
	case "quit":
		e.Quit()
		return Reply{OK: true}
	case "force-quit":
		for _, p := range e.Procs() {
			p.ForceStop()
		}
		e.Quit()
		return Reply{OK: true}
	case "toggle-focus":
		e.ToggleFocus()
		return Reply{OK: true}
	case "focus-procs":
		e.FocusProcs()
		return Reply{OK: true}
	case "focus-term":
		e.FocusTerm()
		return Reply{OK: true}
	case "next-proc":
		e.SelectNext()
		return Reply{OK: true}
	case "prev-proc":
		e.SelectPrev()
		return Reply{OK: true}
	case "select-proc":
		if cmd.Index == nil {
			return errReply(fmt.Errorf("select-proc: missing index"))
		}
		return selectProc(e, *cmd.Index)
	case "start-proc":
		return withSelected(e, func(p *proc.Proc) error { return p.Start() })
	case "term-proc":
		return withSelected(e, func(p *proc.Proc) error { return p.Stop() })
	case "kill-proc":
		return withSelected(e, func(p *proc.Proc) error { return p.ForceStop() })
	case "restart-proc":
		return withSelected(e, func(p *proc.Proc) error { return p.Restart() })
	case "force-restart-proc":
		return withSelected(e, func(p *proc.Proc) error {
			// Start is a no-op until the Stopped transition, so the restart
			// is left to Restart, which waits for it.
			p.ForceStop()
			return p.Restart()
		})
	case "add-proc":
		return addProc(e, cmd)
	case "remove-proc":
		if !e.RemoveProc(cmd.Name) {
			return errReply(fmt.Errorf("remove-proc: no such proc %q", cmd.Name))
		}
		return Reply{OK: true}
	case "rename-proc":
		if !e.RenameProc(cmd.Name) {
			return errReply(fmt.Errorf("rename-proc: no process selected"))
		}
		return Reply{OK: true}
	case "scroll-down":
		e.ScrollBy(-1)
		return Reply{OK: true}
	case "scroll-up":
		e.ScrollBy(1)
		return Reply{OK: true}
	case "scroll-down-lines":
		e.ScrollBy(-cmd.N)
		return Reply{OK: true}
	case "send-key":
		ev, err := parseKey(cmd.Key)
		if err != nil {
			return errReply(err)
		}
		e.HandleKey(ev)
		return Reply{OK: true}
	case "batch":
		for _, sub := range cmd.Cmds {
			if r := Dispatch(e, sub); !r.OK {
				return r
			}
		}
		return Reply{OK: true}
	default:
		return errReply(fmt.Errorf("unknown command %q", cmd.C))
	}
}

func addProc(e *engine.Engine, cmd Command) Reply {
	if len(cmd.Cmd) == 0 {
		return errReply(fmt.Errorf("add-proc: missing cmd"))
	}
	name := cmd.Name
	if name == "" {
		name = uuid.New().String()
	}
	e.AddProc(config.ProcessDecl{Name: name, Cmd: cmd.Cmd, Autostart: boolPtr(true)})
	return Reply{OK: true}
}

func boolPtr(b bool) *bool { return &b }

func selectProc(e *engine.Engine, index int) Reply {
	procs := e.Procs()
	if index < 0 || index >= len(procs) {
		return errReply(fmt.Errorf("select-proc: index %d out of range", index))
	}
	e.SelectIndex(index)
	return Reply{OK: true}
}

func withSelected(e *engine.Engine, fn func(*proc.Proc) error) Reply {
	p := e.SelectedProc()
	if p == nil {
		return errReply(fmt.Errorf("no process selected"))
	}
	return errReply(fn(p))
}
