// Package cmd implements the procmux CLI surface: a single root command
// that loads a process declaration set from a config file, ad-hoc
// command-line arguments, or npm scripts, and either runs the TUI or
// dispatches one remote-control command.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"procmux/internal/app"
	"procmux/internal/config"
	"procmux/internal/ctl"
	"procmux/internal/logx"
	"procmux/internal/socketdir"
	"procmux/internal/version"
)

// NewRootCmd builds the procmux root command.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		names      []string
		npm        bool
		server     string
		ctlFlag    string
	)

	cmd := &cobra.Command{
		Use:   "procmux [cmd...]",
		Short: "Run and supervise multiple terminal processes side by side",
		Long: `procmux runs a set of declared or ad-hoc commands, each in its own
pseudo-terminal or line-buffered pipe, in a single terminal UI with a
process list, a focused child view, and a Unix-socket remote-control
protocol.`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			if ctlFlag != "" {
				return runCtl(server, ctlFlag)
			}
			return runTUI(configPath, names, npm, args, server)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a procmux config file")
	cmd.Flags().StringArrayVar(&names, "names", nil, "names for ad-hoc processes, one per --names flag, paired positionally with cmd...")
	cmd.Flags().BoolVar(&npm, "npm", false, "discover processes from package.json scripts in the current directory")
	cmd.Flags().StringVar(&server, "server", "", "control socket name (defaults to a per-directory name)")
	cmd.Flags().StringVar(&ctlFlag, "ctl", "", `send one remote-control command, e.g. --ctl '{c: quit}', and exit`)

	cmd.AddCommand(newCtlServerCmd())

	return cmd
}

func runTUI(configPath string, names []string, npm bool, args []string, server string) error {
	cfg, err := loadConfig(configPath, names, npm, args)
	if err != nil {
		return err
	}
	if len(cfg.Procs) == 0 {
		return fmt.Errorf("no processes declared: pass commands, --npm, or a config file")
	}

	dir, err := socketdir.Dir()
	if err != nil {
		return fmt.Errorf("resolve socket directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}
	sockPath, err := socketdir.Path(socketName(server))
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}

	logDir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}
	log, err := logx.Open(logDir)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer log.Close()

	return app.Run(cfg, sockPath, log)
}

func runCtl(server, ctlFlag string) error {
	cmd, err := ctl.ParseYAML(ctlFlag)
	if err != nil {
		return err
	}

	var sockPath string
	if server != "" {
		sockPath, err = socketdir.Path(socketName(server))
	} else {
		sockPath, err = socketdir.Find()
	}
	if err != nil {
		return fmt.Errorf("resolve control socket: %w", err)
	}

	reply, err := ctl.Send(sockPath, cmd)
	if err != nil {
		return err
	}
	if !reply.OK {
		return fmt.Errorf("%s", reply.Error)
	}
	return nil
}

func socketName(server string) string {
	if server != "" {
		return server
	}
	wd, err := os.Getwd()
	if err != nil {
		return "main"
	}
	return sanitizeName(wd)
}

// sanitizeName turns a working-directory path into a socket-filename-safe
// identifier, keeping it readable (e.g. "-home-dev-myapp") rather than
// hashing it, since the whole point is that a bare `procmux --ctl` in the
// same directory finds the matching instance.
func sanitizeName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}

func loadConfig(configPath string, names []string, npm bool, args []string) (*config.Config, error) {
	var fromArgs *config.Config
	var err error

	switch {
	case len(args) > 0:
		fromArgs, err = config.FromNames(args, names)
	case npm:
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, wdErr
		}
		fromArgs, err = config.FromNPMScripts(wd)
	}
	if err != nil {
		return nil, err
	}

	path, err := config.ResolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}
	fromFile, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if fromArgs == nil {
		return fromFile, nil
	}
	return fromFile.Merge(fromArgs), nil
}
