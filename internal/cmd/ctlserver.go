package cmd

import (
	"github.com/spf13/cobra"
)

// newCtlServerCmd returns the hidden _ctlserver subcommand. The control
// socket listener now runs in-process alongside the engine (see
// internal/app.Run) rather than as a separate re-exec'd process, so this
// subcommand is kept only so the flag-parsing surface matches what a
// re-exec'd listener would look like; invoking it directly is a no-op.
func newCtlServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "_ctlserver",
		Hidden: true,
		RunE: func(c *cobra.Command, args []string) error {
			c.Println("the control socket listener runs inside the main procmux process; there is nothing to start standalone")
			return nil
		},
	}
}
