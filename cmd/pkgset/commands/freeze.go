package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newFreezeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freeze [path]",
		Short: "Add integrity hashes to the remote imports of a file",
		Long: "Add integrity hashes to the remote imports of a file, the manifest by default.\n\n" +
			"With --ensure, nothing happens unless a remote import reachable from the file is\n" +
			"unfrozen, in which case the local package sets it imports are frozen.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}

			if ensure, _ := cmd.Flags().GetBool("ensure"); ensure {
				return c.app.EnsureFrozen(cmd.Context(), path)
			}
			return c.app.Freeze(cmd.Context(), path)
		},
	}
	cmd.Flags().Bool("ensure", false, "Only freeze when an unfrozen remote import is found")
	return cmd
}
