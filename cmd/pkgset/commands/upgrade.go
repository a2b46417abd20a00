package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pkgset/internal/app"
)

func (c *CLI) newUpgradeSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade-set",
		Short: "Point the manifest at the latest package set release and freeze it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			return c.app.UpgradeSet(cmd.Context(), app.UpgradeOptions{
				DryRun: dryRun,
				Output: cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Print the change as a diff instead of writing it")
	return cmd
}
