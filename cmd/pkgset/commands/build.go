package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCompilerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-compiler",
		Short: "Check that the installed compiler can build the package set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.CheckCompiler(cmd.Context())
		},
	}
}

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Freeze the package set, check the compiler and run the build command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context())
		},
	}
}
