// Package commands implements the CLI commands for pkgset.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/pkgset/internal/app"
	"go.trai.ch/pkgset/internal/build"
)

// CLI represents the command line interface for pkgset.
type CLI struct {
	app     Application
	logger  OutputConfigurer
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	UpgradeSet(ctx context.Context, opts app.UpgradeOptions) error
	Freeze(ctx context.Context, path string) error
	EnsureFrozen(ctx context.Context, path string) error
	CheckCompiler(ctx context.Context) error
	Build(ctx context.Context) error
}

// OutputConfigurer is implemented by loggers whose format can be switched
// from the command line.
type OutputConfigurer interface {
	SetJSON(enable bool)
	SetOutput(w io.Writer)
}

// New creates a new CLI instance with the given app. The logger may be nil
// when its output cannot be configured.
func New(a Application, logger OutputConfigurer) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pkgset",
		Short:         "Upgrade and freeze PureScript package sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write log lines as JSON")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = c.configureOutput

	rootCmd.AddCommand(c.newUpgradeSetCmd())
	rootCmd.AddCommand(c.newFreezeCmd())
	rootCmd.AddCommand(c.newCheckCompilerCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configureOutput(cmd *cobra.Command, _ []string) error {
	noColor, _ := cmd.Flags().GetBool("no-color")
	jsonLogs, _ := cmd.Flags().GetBool("json")

	if noColor {
		if err := os.Setenv("NO_COLOR", "1"); err != nil {
			return err
		}
	}

	if c.logger == nil {
		return nil
	}
	if noColor {
		// Rebuild the handler so that it picks up NO_COLOR.
		c.logger.SetOutput(cmd.ErrOrStderr())
	}
	if jsonLogs {
		c.logger.SetJSON(true)
	}
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
