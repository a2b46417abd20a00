// Package main is the entry point for pkgset.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgset/cmd/pkgset/commands"
	"go.trai.ch/pkgset/internal/app"
	_ "go.trai.ch/pkgset/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout io.Writer,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr passed in
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	// 2. Interface - CLI
	configurer, _ := components.Logger.(commands.OutputConfigurer)
	cli := commands.New(components.App, configurer)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 3. Execution
	err = cli.Execute(ctx)

	if components.Telemetry != nil {
		if closeErr := components.Telemetry.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
