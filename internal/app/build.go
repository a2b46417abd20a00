package app

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/pkgset/internal/core/domain"
)

// Build makes sure the package set is frozen and the compiler can build it,
// then runs the configured build command in the project root.
//
// The frozen check starts at the project configuration, since only the files
// importing the manifest get frozen. Without a configuration file it is skipped.
func (a *App) Build(ctx context.Context) error {
	if config := a.settings.ConfigPath(); a.fs.Exists(config) {
		if err := a.freezer.EnsureFrozen(ctx, config); err != nil {
			return err
		}
	} else {
		a.logger.Info(config + " not found, skipping the frozen check")
	}

	if err := a.CheckCompiler(ctx); err != nil {
		return err
	}

	cmd := domain.NewCommand(a.settings.Build.Command, a.settings.Root, a.settings.Build.Environment)
	if cmd == nil {
		a.logger.Info("no build command configured, set 'build.cmd' in " + domain.SettingsFileName)
		return nil
	}

	ctx, vertex := a.telemetry.Record(ctx, strings.Join(a.settings.Build.Command, " "))
	err := a.executor.Execute(ctx, cmd, a.buildPath(), nil, nil)
	vertex.Complete(err)
	return err
}

// buildPath puts the directory of an absolute compiler path first on PATH, so
// that the build runs the compiler that passed the check.
func (a *App) buildPath() []string {
	compiler := a.settings.Tools.Compiler
	if !filepath.IsAbs(compiler) {
		return nil
	}
	return []string{"PATH=" + filepath.Dir(compiler)}
}
