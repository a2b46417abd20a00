// Package app implements the application layer for pkgset.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/pkgset/internal/engine/freezer"
	"go.trai.ch/zerr"
)

// App runs the pkgset use cases against one project.
type App struct {
	settings  *domain.Settings
	registry  ports.RegistryClient
	fs        ports.FileSystem
	codec     ports.DocumentCodec
	freezer   *freezer.Freezer
	compiler  ports.Compiler
	executor  ports.Executor
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new App instance.
func New(
	settings *domain.Settings,
	registry ports.RegistryClient,
	fs ports.FileSystem,
	codec ports.DocumentCodec,
	frz *freezer.Freezer,
	compiler ports.Compiler,
	executor ports.Executor,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		settings:  settings,
		registry:  registry,
		fs:        fs,
		codec:     codec,
		freezer:   frz,
		compiler:  compiler,
		executor:  executor,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Settings returns the settings the App was created with.
func (a *App) Settings() *domain.Settings {
	return a.settings
}

// Freeze hashes every remote import of the file at path.
func (a *App) Freeze(ctx context.Context, path string) error {
	return a.freezer.Freeze(ctx, a.resolve(path))
}

// EnsureFrozen freezes the local manifests reachable from path if any remote
// import they pull in is not frozen.
func (a *App) EnsureFrozen(ctx context.Context, path string) error {
	return a.freezer.EnsureFrozen(ctx, a.resolve(path))
}

// resolve defaults an empty path to the manifest.
func (a *App) resolve(path string) string {
	if path == "" {
		return a.settings.ManifestPath()
	}
	return path
}

// readManifest loads and parses the package set manifest.
func (a *App) readManifest() (*domain.Document, []byte, error) {
	path := a.settings.ManifestPath()

	src, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, nil, manifestUnreadable(path, err)
	}

	doc, err := a.codec.Parse(path, src)
	if err != nil {
		return nil, nil, manifestUnreadable(path, err)
	}
	return doc, src, nil
}

// manifestUnreadable reports err as ErrManifestUnreadable, keeping its metadata.
func manifestUnreadable(path string, err error) error {
	out := zerr.With(zerr.Wrap(domain.ErrManifestUnreadable, err.Error()), "path", path)

	var zErr *zerr.Error
	if errors.As(err, &zErr) {
		for k, v := range zErr.Metadata() {
			if k != "path" {
				out = zerr.With(out, k, v)
			}
		}
	}
	return out
}

// firstTag returns the registry tag of the first import that points at the registry.
func firstTag(reg domain.Registry, imports []domain.Import) (string, bool) {
	for _, imp := range imports {
		if tag, ok := reg.Tag(imp); ok {
			return tag, true
		}
	}
	return "", false
}

func describe(reg domain.Registry) string {
	return fmt.Sprintf("%s/%s", reg.Owner, reg.Repo)
}
