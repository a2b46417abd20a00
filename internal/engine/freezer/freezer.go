// Package freezer pins remote imports to their integrity hashes.
package freezer

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/mitchellh/go-homedir"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/zerr"
)

// Freezer rewrites documents so that every remote import carries a hash.
type Freezer struct {
	fs        ports.FileSystem
	codec     ports.DocumentCodec
	hasher    ports.ImportHasher
	telemetry ports.Telemetry
	logger    ports.Logger
	registry  domain.Registry
}

// New creates a new Freezer. The registry names the manifest file that
// EnsureFrozen freezes.
func New(
	fs ports.FileSystem,
	codec ports.DocumentCodec,
	hasher ports.ImportHasher,
	telemetry ports.Telemetry,
	logger ports.Logger,
	registry domain.Registry,
) *Freezer {
	return &Freezer{
		fs:        fs,
		codec:     codec,
		hasher:    hasher,
		telemetry: telemetry,
		logger:    logger,
		registry:  registry,
	}
}

// ReadImports returns the imports of the file at path in pre-order.
// Nothing is resolved or evaluated.
func (f *Freezer) ReadImports(path string) ([]domain.Import, error) {
	doc, _, err := f.load(path)
	if err != nil {
		return nil, err
	}
	return doc.Imports(), nil
}

// Freeze hashes every remote import of the file at path and writes the result
// back. Imports that refer to the same location are hashed once. The file is
// left untouched when freezing does not change it.
func (f *Freezer) Freeze(ctx context.Context, path string) (err error) {
	ctx, vertex := f.telemetry.Record(ctx, "freeze "+path)
	defer func() {
		vertex.Complete(err)
	}()

	doc, src, err := f.load(path)
	if err != nil {
		return err
	}

	hashes := make(map[uint64]domain.Hash)
	frozen, err := doc.MapImportsErr(func(imp domain.Import) (domain.Import, error) {
		if !imp.IsRemote() {
			return imp, nil
		}

		key := xxhash.Sum64String(imp.WithoutHash().String())
		if h, ok := hashes[key]; ok {
			return imp.WithHash(h), nil
		}

		h, hashErr := f.hash(ctx, imp)
		if hashErr != nil {
			return imp, hashErr
		}
		hashes[key] = h
		return imp.WithHash(h), nil
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to freeze imports"), "path", path)
	}

	out, err := f.codec.Render(frozen)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to render document"), "path", path)
	}

	if bytes.Equal(out, src) {
		vertex.Cached()
		f.logger.Info(fmt.Sprintf("%s is already frozen", path))
		return nil
	}

	if err := f.fs.WriteFile(path, out); err != nil {
		return err
	}

	f.logger.Info(fmt.Sprintf("froze %d remote imports in %s", len(hashes), path))
	return nil
}

func (f *Freezer) hash(ctx context.Context, imp domain.Import) (h domain.Hash, err error) {
	ctx, vertex := f.telemetry.Record(ctx, "hash "+imp.WithoutHash().String())
	defer func() {
		vertex.Complete(err)
	}()

	h, err = f.hasher.Hash(ctx, imp)
	if err != nil {
		return "", err
	}
	vertex.Log(h.String())
	return h, nil
}

// EnsureFrozen checks the remote imports reachable from path through local
// code imports. When any of them lacks a hash, every local manifest imported
// on the way is frozen. The file at path itself is never frozen, even when it
// is a manifest.
//
// A warning is logged, and nothing is written, when no remote imports are
// reachable at all.
func (f *Freezer) EnsureFrozen(ctx context.Context, path string) error {
	imports, manifests, err := f.collect(path)
	if err != nil {
		return err
	}

	status := domain.IsRemoteFrozen(imports)
	if len(status) == 0 {
		f.logger.Warn(fmt.Sprintf("%s: %s", path, domain.ErrFreezeStatusIndeterminate.Error()))
		return nil
	}
	if !slices.Contains(status, false) {
		return nil
	}

	if len(manifests) == 0 {
		f.logger.Warn(fmt.Sprintf("%s has unfrozen remote imports but imports no local %s", path, f.registry.Manifest))
		return nil
	}

	f.logger.Warn("package set is not frozen, freezing it")
	for _, manifest := range manifests {
		if err := f.Freeze(ctx, manifest); err != nil {
			return err
		}
	}
	return nil
}

// collect walks the local code imports starting at path. It returns every
// import seen and the distinct local manifests imported along the way.
func (f *Freezer) collect(path string) ([]domain.Import, []string, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", path)
	}

	var (
		imports   []domain.Import
		manifests []string
		visit     func(file string, isRoot bool) error
	)
	visited := make(map[string]bool)

	visit = func(file string, isRoot bool) error {
		if visited[file] {
			return nil
		}
		visited[file] = true

		if !isRoot && !f.fs.Exists(file) {
			return nil
		}

		found, err := f.ReadImports(file)
		if err != nil {
			return err
		}

		for _, imp := range found {
			imports = append(imports, imp)
			if imp.Kind != domain.ImportLocal || imp.Mode != domain.ModeCode {
				continue
			}

			target, err := resolveLocal(filepath.Dir(file), imp)
			if err != nil {
				return err
			}
			if _, ok := f.registry.LocalManifestPath(imp); ok && !slices.Contains(manifests, target) {
				manifests = append(manifests, target)
			}
			if err := visit(target, false); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root, true); err != nil {
		return nil, nil, err
	}
	return imports, manifests, nil
}

func (f *Freezer) load(path string) (*domain.Document, []byte, error) {
	src, err := f.fs.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	doc, err := f.codec.Parse(path, src)
	if err != nil {
		return nil, nil, err
	}
	return doc, src, nil
}

// resolveLocal returns the cleaned absolute path a local import refers to,
// relative to the directory of the importing file.
func resolveLocal(dir string, imp domain.Import) (string, error) {
	rel := filepath.Join(append(slices.Clone(imp.Directory), imp.File)...)

	switch imp.Prefix {
	case "/":
		return filepath.Clean("/" + rel), nil
	case "~/":
		p, err := homedir.Expand("~/" + rel)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to expand home directory"), "import", imp.Path())
		}
		return filepath.Clean(p), nil
	default:
		return filepath.Join(dir, imp.Prefix, rel), nil
	}
}
