package freezer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgset/internal/adapters/dhall"
	"go.trai.ch/pkgset/internal/adapters/fs"
	"go.trai.ch/pkgset/internal/adapters/telemetry"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports/mocks"
	"go.trai.ch/pkgset/internal/engine/freezer"
	"go.uber.org/mock/gomock"
)

const (
	hashA = "1111111111111111111111111111111111111111111111111111111111111111"
	hashB = "2222222222222222222222222222222222222222222222222222222222222222"
)

type fixture struct {
	dir     string
	hasher  *mocks.MockImportHasher
	logger  *mocks.MockLogger
	freezer *freezer.Freezer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		dir:    t.TempDir(),
		hasher: mocks.NewMockImportHasher(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	f.freezer = freezer.New(
		fs.New(),
		dhall.NewCodec(),
		f.hasher,
		telemetry.NewNoOp(),
		f.logger,
		domain.DefaultRegistry(),
	)
	return f
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func read(t *testing.T, path string) string {
	t.Helper()
	//nolint:gosec // Test file with controlled path
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func remote(file string) domain.Import {
	return domain.Import{
		Kind:      domain.ImportRemote,
		Scheme:    "https",
		Authority: "example.com",
		File:      file,
	}
}

func TestFreezer_ReadImports(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "spago.dhall", "{ packages = ./packages.dhall, extra = https://example.com/a.dhall }\n")

	imports, err := f.freezer.ReadImports(path)

	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, domain.ImportLocal, imports[0].Kind)
	assert.Equal(t, "packages.dhall", imports[0].File)
	assert.Equal(t, remote("a.dhall"), imports[1])
}

func TestFreezer_ReadImports_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.freezer.ReadImports(filepath.Join(f.dir, "missing.dhall"))
	require.Error(t, err)

	path := f.write(t, "broken.dhall", "{ a = 1\n")
	_, err = f.freezer.ReadImports(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestFreezer_Freeze(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "packages.dhall", `-- pinned
let a = https://example.com/a.dhall
let b = https://example.com/a.dhall
let c = ./local.dhall
let d = env:HOME as Text
in  a // b // c
`)

	f.hasher.EXPECT().Hash(gomock.Any(), remote("a.dhall")).Return(domain.Hash(hashA), nil)
	f.logger.EXPECT().Info("froze 1 remote imports in " + path)

	require.NoError(t, f.freezer.Freeze(context.Background(), path))

	assert.Equal(t, `-- pinned
let a = https://example.com/a.dhall sha256:`+hashA+`
let b = https://example.com/a.dhall sha256:`+hashA+`
let c = ./local.dhall
let d = env:HOME as Text
in  a // b // c
`, read(t, path))
}

func TestFreezer_Freeze_ReplacesStaleHash(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "packages.dhall", "https://example.com/a.dhall sha256:"+hashA+" as Location\n")

	f.hasher.EXPECT().Hash(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, imp domain.Import) (domain.Hash, error) {
			assert.Equal(t, domain.ModeLocation, imp.Mode)
			return domain.Hash(hashB), nil
		})
	f.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, f.freezer.Freeze(context.Background(), path))

	assert.Equal(t, "https://example.com/a.dhall sha256:"+hashB+" as Location\n", read(t, path))
}

func TestFreezer_Freeze_CommentBeforeHash(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "packages.dhall", "https://example.com/a.dhall {- pinned -} sha256:"+hashA+"\n")

	f.hasher.EXPECT().Hash(gomock.Any(), remote("a.dhall")).Return(domain.Hash(hashB), nil)
	f.logger.EXPECT().Info("froze 1 remote imports in " + path)

	require.NoError(t, f.freezer.Freeze(context.Background(), path))

	assert.Equal(t, "https://example.com/a.dhall sha256:"+hashB+" {- pinned -}\n", read(t, path))
}

func TestFreezer_Freeze_ImportAfterOperator(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "packages.dhall", "{ x = 1 }//https://example.com/a.dhall\n")

	f.hasher.EXPECT().Hash(gomock.Any(), remote("a.dhall")).Return(domain.Hash(hashA), nil)
	f.logger.EXPECT().Info("froze 1 remote imports in " + path)

	require.NoError(t, f.freezer.Freeze(context.Background(), path))

	assert.Equal(t, "{ x = 1 }//https://example.com/a.dhall sha256:"+hashA+"\n", read(t, path))
}

func TestFreezer_EnsureFrozen_CommentBeforeHash(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "spago.dhall", "https://example.com/a.dhall -- pinned\n  sha256:"+hashA+"\n")

	require.NoError(t, f.freezer.EnsureFrozen(context.Background(), path))

	assert.Equal(t, "https://example.com/a.dhall -- pinned\n  sha256:"+hashA+"\n", read(t, path))
}

func TestFreezer_Freeze_Idempotent(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "packages.dhall", "[ https://example.com/a.dhall, https://example.com/b.dhall ]\n")

	f.hasher.EXPECT().Hash(gomock.Any(), remote("a.dhall")).Return(domain.Hash(hashA), nil).Times(2)
	f.hasher.EXPECT().Hash(gomock.Any(), remote("b.dhall")).Return(domain.Hash(hashB), nil).Times(2)
	gomock.InOrder(
		f.logger.EXPECT().Info("froze 2 remote imports in "+path),
		f.logger.EXPECT().Info(path+" is already frozen"),
	)

	require.NoError(t, f.freezer.Freeze(context.Background(), path))
	first := read(t, path)
	info, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, f.freezer.Freeze(context.Background(), path))

	assert.Equal(t, first, read(t, path))
	again, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime(), "an unchanged file is not rewritten")
}

func TestFreezer_Freeze_HashFails(t *testing.T) {
	f := newFixture(t)
	content := "https://example.com/a.dhall\n"
	path := f.write(t, "packages.dhall", content)

	f.hasher.EXPECT().Hash(gomock.Any(), gomock.Any()).Return(domain.Hash(""), domain.ErrHashFailed)

	err := f.freezer.Freeze(context.Background(), path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHashFailed)
	assert.Equal(t, content, read(t, path))
}

func TestFreezer_Freeze_Unparseable(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "packages.dhall", "[ https://example.com/a.dhall\n")

	err := f.freezer.Freeze(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestFreezer_EnsureFrozen_NoRemoteImports(t *testing.T) {
	f := newFixture(t)
	packages := "let local = ./local.dhall in local // { x = env:X }\n"
	f.write(t, "packages.dhall", packages)
	f.write(t, "local.dhall", "{=}\n")
	path := f.write(t, "spago.dhall", "{ packages = ./packages.dhall }\n")

	f.logger.EXPECT().Warn(path + ": cannot determine frozen status: no remote imports found")

	require.NoError(t, f.freezer.EnsureFrozen(context.Background(), path))
	assert.Equal(t, packages, read(t, filepath.Join(f.dir, "packages.dhall")))
}

func TestFreezer_EnsureFrozen_AllFrozen(t *testing.T) {
	f := newFixture(t)
	f.write(t, "packages.dhall", "https://example.com/a.dhall sha256:"+hashA+"\n")
	path := f.write(t, "spago.dhall", "{ packages = ./packages.dhall }\n")

	require.NoError(t, f.freezer.EnsureFrozen(context.Background(), path))
}

func TestFreezer_EnsureFrozen_FreezesImportingManifest(t *testing.T) {
	f := newFixture(t)
	manifest := f.write(t, "packages.dhall", "let upstream = https://example.com/a.dhall in upstream\n")
	config := "{ name = \"app\", packages = ./packages.dhall, x = https://example.com/b.dhall sha256:" + hashB + " }\n"
	path := f.write(t, "spago.dhall", config)

	f.hasher.EXPECT().Hash(gomock.Any(), remote("a.dhall")).Return(domain.Hash(hashA), nil)
	gomock.InOrder(
		f.logger.EXPECT().Warn("package set is not frozen, freezing it"),
		f.logger.EXPECT().Info("froze 1 remote imports in "+manifest),
	)

	require.NoError(t, f.freezer.EnsureFrozen(context.Background(), path))

	assert.Equal(t, "let upstream = https://example.com/a.dhall sha256:"+hashA+" in upstream\n", read(t, manifest))
	assert.Equal(t, config, read(t, path), "the checked file itself is not frozen")
}

func TestFreezer_EnsureFrozen_Transitive(t *testing.T) {
	f := newFixture(t)
	// spago.dhall -> nested/extra.dhall -> ../sets/packages.dhall, which is unfrozen.
	manifest := f.write(t, "sets/packages.dhall", "https://example.com/a.dhall\n")
	f.write(t, "nested/extra.dhall", "../sets/packages.dhall // ./missing.dhall\n")
	path := f.write(t, "spago.dhall", "./nested/extra.dhall\n")

	f.hasher.EXPECT().Hash(gomock.Any(), remote("a.dhall")).Return(domain.Hash(hashA), nil)
	f.logger.EXPECT().Warn("package set is not frozen, freezing it")
	f.logger.EXPECT().Info("froze 1 remote imports in " + manifest)

	require.NoError(t, f.freezer.EnsureFrozen(context.Background(), path))

	assert.Equal(t, "https://example.com/a.dhall sha256:"+hashA+"\n", read(t, manifest))
}

func TestFreezer_EnsureFrozen_Cycle(t *testing.T) {
	f := newFixture(t)
	manifest := f.write(t, "packages.dhall", "{ up = https://example.com/a.dhall, back = ./spago.dhall }\n")
	path := f.write(t, "spago.dhall", "{ packages = ./packages.dhall, self = ./././spago.dhall }\n")

	f.hasher.EXPECT().Hash(gomock.Any(), remote("a.dhall")).Return(domain.Hash(hashA), nil)
	f.logger.EXPECT().Warn(gomock.Any())
	f.logger.EXPECT().Info("froze 1 remote imports in " + manifest)

	require.NoError(t, f.freezer.EnsureFrozen(context.Background(), path))
}

func TestFreezer_EnsureFrozen_ManifestItself(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "packages.dhall", "https://example.com/a.dhall\n")

	f.logger.EXPECT().Warn(path + " has unfrozen remote imports but imports no local packages.dhall")

	require.NoError(t, f.freezer.EnsureFrozen(context.Background(), path))
	assert.Equal(t, "https://example.com/a.dhall\n", read(t, path))
}

func TestFreezer_EnsureFrozen_TextImportIsNotFollowed(t *testing.T) {
	f := newFixture(t)
	f.write(t, "packages.dhall", "https://example.com/a.dhall\n")
	path := f.write(t, "spago.dhall", "{ raw = ./packages.dhall as Text }\n")

	f.logger.EXPECT().Warn(path + ": cannot determine frozen status: no remote imports found")

	require.NoError(t, f.freezer.EnsureFrozen(context.Background(), path))
}

func TestFreezer_EnsureFrozen_MissingFile(t *testing.T) {
	f := newFixture(t)

	err := f.freezer.EnsureFrozen(context.Background(), filepath.Join(f.dir, "spago.dhall"))

	require.Error(t, err)
}
