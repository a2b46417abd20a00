package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgset/internal/app"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestApp_UpgradeSet_RewritesAndFreezes(t *testing.T) {
	h := newHarness(t)
	h.write(t, "packages.dhall", manifestFor(releaseURL("20210101")))

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.hasher.EXPECT().Hash(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, imp domain.Import) (domain.Hash, error) {
			// The rewritten manifest is on disk, unfrozen, when the freeze starts.
			assert.Equal(t, manifestFor(releaseURL("20210102")), read(t, h.manifest()))
			assert.Equal(t, []string{"purescript", "package-sets", "releases", "download", "20210102"}, imp.Directory)
			assert.False(t, imp.IsFrozen())
			return domain.Hash(hashA), nil
		})
	gomock.InOrder(
		h.logger.EXPECT().Info("upgraded package set from 20210101 to 20210102"),
		h.logger.EXPECT().Info("froze 1 remote imports in "+h.manifest()),
	)

	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{}))

	assert.Equal(t, manifestFor(releaseURL("20210102")+" sha256:"+hashA), read(t, h.manifest()))
}

func TestApp_UpgradeSet_ClearsExistingHash(t *testing.T) {
	h := newHarness(t)
	h.write(t, "packages.dhall", manifestFor(releaseURL("20210101")+"\n        sha256:"+hashA))

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.hasher.EXPECT().Hash(gomock.Any(), gomock.Any()).Return(domain.Hash(""), domain.ErrHashFailed)
	h.logger.EXPECT().Info("upgraded package set from 20210101 to 20210102")

	err := h.app.UpgradeSet(context.Background(), app.UpgradeOptions{})

	// The freeze failed, so the manifest is left visibly unfrozen.
	assert.ErrorIs(t, err, domain.ErrHashFailed)
	assert.Equal(t, manifestFor(releaseURL("20210102")), read(t, h.manifest()))
}

func TestApp_UpgradeSet_LegacyAlias(t *testing.T) {
	h := newHarness(t)
	h.write(t, "packages.dhall",
		manifestFor("https://raw.githubusercontent.com/spacchetti/spacchetti/20190101/src/packages.dhall"))

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.hasher.EXPECT().Hash(gomock.Any(), gomock.Any()).Return(domain.Hash(hashA), nil)
	h.logger.EXPECT().Info("upgraded package set from 20190101 to 20210102")
	h.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{}))

	assert.Equal(t, manifestFor(releaseURL("20210102")+" sha256:"+hashA), read(t, h.manifest()))
}

func TestApp_UpgradeSet_LegacyLookalikeIsUntouched(t *testing.T) {
	h := newHarness(t)
	content := manifestFor("https://raw.githubusercontent.com/foo/bar/20210101/src/packages.dhall")
	h.write(t, "packages.dhall", content)

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.logger.EXPECT().Warn(h.manifest() + " refers to release 20210101 outside of purescript/package-sets, leaving it unchanged")

	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{}))

	assert.Equal(t, content, read(t, h.manifest()))
}

func TestApp_UpgradeSet_AlreadyLatest(t *testing.T) {
	h := newHarness(t)
	content := manifestFor(releaseURL("20210102"))
	h.write(t, "packages.dhall", content)

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.logger.EXPECT().Info("package set is already on the latest release 20210102")

	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{}))
	assert.Equal(t, content, read(t, h.manifest()))
}

func TestApp_UpgradeSet_FirstMatchDecides(t *testing.T) {
	h := newHarness(t)
	content := "[ " + releaseURL("20210102") + ", " + releaseURL("20200101") + " ]\n"
	h.write(t, "packages.dhall", content)

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.logger.EXPECT().Info("package set is already on the latest release 20210102")

	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{}))
	assert.Equal(t, content, read(t, h.manifest()))
}

func TestApp_UpgradeSet_NoRegistryImport(t *testing.T) {
	h := newHarness(t)
	h.write(t, "packages.dhall", "https://example.com/packages.dhall\n")

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.logger.EXPECT().Warn(h.manifest() + " does not import the purescript/package-sets package set, nothing to upgrade")

	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{}))
}

func TestApp_UpgradeSet_FetchFailedIsNotFatal(t *testing.T) {
	h := newHarness(t)
	// The manifest is not even read when the fetch fails.
	fetchErr := zerr.With(zerr.Wrap(domain.ErrRegistryFetch, "connection refused"), "status", 0)

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("", fetchErr)
	h.logger.EXPECT().Warn("skipping package set upgrade: " + fetchErr.Error())

	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{}))
}

func TestApp_UpgradeSet_Canceled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("", errors.New("request canceled"))

	err := h.app.UpgradeSet(ctx, app.UpgradeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApp_UpgradeSet_ManifestUnreadable(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing manifest"},
		{name: "unparseable manifest", content: "let upstream = [ " + releaseURL("20210101") + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.content != "" {
				h.write(t, "packages.dhall", tt.content)
			}

			h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)

			err := h.app.UpgradeSet(context.Background(), app.UpgradeOptions{})

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrManifestUnreadable)
			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, h.manifest(), zErr.Metadata()["path"])
		})
	}
}

func TestApp_UpgradeSet_DryRun(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	h := newHarness(t)
	content := manifestFor(releaseURL("20210101"))
	h.write(t, "packages.dhall", content)

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.logger.EXPECT().Info("would upgrade package set from 20210101 to 20210102")

	var out bytes.Buffer
	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{DryRun: true, Output: &out}))

	diff := out.String()
	assert.Contains(t, diff, "--- "+h.manifest()+"\n")
	assert.Contains(t, diff, "+++ "+h.manifest()+"\n")
	assert.Contains(t, diff, "-      "+releaseURL("20210101")+"\n")
	assert.Contains(t, diff, "+      "+releaseURL("20210102")+"\n")
	assert.NotContains(t, diff, "\x1b[")
	assert.Equal(t, content, read(t, h.manifest()), "a dry run does not write")
}

func TestApp_UpgradeSet_DryRunRedirected(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CI", "")
	t.Setenv("CLICOLOR_FORCE", "")
	h := newHarness(t)
	h.write(t, "packages.dhall", manifestFor(releaseURL("20210101")))

	h.registry.EXPECT().LatestTag(gomock.Any()).Return("20210102", nil)
	h.logger.EXPECT().Info("would upgrade package set from 20210101 to 20210102")

	path := filepath.Join(t.TempDir(), "upgrade.diff")
	f, err := os.Create(path) //nolint:gosec // test path
	require.NoError(t, err)

	require.NoError(t, h.app.UpgradeSet(context.Background(), app.UpgradeOptions{DryRun: true, Output: f}))
	require.NoError(t, f.Close())

	// A diff written to a file is left uncolored.
	diff := read(t, path)
	assert.Contains(t, diff, "+      "+releaseURL("20210102")+"\n")
	assert.NotContains(t, diff, "\x1b[")
}
