package domain

import "path/filepath"

const (
	// ManifestFileName is the name of the package set manifest.
	ManifestFileName = "packages.dhall"

	// ConfigFileName is the name of the project configuration that imports the manifest.
	ConfigFileName = "spago.dhall"

	// SettingsFileName is the name of the optional pkgset settings file.
	SettingsFileName = "pkgset.yaml"

	// CacheDirName is the name of the pkgset directory inside the user cache directory.
	CacheDirName = "pkgset"

	// ReleaseCacheFileName is the name of the cached registry responses file.
	ReleaseCacheFileName = "releases.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// ReleaseCachePath joins a cache root with the pkgset release cache file.
func ReleaseCachePath(cacheRoot string) string {
	return filepath.Join(cacheRoot, CacheDirName, ReleaseCacheFileName)
}
