package domain

import "go.trai.ch/zerr"

var (
	// ErrParse is returned when a configuration file cannot be parsed.
	ErrParse = zerr.New("failed to parse expression")

	// ErrUnsupportedSyntax is returned for valid syntax the reader does not handle.
	ErrUnsupportedSyntax = zerr.Wrap(ErrParse, "unsupported syntax")

	// ErrManifestUnreadable is returned when the package set manifest is missing or cannot be parsed.
	ErrManifestUnreadable = zerr.New("failed to read package set manifest")

	// ErrRegistryFetch is returned when the latest release cannot be fetched from the registry.
	ErrRegistryFetch = zerr.New("failed to fetch latest package set release")

	// ErrRateLimited is returned when the registry API rejects requests due to rate limiting.
	ErrRateLimited = zerr.Wrap(ErrRegistryFetch, "registry rate limit exceeded")

	// ErrVersionMismatch is returned when the compiler cannot build the package set.
	ErrVersionMismatch = zerr.New("compiler version is incompatible with the package set")

	// ErrUnparseableVersion is returned when a compiler or package set version is malformed.
	ErrUnparseableVersion = zerr.New("unparseable version")

	// ErrFreezeStatusIndeterminate is reported when a file has no remote imports to inspect.
	ErrFreezeStatusIndeterminate = zerr.New("cannot determine frozen status: no remote imports found")

	// ErrHashFailed is returned when an import's integrity hash cannot be computed.
	ErrHashFailed = zerr.New("failed to compute import hash")

	// ErrToolNotFound is returned when a required external binary is not on PATH.
	ErrToolNotFound = zerr.New("required tool not found")

	// ErrConfigRead is returned when the settings file cannot be read.
	ErrConfigRead = zerr.New("failed to read settings file")

	// ErrConfigParse is returned when the settings file is malformed.
	ErrConfigParse = zerr.New("failed to parse settings file")

	// ErrCommandFailed is returned when the build command exits unsuccessfully.
	ErrCommandFailed = zerr.New("build command failed")

	// ErrFileWrite is returned when a file cannot be persisted.
	ErrFileWrite = zerr.New("failed to write file")
)
