package domain

import (
	"path/filepath"
	"time"
)

const (
	// DefaultRegistryAPI is the GitHub REST API base URL.
	DefaultRegistryAPI = "https://api.github.com"
	// DefaultTokenEnv is the environment variable consulted for an API token.
	DefaultTokenEnv = "GITHUB_TOKEN"
	// DefaultCompiler is the compiler binary probed for its version.
	DefaultCompiler = "purs"
	// DefaultDhall is the binary used to compute import hashes.
	DefaultDhall = "dhall"
	// DefaultCacheTTL is how long a fetched release tag is reused.
	DefaultCacheTTL = time.Hour
)

// Settings is the resolved project configuration.
type Settings struct {
	// Root is the project directory all relative paths are resolved against.
	Root     string
	Manifest string
	Config   string
	Registry RegistrySettings
	Tools    ToolSettings
	Build    BuildSettings
	Cache    CacheSettings
}

// RegistrySettings overrides where releases are looked up.
type RegistrySettings struct {
	Owner    string
	Repo     string
	API      string
	TokenEnv string
}

// ToolSettings names the external binaries pkgset shells out to.
type ToolSettings struct {
	Compiler string
	Dhall    string
}

// BuildSettings is the command run by the build command after all checks pass.
type BuildSettings struct {
	Command     []string
	Environment map[string]string
}

// CacheSettings controls the registry response cache. A zero TTL disables it.
type CacheSettings struct {
	TTL time.Duration
	Dir string
}

// DefaultSettings returns the settings used when no settings file is present.
func DefaultSettings(root string) *Settings {
	reg := DefaultRegistry()
	return &Settings{
		Root:     root,
		Manifest: ManifestFileName,
		Config:   ConfigFileName,
		Registry: RegistrySettings{
			Owner:    reg.Owner,
			Repo:     reg.Repo,
			API:      DefaultRegistryAPI,
			TokenEnv: DefaultTokenEnv,
		},
		Tools: ToolSettings{
			Compiler: DefaultCompiler,
			Dhall:    DefaultDhall,
		},
		Cache: CacheSettings{
			TTL: DefaultCacheTTL,
		},
	}
}

// ManifestPath returns the manifest path resolved against Root.
func (s *Settings) ManifestPath() string {
	return s.resolve(s.Manifest)
}

// ConfigPath returns the project configuration path resolved against Root.
func (s *Settings) ConfigPath() string {
	return s.resolve(s.Config)
}

// RegistryTarget returns the registry description with any owner or repo overrides applied.
func (s *Settings) RegistryTarget() Registry {
	reg := DefaultRegistry()
	if s.Registry.Owner != "" {
		reg.Owner = s.Registry.Owner
	}
	if s.Registry.Repo != "" {
		reg.Repo = s.Registry.Repo
	}
	return reg
}

func (s *Settings) resolve(p string) string {
	if filepath.IsAbs(p) || s.Root == "" {
		return p
	}
	return filepath.Join(s.Root, p)
}
