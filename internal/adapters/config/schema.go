package config

// Settingsfile represents the structure of the pkgset.yaml settings file.
type Settingsfile struct {
	Version  string       `yaml:"version"`
	Root     string       `yaml:"root"`
	Manifest string       `yaml:"manifest"`
	Config   string       `yaml:"config"`
	Registry *RegistryDTO `yaml:"registry"`
	Tools    *ToolsDTO    `yaml:"tools"`
	Build    *BuildDTO    `yaml:"build"`
	Cache    *CacheDTO    `yaml:"cache"`
}

// RegistryDTO overrides where the latest package set release is looked up.
type RegistryDTO struct {
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	API      string `yaml:"api"`
	TokenEnv string `yaml:"tokenEnv"`
}

// ToolsDTO names the external binaries.
type ToolsDTO struct {
	Compiler string `yaml:"compiler"`
	Dhall    string `yaml:"dhall"`
}

// BuildDTO is the command run by "pkgset build".
type BuildDTO struct {
	Cmd         []string          `yaml:"cmd"`
	Environment map[string]string `yaml:"environment"`
}

// CacheDTO controls the registry response cache.
type CacheDTO struct {
	// TTL is a Go duration string. "0" disables the cache.
	TTL *string `yaml:"ttl"`
	Dir string  `yaml:"dir"`
}
