// Package config provides the settings loader for pkgset.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// supportedVersion is the only settings file version understood by this loader.
const supportedVersion = "1"

// Loader implements ports.SettingsLoader using an optional YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads pkgset.yaml from dir and maps it onto the defaults.
// A missing file yields the defaults rooted at dir.
func (l *Loader) Load(dir string) (*domain.Settings, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigRead, err.Error()), "dir", dir)
	}

	path := filepath.Join(root, domain.SettingsFileName)
	// #nosec G304 -- path is the settings file inside the project directory
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultSettings(root), nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigRead, err.Error()), "path", path)
	}

	var file Settingsfile
	if err := decodeStrict(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParse, err.Error()), "path", path)
	}

	settings, err := l.apply(root, &file)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return settings, nil
}

// decodeStrict rejects unknown keys so that typos do not silently fall back to defaults.
func decodeStrict(data []byte, target *Settingsfile) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (l *Loader) apply(root string, file *Settingsfile) (*domain.Settings, error) {
	if file.Version != "" && file.Version != supportedVersion {
		l.Logger.Warn(fmt.Sprintf("unknown %s version %q, reading it as version %s",
			domain.SettingsFileName, file.Version, supportedVersion))
	}

	s := domain.DefaultSettings(resolveRoot(root, file.Root))
	if file.Manifest != "" {
		s.Manifest = file.Manifest
	}
	if file.Config != "" {
		s.Config = file.Config
	}

	if r := file.Registry; r != nil {
		s.Registry.Owner = override(s.Registry.Owner, r.Owner)
		s.Registry.Repo = override(s.Registry.Repo, r.Repo)
		s.Registry.API = strings.TrimSuffix(override(s.Registry.API, r.API), "/")
		s.Registry.TokenEnv = override(s.Registry.TokenEnv, r.TokenEnv)
	}

	if t := file.Tools; t != nil {
		s.Tools.Compiler = override(s.Tools.Compiler, t.Compiler)
		s.Tools.Dhall = override(s.Tools.Dhall, t.Dhall)
	}

	if b := file.Build; b != nil {
		s.Build.Command = b.Cmd
		s.Build.Environment = b.Environment
		if len(b.Cmd) == 0 && len(b.Environment) > 0 {
			l.Logger.Warn("'build.environment' has no effect without 'build.cmd'")
		}
	}

	if c := file.Cache; c != nil {
		if c.TTL != nil {
			ttl, err := time.ParseDuration(*c.TTL)
			if err != nil || ttl < 0 {
				return nil, zerr.With(zerr.Wrap(domain.ErrConfigParse, "invalid cache ttl"), "ttl", *c.TTL)
			}
			s.Cache.TTL = ttl
		}
		if c.Dir != "" {
			s.Cache.Dir = resolveRoot(s.Root, c.Dir)
		}
	}

	return s, nil
}

func resolveRoot(base, p string) string {
	if p == "" {
		return base
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func override(current, value string) string {
	if value == "" {
		return current
	}
	return value
}
