// Package cas implements the on-disk cache of registry lookups.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	pkgfs "go.trai.ch/pkgset/internal/adapters/fs"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ReleaseCache = (*Store)(nil)

// Store implements ports.ReleaseCache using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.ReleaseInfo
}

// NewStore creates a new ReleaseCache backed by the file at the given path.
// A missing or corrupt file starts an empty cache; the next Put replaces it.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.ReleaseInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultPath returns the cache file location for the given settings.
// An explicit cache directory wins, then $XDG_CACHE_HOME, then ~/.cache.
func DefaultPath(settings *domain.Settings) (string, error) {
	if settings != nil && settings.Cache.Dir != "" {
		return filepath.Join(settings.Cache.Dir, domain.ReleaseCacheFileName), nil
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return domain.ReleaseCachePath(xdg), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", zerr.Wrap(err, "failed to locate home directory for the release cache")
	}
	return domain.ReleaseCachePath(filepath.Join(home, ".cache")), nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read release cache"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	entries := make(map[string]domain.ReleaseInfo)
	if err := json.Unmarshal(data, &entries); err != nil {
		// The cache only saves network round trips, so a damaged file is dropped.
		return nil
	}
	s.cache = entries

	return nil
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal release cache")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for release cache"), "path", s.path)
	}

	if err := pkgfs.WriteAtomic(s.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write release cache"), "path", s.path)
	}

	return nil
}

// Get retrieves the entry stored under key.
func (s *Store) Get(key string) (*domain.ReleaseInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[key]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the entry under its key.
func (s *Store) Put(info domain.ReleaseInfo) error {
	if info.Key == "" {
		return zerr.New("release cache entry has no key")
	}

	// Update cache first
	s.mu.Lock()
	s.cache[info.Key] = info
	s.mu.Unlock()

	// Then save to disk
	return s.save()
}
