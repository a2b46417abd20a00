// Package fs provides the file system adapter used to read and rewrite manifests.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem on top of the operating system.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// Exists reports whether a regular file exists at path.
func (f *FileSystem) Exists(path string) bool {
	p, err := expand(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// ReadFile returns the contents of the file at path. A leading "~" is
// expanded to the user's home directory.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	p, err := expand(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to expand home directory"), "path", path)
	}
	// #nosec G304 -- paths come from the project manifest
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", p)
	}
	return data, nil
}

// WriteFile atomically replaces the contents of the file at path.
// The data is written to a temporary file in the same directory and renamed
// over the target, so readers never observe a partial file. The mode of an
// existing file is kept.
func (f *FileSystem) WriteFile(path string, data []byte) error {
	p, err := expand(path)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWrite, err.Error()), "path", path)
	}

	mode := iofs.FileMode(domain.FilePerm)
	if info, statErr := os.Stat(p); statErr == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(statErr, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrFileWrite, statErr.Error()), "path", p)
	}

	if err := WriteAtomic(p, data, mode); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWrite, err.Error()), "path", p)
	}
	return nil
}

// WriteAtomic writes data to a temporary sibling of path and renames it into place.
func WriteAtomic(path string, data []byte, mode iofs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// Removing after a successful rename fails harmlessly.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func expand(path string) (string, error) {
	return homedir.Expand(path)
}
