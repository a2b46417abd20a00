package ports

// FileSystem is the file access used by the core.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// ReadFile returns the contents of the file at path.
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the contents of the file at path.
	WriteFile(path string, data []byte) error
}
