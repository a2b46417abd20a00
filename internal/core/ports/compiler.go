package ports

import "context"

// Compiler reports the version of the installed compiler.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Version returns the raw version string printed by the compiler.
	Version(ctx context.Context) (string, error)
}
