package ports

import (
	"context"
	"io"

	"go.trai.ch/pkgset/internal/core/domain"
)

// Executor runs external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and streams its output to stdout and stderr.
	//
	// The env parameter contains environment variables in "KEY=VALUE" format
	// that are layered over the process environment; a PATH entry is prepended
	// to the inherited PATH. The command's own Environment wins over both.
	//
	// It returns an error if the command cannot be started or exits non-zero.
	Execute(ctx context.Context, cmd *domain.Command, env []string, stdout, stderr io.Writer) error
}
