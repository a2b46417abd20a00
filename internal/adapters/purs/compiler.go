// Package purs queries the installed PureScript compiler.
package purs

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// Compiler implements ports.Compiler by running "purs --version".
type Compiler struct {
	binary string
}

// NewCompiler creates a Compiler that invokes the given binary.
func NewCompiler(binary string) *Compiler {
	if binary == "" {
		binary = domain.DefaultCompiler
	}
	return &Compiler{binary: binary}
}

// Version returns the first line printed by "<binary> --version".
func (c *Compiler) Version(ctx context.Context) (string, error) {
	bin, err := exec.LookPath(c.binary)
	if err != nil {
		toolErr := zerr.Wrap(domain.ErrToolNotFound, "the PureScript compiler is not installed")
		return "", zerr.With(toolErr, "tool", c.binary)
	}

	//nolint:gosec // binary comes from settings
	out, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		cmdErr := zerr.Wrap(domain.ErrCommandFailed, err.Error())
		cmdErr = zerr.With(cmdErr, "command", c.binary+" --version")
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr = zerr.With(cmdErr, "stderr", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", cmdErr
	}

	version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(version), nil
}
