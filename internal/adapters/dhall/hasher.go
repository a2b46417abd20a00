package dhall

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/zerr"
)

// Hasher implements ports.ImportHasher by running "dhall hash".
// The dhall binary fetches the import, resolves its transitive imports,
// normalizes the result and prints its semantic hash.
type Hasher struct {
	binary   string
	lookPath func(string) (string, error)
}

// NewHasher creates a Hasher that invokes the given dhall binary.
func NewHasher(binary string) *Hasher {
	if binary == "" {
		binary = domain.DefaultDhall
	}
	return &Hasher{
		binary:   binary,
		lookPath: exec.LookPath,
	}
}

// Hash computes the integrity hash of the content the import refers to.
func (h *Hasher) Hash(ctx context.Context, imp domain.Import) (domain.Hash, error) {
	expr := imp.WithoutHash().String()

	bin, err := h.lookPath(h.binary)
	if err != nil {
		toolErr := zerr.Wrap(domain.ErrToolNotFound, "dhall is required to freeze imports")
		return "", zerr.With(toolErr, "tool", h.binary)
	}

	//nolint:gosec // binary comes from settings, the expression is passed on stdin
	cmd := exec.CommandContext(ctx, bin, "hash")
	cmd.Stdin = strings.NewReader(expr)

	output, err := cmd.Output()
	if err != nil {
		hashErr := zerr.Wrap(domain.ErrHashFailed, err.Error())
		hashErr = zerr.With(hashErr, "import", expr)

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			hashErr = zerr.With(hashErr, "exit_code", exitErr.ExitCode())
			return "", zerr.With(hashErr, "stderr", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", hashErr
	}

	return parseHashOutput(output, expr)
}

// parseHashOutput extracts the hash from the last non-empty line of output.
func parseHashOutput(output []byte, expr string) (domain.Hash, error) {
	lines := bytes.Split(bytes.TrimSpace(output), []byte("\n"))
	last := strings.TrimSpace(string(lines[len(lines)-1]))

	h, ok := domain.ParseHash(last)
	if !ok {
		hashErr := zerr.Wrap(domain.ErrHashFailed, "unexpected dhall hash output")
		hashErr = zerr.With(hashErr, "import", expr)
		return "", zerr.With(hashErr, "output", last)
	}
	return h, nil
}
