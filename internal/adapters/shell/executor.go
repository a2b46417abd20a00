// Package shell provides the executor that runs the configured build command.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command with the specified environment and waits for it.
// It merges environments with the following priority (low to high):
// 1. os.Environ() (System base)
// 2. env (caller supplied, PATH entries are prepended)
// 3. cmd.Environment (User-defined overrides)
//
// Output is written line by line to the logger and, unchanged, to stdout and
// stderr. Nil writers fall back to the vertex recorded in ctx, if any.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, env []string, stdout, stderr io.Writer) error {
	if cmd == nil || cmd.Name == "" {
		return nil
	}

	stdout, stderr = outputs(ctx, stdout, stderr)
	stdoutLog := &logWriter{logger: e.logger, level: "info"}
	stderrLog := &logWriter{logger: e.logger, level: "warn"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	cmdEnv := resolveEnvironment(os.Environ(), env, cmd.Environment)

	executable := cmd.Name
	if !filepath.IsAbs(executable) {
		if lp, err := lookPath(executable, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // user provided command
	// Keep the name as invoked rather than the resolved path.
	c.Args[0] = cmd.Name
	c.Dir = cmd.Dir
	c.Env = cmdEnv
	c.Stdout = io.MultiWriter(stdoutLog, stdout)
	c.Stderr = io.MultiWriter(stderrLog, stderr)

	if err := c.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		cmdErr := zerr.Wrap(domain.ErrCommandFailed, err.Error())
		cmdErr = zerr.With(cmdErr, "command", strings.Join(append([]string{cmd.Name}, cmd.Args...), " "))
		return zerr.With(cmdErr, "exit_code", exitCode)
	}

	return nil
}

func outputs(ctx context.Context, stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if v, ok := ports.VertexFromContext(ctx); ok {
		if stdout == nil {
			stdout = v.Stdout()
		}
		if stderr == nil {
			stderr = v.Stderr()
		}
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return stdout, stderr
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close flushes a trailing line without newline.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv, extraEnv []string, cmdEnv map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for _, entry := range extraEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if sysPath := envMap["PATH"]; k == "PATH" && sysPath != "" {
			envMap[k] = v + string(os.PathListSeparator) + sysPath
		} else {
			envMap[k] = v
		}
	}

	for k, v := range cmdEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
