// Package output creates termenv outputs with consistent color handling.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorProfile returns the color profile for the current environment.
// NO_COLOR forces Ascii. CI logs are captured rather than shown on a terminal,
// so detection would pick Ascii there; ANSI is used instead. Otherwise the
// terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if isCI() {
		return termenv.ANSI
	}
	return termenv.EnvColorProfile()
}

// New creates a new termenv.Output for w using ColorProfile. A nil writer means
// stderr. A file that is not a terminal, such as redirected stdout, gets Ascii
// unless CI or CLICOLOR_FORCE asks for colors.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	profile := ColorProfile()
	if Redirected(w) && !isCI() && os.Getenv("CLICOLOR_FORCE") == "" {
		profile = termenv.Ascii
	}

	opts = append(opts,
		termenv.WithProfile(profile),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// Redirected reports whether w is a file that is not a terminal.
// Writers that are not files, like buffers, are never considered redirected.
func Redirected(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return !term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

func isCI() bool {
	return os.Getenv("CI") != ""
}
