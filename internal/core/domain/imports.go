package domain

import (
	"slices"
	"strings"
)

// ImportKind discriminates the variants of an Import.
type ImportKind int

const (
	// ImportRemote is a URL import such as https://host/path/file.dhall.
	ImportRemote ImportKind = iota + 1
	// ImportLocal is a filesystem import such as ./packages.dhall.
	ImportLocal
	// ImportEnv is an environment variable import such as env:HOME.
	ImportEnv
	// ImportMissing is the keyword import "missing".
	ImportMissing
)

// ImportMode describes how an imported expression is included.
type ImportMode int

const (
	// ModeCode includes the import as an expression. This is the default.
	ModeCode ImportMode = iota
	// ModeText includes the raw content as Text ("as Text").
	ModeText
	// ModeLocation includes the import's location ("as Location").
	ModeLocation
	// ModeBytes includes the raw content as Bytes ("as Bytes").
	ModeBytes
)

// String returns the keyword used after "as", or an empty string for ModeCode.
func (m ImportMode) String() string {
	switch m {
	case ModeText:
		return "Text"
	case ModeLocation:
		return "Location"
	case ModeBytes:
		return "Bytes"
	default:
		return ""
	}
}

// ParseImportMode maps an "as" keyword to its mode.
func ParseImportMode(s string) (ImportMode, bool) {
	switch s {
	case "Text":
		return ModeText, true
	case "Location":
		return ModeLocation, true
	case "Bytes":
		return ModeBytes, true
	default:
		return ModeCode, false
	}
}

const (
	hashPrefix = "sha256:"
	hashLength = 64
)

// Hash is the lowercase hex encoding of a SHA-256 semantic integrity hash.
// The zero value means "no hash".
type Hash string

// String renders the hash in import syntax, e.g. "sha256:ab12...".
func (h Hash) String() string {
	if h == "" {
		return ""
	}
	return hashPrefix + string(h)
}

// ParseHash parses "sha256:<64 hex digits>" into a Hash.
func ParseHash(s string) (Hash, bool) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), hashPrefix)
	if !ok || len(hex) != hashLength {
		return "", false
	}
	for _, c := range hex {
		if !isHexDigit(c) {
			return "", false
		}
	}
	return Hash(strings.ToLower(hex)), true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Import is a single import expression found in a configuration document.
//
// Directory holds path components in the order they appear in the source,
// so https://github.com/purescript/package-sets/releases/download/TAG/packages.dhall
// has Directory [purescript package-sets releases download TAG] and File packages.dhall.
type Import struct {
	Kind ImportKind

	// Scheme and Authority are set for remote imports.
	Scheme    string
	Authority string
	// Prefix is one of "./", "../", "~/" or "/" for local imports.
	Prefix string

	Directory []string
	File      string
	Query     string

	// EnvVar is set for environment imports.
	EnvVar string

	// Headers is the verbatim expression of a remote import's "using" clause.
	Headers string

	Hash Hash
	Mode ImportMode
}

// Equal reports whether two imports are structurally identical.
func (i Import) Equal(o Import) bool {
	return i.Kind == o.Kind &&
		i.Scheme == o.Scheme &&
		i.Authority == o.Authority &&
		i.Prefix == o.Prefix &&
		slices.Equal(i.Directory, o.Directory) &&
		i.File == o.File &&
		i.Query == o.Query &&
		i.EnvVar == o.EnvVar &&
		i.Headers == o.Headers &&
		i.Hash == o.Hash &&
		i.Mode == o.Mode
}

// IsRemote reports whether the import is a URL import.
func (i Import) IsRemote() bool {
	return i.Kind == ImportRemote
}

// IsFrozen reports whether the import carries an integrity hash.
func (i Import) IsFrozen() bool {
	return i.Hash != ""
}

// WithHash returns a copy of the import carrying the given hash.
func (i Import) WithHash(h Hash) Import {
	out := i.clone()
	out.Hash = h
	return out
}

// WithoutHash returns a copy of the import with its hash removed.
func (i Import) WithoutHash() Import {
	return i.WithHash("")
}

func (i Import) clone() Import {
	out := i
	out.Directory = slices.Clone(i.Directory)
	return out
}

// Path returns the textual location of the import without hash or mode.
func (i Import) Path() string {
	switch i.Kind {
	case ImportRemote:
		var b strings.Builder
		b.WriteString(i.Scheme)
		b.WriteString("://")
		b.WriteString(i.Authority)
		for _, c := range i.Directory {
			b.WriteByte('/')
			b.WriteString(c)
		}
		b.WriteByte('/')
		b.WriteString(i.File)
		if i.Query != "" {
			b.WriteByte('?')
			b.WriteString(i.Query)
		}
		return b.String()
	case ImportLocal:
		parts := make([]string, 0, len(i.Directory)+1)
		for _, c := range i.Directory {
			parts = append(parts, quotePathComponent(c))
		}
		parts = append(parts, quotePathComponent(i.File))
		return i.Prefix + strings.Join(parts, "/")
	case ImportEnv:
		if isBashIdentifier(i.EnvVar) {
			return "env:" + i.EnvVar
		}
		return `env:"` + i.EnvVar + `"`
	case ImportMissing:
		return "missing"
	default:
		return ""
	}
}

// String renders the import in canonical source form, including its headers,
// hash and mode.
func (i Import) String() string {
	var b strings.Builder
	b.WriteString(i.Path())
	if i.Headers != "" {
		b.WriteString(" using ")
		b.WriteString(i.Headers)
	}
	if i.Hash != "" {
		b.WriteByte(' ')
		b.WriteString(i.Hash.String())
	}
	if m := i.Mode.String(); m != "" {
		b.WriteString(" as ")
		b.WriteString(m)
	}
	return b.String()
}

// IsPathChar reports whether c may appear in an unquoted local path component.
func IsPathChar(c byte) bool {
	switch {
	case c == 0x21, c >= 0x24 && c <= 0x27, c == 0x2A, c == 0x2B, c == 0x2D, c == 0x2E:
		return true
	case c >= 0x30 && c <= 0x3B, c == 0x3D, c >= 0x40 && c <= 0x5A:
		return true
	case c >= 0x5E && c <= 0x7A, c == 0x7C, c == 0x7E:
		return true
	}
	return false
}

func quotePathComponent(s string) string {
	if s == "" {
		return `""`
	}
	for i := 0; i < len(s); i++ {
		if !IsPathChar(s[i]) {
			return `"` + s + `"`
		}
	}
	return s
}

func isBashIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		alpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		if !alpha && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}
