package dhall

import (
	"bytes"
	"strings"

	"go.trai.ch/pkgset/internal/core/domain"
)

// tryImport parses an import at the current position. When no import starts
// here it returns ok=false and leaves the position unchanged.
func (p *parser) tryImport() (*domain.ImportNode, bool, error) {
	if !p.atBoundary() {
		return nil, false, nil
	}

	start := p.pos
	var (
		imp domain.Import
		ok  bool
	)

	switch {
	case p.hasPrefix("https://") || p.hasPrefix("http://"):
		imp, ok = p.scanRemote()
	case p.hasPrefix("../"), p.hasPrefix("./"), p.hasPrefix("~/"), p.hasPrefix("/"):
		imp, ok = p.scanLocal()
	case p.hasPrefix("env:"):
		imp, ok = p.scanEnv()
	case p.hasKeyword("missing"):
		p.pos += len("missing")
		imp, ok = domain.Import{Kind: domain.ImportMissing}, true
	}

	if !ok {
		p.pos = start
		return nil, false, nil
	}

	var comments []string
	if imp.Kind == domain.ImportRemote {
		c, err := p.scanHeaders(&imp)
		if err != nil {
			return nil, false, err
		}
		comments = append(comments, c...)
	}
	comments = append(comments, p.scanHash(&imp)...)
	comments = append(comments, p.scanMode(&imp)...)

	return &domain.ImportNode{
		Import:   imp,
		Source:   string(p.src[start:p.pos]),
		Comments: strings.Join(comments, " "),
	}, true, nil
}

func (p *parser) scanRemote() (domain.Import, bool) {
	scheme := "https"
	if p.hasPrefix("http://") {
		scheme = "http"
	}
	p.pos += len(scheme) + len("://")

	authStart := p.pos
	for p.pos < len(p.src) && isAuthorityChar(p.peek(0)) {
		p.pos++
	}
	if p.pos == authStart {
		return domain.Import{}, false
	}
	authority := string(p.src[authStart:p.pos])

	var segments []string
	for p.peek(0) == '/' {
		p.pos++
		segStart := p.pos
		for p.pos < len(p.src) && isURLPathChar(p.peek(0)) {
			p.pos++
		}
		segments = append(segments, string(p.src[segStart:p.pos]))
	}

	var query string
	if p.peek(0) == '?' {
		p.pos++
		qStart := p.pos
		for p.pos < len(p.src) && (isURLPathChar(p.peek(0)) || p.peek(0) == '/' || p.peek(0) == '?') {
			p.pos++
		}
		query = string(p.src[qStart:p.pos])
	}

	imp := domain.Import{
		Kind:      domain.ImportRemote,
		Scheme:    scheme,
		Authority: authority,
		Query:     query,
	}
	if n := len(segments); n > 0 {
		imp.Directory = directory(segments[:n-1])
		imp.File = segments[n-1]
	}
	return imp, true
}

func (p *parser) scanLocal() (domain.Import, bool) {
	var prefix string
	for _, candidate := range []string{"../", "./", "~/", "/"} {
		if p.hasPrefix(candidate) {
			prefix = candidate
			break
		}
	}
	p.pos += len(prefix)

	var components []string
	for {
		component, ok := p.scanPathComponent()
		if !ok {
			break
		}
		components = append(components, component)
		if p.peek(0) != '/' || !(domain.IsPathChar(p.peek(1)) || p.peek(1) == '"') {
			break
		}
		p.pos++
	}

	if len(components) == 0 {
		return domain.Import{}, false
	}

	n := len(components)
	return domain.Import{
		Kind:      domain.ImportLocal,
		Prefix:    prefix,
		Directory: directory(components[:n-1]),
		File:      components[n-1],
	}, true
}

// directory normalizes an empty component list to nil.
func directory(components []string) []string {
	if len(components) == 0 {
		return nil
	}
	return components
}

func (p *parser) scanPathComponent() (string, bool) {
	if p.peek(0) == '"' {
		end := bytes.IndexByte(p.src[p.pos+1:], '"')
		if end < 0 {
			return "", false
		}
		component := string(p.src[p.pos+1 : p.pos+1+end])
		p.pos += end + 2
		return component, true
	}

	start := p.pos
	for p.pos < len(p.src) && domain.IsPathChar(p.peek(0)) {
		p.pos++
	}
	return string(p.src[start:p.pos]), p.pos > start
}

func (p *parser) scanEnv() (domain.Import, bool) {
	p.pos += len("env:")

	if p.peek(0) == '"' {
		var b strings.Builder
		p.pos++
		for p.pos < len(p.src) {
			c := p.peek(0)
			switch {
			case c == '\\' && p.pos+1 < len(p.src):
				b.WriteByte(p.peek(1))
				p.pos += 2
			case c == '"':
				p.pos++
				return domain.Import{Kind: domain.ImportEnv, EnvVar: b.String()}, true
			default:
				b.WriteByte(c)
				p.pos++
			}
		}
		return domain.Import{}, false
	}

	start := p.pos
	for p.pos < len(p.src) {
		c := p.peek(0)
		alpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		if !alpha && (p.pos == start || c < '0' || c > '9') {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return domain.Import{}, false
	}
	return domain.Import{Kind: domain.ImportEnv, EnvVar: string(p.src[start:p.pos])}, true
}

// scanHeaders consumes an optional "using" clause. Its expression is kept
// verbatim; imports inside it are not reported.
func (p *parser) scanHeaders(imp *domain.Import) ([]string, error) {
	save := p.pos
	comments, ok := p.skipWhitespace()
	if !ok || !p.hasKeyword("using") {
		p.pos = save
		return nil, nil
	}
	usingPos := p.pos
	p.pos += len("using")

	more, ok := p.skipWhitespace()
	if !ok || p.pos == usingPos+len("using") {
		return nil, p.failAt(domain.ErrUnsupportedSyntax, usingPos, "unsupported headers expression")
	}

	start := p.pos
	switch c := p.peek(0); {
	case c == '(' || c == '[' || c == '{':
		if _, err := p.parseGroup(string(c), closerFor(c)); err != nil {
			return nil, err
		}
	case isLabelStart(c):
		p.scanLabel()
		for p.peek(0) == '.' && isLabelStart(p.peek(1)) {
			p.pos++
			p.scanLabel()
		}
	default:
		_, found, err := p.tryImport()
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, p.failAt(domain.ErrUnsupportedSyntax, usingPos, "unsupported headers expression")
		}
	}

	imp.Headers = string(p.src[start:p.pos])
	return append(comments, more...), nil
}

// scanHash consumes an optional "sha256:<hex>" after whitespace or comments.
func (p *parser) scanHash(imp *domain.Import) []string {
	save := p.pos
	comments, ok := p.skipWhitespace()
	if !ok || p.pos == save || !p.hasPrefix("sha256:") {
		p.pos = save
		return nil
	}

	end := p.pos + len("sha256:")
	for end < len(p.src) && isHexDigit(p.src[end]) {
		end++
	}
	h, ok := domain.ParseHash(string(p.src[p.pos:end]))
	if !ok {
		p.pos = save
		return nil
	}
	imp.Hash = h
	p.pos = end
	return comments
}

// scanMode consumes an optional "as Text", "as Location" or "as Bytes".
func (p *parser) scanMode(imp *domain.Import) []string {
	save := p.pos
	comments, ok := p.skipWhitespace()
	if !ok || p.pos == save || !p.hasKeyword("as") {
		p.pos = save
		return nil
	}
	p.pos += len("as")
	afterAs := p.pos
	more, ok := p.skipWhitespace()
	if !ok || p.pos == afterAs {
		p.pos = save
		return nil
	}

	for _, kw := range []string{"Text", "Location", "Bytes"} {
		if p.hasKeyword(kw) {
			imp.Mode, _ = domain.ParseImportMode(kw)
			p.pos += len(kw)
			return append(comments, more...)
		}
	}
	p.pos = save
	return nil
}

// skipWhitespace consumes whitespace and comments and returns the comments.
// It reports false on an unterminated block comment, which the main loop
// reports once it reaches it.
func (p *parser) skipWhitespace() ([]string, bool) {
	var comments []string
	for p.pos < len(p.src) {
		start := p.pos
		switch {
		case isSpace(p.peek(0)):
			p.pos++
		case p.hasPrefix("--"):
			p.skipLineComment()
			comments = append(comments, string(p.src[start:p.pos]))
		case p.hasPrefix("{-"):
			if err := p.skipBlockComment(); err != nil {
				return nil, false
			}
			comments = append(comments, string(p.src[start:p.pos]))
		default:
			return comments, true
		}
	}
	return comments, true
}

// hasKeyword reports whether kw starts here and is not the prefix of a longer label.
func (p *parser) hasKeyword(kw string) bool {
	return p.hasPrefix(kw) && !isLabelChar(p.peek(len(kw)))
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isAuthorityChar accepts userinfo, host and port characters.
func isAuthorityChar(c byte) bool {
	return isUnreserved(c) || isSubDelim(c) || c == ':' || c == '@' || c == '%'
}

func isURLPathChar(c byte) bool {
	return isUnreserved(c) || isSubDelim(c) || c == ':' || c == '@' || c == '%'
}

func isUnreserved(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// isSubDelim excludes "(", ")" and "," so that imports can sit inside
// parentheses and lists without a separating space.
func isSubDelim(c byte) bool {
	return strings.IndexByte("!$&'*+;=", c) >= 0
}
