package dhall

import (
	"bytes"

	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/zerr"
)

// parser splits Dhall source into opaque text, bracketed groups and imports.
// It recognises just enough of the grammar to find every import without
// mistaking the contents of comments or text literals for one.
type parser struct {
	path string
	src  []byte
	pos  int
	text bytes.Buffer
	// opEnd is the offset just past the last operator consumed.
	opEnd int
}

// slashOperators are the operators that start with '/', longest first.
var slashOperators = []string{`//\\`, `//`, `/\`}

func parse(path string, src []byte) (*domain.Document, error) {
	p := &parser{path: path, src: src}

	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	header := string(src[:p.pos])

	children, err := p.parseSeq(0, -1)
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		Path:   path,
		Header: header,
		Root:   &domain.Group{Children: children},
	}, nil
}

// skipTrivia consumes leading whitespace and comments.
func (p *parser) skipTrivia() error {
	for p.pos < len(p.src) {
		switch {
		case isSpace(p.peek(0)):
			p.pos++
		case p.hasPrefix("--"):
			p.skipLineComment()
		case p.hasPrefix("{-"):
			if err := p.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// parseSeq parses nodes until the closing delimiter (or EOF when closer is 0).
// openPos is the offset of the opening delimiter, used for error reporting.
func (p *parser) parseSeq(closer byte, openPos int) ([]domain.Node, error) {
	var nodes []domain.Node

	flush := func() {
		if p.text.Len() > 0 {
			nodes = append(nodes, &domain.Text{Source: p.text.String()})
			p.text.Reset()
		}
	}

	for p.pos < len(p.src) {
		c := p.peek(0)

		switch {
		case c == closer && closer != 0:
			flush()
			return nodes, nil

		case p.hasPrefix("--"):
			start := p.pos
			p.skipLineComment()
			p.text.Write(p.src[start:p.pos])

		case p.hasPrefix("{-"):
			start := p.pos
			if err := p.skipBlockComment(); err != nil {
				return nil, err
			}
			p.text.Write(p.src[start:p.pos])

		case c == '"':
			if err := p.parseDoubleQuoted(&nodes, flush); err != nil {
				return nil, err
			}

		case p.hasPrefix("''"):
			if err := p.parseSingleQuoted(&nodes, flush); err != nil {
				return nil, err
			}

		case c == '`':
			start := p.pos
			end := bytes.IndexByte(p.src[p.pos+1:], '`')
			if end < 0 {
				return nil, p.errorAt(start, "unterminated quoted label")
			}
			p.pos += end + 2
			p.text.Write(p.src[start:p.pos])

		case c == '(' || c == '[' || c == '{':
			flush()
			g, err := p.parseGroup(string(c), closerFor(c))
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, g)

		case c == ')' || c == ']' || c == '}':
			return nil, p.errorAt(p.pos, "unexpected "+string(c))

		default:
			imp, ok, err := p.tryImport()
			if err != nil {
				return nil, err
			}
			if ok {
				flush()
				nodes = append(nodes, imp)
				continue
			}
			p.consumeToken()
		}
	}

	if closer != 0 {
		return nil, p.errorAt(openPos, "unterminated "+string(p.src[openPos]))
	}
	flush()
	return nodes, nil
}

func (p *parser) parseGroup(open string, closer byte) (*domain.Group, error) {
	openPos := p.pos
	p.pos += len(open)

	// Groups are parsed with a fresh text buffer so that text on either side
	// of the group does not leak into it.
	outer := p.text
	p.text = bytes.Buffer{}
	children, err := p.parseSeq(closer, openPos)
	p.text = outer
	if err != nil {
		return nil, err
	}
	p.pos++

	return &domain.Group{
		Open:     open,
		Close:    string(closer),
		Children: children,
	}, nil
}

func (p *parser) parseDoubleQuoted(nodes *[]domain.Node, flush func()) error {
	start := p.pos
	p.text.WriteByte('"')
	p.pos++

	for p.pos < len(p.src) {
		switch {
		case p.peek(0) == '\\' && p.pos+1 < len(p.src):
			p.text.Write(p.src[p.pos : p.pos+2])
			p.pos += 2
		case p.peek(0) == '"':
			p.text.WriteByte('"')
			p.pos++
			return nil
		case p.hasPrefix("${"):
			if err := p.parseInterpolation(nodes, flush); err != nil {
				return err
			}
		default:
			p.text.WriteByte(p.peek(0))
			p.pos++
		}
	}
	return p.errorAt(start, "unterminated text literal")
}

func (p *parser) parseSingleQuoted(nodes *[]domain.Node, flush func()) error {
	start := p.pos
	p.text.WriteString("''")
	p.pos += 2

	for p.pos < len(p.src) {
		switch {
		case p.hasPrefix("'''"):
			p.text.WriteString("'''")
			p.pos += 3
		case p.hasPrefix("''${"):
			p.text.WriteString("''${")
			p.pos += 4
		case p.hasPrefix("''"):
			p.text.WriteString("''")
			p.pos += 2
			return nil
		case p.hasPrefix("${"):
			if err := p.parseInterpolation(nodes, flush); err != nil {
				return err
			}
		default:
			p.text.WriteByte(p.peek(0))
			p.pos++
		}
	}
	return p.errorAt(start, "unterminated multi-line text literal")
}

func (p *parser) parseInterpolation(nodes *[]domain.Node, flush func()) error {
	flush()
	g, err := p.parseGroup("${", '}')
	if err != nil {
		return err
	}
	*nodes = append(*nodes, g)
	return nil
}

// consumeToken moves a label, an operator or a single byte into the text buffer.
func (p *parser) consumeToken() {
	start := p.pos
	switch {
	case isLabelStart(p.peek(0)):
		p.scanLabel()
	case p.operatorLen() > 0:
		p.pos += p.operatorLen()
		p.opEnd = p.pos
	default:
		p.pos++
	}
	p.text.Write(p.src[start:p.pos])
}

// scanLabel consumes a label. A '/' that starts an operator ends it, so that
// "x//y" is the label x followed by the // operator.
func (p *parser) scanLabel() {
	for p.pos < len(p.src) && isLabelChar(p.peek(0)) {
		if p.peek(0) == '/' && p.operatorLen() > 0 {
			return
		}
		p.pos++
	}
}

// operatorLen returns the length of the slash operator starting here, or 0.
func (p *parser) operatorLen() int {
	for _, op := range slashOperators {
		if p.hasPrefix(op) {
			return len(op)
		}
	}
	return 0
}

func (p *parser) skipLineComment() {
	end := bytes.IndexByte(p.src[p.pos:], '\n')
	if end < 0 {
		p.pos = len(p.src)
		return
	}
	p.pos += end + 1
}

func (p *parser) skipBlockComment() error {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch {
		case p.hasPrefix("{-"):
			depth++
			p.pos += 2
		case p.hasPrefix("-}"):
			depth--
			p.pos += 2
			if depth == 0 {
				return nil
			}
		default:
			p.pos++
		}
	}
	return p.errorAt(start, "unterminated block comment")
}

func (p *parser) peek(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) prev() byte {
	if p.pos == 0 {
		return 0
	}
	return p.src[p.pos-1]
}

func (p *parser) hasPrefix(s string) bool {
	return bytes.HasPrefix(p.src[p.pos:], []byte(s))
}

// errorAt builds a parse error carrying the 1-based line and column of off.
func (p *parser) errorAt(off int, msg string) error {
	return p.failAt(domain.ErrParse, off, msg)
}

func (p *parser) failAt(base error, off int, msg string) error {
	line := 1 + bytes.Count(p.src[:off], []byte("\n"))
	col := off + 1
	if nl := bytes.LastIndexByte(p.src[:off], '\n'); nl >= 0 {
		col = off - nl
	}

	err := zerr.Wrap(base, msg)
	err = zerr.With(err, "file", p.path)
	err = zerr.With(err, "line", line)
	return zerr.With(err, "column", col)
}

func closerFor(c byte) byte {
	switch c {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLabelStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isLabelChar(c byte) bool {
	return isLabelStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '/'
}

// atBoundary reports whether an import may start at the current position.
func (p *parser) atBoundary() bool {
	if p.pos > 0 && p.pos == p.opEnd {
		return true
	}
	c := p.prev()
	return c == 0 || !(isLabelChar(c) || c == '.' || c == '\\' || c == '"' || c == '`')
}
