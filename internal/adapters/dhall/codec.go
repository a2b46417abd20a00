// Package dhall reads and writes Dhall configuration files and computes
// import hashes with the dhall binary.
package dhall

import (
	"bytes"

	"go.trai.ch/pkgset/internal/core/domain"
)

// Codec implements ports.DocumentCodec for Dhall source.
type Codec struct{}

// NewCodec creates a new Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Parse splits src into a header and an expression tree.
func (c *Codec) Parse(path string, src []byte) (*domain.Document, error) {
	return parse(path, src)
}

// Render serializes the document. Untouched nodes are emitted verbatim and the
// output always ends in a single newline.
func (c *Codec) Render(doc *domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(doc.Header)
	renderNode(&buf, doc.Root)

	out := bytes.TrimRight(buf.Bytes(), " \t\r\n")
	return append(out, '\n'), nil
}

func renderNode(buf *bytes.Buffer, n domain.Node) {
	switch n := n.(type) {
	case *domain.Text:
		buf.WriteString(n.Source)
	case *domain.ImportNode:
		if n.Source != "" {
			buf.WriteString(n.Source)
			return
		}
		buf.WriteString(n.Import.String())
		if n.Comments != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Comments)
		}
	case *domain.Group:
		if n == nil {
			return
		}
		buf.WriteString(n.Open)
		for _, c := range n.Children {
			renderNode(buf, c)
		}
		buf.WriteString(n.Close)
	}
}
