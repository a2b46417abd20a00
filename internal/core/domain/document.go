package domain

// Node is an element of a document's expression tree.
type Node interface {
	node()
}

// Text is a span of source that contains no imports. It is rendered verbatim.
type Text struct {
	Source string
}

// ImportNode is an import expression.
// Source holds the original bytes of the import; it is empty once the import
// has been rewritten, in which case the import is rendered from Import.String.
// Comments holds comments found between the import's clauses. They are part
// of Source and follow the import when it is rendered from Import.String.
type ImportNode struct {
	Import   Import
	Source   string
	Comments string
}

// Group is a bracketed sub-expression such as (...), [...] or {...}.
// The root group of a document has empty delimiters.
type Group struct {
	Open     string
	Close    string
	Children []Node
}

func (*Text) node()       {}
func (*ImportNode) node() {}
func (*Group) node()      {}

// Document is a parsed configuration file.
// Documents are never mutated in place; transformations return a new Document.
type Document struct {
	Path   string
	Header string
	Root   *Group
}

// Walk visits every node of the tree in pre-order, left to right.
// Returning false from fn stops descent into the current node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if g, ok := n.(*Group); ok {
		for _, c := range g.Children {
			Walk(c, fn)
		}
	}
}

// Imports returns every import in the document in pre-order, left to right.
func (d *Document) Imports() []Import {
	var out []Import
	if d == nil {
		return out
	}
	Walk(d.Root, func(n Node) bool {
		if in, ok := n.(*ImportNode); ok {
			out = append(out, in.Import)
		}
		return true
	})
	return out
}

// MapImports returns a copy of the document with f applied to every import.
// Imports that f returns unchanged keep their original source bytes.
func (d *Document) MapImports(f func(Import) Import) *Document {
	out, _ := d.MapImportsErr(func(i Import) (Import, error) {
		return f(i), nil
	})
	return out
}

// MapImportsErr is MapImports for transformations that can fail.
// The first error aborts the traversal.
func (d *Document) MapImportsErr(f func(Import) (Import, error)) (*Document, error) {
	root, err := mapGroup(d.Root, f)
	if err != nil {
		return nil, err
	}
	return &Document{
		Path:   d.Path,
		Header: d.Header,
		Root:   root,
	}, nil
}

func mapGroup(g *Group, f func(Import) (Import, error)) (*Group, error) {
	if g == nil {
		return &Group{}, nil
	}
	out := &Group{
		Open:     g.Open,
		Close:    g.Close,
		Children: make([]Node, 0, len(g.Children)),
	}
	for _, child := range g.Children {
		switch n := child.(type) {
		case *Group:
			mapped, err := mapGroup(n, f)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, mapped)
		case *ImportNode:
			imp, err := f(n.Import)
			if err != nil {
				return nil, err
			}
			src := n.Source
			if !imp.Equal(n.Import) {
				src = ""
			}
			out.Children = append(out.Children, &ImportNode{Import: imp.clone(), Source: src, Comments: n.Comments})
		case *Text:
			out.Children = append(out.Children, &Text{Source: n.Source})
		}
	}
	return out, nil
}
