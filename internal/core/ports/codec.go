// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/pkgset/internal/core/domain"

// DocumentCodec parses configuration files into documents and renders them back.
//
//go:generate mockgen -source=codec.go -destination=mocks/mock_codec.go -package=mocks
type DocumentCodec interface {
	// Parse reads the expression in src. The path is recorded on the document
	// and used in error messages.
	Parse(path string, src []byte) (*domain.Document, error)

	// Render serializes a document. Parts of the tree that were not rewritten
	// are reproduced byte for byte.
	Render(doc *domain.Document) ([]byte, error)
}
