package ports

import (
	"context"

	"go.trai.ch/pkgset/internal/core/domain"
)

// ImportHasher computes the semantic integrity hash of an import's content.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type ImportHasher interface {
	// Hash fetches the content the import refers to and returns its hash.
	// Any hash already present on the import is ignored.
	Hash(ctx context.Context, imp domain.Import) (domain.Hash, error)
}
