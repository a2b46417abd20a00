package ports

import "go.trai.ch/pkgset/internal/core/domain"

// ReleaseCache remembers registry lookups between runs.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ReleaseCache interface {
	// Get retrieves the entry stored under key.
	// Returns nil, nil if not found.
	Get(key string) (*domain.ReleaseInfo, error)

	// Put stores the entry under its key.
	Put(info domain.ReleaseInfo) error
}
