package ports

import "context"

// RegistryClient looks up releases of the upstream package set.
//
//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type RegistryClient interface {
	// LatestTag returns the tag of the most recent release.
	LatestTag(ctx context.Context) (string, error)
}
