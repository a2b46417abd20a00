package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgset/internal/adapters/config"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
)

// NodeID is the unique identifier for the release cache Graft node.
const NodeID graft.ID = "adapter.release_cache"

func init() {
	graft.Register(graft.Node[ports.ReleaseCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.ReleaseCache, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			path, err := DefaultPath(settings)
			if err != nil {
				return nil, err
			}
			return NewStore(path)
		},
	})
}
