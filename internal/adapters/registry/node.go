package registry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgset/internal/adapters/cas"
	"go.trai.ch/pkgset/internal/adapters/config"
	"go.trai.ch/pkgset/internal/adapters/logger"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
)

// NodeID is the unique identifier for the registry client Graft node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.RegistryClient]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, cas.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.RegistryClient, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			cache, err := graft.Dep[ports.ReleaseCache](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			opts := []Option{
				WithCache(cache, settings.Cache.TTL),
				WithLogger(log),
			}
			if env := settings.Registry.TokenEnv; env != "" {
				if token := os.Getenv(env); token != "" {
					opts = append(opts, WithToken(token))
				}
			}

			reg := settings.RegistryTarget()
			return NewClient(settings.Registry.API, reg.RepoRef, opts...), nil
		},
	})
}
