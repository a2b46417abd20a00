package dhall

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgset/internal/adapters/config"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
)

const (
	// CodecNodeID is the unique identifier for the Dhall codec Graft node.
	CodecNodeID graft.ID = "adapter.dhall.codec"
	// HasherNodeID is the unique identifier for the Dhall hasher Graft node.
	HasherNodeID graft.ID = "adapter.dhall.hasher"
)

func init() {
	graft.Register(graft.Node[ports.DocumentCodec]{
		ID:        CodecNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DocumentCodec, error) {
			return NewCodec(), nil
		},
	})

	graft.Register(graft.Node[ports.ImportHasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.ImportHasher, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewHasher(settings.Tools.Dhall), nil
		},
	})
}
