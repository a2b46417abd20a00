package freezer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgset/internal/adapters/config"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgset/internal/adapters/dhall"               //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgset/internal/adapters/fs"                  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgset/internal/adapters/logger"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgset/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
)

// NodeID is the unique identifier for the freezer Graft node.
const NodeID graft.ID = "engine.freezer"

func init() {
	graft.Register(graft.Node[*Freezer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.NodeID,
			dhall.CodecNodeID,
			dhall.HasherNodeID,
			progrock.NodeID,
			logger.NodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*Freezer, error) {
			fileSystem, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			codec, err := graft.Dep[ports.DocumentCodec](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.ImportHasher](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			return New(fileSystem, codec, hasher, telemetry, log, settings.RegistryTarget()), nil
		},
	})
}
