package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pkgset/internal/adapters/config"              //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgset/internal/adapters/dhall"               //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgset/internal/adapters/fs"                  //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgset/internal/adapters/logger"              //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgset/internal/adapters/purs"                //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgset/internal/adapters/registry"            //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgset/internal/adapters/shell"               //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgset/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/pkgset/internal/engine/freezer"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			registry.NodeID,
			fs.NodeID,
			dhall.CodecNodeID,
			freezer.NodeID,
			purs.NodeID,
			shell.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log, telemetry), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[*domain.Settings](ctx)
	if err != nil {
		return nil, err
	}

	client, err := graft.Dep[ports.RegistryClient](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	codec, err := graft.Dep[ports.DocumentCodec](ctx)
	if err != nil {
		return nil, err
	}

	frz, err := graft.Dep[*freezer.Freezer](ctx)
	if err != nil {
		return nil, err
	}

	compiler, err := graft.Dep[ports.Compiler](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
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

	return New(settings, client, fileSystem, codec, frz, compiler, executor, telemetry, log), nil
}
