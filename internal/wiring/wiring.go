// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pkgset/internal/adapters/cas"
	_ "go.trai.ch/pkgset/internal/adapters/config"
	_ "go.trai.ch/pkgset/internal/adapters/dhall"
	_ "go.trai.ch/pkgset/internal/adapters/fs"
	_ "go.trai.ch/pkgset/internal/adapters/logger"
	_ "go.trai.ch/pkgset/internal/adapters/purs"
	_ "go.trai.ch/pkgset/internal/adapters/registry"
	_ "go.trai.ch/pkgset/internal/adapters/shell"
	_ "go.trai.ch/pkgset/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/pkgset/internal/app"
	_ "go.trai.ch/pkgset/internal/engine/freezer"
)
