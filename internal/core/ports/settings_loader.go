package ports

import "go.trai.ch/pkgset/internal/core/domain"

// SettingsLoader loads the project settings.
//
//go:generate mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Load reads the settings for the project rooted at dir.
	// A missing settings file yields the defaults.
	Load(dir string) (*domain.Settings, error)
}
