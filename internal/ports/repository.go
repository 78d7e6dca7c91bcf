// Package ports define repository interfaces for data persistence abstraction.
package ports

import (
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// SettingsRepository handles the persistence of user-adjustable settings:
// visualizer sensitivity, the particle layer toggle, the selected preset,
// and playback volume.
//
// Thread-safety: Implementations must be thread-safe.
type SettingsRepository interface {
	// SaveSensitivity persists the sensitivity slider value (0-100).
	SaveSensitivity(sensitivity int) error

	// LoadSensitivity retrieves the saved sensitivity.
	// If nothing was saved, returns 50 as default.
	LoadSensitivity() (int, error)

	// SaveParticlesEnabled persists the particle layer toggle.
	SaveParticlesEnabled(enabled bool) error

	// LoadParticlesEnabled retrieves the saved particle toggle.
	// If nothing was saved, returns true as default.
	LoadParticlesEnabled() (bool, error)

	// SavePreset persists the selected visual preset.
	SavePreset(kind domain.PresetKind) error

	// LoadPreset retrieves the saved preset.
	// If nothing was saved, returns the sphere preset as default.
	LoadPreset() (domain.PresetKind, error)

	// SaveVolume persists the volume level (0.0 to 1.0).
	SaveVolume(volume float64) error

	// LoadVolume retrieves the saved volume level.
	// If nothing was saved, returns 0.8 as default.
	LoadVolume() (float64, error)

	// Clear removes all saved settings.
	Clear() error
}
