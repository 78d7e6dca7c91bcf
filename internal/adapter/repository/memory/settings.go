// Package memory provides repository implementations backed by Fyne preferences.
package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

// Preference keys.
const (
	keySensitivity = "settings.sensitivity"
	keyParticles   = "settings.particles"
	keyPreset      = "settings.preset"
	keyVolume      = "settings.volume"
)

// Defaults returned when nothing has been saved yet.
const (
	defaultSensitivity = 50
	defaultVolume      = 0.8
)

// SettingsRepository implements ports.SettingsRepository using Fyne preferences.
// This provides a thin wrapper around Fyne's preferences system.
//
// Thread-safe: All operations protected by sync.RWMutex.
type SettingsRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewSettingsRepository creates a new settings repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewSettingsRepository(prefs fyne.Preferences) *SettingsRepository {
	return &SettingsRepository{
		prefs: prefs,
	}
}

// SaveSensitivity persists the sensitivity slider value.
func (r *SettingsRepository) SaveSensitivity(sensitivity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetInt(keySensitivity, domain.ClampSensitivity(sensitivity))
	return nil
}

// LoadSensitivity retrieves the saved sensitivity.
func (r *SettingsRepository) LoadSensitivity() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sensitivity := r.prefs.IntWithFallback(keySensitivity, defaultSensitivity)
	return domain.ClampSensitivity(sensitivity), nil
}

// SaveParticlesEnabled persists the particle layer toggle.
func (r *SettingsRepository) SaveParticlesEnabled(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetBool(keyParticles, enabled)
	return nil
}

// LoadParticlesEnabled retrieves the saved particle toggle.
func (r *SettingsRepository) LoadParticlesEnabled() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enabled := r.prefs.BoolWithFallback(keyParticles, true)
	return enabled, nil
}

// SavePreset persists the selected visual preset.
func (r *SettingsRepository) SavePreset(kind domain.PresetKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyPreset, kind.String())
	return nil
}

// LoadPreset retrieves the saved preset.
func (r *SettingsRepository) LoadPreset() (domain.PresetKind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind := r.prefs.StringWithFallback(keyPreset, domain.PresetSphere.String())
	return domain.ParsePresetKind(kind), nil
}

// SaveVolume persists the volume level.
func (r *SettingsRepository) SaveVolume(volume float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetFloat(keyVolume, volume)
	return nil
}

// LoadVolume retrieves the saved volume level.
func (r *SettingsRepository) LoadVolume() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	volume := r.prefs.FloatWithFallback(keyVolume, defaultVolume)
	return volume, nil
}

// Clear removes all saved settings.
func (r *SettingsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keySensitivity)
	r.prefs.RemoveValue(keyParticles)
	r.prefs.RemoveValue(keyPreset)
	r.prefs.RemoveValue(keyVolume)
	return nil
}

// Verify that SettingsRepository implements the SettingsRepository interface
var _ ports.SettingsRepository = (*SettingsRepository)(nil)
