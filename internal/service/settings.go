// Package service provides business logic for the visualizer application.
package service

import (
	"log/slog"
	"sync"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

// SettingsService owns the process-wide visual settings: the sensitivity
// slider and the particle layer toggle. The feature extractor and the render
// loop read these through Settings(); nothing else mutates them.
//
// Out-of-range sensitivity values are clamped, never rejected.
type SettingsService struct {
	logger *slog.Logger
	repo   ports.SettingsRepository
	bus    ports.EventBus

	mu       sync.RWMutex
	settings domain.VisualSettings
}

// NewSettingsService creates a settings service, restoring persisted values.
func NewSettingsService(
	logger *slog.Logger,
	repo ports.SettingsRepository,
	bus ports.EventBus,
) *SettingsService {
	s := &SettingsService{
		logger: logger,
		repo:   repo,
		bus:    bus,
		settings: domain.VisualSettings{
			Sensitivity:      50,
			ParticlesEnabled: true,
		},
	}

	if sensitivity, err := repo.LoadSensitivity(); err == nil {
		s.settings.Sensitivity = domain.ClampSensitivity(sensitivity)
	}
	if particles, err := repo.LoadParticlesEnabled(); err == nil {
		s.settings.ParticlesEnabled = particles
	}

	return s
}

// Settings returns the current visual settings.
func (s *SettingsService) Settings() domain.VisualSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// SetSensitivity updates and persists the sensitivity slider value.
func (s *SettingsService) SetSensitivity(sensitivity int) error {
	clamped := domain.ClampSensitivity(sensitivity)

	s.mu.Lock()
	if s.settings.Sensitivity == clamped {
		s.mu.Unlock()
		return nil
	}
	s.settings.Sensitivity = clamped
	s.mu.Unlock()

	if err := s.repo.SaveSensitivity(clamped); err != nil {
		s.logger.Warn("failed to persist sensitivity", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewSensitivityChangedEvent(clamped))

	return nil
}

// SetParticlesEnabled updates and persists the particle layer toggle.
func (s *SettingsService) SetParticlesEnabled(enabled bool) error {
	s.mu.Lock()
	if s.settings.ParticlesEnabled == enabled {
		s.mu.Unlock()
		return nil
	}
	s.settings.ParticlesEnabled = enabled
	s.mu.Unlock()

	if err := s.repo.SaveParticlesEnabled(enabled); err != nil {
		s.logger.Warn("failed to persist particle toggle", slog.Any("error", err))
	}

	s.bus.Publish(domain.NewParticlesToggledEvent(enabled))

	return nil
}

// SavePreset persists the selected preset so it survives restarts.
func (s *SettingsService) SavePreset(kind domain.PresetKind) {
	if err := s.repo.SavePreset(kind); err != nil {
		s.logger.Warn("failed to persist preset", slog.Any("error", err))
	}
}

// LoadPreset returns the persisted preset selection.
func (s *SettingsService) LoadPreset() domain.PresetKind {
	kind, err := s.repo.LoadPreset()
	if err != nil {
		return domain.PresetSphere
	}
	return kind
}
