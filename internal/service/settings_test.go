package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/eventbus"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// mockSettingsRepository is an in-memory settings store for testing.
type mockSettingsRepository struct {
	mu          sync.RWMutex
	sensitivity int
	particles   bool
	preset      domain.PresetKind
	volume      float64
	saveErr     error
}

func newMockSettingsRepository() *mockSettingsRepository {
	return &mockSettingsRepository{
		sensitivity: 50,
		particles:   true,
		preset:      domain.PresetSphere,
		volume:      0.8,
	}
}

func (m *mockSettingsRepository) SaveSensitivity(sensitivity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sensitivity = sensitivity
	return nil
}

func (m *mockSettingsRepository) LoadSensitivity() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sensitivity, nil
}

func (m *mockSettingsRepository) SaveParticlesEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.particles = enabled
	return nil
}

func (m *mockSettingsRepository) LoadParticlesEnabled() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.particles, nil
}

func (m *mockSettingsRepository) SavePreset(kind domain.PresetKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.preset = kind
	return nil
}

func (m *mockSettingsRepository) LoadPreset() (domain.PresetKind, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preset, nil
}

func (m *mockSettingsRepository) SaveVolume(volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.volume = volume
	return nil
}

func (m *mockSettingsRepository) LoadVolume() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume, nil
}

func (m *mockSettingsRepository) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sensitivity = 50
	m.particles = true
	m.preset = domain.PresetSphere
	m.volume = 0.8
	return nil
}

// newTestSettings creates a settings service over the in-memory repository.
func newTestSettings(t *testing.T) (*SettingsService, *mockSettingsRepository, *eventbus.SyncEventBus) {
	t.Helper()

	repo := newMockSettingsRepository()
	bus := eventbus.NewSyncEventBus()
	t.Cleanup(func() {
		_ = bus.Close()
	})

	return NewSettingsService(testLogger(), repo, bus), repo, bus
}

func TestSettingsService_Defaults(t *testing.T) {
	settings, _, _ := newTestSettings(t)

	cfg := settings.Settings()
	assert.Equal(t, 50, cfg.Sensitivity)
	assert.True(t, cfg.ParticlesEnabled)
}

func TestSettingsService_RestoresPersistedValues(t *testing.T) {
	repo := newMockSettingsRepository()
	repo.sensitivity = 85
	repo.particles = false
	bus := eventbus.NewSyncEventBus()
	defer bus.Close()

	settings := NewSettingsService(testLogger(), repo, bus)

	cfg := settings.Settings()
	assert.Equal(t, 85, cfg.Sensitivity)
	assert.False(t, cfg.ParticlesEnabled)
}

func TestSettingsService_SetSensitivity(t *testing.T) {
	settings, repo, bus := newTestSettings(t)

	var changed eventRecorder
	bus.Subscribe(domain.EventSensitivityChanged, changed.handle)

	require.NoError(t, settings.SetSensitivity(80))

	assert.Equal(t, 80, settings.Settings().Sensitivity)
	assert.Equal(t, 80, repo.sensitivity)
	assert.Equal(t, 1, changed.count())
}

func TestSettingsService_SetSensitivity_Clamps(t *testing.T) {
	settings, _, _ := newTestSettings(t)

	require.NoError(t, settings.SetSensitivity(250))
	assert.Equal(t, 100, settings.Settings().Sensitivity)

	require.NoError(t, settings.SetSensitivity(-5))
	assert.Equal(t, 0, settings.Settings().Sensitivity)
}

func TestSettingsService_SetSensitivity_NoOpOnSameValue(t *testing.T) {
	settings, _, bus := newTestSettings(t)

	var changed eventRecorder
	bus.Subscribe(domain.EventSensitivityChanged, changed.handle)

	require.NoError(t, settings.SetSensitivity(50))

	assert.Zero(t, changed.count())
}

func TestSettingsService_SetSensitivity_PersistFailureIsNonFatal(t *testing.T) {
	settings, repo, bus := newTestSettings(t)
	repo.saveErr = assert.AnError

	var changed eventRecorder
	bus.Subscribe(domain.EventSensitivityChanged, changed.handle)

	// The in-memory value and the event still go through.
	require.NoError(t, settings.SetSensitivity(70))
	assert.Equal(t, 70, settings.Settings().Sensitivity)
	assert.Equal(t, 1, changed.count())
}

func TestSettingsService_SetParticlesEnabled(t *testing.T) {
	settings, repo, bus := newTestSettings(t)

	var toggled eventRecorder
	bus.Subscribe(domain.EventParticlesToggled, toggled.handle)

	require.NoError(t, settings.SetParticlesEnabled(false))

	assert.False(t, settings.Settings().ParticlesEnabled)
	assert.False(t, repo.particles)
	assert.Equal(t, 1, toggled.count())

	// Same value again publishes nothing.
	require.NoError(t, settings.SetParticlesEnabled(false))
	assert.Equal(t, 1, toggled.count())
}

func TestSettingsService_PresetRoundTrip(t *testing.T) {
	settings, _, _ := newTestSettings(t)

	settings.SavePreset(domain.PresetParticles)

	assert.Equal(t, domain.PresetParticles, settings.LoadPreset())
}
