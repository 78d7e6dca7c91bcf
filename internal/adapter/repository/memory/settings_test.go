package memory

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// Helper to create a test settings repository
func newTestSettingsRepository() *SettingsRepository {
	app := test.NewApp()
	return NewSettingsRepository(app.Preferences())
}

func TestSettingsRepository_SensitivityRoundTrip(t *testing.T) {
	repo := newTestSettingsRepository()

	err := repo.SaveSensitivity(72)
	require.NoError(t, err)

	sensitivity, err := repo.LoadSensitivity()
	require.NoError(t, err)
	assert.Equal(t, 72, sensitivity)
}

func TestSettingsRepository_LoadSensitivity_Default(t *testing.T) {
	repo := newTestSettingsRepository()

	sensitivity, err := repo.LoadSensitivity()
	require.NoError(t, err)
	assert.Equal(t, 50, sensitivity)
}

func TestSettingsRepository_SaveSensitivity_Clamps(t *testing.T) {
	repo := newTestSettingsRepository()

	require.NoError(t, repo.SaveSensitivity(400))
	sensitivity, err := repo.LoadSensitivity()
	require.NoError(t, err)
	assert.Equal(t, 100, sensitivity)

	require.NoError(t, repo.SaveSensitivity(-10))
	sensitivity, err = repo.LoadSensitivity()
	require.NoError(t, err)
	assert.Equal(t, 0, sensitivity)
}

func TestSettingsRepository_ParticlesRoundTrip(t *testing.T) {
	repo := newTestSettingsRepository()

	// Default is enabled
	enabled, err := repo.LoadParticlesEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, repo.SaveParticlesEnabled(false))
	enabled, err = repo.LoadParticlesEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSettingsRepository_PresetRoundTrip(t *testing.T) {
	repo := newTestSettingsRepository()

	// Default is the sphere
	kind, err := repo.LoadPreset()
	require.NoError(t, err)
	assert.Equal(t, domain.PresetSphere, kind)

	require.NoError(t, repo.SavePreset(domain.PresetBars))
	kind, err = repo.LoadPreset()
	require.NoError(t, err)
	assert.Equal(t, domain.PresetBars, kind)
}

func TestSettingsRepository_LoadPreset_UnknownValueFallsBack(t *testing.T) {
	app := test.NewApp()
	app.Preferences().SetString("settings.preset", "nonsense")
	repo := NewSettingsRepository(app.Preferences())

	kind, err := repo.LoadPreset()
	require.NoError(t, err)
	assert.Equal(t, domain.PresetSphere, kind)
}

func TestSettingsRepository_VolumeRoundTrip(t *testing.T) {
	repo := newTestSettingsRepository()

	volume, err := repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.8, volume)

	require.NoError(t, repo.SaveVolume(0.35))
	volume, err = repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.35, volume)
}

func TestSettingsRepository_Clear(t *testing.T) {
	repo := newTestSettingsRepository()

	require.NoError(t, repo.SaveSensitivity(90))
	require.NoError(t, repo.SaveParticlesEnabled(false))
	require.NoError(t, repo.SavePreset(domain.PresetParticles))
	require.NoError(t, repo.SaveVolume(0.1))

	require.NoError(t, repo.Clear())

	sensitivity, _ := repo.LoadSensitivity()
	assert.Equal(t, 50, sensitivity)

	enabled, _ := repo.LoadParticlesEnabled()
	assert.True(t, enabled)

	kind, _ := repo.LoadPreset()
	assert.Equal(t, domain.PresetSphere, kind)

	volume, _ := repo.LoadVolume()
	assert.Equal(t, 0.8, volume)
}
