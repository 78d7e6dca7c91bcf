package visualizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

func TestNewRegistry_InstallsInitialPreset(t *testing.T) {
	registry := NewRegistry(domain.PresetBars)

	active := registry.Active()
	require.NotNil(t, active)
	assert.Equal(t, domain.PresetBars, active.Kind)
	assert.Equal(t, barCount, active.VertexCount())
}

func TestRegistry_Select_Idempotent(t *testing.T) {
	registry := NewRegistry(domain.PresetSphere)
	original := registry.Active()

	preset, changed := registry.Select(domain.PresetSphere)

	assert.False(t, changed)
	assert.Same(t, original, preset)
	// The geometry must survive a redundant select untouched.
	assert.Equal(t, original.VertexCount(), preset.VertexCount())
}

func TestRegistry_Select_DisposesPrevious(t *testing.T) {
	registry := NewRegistry(domain.PresetSphere)
	old := registry.Active()

	preset, changed := registry.Select(domain.PresetParticles)

	assert.True(t, changed)
	assert.Equal(t, domain.PresetParticles, preset.Kind)
	assert.True(t, old.disposed)
	assert.Zero(t, old.VertexCount())
}

func TestRegistry_Select_InvalidKindFallsBack(t *testing.T) {
	registry := NewRegistry(domain.PresetBars)

	preset, changed := registry.Select(domain.PresetKind(99))

	assert.True(t, changed)
	assert.Equal(t, domain.PresetSphere, preset.Kind)
}

func TestNewPreset_GeometryDeterministic(t *testing.T) {
	for _, info := range Kinds() {
		first := newPreset(info.Kind)
		second := newPreset(info.Kind)

		assert.Equal(t, first.BaseVertices(), second.BaseVertices(),
			"geometry for %s must be reproducible", info.Kind)
	}
}

func TestPreset_Hue_ClampsAndInterpolates(t *testing.T) {
	preset := newPreset(domain.PresetSphere)

	assert.InDelta(t, preset.HueLow, preset.Hue(-1), 1e-9)
	assert.InDelta(t, preset.HueHigh, preset.Hue(2), 1e-9)

	mid := preset.Hue(0.5)
	assert.InDelta(t, (preset.HueLow+preset.HueHigh)/2, mid, 1e-9)
}

func TestPreset_Hue_MonotonicInBass(t *testing.T) {
	preset := newPreset(domain.PresetSphere) // hue descends from blue to red

	prev := preset.Hue(0)
	for i := 1; i <= 10; i++ {
		cur := preset.Hue(float64(i) / 10)
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestGenerateSphere_VertexCount(t *testing.T) {
	vertices := generateSphere(sphereRings, sphereSegments, sphereRadius)

	// rings*segments plus the two poles
	assert.Len(t, vertices, sphereRings*sphereSegments+2)

	// Every vertex sits on the shell.
	for _, v := range vertices {
		assert.InDelta(t, sphereRadius, float64(v.Len()), 1e-3)
	}
}

func TestGenerateBars_RowLayout(t *testing.T) {
	vertices := generateBars()

	require.Len(t, vertices, barCount)
	for _, v := range vertices {
		assert.Equal(t, float32(1), v.Y())
		assert.Equal(t, float32(0), v.Z())
	}

	// Centered on the origin.
	assert.InDelta(t, float64(-vertices[0].X()), float64(vertices[barCount-1].X()), 1e-5)
}

func TestKinds_CoversAllPresets(t *testing.T) {
	kinds := Kinds()

	require.Len(t, kinds, 3)
	seen := make(map[domain.PresetKind]bool)
	for _, info := range kinds {
		assert.True(t, info.Kind.Valid())
		assert.NotEmpty(t, info.Name)
		seen[info.Kind] = true
	}
	assert.Len(t, seen, 3)
}
