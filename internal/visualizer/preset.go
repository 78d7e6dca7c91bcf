package visualizer

import (
	"math"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// Geometry dimensions for the procedural presets.
const (
	sphereRings    = 16
	sphereSegments = 24
	sphereRadius   = 8.0

	barCount   = 64
	barSpacing = 0.5

	particleCount  = 600
	particleSpread = 40.0

	// particleSeed keeps particle generation deterministic so selecting the
	// same preset twice produces identical geometry.
	particleSeed = 42
)

// Preset holds the immutable description of a visual preset: its base
// (undeformed) geometry, color mapping, and motion parameters.
//
// BaseVertices is a snapshot taken at generation time. It is never mutated in
// place; every frame derives a fresh position buffer from it.
type Preset struct {
	Kind domain.PresetKind

	// baseVertices is the undeformed geometry. Owned by the preset; callers
	// must treat it as read-only.
	baseVertices []mgl32.Vec3

	// Hue range for the bass-driven color map. HueLow is the hue at zero bass,
	// HueHigh the hue at full bass. Saturation and lightness are fixed.
	HueLow     float64
	HueHigh    float64
	Saturation float64
	Lightness  float64

	// RotationRate is the idle per-frame rotation increment in radians.
	RotationRate float32

	disposed bool
}

// BaseVertices returns the undeformed geometry. The returned slice is shared;
// callers must not modify it.
func (p *Preset) BaseVertices() []mgl32.Vec3 {
	return p.baseVertices
}

// VertexCount returns the number of vertices in the base geometry.
func (p *Preset) VertexCount() int {
	return len(p.baseVertices)
}

// BaseColor returns the preset color at zero bass energy.
func (p *Preset) BaseColor() domain.HSL {
	return domain.HSL{H: p.HueLow, S: p.Saturation, L: p.Lightness}
}

// Hue maps bass energy in [0,1] onto the preset's hue range.
// The map is linear, continuous, and monotonic in bass energy.
func (p *Preset) Hue(bass float64) float64 {
	if bass < 0 {
		bass = 0
	}
	if bass > 1 {
		bass = 1
	}
	return p.HueLow + (p.HueHigh-p.HueLow)*bass
}

// dispose releases the preset's geometry buffer. A disposed preset must not
// be rendered again.
func (p *Preset) dispose() {
	p.baseVertices = nil
	p.disposed = true
}

// newPreset generates the base geometry and parameters for a kind.
// Unknown kinds fall back to the sphere preset.
func newPreset(kind domain.PresetKind) *Preset {
	switch kind {
	case domain.PresetBars:
		return &Preset{
			Kind:         domain.PresetBars,
			baseVertices: generateBars(),
			HueLow:       0.33, // green at rest
			HueHigh:      0.0,  // red at full bass
			Saturation:   0.9,
			Lightness:    0.5,
			RotationRate: 0.002,
		}
	case domain.PresetParticles:
		return &Preset{
			Kind:         domain.PresetParticles,
			baseVertices: generateParticles(particleCount, particleSpread),
			HueLow:       0.75, // violet at rest
			HueHigh:      0.15, // amber at full bass
			Saturation:   0.8,
			Lightness:    0.6,
			RotationRate: 0.001,
		}
	case domain.PresetSphere:
		fallthrough
	default:
		return &Preset{
			Kind:         domain.PresetSphere,
			baseVertices: generateSphere(sphereRings, sphereSegments, sphereRadius),
			HueLow:       0.66, // blue at rest
			HueHigh:      0.0,  // red at full bass
			Saturation:   1.0,
			Lightness:    0.5,
			RotationRate: 0.004,
		}
	}
}

// generateSphere builds a latitude/longitude shell of vertices around the origin.
func generateSphere(rings, segments int, radius float64) []mgl32.Vec3 {
	vertices := make([]mgl32.Vec3, 0, rings*segments+2)

	vertices = append(vertices, mgl32.Vec3{0, float32(radius), 0})

	for ring := 1; ring <= rings; ring++ {
		phi := math.Pi * float64(ring) / float64(rings+1)
		y := radius * math.Cos(phi)
		r := radius * math.Sin(phi)

		for seg := 0; seg < segments; seg++ {
			theta := 2 * math.Pi * float64(seg) / float64(segments)
			vertices = append(vertices, mgl32.Vec3{
				float32(r * math.Cos(theta)),
				float32(y),
				float32(r * math.Sin(theta)),
			})
		}
	}

	vertices = append(vertices, mgl32.Vec3{0, float32(-radius), 0})

	return vertices
}

// generateBars builds a row of equalizer bar anchors along the x axis,
// centered on the origin.
func generateBars() []mgl32.Vec3 {
	vertices := make([]mgl32.Vec3, barCount)
	offset := float32(barCount-1) * barSpacing / 2

	for i := range vertices {
		vertices[i] = mgl32.Vec3{float32(i)*barSpacing - offset, 1, 0}
	}

	return vertices
}

// generateParticles scatters points in a cube around the origin using a fixed
// seed, so regeneration is deterministic.
// nolint:gosec // G404 - weak random is fine for visual effects
func generateParticles(count int, spread float64) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(particleSeed))
	vertices := make([]mgl32.Vec3, count)

	for i := range vertices {
		vertices[i] = mgl32.Vec3{
			float32((rng.Float64() - 0.5) * spread),
			float32((rng.Float64() - 0.5) * spread),
			float32((rng.Float64() - 0.5) * spread),
		}
	}

	return vertices
}

// KindInfo pairs a preset kind with its display name for selector UIs.
type KindInfo struct {
	Kind domain.PresetKind
	Name string
}

// Kinds returns all available presets with their display names.
func Kinds() []KindInfo {
	return []KindInfo{
		{domain.PresetSphere, "Geometric Mesh"},
		{domain.PresetBars, "Equalizer Bars"},
		{domain.PresetParticles, "Particle Field"},
	}
}

// Registry owns the active preset and handles hot-swapping at runtime.
// Selecting the already-active kind is a no-op; selecting a new kind disposes
// the previous preset's buffers before generating the new geometry, so stale
// positions are never paired with new topology.
//
// Thread-safety: all operations are protected by a mutex. Selection happens
// between ticks, never mid-frame.
type Registry struct {
	mu     sync.Mutex
	active *Preset
}

// NewRegistry creates a registry with the given preset installed.
func NewRegistry(initial domain.PresetKind) *Registry {
	return &Registry{
		active: newPreset(initial),
	}
}

// Active returns the currently installed preset.
func (r *Registry) Active() *Preset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Select installs the preset for kind and returns it. The changed result is
// false when kind is already active, in which case the existing preset is
// returned untouched (idempotent).
func (r *Registry) Select(kind domain.PresetKind) (preset *Preset, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !kind.Valid() {
		kind = domain.PresetSphere
	}

	if r.active != nil && r.active.Kind == kind {
		return r.active, false
	}

	if r.active != nil {
		r.active.dispose()
	}

	r.active = newPreset(kind)
	return r.active, true
}
