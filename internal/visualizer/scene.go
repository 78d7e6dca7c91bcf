package visualizer

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

// Motion tuning for the scene.
const (
	// reactiveRotationBoost scales the rotation rate up with overall energy
	// so the scene spins slightly faster on loud passages.
	reactiveRotationBoost = 0.5

	// reactiveScaleRange is how far overall energy pushes the uniform scale
	// above 1.0.
	reactiveScaleRange = 0.3

	// Ambient particle layer motion.
	ambientBaseRotation = 0.0005
	ambientMidRotation  = 0.002
	ambientBaseOpacity  = 0.3
)

// Scene owns the mutable visual state: the active preset, the current
// (deformed) vertex buffer, rotation, scale, and color, plus the ambient
// particle layer that floats behind every preset.
//
// The current vertex buffer is always rederived from the preset's immutable
// base geometry plus the frame's displacement - never accumulated - so the
// mesh cannot drift or degenerate over long play sessions.
type Scene struct {
	mu sync.Mutex

	preset  *Preset
	current []mgl32.Vec3

	rotation mgl32.Vec3 // monotonically advancing, radians
	scale    float32
	color    domain.HSL

	// Ambient particle layer, independent of the active preset.
	ambient         []mgl32.Vec3
	ambientRotation float32
	ambientOpacity  float32
}

// NewScene creates a scene with the given preset installed and the current
// buffer reset to the preset's base geometry.
func NewScene(preset *Preset) *Scene {
	s := &Scene{
		scale:          1.0,
		ambient:        generateParticles(particleCount, particleSpread*2),
		ambientOpacity: ambientBaseOpacity,
	}
	s.Install(preset)
	return s
}

// Install replaces the active preset. The current vertex buffer is reset to
// the new base geometry and the color to the new base color before the next
// frame renders, so the swap is atomic from the loop's perspective.
func (s *Scene) Install(preset *Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.preset = preset
	s.current = make([]mgl32.Vec3, len(preset.baseVertices))
	copy(s.current, preset.baseVertices)
	s.color = preset.BaseColor()
}

// Update applies one reactive frame: radial displacement from the base
// geometry, bass-driven color, and energy-scaled rotation and scale.
func (s *Scene) Update(f domain.FeatureSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.preset.baseVertices
	if len(s.current) != len(base) {
		// Preset swapped between computing and applying; resync.
		s.current = make([]mgl32.Vec3, len(base))
	}

	for i, v := range base {
		if v.Len() == 0 {
			// A vertex at the origin has no direction to displace along.
			s.current[i] = v
			continue
		}
		s.current[i] = v.Add(v.Normalize().Mul(float32(f.Displacement)))
	}

	s.color = domain.HSL{
		H: s.preset.Hue(f.BassEnergy),
		S: s.preset.Saturation,
		L: s.preset.Lightness,
	}

	rate := s.preset.RotationRate * float32(1+f.OverallEnergy*reactiveRotationBoost)
	s.advanceRotation(rate)

	s.scale = float32(1 + f.OverallEnergy*reactiveScaleRange)

	s.ambientOpacity = float32(ambientBaseOpacity + f.BassEnergy*(1-ambientBaseOpacity))
	s.ambientRotation += float32(ambientBaseRotation + f.MidEnergy*ambientMidRotation)
}

// UpdateIdle applies one idle frame: rotation keeps advancing at the preset's
// base rate, while positions and color stay frozen at their last computed
// values (or the base geometry if nothing was ever computed). Paused playback
// therefore freezes the last reactive frame.
func (s *Scene) UpdateIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advanceRotation(s.preset.RotationRate)

	// The ambient layer keeps drifting even in silence.
	s.ambientRotation += float32(ambientBaseRotation)
}

// advanceRotation increments the rotation angles. Caller must hold the lock.
// The y axis carries the main spin; x turns at a slower rate for a tumbling look.
func (s *Scene) advanceRotation(rate float32) {
	s.rotation[0] += rate * 0.4
	s.rotation[1] += rate
}

// Rotation returns the accumulated rotation angles.
func (s *Scene) Rotation() mgl32.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation
}

// Color returns the current material color.
func (s *Scene) Color() domain.HSL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// CurrentVertices returns a copy of the current (deformed) vertex buffer.
func (s *Scene) CurrentVertices() []mgl32.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]mgl32.Vec3, len(s.current))
	copy(out, s.current)
	return out
}

// Frame flattens the scene into the render payload for the backend.
// The particle layer is omitted when disabled in settings.
func (s *Scene) Frame(particlesEnabled bool) ports.RenderFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := ports.RenderFrame{
		Kind:      s.preset.Kind,
		Positions: flatten(s.current),
		Color:     s.color,
		Rotation:  [3]float32{s.rotation[0], s.rotation[1], s.rotation[2]},
		Scale:     s.scale,
	}

	if particlesEnabled {
		frame.ParticlePositions = flatten(s.ambient)
		frame.ParticleOpacity = s.ambientOpacity
		frame.ParticleRotation = s.ambientRotation
	}

	return frame
}

// flatten packs vectors into a flat (x,y,z) float buffer.
func flatten(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
