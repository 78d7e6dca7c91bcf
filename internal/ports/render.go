// Package ports define the rendering backend interface.
// The visualizer core computes geometry and color; the backend turns them into pixels.
package ports

import (
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// RenderFrame is the per-tick payload handed to the rendering backend: a flat
// position buffer (length = 3 * vertex count), one color, and the scalar
// transform parameters. The backend must not retain the buffers past the call.
type RenderFrame struct {
	// Kind identifies the active preset so the backend can pick a draw style
	// (wireframe shell, bars, points).
	Kind domain.PresetKind

	// Positions is the flat vertex buffer, (x,y,z) triples.
	Positions []float32

	// Color is the material color for the primary geometry.
	Color domain.HSL

	// Rotation holds the accumulated rotation angles in radians (x, y, z).
	Rotation [3]float32

	// Scale is the uniform scale factor applied to the primary geometry.
	Scale float32

	// ParticlePositions is the ambient particle layer buffer (empty when the
	// layer is disabled).
	ParticlePositions []float32

	// ParticleOpacity is the particle layer alpha in [0,1].
	ParticleOpacity float32

	// ParticleRotation is the particle layer rotation angle in radians.
	ParticleRotation float32
}

// FrameRenderer is the interface for the rendering backend.
// Draw is invoked exactly once per tick by the render loop driver and must
// not block on anything outside the frame.
//
// Thread-safety: Draw and SetViewport are called from the driver's tick
// context; implementations that render asynchronously must copy the frame.
type FrameRenderer interface {
	// Draw paints a single frame.
	Draw(frame RenderFrame)

	// SetViewport informs the backend of a new viewport size in device pixels.
	// A viewport change recomputes backend projection parameters only; it
	// never changes scene geometry.
	SetViewport(width, height int)
}
