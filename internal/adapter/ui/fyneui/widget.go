// Package fyneui provides the Fyne user interface: the scene widget that
// rasterizes render frames and the main window shell.
package fyneui

import (
	"image"
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

// Projection constants for the software rasterizer.
const (
	cameraDistance = 30.0
	focalLength    = 420.0

	// pointRadiusDiv scales vertex dot size with viewport width.
	pointRadiusDiv = 320
)

// SceneWidget is a Fyne widget that rasterizes the visualizer's render
// frames: it implements ports.FrameRenderer, keeping a copy of the latest
// frame and painting it with a simple rotate-project-draw pipeline.
//
// Draw may be called from the tick goroutine; the raster callback runs on
// the Fyne render thread, so the frame copy is guarded by a mutex.
type SceneWidget struct {
	widget.BaseWidget

	raster *canvas.Raster

	mu    sync.RWMutex
	frame ports.RenderFrame

	// Viewport-dependent parameters, recomputed on Resize only.
	pointRadius float64
}

// NewSceneWidget creates the scene widget.
func NewSceneWidget() *SceneWidget {
	w := &SceneWidget{
		pointRadius: 2,
	}
	w.raster = canvas.NewRaster(w.render)
	w.ExtendBaseWidget(w)
	return w
}

// CreateRenderer implements fyne.Widget.
func (w *SceneWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

// MinSize returns the minimum size of the widget.
func (w *SceneWidget) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Draw stores the frame and schedules a repaint. Implements ports.FrameRenderer.
func (w *SceneWidget) Draw(frame ports.RenderFrame) {
	w.mu.Lock()
	w.frame = frame
	w.mu.Unlock()

	fyne.Do(w.raster.Refresh)
}

// Frame returns the most recently drawn frame.
func (w *SceneWidget) Frame() ports.RenderFrame {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame
}

// SetViewport recomputes viewport-dependent parameters. Implements
// ports.FrameRenderer. Scene geometry is untouched; only raster parameters
// change.
func (w *SceneWidget) SetViewport(width, height int) {
	w.mu.Lock()
	w.pointRadius = math.Max(1, float64(width)/pointRadiusDiv)
	w.mu.Unlock()
}

// Resize propagates the Fyne layout size to the viewport parameters.
func (w *SceneWidget) Resize(size fyne.Size) {
	w.BaseWidget.Resize(size)
	w.SetViewport(int(size.Width), int(size.Height))
}

// render rasterizes the latest frame.
func (w *SceneWidget) render(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Near-black background with a slight blue tint
	fillBackground(img, color.RGBA{R: 6, G: 8, B: 14, A: 255})

	if width == 0 || height == 0 {
		return img
	}

	w.mu.RLock()
	frame := w.frame
	radius := w.pointRadius
	w.mu.RUnlock()

	if len(frame.ParticlePositions) > 0 {
		w.drawParticles(img, frame, width, height)
	}

	if len(frame.Positions) == 0 {
		return img
	}

	col := hslColor(frame.Color.H, frame.Color.S, frame.Color.L, 255)

	switch frame.Kind {
	case domain.PresetBars:
		w.drawBars(img, frame, col, width, height)
	case domain.PresetSphere, domain.PresetParticles:
		w.drawPoints(img, frame.Positions, frame.Rotation, frame.Scale, col, radius, width, height)
	default:
		w.drawPoints(img, frame.Positions, frame.Rotation, frame.Scale, col, radius, width, height)
	}

	return img
}

// drawPoints projects and paints each vertex as a dot.
func (w *SceneWidget) drawPoints(
	img *image.RGBA,
	positions []float32,
	rotation [3]float32,
	scale float32,
	col color.RGBA,
	radius float64,
	width, height int,
) {
	for i := 0; i+2 < len(positions); i += 3 {
		x, y, visible := project(
			float64(positions[i])*float64(scale),
			float64(positions[i+1])*float64(scale),
			float64(positions[i+2])*float64(scale),
			rotation, width, height,
		)
		if !visible {
			continue
		}
		drawFilledCircle(img, x, y, radius, col)
	}
}

// drawBars paints the equalizer preset as vertical bars rising from the
// baseline; the vertex height carries the displacement.
func (w *SceneWidget) drawBars(img *image.RGBA, frame ports.RenderFrame, col color.RGBA, width, height int) {
	count := len(frame.Positions) / 3
	if count == 0 {
		return
	}

	barWidth := width / count
	if barWidth < 1 {
		barWidth = 1
	}
	baseline := height * 3 / 4

	for i := 0; i < count; i++ {
		h := float64(frame.Positions[i*3+1]) * float64(frame.Scale)
		barHeight := int(h / (1 + sphereWorldHeight) * float64(height) / 2)
		if barHeight < 1 {
			barHeight = 1
		}
		if barHeight > baseline {
			barHeight = baseline
		}

		x0 := i * barWidth
		for x := x0; x < x0+barWidth-1 && x < width; x++ {
			for y := baseline - barHeight; y < baseline; y++ {
				if y >= 0 && y < height {
					img.Set(x, y, col)
				}
			}
		}
	}
}

// sphereWorldHeight approximates the tallest displaced bar in world units,
// used to normalize bar heights to the viewport.
const sphereWorldHeight = 40.0

// drawParticles paints the ambient particle layer behind the main geometry.
func (w *SceneWidget) drawParticles(img *image.RGBA, frame ports.RenderFrame, width, height int) {
	alpha := uint8(float64(frame.ParticleOpacity) * 255)
	if alpha == 0 {
		return
	}
	col := color.RGBA{R: 180, G: 190, B: 220, A: alpha}
	rotation := [3]float32{0, frame.ParticleRotation, 0}

	for i := 0; i+2 < len(frame.ParticlePositions); i += 3 {
		x, y, visible := project(
			float64(frame.ParticlePositions[i]),
			float64(frame.ParticlePositions[i+1]),
			float64(frame.ParticlePositions[i+2]),
			rotation, width, height,
		)
		if !visible {
			continue
		}
		if x >= 0 && x < width && y >= 0 && y < height {
			img.Set(x, y, col)
		}
	}
}

// project rotates a world-space point and projects it to screen coordinates
// with a simple pinhole camera on the +z axis.
func project(x, y, z float64, rotation [3]float32, width, height int) (int, int, bool) {
	// Rotate around x, then y.
	rx := float64(rotation[0])
	ry := float64(rotation[1])

	cy, sy := math.Cos(ry), math.Sin(ry)
	x, z = x*cy+z*sy, -x*sy+z*cy

	cx, sx := math.Cos(rx), math.Sin(rx)
	y, z = y*cx-z*sx, y*sx+z*cx

	depth := cameraDistance - z
	if depth <= 1 {
		return 0, 0, false
	}

	px := int(x*focalLength/depth) + width/2
	py := int(-y*focalLength/depth) + height/2

	if px < 0 || px >= width || py < 0 || py >= height {
		return 0, 0, false
	}
	return px, py, true
}

// fillBackground fills the image with a solid color.
func fillBackground(img *image.RGBA, col color.Color) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, col)
		}
	}
}

// drawFilledCircle draws a filled circle.
func drawFilledCircle(img *image.RGBA, cx, cy int, radius float64, col color.RGBA) {
	bounds := img.Bounds()
	r := int(radius)

	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px, py := cx+dx, cy+dy
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					img.Set(px, py, col)
				}
			}
		}
	}
}

// Verify that SceneWidget implements the FrameRenderer interface
var _ ports.FrameRenderer = (*SceneWidget)(nil)
