package visualizer

import (
	"log/slog"
	"sync"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

// SnapshotFunc returns the transport's current state. Called once per tick.
type SnapshotFunc func() domain.TransportSnapshot

// SettingsFunc returns the current visual settings. Called once per tick.
type SettingsFunc func() domain.VisualSettings

// Driver is the render loop driver: the single continuously-scheduled
// update+draw cycle. The host's frame callback (display refresh) invokes Tick
// once per frame; the driver performs exactly one scene update and one draw
// per invocation and never blocks waiting on audio.
//
// Two logical modes are re-evaluated every tick from the transport snapshot:
//
//   - Idle: no playing stream. The scene gets an idle update and the spectrum
//     source is not polled.
//   - Reactive: a stream is playing. The spectrum source is polled; if it
//     yields data the feature extractor and reactive scene update run, and if
//     it unexpectedly yields none (a race with the transport stopping
//     mid-frame) the driver falls back to a single idle update instead of
//     failing.
type Driver struct {
	logger   *slog.Logger
	bus      ports.EventBus
	source   *SpectrumSource
	registry *Registry
	scene    *Scene
	renderer ports.FrameRenderer
	snapshot SnapshotFunc
	settings SettingsFunc

	// mu serializes preset swaps against ticks so a swap is atomic from the
	// loop's perspective.
	mu sync.Mutex
}

// NewDriver wires the visualization pipeline together.
func NewDriver(
	logger *slog.Logger,
	bus ports.EventBus,
	source *SpectrumSource,
	registry *Registry,
	scene *Scene,
	renderer ports.FrameRenderer,
	snapshot SnapshotFunc,
	settings SettingsFunc,
) *Driver {
	return &Driver{
		logger:   logger,
		bus:      bus,
		source:   source,
		registry: registry,
		scene:    scene,
		renderer: renderer,
		snapshot: snapshot,
		settings: settings,
	}
}

// Tick runs one frame of the pipeline: decide the mode, update the scene,
// hand the result to the rendering backend.
func (d *Driver) Tick() {
	d.mu.Lock()

	snap := d.snapshot()
	cfg := d.settings()

	if snap.IsPlaying && snap.HasTrack {
		if frame, ok := d.source.Poll(); ok {
			d.scene.Update(Extract(frame, cfg.Sensitivity))
		} else {
			// Transport stopped between snapshot and poll; idle for this
			// frame only.
			d.scene.UpdateIdle()
		}
	} else {
		d.scene.UpdateIdle()
	}

	frame := d.scene.Frame(cfg.ParticlesEnabled)

	d.mu.Unlock()

	d.renderer.Draw(frame)
}

// SelectPreset hot-swaps the visual preset without restarting the loop.
// Selecting the active kind is a no-op. The swap happens between ticks:
// the old preset's buffers are disposed and the scene is reset to the new
// base geometry before the next frame renders.
func (d *Driver) SelectPreset(kind domain.PresetKind) {
	d.mu.Lock()

	preset, changed := d.registry.Select(kind)
	if changed {
		d.scene.Install(preset)
	}

	d.mu.Unlock()

	if changed {
		d.logger.Debug("preset changed", slog.String("preset", kind.String()))
		d.bus.Publish(domain.NewPresetChangedEvent(preset.Kind))
	}
}

// ActivePreset returns the kind currently installed.
func (d *Driver) ActivePreset() domain.PresetKind {
	return d.registry.Active().Kind
}

// Resize forwards a viewport change to the rendering backend. Scene state is
// untouched; only backend projection parameters depend on the viewport.
// The Fyne widget backend reports its own size through its layout Resize,
// so this path is for hosts that manage the viewport externally.
func (d *Driver) Resize(width, height int) {
	d.renderer.SetViewport(width, height)
}
