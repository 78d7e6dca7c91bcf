package fyneui

import (
	"io"
	"log/slog"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/audio/mock"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/eventbus"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/repository/memory"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/service"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/visualizer"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// windowFixture wires a main window the way the application container does,
// with a mock engine underneath.
type windowFixture struct {
	window *MainWindow
	widget *SceneWidget
	driver *visualizer.Driver
	engine *mock.Engine
}

func newWindowFixture(t *testing.T) *windowFixture {
	t.Helper()

	app := test.NewApp()
	logger := testLogger()

	bus := eventbus.NewSyncEventBus()
	engine := mock.NewEngine()

	transport := service.NewTransportService(logger, engine, bus)
	repo := memory.NewSettingsRepository(app.Preferences())
	settings := service.NewSettingsService(logger, repo, bus)

	source := visualizer.NewSpectrumSource(logger, engine, bus, 44100, transport.CurrentHandle)
	registry := visualizer.NewRegistry(domain.PresetSphere)
	scene := visualizer.NewScene(registry.Active())
	widget := NewSceneWidget()

	driver := visualizer.NewDriver(
		logger, bus, source, registry, scene, widget,
		transport.Snapshot, settings.Settings,
	)

	window := NewMainWindow(
		app, logger, bus, transport, settings,
		driver, source, widget, engine.GetMetadata, "Test",
	)

	t.Cleanup(func() {
		window.Close()
		_ = transport.Shutdown()
		_ = bus.Close()
	})

	return &windowFixture{
		window: window,
		widget: widget,
		driver: driver,
		engine: engine,
	}
}

func TestMainWindow_SceneWidgetIsDriverRenderTarget(t *testing.T) {
	f := newWindowFixture(t)

	// The widget in the window content must be the driver's render target,
	// not a second widget that never receives frames.
	assert.Same(t, f.widget, f.window.Scene())
}

func TestMainWindow_TickDeliversFrameToScene(t *testing.T) {
	f := newWindowFixture(t)

	require.Empty(t, f.window.Scene().Frame().Positions)

	f.driver.Tick()

	frame := f.window.Scene().Frame()
	assert.NotEmpty(t, frame.Positions)
	assert.Equal(t, domain.PresetSphere, frame.Kind)
}

func TestMainWindow_FramesAdvanceAcrossTicks(t *testing.T) {
	f := newWindowFixture(t)

	f.driver.Tick()
	first := f.window.Scene().Frame()

	f.driver.Tick()
	second := f.window.Scene().Frame()

	assert.Greater(t, second.Rotation[1], first.Rotation[1])
}
