package fyneui

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/service"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/visualizer"
)

// Window dimensions and the target frame interval (~30fps).
const (
	windowWidth   = 960
	windowHeight  = 680
	frameInterval = 33 * time.Millisecond
)

// MetadataFunc reads track metadata for a file path before it is queued.
type MetadataFunc func(filePath string) (*domain.MusicTrack, error)

// MainWindow is the application shell: the scene widget in the center,
// transport controls along the bottom, and the visual settings row above
// them. It owns the frame ticker that drives the render loop.
//
// The window never touches playback or scene state directly; user input is
// forwarded to the services, and display updates arrive as bus events.
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	logger *slog.Logger
	bus    ports.EventBus

	transport *service.TransportService
	settings  *service.SettingsService
	driver    *visualizer.Driver
	source    *visualizer.SpectrumSource
	metadata  MetadataFunc

	// UI components
	scene             *SceneWidget
	prevButton        *widget.Button
	playButton        *widget.Button
	stopButton        *widget.Button
	nextButton        *widget.Button
	muteButton        *widget.Button
	songInfo          *widget.Label
	currentTime       *widget.Label
	endTime           *widget.Label
	progressSlider    *widget.Slider
	volumeSlider      *widget.Slider
	sensitivitySlider *widget.Slider
	presetSelect      *widget.Select
	particlesCheck    *widget.Check

	// dragging mirrors the transport's seek-drag guard on the UI side;
	// syncing suppresses OnChanged feedback loops when sliders are set
	// programmatically. Both are only touched on the Fyne main thread.
	dragging bool
	syncing  bool

	trackDuration time.Duration

	subscriptions []domain.SubscriptionID
	stopTick      chan struct{}
	tickWg        sync.WaitGroup
	closeOnce     sync.Once
}

// NewMainWindow creates the application shell and wires it to the services.
// The scene widget is injected rather than created here: it is the driver's
// render target, and the window's job is only to lay it out on screen.
func NewMainWindow(
	app fyneapp.App,
	logger *slog.Logger,
	bus ports.EventBus,
	transport *service.TransportService,
	settings *service.SettingsService,
	driver *visualizer.Driver,
	source *visualizer.SpectrumSource,
	scene *SceneWidget,
	metadata MetadataFunc,
	appName string,
) *MainWindow {
	w := &MainWindow{
		app:       app,
		logger:    logger,
		bus:       bus,
		transport: transport,
		settings:  settings,
		driver:    driver,
		source:    source,
		scene:     scene,
		metadata:  metadata,
		stopTick:  make(chan struct{}),
	}

	w.window = app.NewWindow(appName)
	w.buildUI()
	w.wireHandlers()
	w.subscribeEvents()
	w.applyInitialState()

	w.window.Resize(fyneapp.Size{Width: windowWidth, Height: windowHeight})
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
	w.window.SetCloseIntercept(func() {
		w.Close()
	})

	return w
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	// Transport buttons
	w.prevButton = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), nil)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.stopButton = widget.NewButtonWithIcon("", theme.MediaStopIcon(), nil)
	w.nextButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), nil)
	w.muteButton = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), nil)

	// Song info label
	w.songInfo = widget.NewLabel("No track loaded")
	w.songInfo.Truncation = fyneapp.TextTruncateClip
	w.songInfo.TextStyle = fyneapp.TextStyle{Bold: true}

	// Volume slider
	w.volumeSlider = widget.NewSlider(0, 100)
	w.volumeSlider.Orientation = widget.Horizontal

	buttonsHBox := container.NewHBox(
		w.prevButton, w.playButton, w.stopButton,
		w.nextButton, w.muteButton,
	)
	buttonsHolder := container.NewBorder(nil, nil, buttonsHBox, w.volumeSlider, w.songInfo)

	// Progress slider
	w.progressSlider = widget.NewSlider(0, 100)
	w.currentTime = widget.NewLabel("00:00")
	w.endTime = widget.NewLabel("00:00")
	sliderHolder := container.NewBorder(nil, nil, w.currentTime, w.endTime, w.progressSlider)

	// Visual settings row
	w.presetSelect = widget.NewSelect(presetNames(), nil)
	w.sensitivitySlider = widget.NewSlider(0, 100)
	w.particlesCheck = widget.NewCheck("Particles", nil)
	visualHolder := container.NewBorder(
		nil, nil,
		w.presetSelect,
		w.particlesCheck,
		container.NewBorder(nil, nil, widget.NewLabel("Sensitivity"), nil, w.sensitivitySlider),
	)

	controls := container.NewVBox(visualHolder, sliderHolder, buttonsHolder)
	w.window.SetContent(container.NewBorder(nil, controls, nil, nil, w.scene))
}

// wireHandlers connects UI events to the services.
func (w *MainWindow) wireHandlers() {
	w.playButton.OnTapped = func() {
		if err := w.transport.TogglePlay(); err != nil {
			w.logger.Debug("toggle play ignored", slog.Any("reason", err))
		}
	}

	w.stopButton.OnTapped = func() {
		if err := w.transport.Stop(); err != nil {
			w.logger.Warn("stop failed", slog.Any("error", err))
		}
	}

	w.nextButton.OnTapped = func() {
		if err := w.transport.Next(); err != nil {
			w.logger.Debug("next ignored", slog.Any("reason", err))
		}
	}

	w.prevButton.OnTapped = func() {
		if err := w.transport.Previous(); err != nil {
			w.logger.Debug("previous ignored", slog.Any("reason", err))
		}
	}

	w.muteButton.OnTapped = func() {
		if err := w.transport.Mute(!w.transport.IsMuted()); err != nil {
			w.logger.Warn("mute failed", slog.Any("error", err))
		}
	}

	w.volumeSlider.OnChanged = func(value float64) {
		if w.syncing {
			return
		}
		if err := w.transport.SetVolume(value / 100.0); err != nil {
			w.logger.Warn("volume change failed", slog.Any("error", err))
		}
	}

	// Seeking: the first OnChanged of a drag raises the transport's
	// seek-drag guard so progress events stop fighting the thumb.
	// OnChangeEnded drops the guard and performs the actual seek.
	w.progressSlider.OnChanged = func(value float64) {
		if w.syncing {
			return
		}
		if !w.dragging {
			w.dragging = true
			w.transport.BeginSeek()
		}
		w.currentTime.SetText(formatDuration(time.Duration(value * float64(time.Second))))
	}

	w.progressSlider.OnChangeEnded = func(value float64) {
		if w.syncing || !w.dragging {
			return
		}
		w.dragging = false
		if err := w.transport.EndSeek(time.Duration(value * float64(time.Second))); err != nil {
			w.logger.Warn("seek failed", slog.Any("error", err))
		}
	}

	w.sensitivitySlider.OnChanged = func(value float64) {
		if w.syncing {
			return
		}
		if err := w.settings.SetSensitivity(int(value)); err != nil {
			w.logger.Warn("sensitivity change failed", slog.Any("error", err))
		}
	}

	w.particlesCheck.OnChanged = func(enabled bool) {
		if w.syncing {
			return
		}
		if err := w.settings.SetParticlesEnabled(enabled); err != nil {
			w.logger.Warn("particle toggle failed", slog.Any("error", err))
		}
	}

	w.presetSelect.OnChanged = func(name string) {
		if w.syncing {
			return
		}
		for _, info := range visualizer.Kinds() {
			if info.Name == name {
				w.driver.SelectPreset(info.Kind)
				w.settings.SavePreset(info.Kind)
				return
			}
		}
	}
}

// subscribeEvents registers bus handlers that keep the display in sync.
// Events may arrive from any goroutine, so UI mutations go through fyne.Do.
func (w *MainWindow) subscribeEvents() {
	w.subscribe(domain.EventTrackLoaded, func(event domain.Event) {
		e, ok := event.(domain.TrackLoadedEvent)
		if !ok {
			return
		}
		fyneapp.Do(func() {
			w.trackDuration = e.Duration
			w.songInfo.SetText(trackTitle(e.Track))
			w.progressSlider.Max = e.Duration.Seconds()
			w.endTime.SetText(formatDuration(e.Duration))
			w.setProgress(0)
		})
	})

	w.subscribe(domain.EventTrackStarted, func(event domain.Event) {
		fyneapp.Do(func() {
			w.playButton.SetIcon(theme.MediaPauseIcon())
		})
	})

	w.subscribe(domain.EventTrackPaused, func(event domain.Event) {
		fyneapp.Do(func() {
			w.playButton.SetIcon(theme.MediaPlayIcon())
		})
	})

	w.subscribe(domain.EventTrackStopped, func(event domain.Event) {
		fyneapp.Do(func() {
			w.playButton.SetIcon(theme.MediaPlayIcon())
		})
	})

	w.subscribe(domain.EventTrackProgress, func(event domain.Event) {
		e, ok := event.(domain.TrackProgressEvent)
		if !ok {
			return
		}
		fyneapp.Do(func() {
			// The thumb belongs to the user while dragging.
			if w.dragging {
				return
			}
			w.setProgress(e.Position)
		})
	})

	w.subscribe(domain.EventVolumeChanged, func(event domain.Event) {
		e, ok := event.(domain.VolumeChangedEvent)
		if !ok {
			return
		}
		fyneapp.Do(func() {
			w.withSync(func() {
				w.volumeSlider.SetValue(e.Volume * 100.0)
			})
		})
	})

	w.subscribe(domain.EventMuteToggled, func(event domain.Event) {
		e, ok := event.(domain.MuteToggledEvent)
		if !ok {
			return
		}
		fyneapp.Do(func() {
			if e.Muted {
				w.muteButton.SetIcon(theme.VolumeMuteIcon())
			} else {
				w.muteButton.SetIcon(theme.VolumeUpIcon())
			}
		})
	})

	w.subscribe(domain.EventTrackError, func(event domain.Event) {
		e, ok := event.(domain.TrackErrorEvent)
		if !ok {
			return
		}
		w.ShowNotification("Playback error", fmt.Sprintf("%s: %v", trackTitle(e.Track), e.Error))
	})

	w.subscribe(domain.EventSpectrumUnavailable, func(event domain.Event) {
		w.ShowNotification("Visualizer", "Audio analysis unavailable; running in idle mode")
	})

	w.subscribe(domain.EventPresetChanged, func(event domain.Event) {
		e, ok := event.(domain.PresetChangedEvent)
		if !ok {
			return
		}
		fyneapp.Do(func() {
			w.withSync(func() {
				w.presetSelect.SetSelected(presetName(e.Kind))
			})
		})
	})
}

// subscribe registers a handler and remembers the subscription for cleanup.
func (w *MainWindow) subscribe(eventType domain.EventType, handler domain.EventHandler) {
	id := w.bus.Subscribe(eventType, handler)
	w.subscriptions = append(w.subscriptions, id)
}

// applyInitialState seeds the controls from persisted settings and the
// transport defaults.
func (w *MainWindow) applyInitialState() {
	w.withSync(func() {
		w.volumeSlider.Value = w.transport.GetVolume() * 100.0

		cfg := w.settings.Settings()
		w.sensitivitySlider.Value = float64(cfg.Sensitivity)
		w.particlesCheck.Checked = cfg.ParticlesEnabled

		w.presetSelect.Selected = presetName(w.driver.ActivePreset())
	})
}

// withSync runs fn with the programmatic-update guard raised.
func (w *MainWindow) withSync(fn func()) {
	w.syncing = true
	fn()
	w.syncing = false
}

// setProgress moves the progress slider and time label without triggering
// the seek handlers.
func (w *MainWindow) setProgress(position time.Duration) {
	w.withSync(func() {
		w.progressSlider.SetValue(position.Seconds())
	})
	w.currentTime.SetText(formatDuration(position))
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	openFile := fyneapp.NewMenuItem("Open", func() {
		w.handleOpenFile()
	})

	exitMenu := fyneapp.NewMenuItem("Exit", func() {
		w.Close()
	})

	fileMenu := fyneapp.NewMenu("File", openFile, fyneapp.NewMenuItemSeparator(), exitMenu)
	return []*fyneapp.Menu{fileMenu}
}

// handleOpenFile opens the file dialog and queues the chosen track.
func (w *MainWindow) handleOpenFile() {
	NewFileDialog(w.window, func(filePath string) {
		w.openPath(filePath)
	}, w.logger).Show()
}

// openPath queues a file for immediate playback. Activation is retried here
// so a transient device failure at startup does not permanently disable
// playback.
func (w *MainWindow) openPath(filePath string) {
	if !w.source.Ready() {
		if err := w.source.Activate(); err != nil {
			w.ShowNotification("Playback error", fmt.Sprintf("Audio device unavailable: %v", err))
			return
		}
	}

	track, err := w.metadata(filePath)
	if err != nil {
		w.ShowNotification("Playback error", fmt.Sprintf("Cannot read %s: %v", filePath, err))
		return
	}

	if err := w.transport.AddTrack(*track, true); err != nil {
		w.logger.Warn("failed to queue track", slog.Any("error", err))
	}
}

// startRenderLoop runs the frame ticker that drives the visualization
// pipeline. Each tick performs one scene update and one draw; the scene
// widget marshals the repaint onto the Fyne render thread itself.
func (w *MainWindow) startRenderLoop() {
	w.tickWg.Add(1)
	go func() {
		defer w.tickWg.Done()
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stopTick:
				return

			case <-ticker.C:
				w.driver.Tick()
			}
		}
	}()
}

// ShowAndRun shows the window, starts the render loop, and blocks until the
// application exits.
func (w *MainWindow) ShowAndRun() {
	w.startRenderLoop()
	w.window.ShowAndRun()
}

// Close stops the render loop and closes the window. Safe to call multiple
// times.
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		close(w.stopTick)
		w.tickWg.Wait()

		for _, id := range w.subscriptions {
			w.bus.Unsubscribe(id)
		}

		w.window.Close()
	})
}

// Scene returns the scene widget shown in the window (for testing).
func (w *MainWindow) Scene() *SceneWidget {
	return w.scene
}

// ShowNotification displays a system notification.
func (w *MainWindow) ShowNotification(title, message string) {
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

// trackTitle formats "Artist - Title" for the info label.
func trackTitle(track domain.MusicTrack) string {
	if track.Artist != "" && track.Title != "" {
		return fmt.Sprintf("%s - %s", track.Artist, track.Title)
	}
	if track.Title != "" {
		return track.Title
	}
	return "No track loaded"
}

// formatDuration renders a duration as mm:ss.
func formatDuration(d time.Duration) string {
	seconds := d.Seconds()
	return fmt.Sprintf("%.2d:%.2d", int(seconds/60), int(math.Mod(seconds, 60)))
}

// presetNames returns the display names for the preset selector.
func presetNames() []string {
	kinds := visualizer.Kinds()
	names := make([]string, len(kinds))
	for i, info := range kinds {
		names[i] = info.Name
	}
	return names
}

// presetName returns the display name of a preset kind.
func presetName(kind domain.PresetKind) string {
	for _, info := range visualizer.Kinds() {
		if info.Kind == kind {
			return info.Name
		}
	}
	return ""
}
