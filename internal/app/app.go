// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"log/slog"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/audio/beepengine"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/audio/mock"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/eventbus"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/repository/memory"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/ui/fyneui"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/logger"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/service"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/visualizer"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus    ports.EventBus
	audioEngine ports.AudioEngine

	// Repositories
	settingsRepo ports.SettingsRepository

	// Services
	transport *service.TransportService
	settings  *service.SettingsService

	// Visualization pipeline
	source   *visualizer.SpectrumSource
	registry *visualizer.Registry
	scene    *visualizer.Scene
	driver   *visualizer.Driver

	// UI
	mainWindow *fyneui.MainWindow
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// SampleRate is the audio sample rate
	SampleRate int

	// UseMockAudio determines whether to use a mock audio engine (for testing)
	UseMockAudio bool

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:        "io.github.musicvisualizer3d",
		AppName:      "Music Visualizer 3D",
		SampleRate:   44100,
		UseMockAudio: false,
		LogLevel:     loggerCfg.Level,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{}

	// Step 1: Create Fyne application
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(config.AppID)
	}

	// Step 2: Create logger
	loggerCfg := logger.Config{
		Level:  config.LogLevel,
		Format: "text",
	}
	app.logger = logger.NewLogger(loggerCfg)
	app.logger.Info("initializing application",
		slog.String("app_id", config.AppID),
		slog.String("app_name", config.AppName))

	// Step 3: Create an event bus
	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus

	// Step 4: Create an audio engine. The device is opened lazily by the
	// spectrum source so a missing output device degrades to idle mode
	// instead of failing startup.
	if config.UseMockAudio {
		engine := mock.NewEngine()
		engine.SetLogger(app.logger.With(slog.String("engine", "mock")))
		app.audioEngine = engine
	} else {
		engine := beepengine.NewEngine()
		engine.SetLogger(app.logger.With(slog.String("engine", "beep")))
		app.audioEngine = engine
	}

	// Step 5: Create repositories
	app.settingsRepo = memory.NewSettingsRepository(app.fyneApp.Preferences())

	// Step 6: Create services (with dependency injection)
	app.transport = service.NewTransportService(
		app.logger.With(slog.String("service", "transport")),
		app.audioEngine,
		app.eventBus,
	)

	app.settings = service.NewSettingsService(
		app.logger.With(slog.String("service", "settings")),
		app.settingsRepo,
		app.eventBus,
	)

	// Step 7: Restore persisted volume
	if volume, err := app.settingsRepo.LoadVolume(); err == nil {
		if err := app.transport.SetVolume(volume); err != nil {
			app.logger.Warn("failed to restore volume", slog.Any("error", err))
		}
	}

	// Step 8: Build the visualization pipeline
	app.source = visualizer.NewSpectrumSource(
		app.logger.With(slog.String("component", "spectrum")),
		app.audioEngine,
		app.eventBus,
		config.SampleRate,
		app.transport.CurrentHandle,
	)

	app.registry = visualizer.NewRegistry(app.settings.LoadPreset())
	app.scene = visualizer.NewScene(app.registry.Active())

	// Step 9: Create UI and the render loop driver. The scene widget is
	// shared: the driver draws into it and the window displays it.
	sceneWidget := fyneui.NewSceneWidget()

	app.driver = visualizer.NewDriver(
		app.logger.With(slog.String("component", "driver")),
		app.eventBus,
		app.source,
		app.registry,
		app.scene,
		sceneWidget,
		app.transport.Snapshot,
		app.settings.Settings,
	)

	app.mainWindow = fyneui.NewMainWindow(
		app.fyneApp,
		app.logger.With(slog.String("component", "ui")),
		app.eventBus,
		app.transport,
		app.settings,
		app.driver,
		app.source,
		sceneWidget,
		app.audioEngine.GetMetadata,
		config.AppName,
	)

	// Step 10: Try to open the audio device up front. Failure is reported
	// via the bus and retried on the first file open.
	if err := app.source.Activate(); err != nil {
		app.logger.Warn("audio pipeline not ready at startup", slog.Any("error", err))
	}

	return app, nil
}

// Run starts the application.
// This is called from main.go after the application is created.
func (a *Application) Run() {
	a.logger.Info("Music Visualizer 3D started")

	// Show and run UI (blocks until the window is closed)
	a.mainWindow.ShowAndRun()
}

// Shutdown gracefully shuts down the application.
// This should be called via deferring in main.go.
func (a *Application) Shutdown() error {
	a.logger.Info("shutting down application")

	// Persist the volume for the next session
	if a.settingsRepo != nil && a.transport != nil {
		if err := a.settingsRepo.SaveVolume(a.transport.GetVolume()); err != nil {
			a.logger.Warn("failed to save volume", slog.Any("error", err))
		}
	}

	// Shutdown services (in reverse order of creation)
	if a.transport != nil {
		if err := a.transport.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown transport service", slog.Any("error", err))
		}
	}

	// Shutdown audio engine
	if a.audioEngine != nil && a.audioEngine.IsInitialized() {
		if err := a.audioEngine.Shutdown(); err != nil {
			a.logger.Warn("failed to shutdown audio engine", slog.Any("error", err))
		}
	}

	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", err))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}

// GetEventBus returns the event bus (for testing).
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application (for testing).
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetServices returns the core services (for testing).
func (a *Application) GetServices() (*service.TransportService, *service.SettingsService) {
	return a.transport, a.settings
}

// GetDriver returns the render loop driver (for testing).
func (a *Application) GetDriver() *visualizer.Driver {
	return a.driver
}

// GetMainWindow returns the main window (for testing).
func (a *Application) GetMainWindow() *fyneui.MainWindow {
	return a.mainWindow
}
