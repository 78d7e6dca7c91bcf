// Package mock provides a mock implementation of the AudioEngine interface.
// This is used for testing services and the visualizer pipeline without
// opening a real output device.
package mock

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

// Engine is a mock implementation of the AudioEngine interface.
// It simulates audio playback in memory without actually playing audio.
//
// Thread-safety: This implementation is thread-safe.
type Engine struct {
	logger *slog.Logger

	initialized bool
	sampleRate  int

	tracks     map[domain.TrackHandle]*mockTrack
	nextHandle domain.TrackHandle
	mu         sync.RWMutex

	// Behavior configuration (for testing error scenarios)
	failInitialize bool
	failLoad       bool
	failPlay       bool

	// fftData is returned from FFTData while a track is playing.
	fftData []float32
}

// mockTrack represents a loaded track in the mock engine.
type mockTrack struct {
	handle   domain.TrackHandle
	filePath string
	duration time.Duration
	position time.Duration
	volume   float64
	status   domain.PlaybackStatus
}

// NewEngine creates a new mock audio engine.
func NewEngine() *Engine {
	return &Engine{
		tracks:     make(map[domain.TrackHandle]*mockTrack),
		nextHandle: 1,
	}
}

// SetLogger sets the logger for this engine.
func (m *Engine) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetFailInitialize configures the mock to fail initialization (for testing).
func (m *Engine) SetFailInitialize(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failInitialize = fail
}

// SetFailLoad configures the mock to fail loading tracks (for testing).
func (m *Engine) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetFailPlay configures the mock to fail playback (for testing).
func (m *Engine) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// SetFFTData configures the magnitudes returned while a track is playing.
func (m *Engine) SetFFTData(data []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fftData = data
}

// CompleteTrack simulates the current track reaching its natural end.
func (m *Engine) CompleteTrack(handle domain.TrackHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if track, ok := m.tracks[handle]; ok {
		track.status = domain.StatusStopped
		track.position = track.duration
	}
}

// GetLoadedTracks returns the number of currently loaded tracks.
func (m *Engine) GetLoadedTracks() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tracks)
}

// Initialize initializes the mock audio engine.
func (m *Engine) Initialize(sampleRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failInitialize {
		return domain.NewAudioEngineError("initialize", "", "mock initialization failed", nil)
	}

	if m.initialized {
		return domain.ErrAlreadyInitialized
	}

	m.initialized = true
	m.sampleRate = sampleRate

	return nil
}

// Shutdown shuts down the mock audio engine.
func (m *Engine) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}

	m.initialized = false
	m.tracks = make(map[domain.TrackHandle]*mockTrack)

	return nil
}

// IsInitialized returns true if the engine has been initialized.
func (m *Engine) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Load simulates loading an audio file.
func (m *Engine) Load(filePath string) (domain.TrackHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.InvalidTrackHandle, domain.ErrNotInitialized
	}

	if m.failLoad {
		return domain.InvalidTrackHandle, domain.NewAudioEngineError("load", filePath, "mock load failed", nil)
	}

	handle := m.nextHandle
	m.nextHandle++

	m.tracks[handle] = &mockTrack{
		handle:   handle,
		filePath: filePath,
		duration: 3 * time.Minute, // Simulated track length
		volume:   1.0,
		status:   domain.StatusStopped,
	}

	return handle, nil
}

// Unload releases a loaded track.
func (m *Engine) Unload(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tracks[handle]; !ok {
		return domain.ErrInvalidTrackHandle
	}

	delete(m.tracks, handle)
	return nil
}

// Play simulates starting or resuming playback.
func (m *Engine) Play(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	if m.failPlay {
		return domain.NewAudioEngineError("play", track.filePath, "mock play failed", nil)
	}

	track.status = domain.StatusPlaying
	return nil
}

// Pause simulates pausing playback.
func (m *Engine) Pause(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	track.status = domain.StatusPaused
	return nil
}

// Stop simulates stopping playback and unloads the track.
func (m *Engine) Stop(handle domain.TrackHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tracks[handle]; !ok {
		return domain.ErrInvalidTrackHandle
	}

	delete(m.tracks, handle)
	return nil
}

// Status returns the simulated playback status.
func (m *Engine) Status(handle domain.TrackHandle) (domain.PlaybackStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, ok := m.tracks[handle]
	if !ok {
		return domain.StatusStopped, domain.ErrInvalidTrackHandle
	}

	return track.status, nil
}

// Position returns the simulated playback position.
func (m *Engine) Position(handle domain.TrackHandle) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, ok := m.tracks[handle]
	if !ok {
		return 0, domain.ErrInvalidTrackHandle
	}

	return track.position, nil
}

// Duration returns the simulated track duration.
func (m *Engine) Duration(handle domain.TrackHandle) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, ok := m.tracks[handle]
	if !ok {
		return 0, domain.ErrInvalidTrackHandle
	}

	return track.duration, nil
}

// Seek sets the simulated playback position.
func (m *Engine) Seek(handle domain.TrackHandle, position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	if position < 0 || position > track.duration {
		return domain.ErrInvalidPosition
	}

	track.position = position
	return nil
}

// SetVolume sets the simulated volume.
func (m *Engine) SetVolume(handle domain.TrackHandle, volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	if volume < 0.0 || volume > 1.0 {
		return domain.ErrInvalidVolume
	}

	track.volume = volume
	return nil
}

// GetVolume returns the simulated volume.
func (m *Engine) GetVolume(handle domain.TrackHandle) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, ok := m.tracks[handle]
	if !ok {
		return 0, domain.ErrInvalidTrackHandle
	}

	return track.volume, nil
}

// GetMetadata returns filename-derived metadata for any path.
func (m *Engine) GetMetadata(filePath string) (*domain.MusicTrack, error) {
	base := filepath.Base(filePath)

	return &domain.MusicTrack{
		ID:         uuid.NewString(),
		FilePath:   filePath,
		Title:      strings.TrimSuffix(base, filepath.Ext(base)),
		FileFormat: strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
		Duration:   3 * time.Minute,
		Metadata:   &domain.TrackMetadata{},
	}, nil
}

// FFTData returns the configured magnitudes while the track is playing.
func (m *Engine) FFTData(handle domain.TrackHandle) ([]float32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	track, ok := m.tracks[handle]
	if !ok {
		return nil, domain.ErrInvalidTrackHandle
	}

	if track.status != domain.StatusPlaying {
		return nil, domain.ErrNoTrackLoaded
	}

	out := make([]float32, len(m.fftData))
	copy(out, m.fftData)
	return out, nil
}

// Verify that Engine implements the AudioEngine interface
var _ ports.AudioEngine = (*Engine)(nil)
