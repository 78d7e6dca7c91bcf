// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"time"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// AudioEngine is the interface for audio playback engines.
// This abstracts the underlying audio library (beep/oto in production, a mock
// in tests) and is the black-box media source the visualizer polls.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type AudioEngine interface {
	// Lifecycle methods

	// Initialize sets up the audio engine with the specified sample rate.
	// Returns an error if the output device cannot be opened.
	Initialize(sampleRate int) error

	// Shutdown releases all audio engine resources.
	Shutdown() error

	// IsInitialized returns true if the engine has been successfully initialized.
	IsInitialized() bool

	// Track loading methods

	// Load decodes an audio file and returns a handle to it.
	// The file remains loaded until Stop or Unload is called with the handle.
	Load(filePath string) (domain.TrackHandle, error)

	// Unload releases resources for a previously loaded track.
	Unload(handle domain.TrackHandle) error

	// Playback control methods

	// Play starts or resumes playback of the specified track.
	Play(handle domain.TrackHandle) error

	// Pause pauses playback, preserving the position for a later Play.
	Pause(handle domain.TrackHandle) error

	// Stop stops playback of the specified track and unloads it.
	Stop(handle domain.TrackHandle) error

	// State query methods

	// Status returns the current playback status of the specified track.
	Status(handle domain.TrackHandle) (domain.PlaybackStatus, error)

	// Position returns the current playback position within the track.
	Position(handle domain.TrackHandle) (time.Duration, error)

	// Duration returns the total duration of the specified track.
	Duration(handle domain.TrackHandle) (time.Duration, error)

	// Seek sets the playback position. The position must be within [0, Duration].
	Seek(handle domain.TrackHandle, position time.Duration) error

	// Volume control methods

	// SetVolume sets the playback volume from 0.0 (silent) to 1.0 (full).
	SetVolume(handle domain.TrackHandle, volume float64) error

	// GetVolume returns the current volume level for the specified track.
	GetVolume(handle domain.TrackHandle) (float64, error)

	// Metadata methods

	// GetMetadata extracts metadata from an audio file without loading it for playback.
	GetMetadata(filePath string) (*domain.MusicTrack, error)

	// Visualization methods

	// FFTData retrieves frequency magnitudes for visualization: a slice of
	// values in [0,1] ordered low to high frequency, computed over the most
	// recently played samples. Returns an error if no track is playing or
	// the handle is invalid. The result is a fresh slice owned by the caller.
	FFTData(handle domain.TrackHandle) ([]float32, error)
}
