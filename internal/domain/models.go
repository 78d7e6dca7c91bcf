// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the music visualizer.
package domain

import (
	"time"
)

// SpectrumSize is the number of frequency bins in a SpectrumFrame.
// The size is fixed for the lifetime of a session.
const SpectrumSize = 256

// SpectrumFrame is an ordered sequence of unsigned 8-bit magnitude values,
// indexed low to high frequency. A frame is produced fresh on every render
// tick while audio is playing and is owned exclusively by that tick.
type SpectrumFrame []byte

// Band boundaries used by the feature extractor.
// Bins below BassBandEnd are bass; bins in [BassBandEnd, MidBandEnd) are mid.
const (
	BassBandEnd = 32
	MidBandEnd  = 128
)

// FeatureSet holds the perceptual features derived from a single SpectrumFrame.
// Values are stateless and recomputed every tick; there is no identity across ticks.
type FeatureSet struct {
	// BassEnergy is the mean magnitude of the bass band, normalized to [0,1]
	BassEnergy float64

	// MidEnergy is the mean magnitude of the mid band, normalized to [0,1]
	MidEnergy float64

	// OverallEnergy is the mean magnitude of the full spectrum, normalized to [0,1]
	OverallEnergy float64

	// Displacement is the sensitivity-scaled radial displacement magnitude
	// applied to scene geometry. Always >= 0.
	Displacement float64
}

// VisualSettings holds the user-adjustable visualizer configuration.
// The feature extractor and preset registry read these values; they never
// mutate them.
type VisualSettings struct {
	// Sensitivity controls reactivity, valid range 0-100
	Sensitivity int

	// ParticlesEnabled toggles the ambient particle layer
	ParticlesEnabled bool
}

// ClampSensitivity clamps an arbitrary slider value into the valid 0-100 range.
// Out-of-range values are clamped, never rejected.
func ClampSensitivity(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// TransportSnapshot is the read-only view of the transport that the
// visualizer core consumes once per tick. Both flags are written with single
// assignments by the transport, so a tick never observes a torn state.
type TransportSnapshot struct {
	// IsPlaying is true while playback is active (not paused or stopped)
	IsPlaying bool

	// HasTrack is true while a track is loaded in the engine
	HasTrack bool
}

// HSL is a color in hue/saturation/lightness space, each component in [0,1].
// Scene color is computed in HSL so hue can be lerped continuously from bass
// energy without discontinuities.
type HSL struct {
	H float64
	S float64
	L float64
}

// MusicTrack represents a single audio track with its metadata.
type MusicTrack struct {
	// ID is a unique identifier for the track (UUID)
	ID string

	// FilePath is the absolute path to the audio file on the filesystem
	FilePath string

	// Title is the song title (from metadata or filename)
	Title string

	// Artist is the performing artist name
	Artist string

	// Album is the album name
	Album string

	// Duration is the total length of the track
	Duration time.Duration

	// FileFormat is the file extension (mp3, wav, flac, ogg)
	FileFormat string

	// Metadata contains additional track information
	Metadata *TrackMetadata
}

// TrackMetadata contains extended metadata for an audio track.
type TrackMetadata struct {
	// Genre is the music genre
	Genre string

	// Year is the release year
	Year int

	// AlbumArt is the embedded album artwork as raw bytes
	AlbumArt []byte

	// TrackNumber is the track number on the album
	TrackNumber int
}

// PlayerState represents the full state of the transport.
// This is the central state object the transport service manages; the
// visualizer core only ever sees the TransportSnapshot derived from it.
type PlayerState struct {
	// CurrentTrack is the currently loaded track (nil if none)
	CurrentTrack *MusicTrack

	// CurrentIndex is the index in the queue (0-based, -1 if no track)
	CurrentIndex int

	// Queue is the current playback queue
	Queue []MusicTrack

	// Status is the current playback status
	Status PlaybackStatus

	// Position is the current playback position within the track
	Position time.Duration

	// Duration is the total duration of the current track
	Duration time.Duration

	// Volume is the current volume level (0.0 to 1.0)
	Volume float64

	// IsMuted indicates if audio is muted
	IsMuted bool
}

// Snapshot derives the two flags the render loop reads each tick.
func (s PlayerState) Snapshot() TransportSnapshot {
	return TransportSnapshot{
		IsPlaying: s.Status == StatusPlaying,
		HasTrack:  s.CurrentTrack != nil,
	}
}

// PlaybackStatus represents the current playback state.
type PlaybackStatus int

const (
	// StatusStopped indicates playback is stopped
	StatusStopped PlaybackStatus = iota

	// StatusPlaying indicates playback is active
	StatusPlaying

	// StatusPaused indicates playback is paused
	StatusPaused
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// TrackHandle represents a handle to an audio track in the audio engine.
// This is an opaque identifier used by the audio engine to reference loaded tracks.
type TrackHandle int64

const (
	// InvalidTrackHandle represents an invalid or uninitialized track handle
	InvalidTrackHandle TrackHandle = 0
)
