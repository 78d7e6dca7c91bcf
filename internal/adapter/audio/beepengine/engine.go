// Package beepengine implements the AudioEngine port on top of the beep
// playback library. Decoding, output, and the FFT tap all live here; the
// rest of the application only sees track handles.
package beepengine

import (
	"log/slog"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

const (
	// fftWindowSize is the number of recent samples fed to each FFT.
	fftWindowSize = 1024

	// tapBufferSize is the ring buffer capacity of the sample tap.
	tapBufferSize = 4096

	// speakerBufferDiv sets the speaker buffer to 1/20th of a second.
	speakerBufferDiv = 20
)

// Engine is the production implementation of the AudioEngine port.
// It decodes mp3/wav/flac/ogg files, plays them through the system speaker,
// and serves frequency magnitudes from a tap on the playback pipeline.
//
// The speaker is initialized once and kept for the lifetime of the process;
// shutting the engine down only stops playback.
//
// Thread-safety: all operations are protected by a mutex; streamer access is
// additionally serialized through the speaker lock.
type Engine struct {
	logger *slog.Logger

	mu          sync.RWMutex
	initialized bool
	sampleRate  beep.SampleRate

	tracks     map[domain.TrackHandle]*track
	nextHandle domain.TrackHandle
}

// track is a loaded audio stream and its playback chain.
type track struct {
	filePath string
	format   beep.Format
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	tap      *tap

	started bool // speaker.Play has been called for this track

	// done flips when the stream ends naturally. Atomic because the
	// end-of-stream callback runs on the speaker goroutine while the
	// speaker lock is held; taking the engine mutex there would invert
	// the lock order against Status.
	done atomic.Bool
}

// NewEngine creates a new beep-backed audio engine.
func NewEngine() *Engine {
	return &Engine{
		tracks:     make(map[domain.TrackHandle]*track),
		nextHandle: 1,
	}
}

// SetLogger sets the logger for this engine.
// This should be called after construction before using the engine.
func (e *Engine) SetLogger(logger *slog.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = logger
}

// Initialize opens the output device at the given sample rate.
func (e *Engine) Initialize(sampleRate int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return domain.ErrAlreadyInitialized
	}

	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/speakerBufferDiv)); err != nil {
		return domain.NewAudioEngineError("initialize", "", "failed to open output device", err)
	}

	e.sampleRate = sr
	e.initialized = true

	return nil
}

// Shutdown stops playback and releases all loaded tracks. The speaker itself
// stays open; it belongs to the process.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}

	speaker.Clear()

	for handle, tr := range e.tracks {
		if err := tr.streamer.Close(); err != nil && e.logger != nil {
			e.logger.Warn("failed to close streamer", slog.Any("error", err))
		}
		delete(e.tracks, handle)
	}

	e.initialized = false

	return nil
}

// IsInitialized returns true if the engine has been successfully initialized.
func (e *Engine) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// Load decodes an audio file and prepares its playback chain.
func (e *Engine) Load(filePath string) (domain.TrackHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.InvalidTrackHandle, domain.ErrNotInitialized
	}

	f, err := os.Open(filePath)
	if err != nil {
		return domain.InvalidTrackHandle, domain.NewAudioEngineError("load", filePath, "cannot open file", err)
	}

	streamer, format, err := decode(f, filePath)
	if err != nil {
		if closeErr := f.Close(); closeErr != nil && e.logger != nil {
			e.logger.Warn("failed to close file after decode error", slog.Any("error", closeErr))
		}
		return domain.InvalidTrackHandle, err
	}

	// Build the chain once: volume -> tap. The ctrl wrapper is added on the
	// first Play, when the resampler (if needed) is known.
	vol := &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   0,
	}

	tr := &track{
		filePath: filePath,
		format:   format,
		streamer: streamer,
		volume:   vol,
		tap:      newTap(vol, tapBufferSize),
	}

	handle := e.nextHandle
	e.nextHandle++
	e.tracks[handle] = tr

	return handle, nil
}

// decode picks a decoder from the file extension.
func decode(f *os.File, filePath string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".mp3":
		s, format, err := mp3.Decode(f)
		if err != nil {
			return nil, beep.Format{}, domain.NewAudioEngineError("load", filePath, "mp3 decode failed", err)
		}
		return s, format, nil
	case ".wav":
		s, format, err := wav.Decode(f)
		if err != nil {
			return nil, beep.Format{}, domain.NewAudioEngineError("load", filePath, "wav decode failed", err)
		}
		return s, format, nil
	case ".flac":
		s, format, err := flac.Decode(f)
		if err != nil {
			return nil, beep.Format{}, domain.NewAudioEngineError("load", filePath, "flac decode failed", err)
		}
		return s, format, nil
	case ".ogg":
		s, format, err := vorbis.Decode(f)
		if err != nil {
			return nil, beep.Format{}, domain.NewAudioEngineError("load", filePath, "vorbis decode failed", err)
		}
		return s, format, nil
	default:
		return nil, beep.Format{}, domain.ErrUnsupportedFormat
	}
}

// Unload releases resources for a previously loaded track.
func (e *Engine) Unload(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	if tr.started {
		speaker.Clear()
	}

	err := tr.streamer.Close()
	delete(e.tracks, handle)

	return err
}

// Play starts or resumes playback of the specified track.
func (e *Engine) Play(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	if tr.started {
		speaker.Lock()
		tr.ctrl.Paused = false
		speaker.Unlock()
		return nil
	}

	// First play: resample to the speaker rate if needed, append the
	// end-of-stream marker, and hand the chain to the speaker.
	var out beep.Streamer = tr.tap
	if tr.format.SampleRate != e.sampleRate {
		out = beep.Resample(4, tr.format.SampleRate, e.sampleRate, tr.tap)
	}

	tr.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(out, beep.Callback(func() {
			tr.done.Store(true)
		})),
	}

	tr.started = true
	speaker.Play(tr.ctrl)

	return nil
}

// Pause pauses playback, preserving the position for a later Play.
func (e *Engine) Pause(handle domain.TrackHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	if !tr.started {
		return nil
	}

	speaker.Lock()
	tr.ctrl.Paused = true
	speaker.Unlock()

	return nil
}

// Stop stops playback of the specified track and unloads it.
func (e *Engine) Stop(handle domain.TrackHandle) error {
	return e.Unload(handle)
}

// Status returns the current playback status of the specified track.
func (e *Engine) Status(handle domain.TrackHandle) (domain.PlaybackStatus, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return domain.StatusStopped, domain.ErrInvalidTrackHandle
	}

	if !tr.started || tr.done.Load() {
		return domain.StatusStopped, nil
	}

	speaker.Lock()
	paused := tr.ctrl.Paused
	speaker.Unlock()

	if paused {
		return domain.StatusPaused, nil
	}
	return domain.StatusPlaying, nil
}

// Position returns the current playback position within the track.
func (e *Engine) Position(handle domain.TrackHandle) (time.Duration, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return 0, domain.ErrInvalidTrackHandle
	}

	speaker.Lock()
	pos := tr.streamer.Position()
	speaker.Unlock()

	return tr.format.SampleRate.D(pos), nil
}

// Duration returns the total duration of the specified track.
func (e *Engine) Duration(handle domain.TrackHandle) (time.Duration, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return 0, domain.ErrInvalidTrackHandle
	}

	return tr.format.SampleRate.D(tr.streamer.Len()), nil
}

// Seek sets the playback position to the specified time.
func (e *Engine) Seek(handle domain.TrackHandle, position time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	n := tr.format.SampleRate.N(position)
	if n < 0 || n > tr.streamer.Len() {
		return domain.ErrInvalidPosition
	}

	speaker.Lock()
	err := tr.streamer.Seek(n)
	speaker.Unlock()

	if err != nil {
		return domain.NewAudioEngineError("seek", tr.filePath, "seek failed", err)
	}

	return nil
}

// SetVolume sets the playback volume from 0.0 (silent) to 1.0 (full).
func (e *Engine) SetVolume(handle domain.TrackHandle, volume float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return domain.ErrInvalidTrackHandle
	}

	if volume < 0.0 || volume > 1.0 {
		return domain.ErrInvalidVolume
	}

	speaker.Lock()
	if volume == 0 {
		tr.volume.Silent = true
	} else {
		tr.volume.Silent = false
		// effects.Volume is exponential: Base^Volume. log2 maps the linear
		// slider onto that curve with 1.0 -> 0dB.
		tr.volume.Volume = math.Log2(volume)
	}
	speaker.Unlock()

	return nil
}

// GetVolume returns the current volume level for the specified track.
func (e *Engine) GetVolume(handle domain.TrackHandle) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tr, ok := e.tracks[handle]
	if !ok {
		return 0, domain.ErrInvalidTrackHandle
	}

	speaker.Lock()
	defer speaker.Unlock()

	if tr.volume.Silent {
		return 0, nil
	}
	return math.Pow(2, tr.volume.Volume), nil
}

// FFTData computes frequency magnitudes over the most recently played
// samples: Hann window, real FFT, magnitudes normalized to [0,1], ordered
// low to high frequency.
func (e *Engine) FFTData(handle domain.TrackHandle) ([]float32, error) {
	e.mu.RLock()
	tr, ok := e.tracks[handle]
	e.mu.RUnlock()

	if !ok {
		return nil, domain.ErrInvalidTrackHandle
	}
	if !tr.started {
		return nil, domain.ErrNoTrackLoaded
	}

	buf := tr.tap.Samples(fftWindowSize)
	window.Apply(buf, window.Hann)

	spectrum := fft.FFTReal(buf)

	// Only the first half of the spectrum is meaningful for real input.
	bins := len(spectrum) / 2
	out := make([]float32, bins)
	scale := 2.0 / float64(fftWindowSize)

	for i := 0; i < bins; i++ {
		mag := cmplx.Abs(spectrum[i]) * scale
		if mag > 1 {
			mag = 1
		}
		out[i] = float32(mag)
	}

	return out, nil
}

// Verify that Engine implements the AudioEngine interface
var _ ports.AudioEngine = (*Engine)(nil)
