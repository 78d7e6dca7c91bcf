package visualizer

import (
	"log/slog"
	"sync"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

// HandleFunc reports the engine handle of the track that should be sampled,
// or domain.InvalidTrackHandle when no stream is active.
type HandleFunc func() domain.TrackHandle

// sourceState is the explicit lifecycle of the spectrum source. The source
// transitions Uninitialized -> Ready exactly once, on the first successful
// activation; re-entry is idempotent.
type sourceState int

const (
	sourceUninitialized sourceState = iota
	sourceReady
)

// SpectrumSource wraps the audio engine and produces the per-tick frequency
// frame the feature extractor consumes. Polling is a pure read of live engine
// state; the render loop calls it at most once per frame.
//
// Activation failures are caught here, reported once via the event bus, and
// leave the source pollable (every poll reports no data). They never
// propagate into the render loop.
type SpectrumSource struct {
	logger *slog.Logger
	engine ports.AudioEngine
	bus    ports.EventBus
	handle HandleFunc

	sampleRate int

	mu       sync.Mutex
	state    sourceState
	reported bool
}

// NewSpectrumSource creates a spectrum source over the given engine.
// The handle func is consulted on every poll to find the active stream.
func NewSpectrumSource(
	logger *slog.Logger,
	engine ports.AudioEngine,
	bus ports.EventBus,
	sampleRate int,
	handle HandleFunc,
) *SpectrumSource {
	return &SpectrumSource{
		logger:     logger,
		engine:     engine,
		bus:        bus,
		handle:     handle,
		sampleRate: sampleRate,
	}
}

// Activate initializes the underlying audio pipeline. Safe to call multiple
// times: once Ready, subsequent calls are no-ops. A failed activation is
// reported once via SpectrumUnavailableEvent and can be retried later.
func (s *SpectrumSource) Activate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == sourceReady {
		return nil
	}

	if s.engine.IsInitialized() {
		s.state = sourceReady
		return nil
	}

	if err := s.engine.Initialize(s.sampleRate); err != nil {
		s.logger.Warn("spectrum pipeline activation failed", slog.Any("error", err))
		if !s.reported {
			s.reported = true
			s.bus.Publish(domain.NewSpectrumUnavailableEvent(err))
		}
		return domain.NewAudioEngineError("activate", "", "spectrum pipeline unavailable", err)
	}

	s.state = sourceReady
	s.logger.Debug("spectrum pipeline ready")
	return nil
}

// Ready returns true once the source has been activated.
func (s *SpectrumSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == sourceReady
}

// Poll samples the current frequency spectrum. It returns ok=false when the
// source is not ready, no stream is active, or the engine cannot produce data
// this frame (for example a race with the transport stopping mid-frame).
// Poll never returns an error and never panics; bad engine data degrades to a
// zero-energy frame.
func (s *SpectrumSource) Poll() (domain.SpectrumFrame, bool) {
	s.mu.Lock()
	ready := s.state == sourceReady
	s.mu.Unlock()

	if !ready {
		return nil, false
	}

	handle := s.handle()
	if handle == domain.InvalidTrackHandle {
		return nil, false
	}

	data, err := s.engine.FFTData(handle)
	if err != nil {
		return nil, false
	}

	return quantize(data), true
}

// quantize converts engine magnitudes (floats in [0,1], any length) into the
// fixed-size 8-bit spectrum frame. Longer inputs are averaged down into the
// frame's bins; shorter inputs leave the upper bins at zero.
func quantize(data []float32) domain.SpectrumFrame {
	frame := make(domain.SpectrumFrame, domain.SpectrumSize)
	if len(data) == 0 {
		return frame
	}

	step := len(data) / domain.SpectrumSize
	if step < 1 {
		step = 1
	}

	for i := 0; i < domain.SpectrumSize; i++ {
		lo := i * step
		if lo >= len(data) {
			break
		}
		hi := lo + step
		if hi > len(data) {
			hi = len(data)
		}

		var sum float64
		for _, v := range data[lo:hi] {
			sum += float64(v)
		}
		mag := sum / float64(hi-lo) * 255.0

		if mag < 0 {
			mag = 0
		}
		if mag > 255 {
			mag = 255
		}
		frame[i] = byte(mag)
	}

	return frame
}
