// Package service provides business logic for the visualizer application.
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/ports"
)

// TransportService is the playlist and playback state machine. It owns the
// queue, the current track, volume and mute state, and the seek-drag guard.
// All operations are thread-safe via sync.RWMutex.
//
// The visualizer core never touches this state directly: it reads a
// TransportSnapshot once per tick. Raw engine events never leave this
// service; state changes surface as bus events.
type TransportService struct {
	// Dependencies (injected)
	logger *slog.Logger
	engine ports.AudioEngine
	bus    ports.EventBus

	// State
	queue         []domain.MusicTrack
	currentIndex  int
	currentTrack  *domain.MusicTrack
	currentHandle domain.TrackHandle
	volume        float64
	savedVolume   float64 // Volume before mute
	isMuted       bool

	// seeking is the seek-drag guard. While true, the progress publisher
	// must not overwrite the displayed position; ownership of the seek bar
	// belongs to the input handler until EndSeek.
	seeking bool

	updateInterval time.Duration

	// Concurrency control
	mu            sync.RWMutex
	stopUpdate    chan struct{}
	updateRunning bool
	updateWg      sync.WaitGroup
	manualStop    bool // True if the user explicitly stopped playback
	hasPlayed     bool // True if the current track has been played
}

// NewTransportService creates a new transport service and starts its
// progress publisher.
func NewTransportService(
	logger *slog.Logger,
	engine ports.AudioEngine,
	bus ports.EventBus,
) *TransportService {
	service := &TransportService{
		logger:         logger,
		engine:         engine,
		bus:            bus,
		queue:          make([]domain.MusicTrack, 0),
		currentIndex:   -1,
		currentHandle:  domain.InvalidTrackHandle,
		volume:         0.8, // Default 80% volume
		updateInterval: 250 * time.Millisecond,
		stopUpdate:     make(chan struct{}),
	}

	logger.Debug("transport service initialized")

	service.startUpdateRoutine()

	return service
}

// AddTrack appends a track to the queue. When playImmediately is set, the
// track is loaded and played right away.
func (s *TransportService) AddTrack(track domain.MusicTrack, playImmediately bool) error {
	s.mu.Lock()

	s.queue = append(s.queue, track)
	newIndex := len(s.queue) - 1

	s.bus.Publish(domain.NewTrackAddedEvent(track, newIndex))
	s.bus.Publish(domain.NewQueueChangedEvent(s.queue, s.currentIndex))

	s.mu.Unlock()

	if playImmediately {
		return s.PlayIndex(newIndex)
	}

	return nil
}

// AddTracks appends multiple tracks to the queue. When playFirst is set, the
// first added track is loaded and played.
func (s *TransportService) AddTracks(tracks []domain.MusicTrack, playFirst bool) error {
	if len(tracks) == 0 {
		return nil
	}

	s.mu.Lock()

	startIndex := len(s.queue)
	s.queue = append(s.queue, tracks...)

	for i, track := range tracks {
		s.bus.Publish(domain.NewTrackAddedEvent(track, startIndex+i))
	}
	s.bus.Publish(domain.NewQueueChangedEvent(s.queue, s.currentIndex))

	s.mu.Unlock()

	if playFirst {
		return s.PlayIndex(startIndex)
	}

	return nil
}

// PlayIndex loads and plays the track at the given queue index.
func (s *TransportService) PlayIndex(index int) error {
	s.mu.Lock()

	if index < 0 || index >= len(s.queue) {
		s.mu.Unlock()
		return domain.ErrInvalidIndex
	}

	track := s.queue[index]

	if err := s.loadTrackLocked(track, index); err != nil {
		s.mu.Unlock()
		return err
	}

	s.mu.Unlock()

	return s.Play()
}

// loadTrackLocked stops the current track and loads a new one.
// Caller must hold the write lock.
func (s *TransportService) loadTrackLocked(track domain.MusicTrack, index int) error {
	s.logger.Debug("loading track", slog.String("file_path", track.FilePath))

	if s.currentHandle != domain.InvalidTrackHandle {
		if err := s.stopLocked(); err != nil {
			s.logger.Warn("failed to stop current track", slog.Any("error", err))
		}
	}

	handle, err := s.engine.Load(track.FilePath)
	if err != nil {
		s.bus.Publish(domain.NewTrackErrorEvent(track, err))
		return err
	}

	if err := s.engine.SetVolume(handle, s.effectiveVolume()); err != nil {
		if unloadErr := s.engine.Unload(handle); unloadErr != nil {
			s.logger.Warn("failed to unload track after volume error", slog.Any("error", unloadErr))
		}
		return err
	}

	duration, err := s.engine.Duration(handle)
	if err != nil {
		if unloadErr := s.engine.Unload(handle); unloadErr != nil {
			s.logger.Warn("failed to unload track after duration error", slog.Any("error", unloadErr))
		}
		return err
	}

	s.currentTrack = &track
	s.currentHandle = handle
	s.currentIndex = index
	s.manualStop = false
	s.hasPlayed = false

	s.bus.Publish(domain.NewTrackLoadedEvent(track, handle, duration, index))

	return nil
}

// effectiveVolume returns the volume to apply to the engine, honoring mute.
// Caller must hold the lock.
func (s *TransportService) effectiveVolume() float64 {
	if s.isMuted {
		return 0
	}
	return s.volume
}

// Play starts or resumes playback of the current track.
// A rejected start (decode failure, device error) is caught here: the error
// is published as a TrackErrorEvent, the transport stays paused, and the
// error never reaches the render loop.
func (s *TransportService) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentHandle == domain.InvalidTrackHandle {
		return domain.ErrNoTrackLoaded
	}

	status, err := s.engine.Status(s.currentHandle)
	if err != nil {
		return err
	}

	if status == domain.StatusPlaying {
		return nil
	}

	s.manualStop = false
	if err := s.engine.Play(s.currentHandle); err != nil {
		s.logger.Warn("playback start rejected", slog.Any("error", err))
		if s.currentTrack != nil {
			s.bus.Publish(domain.NewTrackErrorEvent(*s.currentTrack, err))
		}
		return domain.NewAudioEngineError("play", "", "playback start rejected", err)
	}
	s.hasPlayed = true

	if s.currentTrack != nil {
		s.bus.Publish(domain.NewTrackStartedEvent(*s.currentTrack))
	}

	return nil
}

// Pause pauses playback of the current track.
func (s *TransportService) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentHandle == domain.InvalidTrackHandle {
		return domain.ErrNoTrackLoaded
	}

	position, err := s.engine.Position(s.currentHandle)
	if err != nil {
		position = 0
	}

	if err := s.engine.Pause(s.currentHandle); err != nil {
		return err
	}

	if s.currentTrack != nil {
		s.bus.Publish(domain.NewTrackPausedEvent(*s.currentTrack, position))
	}

	return nil
}

// TogglePlay resumes when paused or stopped and pauses when playing.
func (s *TransportService) TogglePlay() error {
	s.mu.RLock()
	handle := s.currentHandle
	s.mu.RUnlock()

	if handle == domain.InvalidTrackHandle {
		return domain.ErrNoTrackLoaded
	}

	status, err := s.engine.Status(handle)
	if err != nil {
		return err
	}

	if status == domain.StatusPlaying {
		return s.Pause()
	}
	return s.Play()
}

// Stop stops playback and unloads the current track.
func (s *TransportService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopLocked()
}

// stopLocked stops playback without locking (caller must hold the write lock).
func (s *TransportService) stopLocked() error {
	if s.currentHandle == domain.InvalidTrackHandle {
		return nil
	}

	s.manualStop = true
	s.hasPlayed = false

	if err := s.engine.Stop(s.currentHandle); err != nil {
		// Even if stop fails, clear our state
		s.currentHandle = domain.InvalidTrackHandle
		s.currentTrack = nil
		return err
	}

	if s.currentTrack != nil {
		s.bus.Publish(domain.NewTrackStoppedEvent(*s.currentTrack))
	}

	s.currentHandle = domain.InvalidTrackHandle
	s.currentTrack = nil

	return nil
}

// Next plays the next track in the queue.
func (s *TransportService) Next() error {
	s.mu.RLock()
	index := s.currentIndex
	size := len(s.queue)
	s.mu.RUnlock()

	if size == 0 {
		return domain.ErrQueueEmpty
	}
	if index+1 >= size {
		return domain.ErrEndOfQueue
	}

	return s.PlayIndex(index + 1)
}

// Previous plays the previous track in the queue.
func (s *TransportService) Previous() error {
	s.mu.RLock()
	index := s.currentIndex
	size := len(s.queue)
	s.mu.RUnlock()

	if size == 0 {
		return domain.ErrQueueEmpty
	}
	if index-1 < 0 {
		return domain.ErrStartOfQueue
	}

	return s.PlayIndex(index - 1)
}

// Seek sets the playback position directly (no drag involved).
func (s *TransportService) Seek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.seekLocked(position)
}

// seekLocked seeks without locking (caller must hold the write lock).
func (s *TransportService) seekLocked(position time.Duration) error {
	if s.currentHandle == domain.InvalidTrackHandle {
		return domain.ErrNoTrackLoaded
	}

	if position < 0 {
		return domain.ErrInvalidPosition
	}

	if err := s.engine.Seek(s.currentHandle, position); err != nil {
		return err
	}

	duration, err := s.engine.Duration(s.currentHandle)
	if err != nil {
		duration = 0
	}
	s.bus.Publish(domain.NewTrackProgressEvent(position, duration))

	return nil
}

// BeginSeek raises the seek-drag guard. While the guard is up the progress
// publisher stops emitting position updates, transferring ownership of the
// seek bar value to the input handler.
func (s *TransportService) BeginSeek() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seeking = true
}

// EndSeek drops the guard, seeks to the released position, and immediately
// re-syncs the displayed position by publishing a progress event.
func (s *TransportService) EndSeek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seeking = false

	return s.seekLocked(position)
}

// IsSeeking reports whether a seek drag is in progress.
func (s *TransportService) IsSeeking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.seeking
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (s *TransportService) SetVolume(volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if volume < 0.0 || volume > 1.0 {
		return domain.ErrInvalidVolume
	}

	s.volume = volume

	// If muted, save the volume but don't apply it
	if s.isMuted {
		s.savedVolume = volume
		s.bus.Publish(domain.NewVolumeChangedEvent(volume))
		return nil
	}

	if s.currentHandle != domain.InvalidTrackHandle {
		if err := s.engine.SetVolume(s.currentHandle, volume); err != nil {
			return err
		}
	}

	s.bus.Publish(domain.NewVolumeChangedEvent(volume))

	return nil
}

// GetVolume returns the current volume (0.0 to 1.0).
func (s *TransportService) GetVolume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.volume
}

// Mute mutes or unmutes playback.
func (s *TransportService) Mute(mute bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isMuted == mute {
		return nil // Already in the desired state
	}

	s.isMuted = mute

	if s.currentHandle != domain.InvalidTrackHandle {
		targetVolume := s.volume
		if mute {
			s.savedVolume = s.volume
			targetVolume = 0.0
		}

		if err := s.engine.SetVolume(s.currentHandle, targetVolume); err != nil {
			return err
		}
	}

	s.bus.Publish(domain.NewMuteToggledEvent(s.isMuted))

	return nil
}

// IsMuted returns true if playback is muted.
func (s *TransportService) IsMuted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.isMuted
}

// CurrentHandle returns the engine handle of the active track, or
// domain.InvalidTrackHandle when none is loaded. This feeds the spectrum
// source's handle func.
func (s *TransportService) CurrentHandle() domain.TrackHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentHandle
}

// Snapshot returns the two flags the render loop reads once per tick.
func (s *TransportService) Snapshot() domain.TransportSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.TransportSnapshot{
		HasTrack: s.currentHandle != domain.InvalidTrackHandle,
	}

	if snap.HasTrack {
		if status, err := s.engine.Status(s.currentHandle); err == nil {
			snap.IsPlaying = status == domain.StatusPlaying
		}
	}

	return snap
}

// State returns the full transport state for the UI shell.
func (s *TransportService) State() domain.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := domain.PlayerState{
		CurrentTrack: s.currentTrack,
		CurrentIndex: s.currentIndex,
		Queue:        s.queue,
		Status:       domain.StatusStopped,
		Volume:       s.volume,
		IsMuted:      s.isMuted,
	}

	if s.currentHandle != domain.InvalidTrackHandle {
		if status, err := s.engine.Status(s.currentHandle); err == nil {
			state.Status = status
		}
		if position, err := s.engine.Position(s.currentHandle); err == nil {
			state.Position = position
		}
		if duration, err := s.engine.Duration(s.currentHandle); err == nil {
			state.Duration = duration
		}
	}

	return state
}

// Queue returns a copy of the current queue.
func (s *TransportService) Queue() []domain.MusicTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queue := make([]domain.MusicTrack, len(s.queue))
	copy(queue, s.queue)
	return queue
}

// Shutdown stops playback and the progress publisher.
func (s *TransportService) Shutdown() error {
	s.mu.Lock()

	if s.updateRunning {
		close(s.stopUpdate)
		s.updateRunning = false
	}

	// Release lock before waiting for the goroutine to exit (avoids deadlock)
	s.mu.Unlock()

	s.updateWg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopLocked()
}

// startUpdateRoutine starts the goroutine that periodically publishes
// progress events and detects natural track completion.
func (s *TransportService) startUpdateRoutine() {
	s.mu.Lock()
	if s.updateRunning {
		s.mu.Unlock()
		return
	}
	s.updateRunning = true
	s.updateWg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.updateWg.Done()
		ticker := time.NewTicker(s.updateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopUpdate:
				return

			case <-ticker.C:
				s.publishProgressUpdate()
			}
		}
	}()
}

// publishProgressUpdate publishes a progress event if a track is playing and
// the seek-drag guard is down, and handles natural track completion.
func (s *TransportService) publishProgressUpdate() {
	s.mu.RLock()

	if s.currentHandle == domain.InvalidTrackHandle || s.currentTrack == nil {
		s.mu.RUnlock()
		return
	}

	status, err := s.engine.Status(s.currentHandle)
	if err != nil {
		s.mu.RUnlock()
		return
	}

	position, err := s.engine.Position(s.currentHandle)
	if err != nil {
		s.mu.RUnlock()
		return
	}

	duration, err := s.engine.Duration(s.currentHandle)
	if err != nil {
		s.mu.RUnlock()
		return
	}

	seeking := s.seeking
	shouldFinish := status == domain.StatusStopped && !s.manualStop && s.hasPlayed

	// Release read lock BEFORE any further processing
	s.mu.RUnlock()

	// The input handler owns the displayed position during a drag.
	if !seeking {
		s.bus.Publish(domain.NewTrackProgressEvent(position, duration))
	}

	if shouldFinish {
		s.handleTrackFinished()
	}
}

// handleTrackFinished runs when a track finishes playing naturally: publish
// the completion events and advance to the next queued track if there is one.
func (s *TransportService) handleTrackFinished() {
	s.mu.Lock()

	if s.currentTrack == nil {
		s.mu.Unlock()
		return
	}

	track := *s.currentTrack
	index := s.currentIndex

	s.hasPlayed = false

	if err := s.stopLocked(); err != nil {
		s.logger.Warn("failed to stop finished track", slog.Any("error", err))
	}

	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackCompletedEvent(track))
	s.bus.Publish(domain.NewAutoNextEvent(track, index))

	// Advance; reaching the end of the queue just leaves the transport stopped.
	if err := s.PlayIndex(index + 1); err != nil {
		s.logger.Debug("auto-advance stopped", slog.Any("reason", err))
	}
}

// Verify that TransportService implements the expected interface patterns
var _ interface {
	AddTrack(domain.MusicTrack, bool) error
	PlayIndex(int) error
	Play() error
	Pause() error
	TogglePlay() error
	Stop() error
	Next() error
	Previous() error
	Seek(time.Duration) error
	BeginSeek()
	EndSeek(time.Duration) error
	Snapshot() domain.TransportSnapshot
	Shutdown() error
} = (*TransportService)(nil)
