// Package domain defines events for the event-driven architecture.
// Events replace direct callbacks and enable loose coupling between the
// transport, the visualizer pipeline, and the UI shell.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventTrackLoaded    EventType = "track.loaded"
	EventTrackStarted   EventType = "track.started"
	EventTrackPaused    EventType = "track.paused"
	EventTrackStopped   EventType = "track.stopped"
	EventTrackCompleted EventType = "track.completed"
	EventTrackProgress  EventType = "track.progress"
	EventTrackError     EventType = "track.error"
	EventAutoNext       EventType = "track.auto_next"

	// Volume events
	EventVolumeChanged EventType = "volume.changed"
	EventMuteToggled   EventType = "mute.toggled"

	// Queue events
	EventQueueChanged EventType = "queue.changed"
	EventTrackAdded   EventType = "track.added"

	// Visualizer events
	EventPresetChanged       EventType = "visual.preset_changed"
	EventSensitivityChanged  EventType = "visual.sensitivity_changed"
	EventParticlesToggled    EventType = "visual.particles_toggled"
	EventSpectrumUnavailable EventType = "visual.spectrum_unavailable"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackLoadedEvent is published when a track is successfully loaded.
type TrackLoadedEvent struct {
	baseEvent
	Track    MusicTrack
	Handle   TrackHandle
	Duration time.Duration
	Index    int // Queue index
}

// Type returns the event type.
func (e TrackLoadedEvent) Type() EventType {
	return EventTrackLoaded
}

// NewTrackLoadedEvent creates a new TrackLoadedEvent.
func NewTrackLoadedEvent(track MusicTrack, handle TrackHandle, duration time.Duration, index int) TrackLoadedEvent {
	return TrackLoadedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Handle:    handle,
		Duration:  duration,
		Index:     index,
	}
}

// TrackStartedEvent is published when playback starts.
type TrackStartedEvent struct {
	baseEvent
	Track MusicTrack
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType {
	return EventTrackStarted
}

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(track MusicTrack) TrackStartedEvent {
	return TrackStartedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackPausedEvent is published when playback is paused.
type TrackPausedEvent struct {
	baseEvent
	Track    MusicTrack
	Position time.Duration
}

// Type returns the event type.
func (e TrackPausedEvent) Type() EventType {
	return EventTrackPaused
}

// NewTrackPausedEvent creates a new TrackPausedEvent.
func NewTrackPausedEvent(track MusicTrack, position time.Duration) TrackPausedEvent {
	return TrackPausedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Position:  position,
	}
}

// TrackStoppedEvent is published when playback is stopped.
type TrackStoppedEvent struct {
	baseEvent
	Track MusicTrack
}

// Type returns the event type.
func (e TrackStoppedEvent) Type() EventType {
	return EventTrackStopped
}

// NewTrackStoppedEvent creates a new TrackStoppedEvent.
func NewTrackStoppedEvent(track MusicTrack) TrackStoppedEvent {
	return TrackStoppedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackCompletedEvent is published when a track finishes playing naturally.
type TrackCompletedEvent struct {
	baseEvent
	Track MusicTrack
}

// Type returns the event type.
func (e TrackCompletedEvent) Type() EventType {
	return EventTrackCompleted
}

// NewTrackCompletedEvent creates a new TrackCompletedEvent.
func NewTrackCompletedEvent(track MusicTrack) TrackCompletedEvent {
	return TrackCompletedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackProgressEvent is published periodically during playback.
type TrackProgressEvent struct {
	baseEvent
	Position time.Duration
	Duration time.Duration
}

// Type returns the event type.
func (e TrackProgressEvent) Type() EventType {
	return EventTrackProgress
}

// NewTrackProgressEvent creates a new TrackProgressEvent.
func NewTrackProgressEvent(position, duration time.Duration) TrackProgressEvent {
	return TrackProgressEvent{
		baseEvent: newBaseEvent(),
		Position:  position,
		Duration:  duration,
	}
}

// TrackErrorEvent is published when an error occurs with a track.
// Playback start rejections surface here instead of propagating into the
// render loop.
type TrackErrorEvent struct {
	baseEvent
	Track MusicTrack
	Error error
}

// Type returns the event type.
func (e TrackErrorEvent) Type() EventType {
	return EventTrackError
}

// NewTrackErrorEvent creates a new TrackErrorEvent.
func NewTrackErrorEvent(track MusicTrack, err error) TrackErrorEvent {
	return TrackErrorEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Error:     err,
	}
}

// AutoNextEvent is published when a track finishes and the queue should auto-advance.
type AutoNextEvent struct {
	baseEvent
	Track        MusicTrack
	CurrentIndex int
}

// Type returns the event type.
func (e AutoNextEvent) Type() EventType {
	return EventAutoNext
}

// NewAutoNextEvent creates a new AutoNextEvent.
func NewAutoNextEvent(track MusicTrack, index int) AutoNextEvent {
	return AutoNextEvent{
		baseEvent:    newBaseEvent(),
		Track:        track,
		CurrentIndex: index,
	}
}

// VolumeChangedEvent is published when the volume changes.
type VolumeChangedEvent struct {
	baseEvent
	Volume float64 // 0.0 to 1.0
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType {
	return EventVolumeChanged
}

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64) VolumeChangedEvent {
	return VolumeChangedEvent{
		baseEvent: newBaseEvent(),
		Volume:    volume,
	}
}

// MuteToggledEvent is published when mute is toggled.
type MuteToggledEvent struct {
	baseEvent
	Muted bool
}

// Type returns the event type.
func (e MuteToggledEvent) Type() EventType {
	return EventMuteToggled
}

// NewMuteToggledEvent creates a new MuteToggledEvent.
func NewMuteToggledEvent(muted bool) MuteToggledEvent {
	return MuteToggledEvent{
		baseEvent: newBaseEvent(),
		Muted:     muted,
	}
}

// QueueChangedEvent is published when the queue changes.
type QueueChangedEvent struct {
	baseEvent
	Queue []MusicTrack
	Index int // Current track index
}

// Type returns the event type.
func (e QueueChangedEvent) Type() EventType {
	return EventQueueChanged
}

// NewQueueChangedEvent creates a new QueueChangedEvent.
func NewQueueChangedEvent(queue []MusicTrack, index int) QueueChangedEvent {
	return QueueChangedEvent{
		baseEvent: newBaseEvent(),
		Queue:     queue,
		Index:     index,
	}
}

// TrackAddedEvent is published when a track is added to the queue.
type TrackAddedEvent struct {
	baseEvent
	Track MusicTrack
	Index int
}

// Type returns the event type.
func (e TrackAddedEvent) Type() EventType {
	return EventTrackAdded
}

// NewTrackAddedEvent creates a new TrackAddedEvent.
func NewTrackAddedEvent(track MusicTrack, index int) TrackAddedEvent {
	return TrackAddedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Index:     index,
	}
}

// PresetChangedEvent is published after the registry installs a new preset.
type PresetChangedEvent struct {
	baseEvent
	Kind PresetKind
}

// Type returns the event type.
func (e PresetChangedEvent) Type() EventType {
	return EventPresetChanged
}

// NewPresetChangedEvent creates a new PresetChangedEvent.
func NewPresetChangedEvent(kind PresetKind) PresetChangedEvent {
	return PresetChangedEvent{
		baseEvent: newBaseEvent(),
		Kind:      kind,
	}
}

// SensitivityChangedEvent is published when the sensitivity slider moves.
type SensitivityChangedEvent struct {
	baseEvent
	Sensitivity int // 0-100, already clamped
}

// Type returns the event type.
func (e SensitivityChangedEvent) Type() EventType {
	return EventSensitivityChanged
}

// NewSensitivityChangedEvent creates a new SensitivityChangedEvent.
func NewSensitivityChangedEvent(sensitivity int) SensitivityChangedEvent {
	return SensitivityChangedEvent{
		baseEvent:   newBaseEvent(),
		Sensitivity: sensitivity,
	}
}

// ParticlesToggledEvent is published when the particle layer is toggled.
type ParticlesToggledEvent struct {
	baseEvent
	Enabled bool
}

// Type returns the event type.
func (e ParticlesToggledEvent) Type() EventType {
	return EventParticlesToggled
}

// NewParticlesToggledEvent creates a new ParticlesToggledEvent.
func NewParticlesToggledEvent(enabled bool) ParticlesToggledEvent {
	return ParticlesToggledEvent{
		baseEvent: newBaseEvent(),
		Enabled:   enabled,
	}
}

// SpectrumUnavailableEvent is published once when the spectrum pipeline fails
// to activate. The visualizer keeps running in idle mode afterwards.
type SpectrumUnavailableEvent struct {
	baseEvent
	Error error
}

// Type returns the event type.
func (e SpectrumUnavailableEvent) Type() EventType {
	return EventSpectrumUnavailable
}

// NewSpectrumUnavailableEvent creates a new SpectrumUnavailableEvent.
func NewSpectrumUnavailableEvent(err error) SpectrumUnavailableEvent {
	return SpectrumUnavailableEvent{
		baseEvent: newBaseEvent(),
		Error:     err,
	}
}
