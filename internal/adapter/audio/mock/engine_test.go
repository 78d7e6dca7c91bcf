package mock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

func newInitializedEngine(t *testing.T) *Engine {
	t.Helper()
	engine := NewEngine()
	require.NoError(t, engine.Initialize(44100))
	return engine
}

func TestEngine_Lifecycle(t *testing.T) {
	engine := NewEngine()
	assert.False(t, engine.IsInitialized())

	require.NoError(t, engine.Initialize(44100))
	assert.True(t, engine.IsInitialized())

	assert.ErrorIs(t, engine.Initialize(44100), domain.ErrAlreadyInitialized)

	require.NoError(t, engine.Shutdown())
	assert.False(t, engine.IsInitialized())

	assert.ErrorIs(t, engine.Shutdown(), domain.ErrNotInitialized)
}

func TestEngine_FailInitialize(t *testing.T) {
	engine := NewEngine()
	engine.SetFailInitialize(true)

	err := engine.Initialize(44100)
	require.Error(t, err)

	var engineErr *domain.AudioEngineError
	assert.ErrorAs(t, err, &engineErr)
	assert.False(t, engine.IsInitialized())
}

func TestEngine_Load(t *testing.T) {
	engine := newInitializedEngine(t)

	handle, err := engine.Load("/music/a.mp3")
	require.NoError(t, err)
	assert.NotEqual(t, domain.InvalidTrackHandle, handle)

	other, err := engine.Load("/music/b.mp3")
	require.NoError(t, err)
	assert.NotEqual(t, handle, other)

	assert.Equal(t, 2, engine.GetLoadedTracks())
}

func TestEngine_Load_RequiresInitialization(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Load("/music/a.mp3")
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestEngine_Load_Failure(t *testing.T) {
	engine := newInitializedEngine(t)
	engine.SetFailLoad(true)

	_, err := engine.Load("/music/a.mp3")
	assert.Error(t, err)
	assert.Zero(t, engine.GetLoadedTracks())
}

func TestEngine_PlayPauseStatus(t *testing.T) {
	engine := newInitializedEngine(t)
	handle, err := engine.Load("/music/a.mp3")
	require.NoError(t, err)

	status, err := engine.Status(handle)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStopped, status)

	require.NoError(t, engine.Play(handle))
	status, _ = engine.Status(handle)
	assert.Equal(t, domain.StatusPlaying, status)

	require.NoError(t, engine.Pause(handle))
	status, _ = engine.Status(handle)
	assert.Equal(t, domain.StatusPaused, status)
}

func TestEngine_Play_Failure(t *testing.T) {
	engine := newInitializedEngine(t)
	handle, err := engine.Load("/music/a.mp3")
	require.NoError(t, err)

	engine.SetFailPlay(true)
	assert.Error(t, engine.Play(handle))

	status, _ := engine.Status(handle)
	assert.Equal(t, domain.StatusStopped, status)
}

func TestEngine_InvalidHandle(t *testing.T) {
	engine := newInitializedEngine(t)

	assert.ErrorIs(t, engine.Play(42), domain.ErrInvalidTrackHandle)
	assert.ErrorIs(t, engine.Pause(42), domain.ErrInvalidTrackHandle)
	assert.ErrorIs(t, engine.Stop(42), domain.ErrInvalidTrackHandle)
	assert.ErrorIs(t, engine.Unload(42), domain.ErrInvalidTrackHandle)

	_, err := engine.Status(42)
	assert.ErrorIs(t, err, domain.ErrInvalidTrackHandle)
	_, err = engine.FFTData(42)
	assert.ErrorIs(t, err, domain.ErrInvalidTrackHandle)
}

func TestEngine_Seek_Bounds(t *testing.T) {
	engine := newInitializedEngine(t)
	handle, err := engine.Load("/music/a.mp3")
	require.NoError(t, err)

	require.NoError(t, engine.Seek(handle, time.Minute))
	position, err := engine.Position(handle)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, position)

	assert.ErrorIs(t, engine.Seek(handle, -time.Second), domain.ErrInvalidPosition)
	assert.ErrorIs(t, engine.Seek(handle, time.Hour), domain.ErrInvalidPosition)
}

func TestEngine_Volume_Bounds(t *testing.T) {
	engine := newInitializedEngine(t)
	handle, err := engine.Load("/music/a.mp3")
	require.NoError(t, err)

	require.NoError(t, engine.SetVolume(handle, 0.3))
	volume, err := engine.GetVolume(handle)
	require.NoError(t, err)
	assert.Equal(t, 0.3, volume)

	assert.ErrorIs(t, engine.SetVolume(handle, -0.1), domain.ErrInvalidVolume)
	assert.ErrorIs(t, engine.SetVolume(handle, 1.1), domain.ErrInvalidVolume)
}

func TestEngine_FFTData_OnlyWhilePlaying(t *testing.T) {
	engine := newInitializedEngine(t)
	handle, err := engine.Load("/music/a.mp3")
	require.NoError(t, err)

	engine.SetFFTData([]float32{0.1, 0.2, 0.3})

	_, err = engine.FFTData(handle)
	assert.ErrorIs(t, err, domain.ErrNoTrackLoaded)

	require.NoError(t, engine.Play(handle))
	data, err := engine.FFTData(handle)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, data)

	// The returned slice is a copy; mutating it must not poison later reads.
	data[0] = 99
	again, err := engine.FFTData(handle)
	require.NoError(t, err)
	assert.Equal(t, float32(0.1), again[0])
}

func TestEngine_CompleteTrack(t *testing.T) {
	engine := newInitializedEngine(t)
	handle, err := engine.Load("/music/a.mp3")
	require.NoError(t, err)
	require.NoError(t, engine.Play(handle))

	engine.CompleteTrack(handle)

	status, _ := engine.Status(handle)
	assert.Equal(t, domain.StatusStopped, status)

	position, _ := engine.Position(handle)
	duration, _ := engine.Duration(handle)
	assert.Equal(t, duration, position)
}

func TestEngine_GetMetadata(t *testing.T) {
	engine := NewEngine()

	track, err := engine.GetMetadata("/music/My Song.mp3")
	require.NoError(t, err)

	assert.Equal(t, "My Song", track.Title)
	assert.Equal(t, "mp3", track.FileFormat)
	assert.NotEmpty(t, track.ID)
	assert.NotNil(t, track.Metadata)
}
