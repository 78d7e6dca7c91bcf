package visualizer

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/audio/mock"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/adapter/eventbus"
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// testLogger returns a logger that discards output for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// eventCounter counts published events of one type.
type eventCounter struct {
	mu    sync.Mutex
	count int
}

func (c *eventCounter) handle(domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

func (c *eventCounter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// newTestSource builds a spectrum source over a mock engine. The returned
// setter controls which handle the source samples.
func newTestSource(t *testing.T) (*SpectrumSource, *mock.Engine, *eventbus.SyncEventBus, func(domain.TrackHandle)) {
	t.Helper()

	engine := mock.NewEngine()
	bus := eventbus.NewSyncEventBus()
	t.Cleanup(func() {
		_ = bus.Close()
	})

	var mu sync.Mutex
	handle := domain.InvalidTrackHandle

	source := NewSpectrumSource(testLogger(), engine, bus, 44100, func() domain.TrackHandle {
		mu.Lock()
		defer mu.Unlock()
		return handle
	})

	setHandle := func(h domain.TrackHandle) {
		mu.Lock()
		defer mu.Unlock()
		handle = h
	}

	return source, engine, bus, setHandle
}

func TestSpectrumSource_Activate_Idempotent(t *testing.T) {
	source, engine, _, _ := newTestSource(t)

	require.NoError(t, source.Activate())
	assert.True(t, source.Ready())
	assert.True(t, engine.IsInitialized())

	// Re-activation is a no-op, not an error.
	require.NoError(t, source.Activate())
	assert.True(t, source.Ready())
}

func TestSpectrumSource_Activate_FailureReportedOnce(t *testing.T) {
	source, engine, bus, _ := newTestSource(t)
	engine.SetFailInitialize(true)

	var counter eventCounter
	bus.Subscribe(domain.EventSpectrumUnavailable, counter.handle)

	assert.Error(t, source.Activate())
	assert.Error(t, source.Activate())
	assert.False(t, source.Ready())

	// The failure surfaces on the bus exactly once, however often activation
	// is retried.
	assert.Equal(t, 1, counter.value())
}

func TestSpectrumSource_Activate_Retryable(t *testing.T) {
	source, engine, _, _ := newTestSource(t)

	engine.SetFailInitialize(true)
	assert.Error(t, source.Activate())

	engine.SetFailInitialize(false)
	require.NoError(t, source.Activate())
	assert.True(t, source.Ready())
}

func TestSpectrumSource_Poll_NotReady(t *testing.T) {
	source, _, _, _ := newTestSource(t)

	frame, ok := source.Poll()

	assert.False(t, ok)
	assert.Nil(t, frame)
}

func TestSpectrumSource_Poll_NoActiveHandle(t *testing.T) {
	source, _, _, _ := newTestSource(t)
	require.NoError(t, source.Activate())

	_, ok := source.Poll()

	assert.False(t, ok)
}

func TestSpectrumSource_Poll_EngineCannotProduceData(t *testing.T) {
	source, engine, _, setHandle := newTestSource(t)
	require.NoError(t, source.Activate())

	handle, err := engine.Load("/music/test.mp3")
	require.NoError(t, err)
	setHandle(handle)

	// Track is loaded but not playing; the engine refuses FFT data and the
	// poll degrades to a miss instead of an error.
	_, ok := source.Poll()
	assert.False(t, ok)
}

func TestSpectrumSource_Poll_QuantizesSpectrum(t *testing.T) {
	source, engine, _, setHandle := newTestSource(t)
	require.NoError(t, source.Activate())

	handle, err := engine.Load("/music/test.mp3")
	require.NoError(t, err)
	require.NoError(t, engine.Play(handle))
	setHandle(handle)

	data := make([]float32, 512)
	for i := range data {
		data[i] = 0.5
	}
	engine.SetFFTData(data)

	frame, ok := source.Poll()
	require.True(t, ok)
	require.Len(t, frame, domain.SpectrumSize)
	for _, b := range frame {
		assert.InDelta(t, 127, int(b), 1)
	}
}

func TestQuantize_EmptyInput(t *testing.T) {
	frame := quantize(nil)

	require.Len(t, frame, domain.SpectrumSize)
	for _, b := range frame {
		assert.Zero(t, b)
	}
}

func TestQuantize_ShortInputLeavesUpperBinsZero(t *testing.T) {
	frame := quantize([]float32{1, 1})

	require.Len(t, frame, domain.SpectrumSize)
	assert.Equal(t, byte(255), frame[0])
	assert.Equal(t, byte(255), frame[1])
	for _, b := range frame[2:] {
		assert.Zero(t, b)
	}
}

func TestQuantize_ClampsOverrange(t *testing.T) {
	frame := quantize([]float32{3.5})

	assert.Equal(t, byte(255), frame[0])
}
