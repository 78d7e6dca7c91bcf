package visualizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// makeFrame builds a spectrum frame with the given byte value in [lo, hi).
func makeFrame(value byte, lo, hi int) domain.SpectrumFrame {
	frame := make(domain.SpectrumFrame, domain.SpectrumSize)
	for i := lo; i < hi; i++ {
		frame[i] = value
	}
	return frame
}

func TestSensitivityFactor_Endpoints(t *testing.T) {
	assert.InDelta(t, 0.25, SensitivityFactor(0), 1e-9)
	assert.InDelta(t, 2.0, SensitivityFactor(100), 1e-9)
	assert.InDelta(t, 1.125, SensitivityFactor(50), 1e-9)
}

func TestSensitivityFactor_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, SensitivityFactor(0), SensitivityFactor(-20))
	assert.Equal(t, SensitivityFactor(100), SensitivityFactor(250))
}

func TestSensitivityFactor_Monotonic(t *testing.T) {
	prev := SensitivityFactor(0)
	for s := 1; s <= 100; s++ {
		cur := SensitivityFactor(s)
		assert.Greater(t, cur, prev, "factor must increase at sensitivity %d", s)
		prev = cur
	}
}

func TestExtract_ZeroSpectrum(t *testing.T) {
	frame := make(domain.SpectrumFrame, domain.SpectrumSize)

	features := Extract(frame, 100)

	assert.Zero(t, features.BassEnergy)
	assert.Zero(t, features.MidEnergy)
	assert.Zero(t, features.OverallEnergy)
	assert.Zero(t, features.Displacement)
}

func TestExtract_FullBassMaxSensitivity(t *testing.T) {
	// Bass band saturated, everything else silent.
	frame := makeFrame(255, 0, domain.BassBandEnd)

	features := Extract(frame, 100)

	assert.InDelta(t, 1.0, features.BassEnergy, 1e-9)
	assert.InDelta(t, 0.0, features.MidEnergy, 1e-9)
	// 32 of 256 bins at full magnitude.
	assert.InDelta(t, 0.125, features.OverallEnergy, 1e-9)
	// bass*20 at factor 2.0
	assert.InDelta(t, 40.0, features.Displacement, 1e-9)
}

func TestExtract_BandsAreIndependent(t *testing.T) {
	// Energy only in the mid band must not leak into bass.
	frame := makeFrame(255, domain.BassBandEnd, domain.MidBandEnd)

	features := Extract(frame, 50)

	assert.Zero(t, features.BassEnergy)
	assert.InDelta(t, 1.0, features.MidEnergy, 1e-9)
	assert.InDelta(t, 10.0*SensitivityFactor(50), features.Displacement, 1e-9)
}

func TestExtract_SensitivityScalesDisplacementOnly(t *testing.T) {
	frame := makeFrame(128, 0, domain.SpectrumSize)

	low := Extract(frame, 0)
	high := Extract(frame, 100)

	// Energies are independent of sensitivity.
	assert.Equal(t, low.BassEnergy, high.BassEnergy)
	assert.Equal(t, low.MidEnergy, high.MidEnergy)
	assert.Equal(t, low.OverallEnergy, high.OverallEnergy)

	// Displacement scales by the factor ratio 2.0/0.25.
	assert.InDelta(t, 8.0, high.Displacement/low.Displacement, 1e-9)
}

func TestExtract_ShortFrame(t *testing.T) {
	// A frame shorter than the bass band: the missing bins count as silence.
	short := domain.SpectrumFrame{255, 255, 255, 255}

	features := Extract(short, 50)

	assert.InDelta(t, 1.0, features.BassEnergy, 1e-9)
	assert.Zero(t, features.MidEnergy)
	assert.InDelta(t, 1.0, features.OverallEnergy, 1e-9)
}

func TestExtract_EmptyFrame(t *testing.T) {
	features := Extract(nil, 50)

	assert.Zero(t, features.BassEnergy)
	assert.Zero(t, features.MidEnergy)
	assert.Zero(t, features.OverallEnergy)
	assert.Zero(t, features.Displacement)
}

func TestExtract_Deterministic(t *testing.T) {
	frame := makeFrame(200, 0, 128)

	first := Extract(frame, 73)
	second := Extract(frame, 73)

	assert.Equal(t, first, second)
}
