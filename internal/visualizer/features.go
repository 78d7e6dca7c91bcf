// Package visualizer implements the audio-reactive visualization pipeline:
// spectrum polling, feature extraction, scene deformation, preset management,
// and the per-frame render loop driver.
package visualizer

import (
	"github.com/StephenAlf21/MusicVisualizer3D.github.io/internal/domain"
)

// Displacement weighting. Bass dominates the radial push, mids add texture.
const (
	bassDisplacementWeight = 20.0
	midDisplacementWeight  = 10.0
)

// SensitivityFactor maps the 0-100 user slider to a multiplier in [0.25, 2.0].
// The map is affine and monotonic: sensitivity 0 still gives visible minimal
// reactivity, 100 gives strong but bounded reactivity. Out-of-range input is
// clamped first.
func SensitivityFactor(sensitivity int) float64 {
	s := domain.ClampSensitivity(sensitivity)
	return 0.25 + (float64(s)/100.0)*1.75
}

// Extract reduces a raw spectrum frame into the perceptual feature set that
// drives the scene. It is a pure function: same frame and sensitivity always
// yield the same features. Short or empty frames yield zero energies, never
// an error.
func Extract(frame domain.SpectrumFrame, sensitivity int) domain.FeatureSet {
	bass := bandMean(frame, 0, domain.BassBandEnd)
	mid := bandMean(frame, domain.BassBandEnd, domain.MidBandEnd)
	overall := bandMean(frame, 0, len(frame))

	return domain.FeatureSet{
		BassEnergy:    bass,
		MidEnergy:     mid,
		OverallEnergy: overall,
		Displacement:  (bass*bassDisplacementWeight + mid*midDisplacementWeight) * SensitivityFactor(sensitivity),
	}
}

// bandMean averages the magnitudes in [lo, hi) and normalizes to [0,1].
// Ranges that fall outside the frame are truncated; an empty range yields 0.
func bandMean(frame domain.SpectrumFrame, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi > len(frame) {
		hi = len(frame)
	}
	if hi <= lo {
		return 0
	}

	var sum float64
	for _, v := range frame[lo:hi] {
		sum += float64(v)
	}
	mean := sum / float64(hi-lo) / 255.0

	if mean < 0 {
		return 0
	}
	if mean > 1 {
		return 1
	}
	return mean
}
