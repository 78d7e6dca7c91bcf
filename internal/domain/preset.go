// Package domain defines the closed set of visual preset kinds.
package domain

// PresetKind identifies a visual preset. The set is closed; switching logic
// must handle every kind exhaustively instead of comparing free-form strings.
type PresetKind int

const (
	// PresetSphere is the deforming geometric mesh (a wireframe sphere shell).
	PresetSphere PresetKind = iota

	// PresetBars is the bar-graph equalizer grid.
	PresetBars

	// PresetParticles is the reactive particle field.
	PresetParticles
)

// Valid reports whether k names a known preset.
func (k PresetKind) Valid() bool {
	switch k {
	case PresetSphere, PresetBars, PresetParticles:
		return true
	default:
		return false
	}
}

// String returns the stable identifier used for logging and persistence.
func (k PresetKind) String() string {
	switch k {
	case PresetSphere:
		return "sphere"
	case PresetBars:
		return "bars"
	case PresetParticles:
		return "particles"
	default:
		return "unknown"
	}
}

// ParsePresetKind maps a persisted identifier back to a kind.
// Unknown identifiers fall back to the sphere preset.
func ParsePresetKind(s string) PresetKind {
	switch s {
	case "bars":
		return PresetBars
	case "particles":
		return PresetParticles
	default:
		return PresetSphere
	}
}
