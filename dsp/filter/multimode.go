// Package filter implements the voice's multimode resonant filter.
//
// The filter is a topology-preserving state-variable design: its two
// integrator states stay bounded under per-sample coefficient changes, so
// cutoff and resonance can be modulated continuously without clicks or
// blow-ups.
package filter

import (
	"fmt"
	"math"

	"github.com/dohmansfi/Chroma/dsp/core"
)

// Mode selects the filter response.
type Mode int

const (
	// Bypass passes the input through untouched.
	Bypass Mode = iota
	// HighPass selects the high-pass output.
	HighPass
	// LowPass selects the low-pass output.
	LowPass
	// BandPass selects the band-pass output.
	BandPass
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Bypass:
		return "bypass"
	case HighPass:
		return "highpass"
	case LowPass:
		return "lowpass"
	case BandPass:
		return "bandpass"
	default:
		return "unknown"
	}
}

// ModeFromFlags resolves the hp/lp control flags into a mode. Both flags
// set resolves to band-pass; neither set bypasses the filter.
func ModeFromFlags(hp, lp bool) Mode {
	switch {
	case hp && lp:
		return BandPass
	case hp:
		return HighPass
	case lp:
		return LowPass
	default:
		return Bypass
	}
}

const (
	minCutoffHz = 20.0
	maxCutoffHz = 14000.0

	mapLowHz  = 100.0
	mapHighHz = 10000.0

	minResonance = 0.0
	maxResonance = 2.0

	// minDamping keeps the loop shy of self-oscillation at full
	// resonance.
	minDamping = 0.05

	// maxCutoffRatio bounds cutoff relative to the sample rate so the
	// tan pre-warp stays finite.
	maxCutoffRatio = 0.45
)

// MapFrequency maps a raw control value in [0, 1] to Hz. Cubing before
// the linear map concentrates control resolution in the low end; the
// exponent and range are part of the control-feel contract. The result is
// not clamped here; the filter clamps to its operating range.
func MapFrequency(value float64) float64 {
	return core.LinearMap(value*value*value, mapLowHz, mapHighHz)
}

// Multimode is a state-variable filter with selectable response.
type Multimode struct {
	sampleRate float64
	mode       Mode

	cutoffHz  float64
	resonance float64

	g float64 // pre-warped frequency coefficient
	k float64 // damping (inverse resonance)

	ic1 float64
	ic2 float64
}

// New creates a multimode filter in bypass.
func New(sampleRate float64) (*Multimode, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("filter sample rate must be > 0 and finite: %f", sampleRate)
	}

	f := &Multimode{sampleRate: sampleRate}
	f.SetControls(0.5, 0)

	return f, nil
}

// SetMode selects the filter response.
func (f *Multimode) SetMode(mode Mode) {
	f.mode = mode
}

// SetControls recomputes coefficients from the raw frequency control in
// [0, 1] and the raw resonance. Both are defensively clamped; this is
// called every processing step so modulation is sample-accurate.
func (f *Multimode) SetControls(frequency, resonance float64) {
	if math.IsNaN(frequency) {
		frequency = 0
	}

	cutoff := core.Clamp(MapFrequency(frequency), minCutoffHz, maxCutoffHz)
	if limit := maxCutoffRatio * f.sampleRate; cutoff > limit {
		cutoff = limit
	}

	if math.IsNaN(resonance) {
		resonance = 0
	}

	f.cutoffHz = cutoff
	f.resonance = core.Clamp(resonance, minResonance, maxResonance)

	f.g = math.Tan(math.Pi * cutoff / f.sampleRate)

	f.k = maxResonance - f.resonance
	if f.k < minDamping {
		f.k = minDamping
	}
}

// Mode returns the selected response.
func (f *Multimode) Mode() Mode { return f.mode }

// CutoffHz returns the resolved cutoff frequency in Hz.
func (f *Multimode) CutoffHz() float64 { return f.cutoffHz }

// Resonance returns the clamped resonance.
func (f *Multimode) Resonance() float64 { return f.resonance }

// SampleRate returns the sample rate in Hz.
func (f *Multimode) SampleRate() float64 { return f.sampleRate }

// Reset clears the integrator states.
func (f *Multimode) Reset() {
	f.ic1 = 0
	f.ic2 = 0
}

// Process filters one sample through the selected response.
func (f *Multimode) Process(in float64) float64 {
	if f.mode == Bypass {
		return in
	}

	g, k := f.g, f.k

	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1
	a3 := g * a2

	v3 := in - f.ic2
	v1 := a1*f.ic1 + a2*v3
	v2 := f.ic2 + a2*f.ic1 + a3*v3

	f.ic1 = core.FlushDenormals(2*v1 - f.ic1)
	f.ic2 = core.FlushDenormals(2*v2 - f.ic2)

	switch f.mode {
	case LowPass:
		return v2
	case BandPass:
		return v1
	case HighPass:
		return in - k*v1 - v2
	default:
		return in
	}
}
