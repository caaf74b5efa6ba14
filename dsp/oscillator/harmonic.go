// Package oscillator implements the additive harmonic oscillator: a bank
// of phase-accumulating sine partials tuned to an exact harmonic series
// and weighted by gains interpolated between two harmonic tables.
package oscillator

import (
	"fmt"
	"math"

	"github.com/dohmansfi/Chroma/dsp/table"
)

// headroom compensates for summing up to 16 unity-amplitude partials.
// The value is part of the instrument's loudness contract and must not
// change between implementations.
const headroom = 0.1

// Harmonic is a bank of table.NumHarmonics sine partials.
//
// Partials above Nyquist are not filtered; aliasing of high harmonics at
// high fundamentals is an accepted characteristic of the instrument.
type Harmonic struct {
	sampleRate float64
	frequency  float64

	phases [table.NumHarmonics]float64
	steps  [table.NumHarmonics]float64
	gains  [table.NumHarmonics]float64
}

// New creates a harmonic oscillator with all partial gains at zero.
func New(sampleRate float64) (*Harmonic, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("oscillator sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Harmonic{sampleRate: sampleRate}, nil
}

// SetFrequency retunes partial h to frequency*(h+1): an exact harmonic
// series with no detuning or stretching. Phases are preserved so retuning
// a sounding note does not click.
func (o *Harmonic) SetFrequency(frequency float64) {
	if frequency < 0 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return
	}

	o.frequency = frequency
	for h := 0; h < table.NumHarmonics; h++ {
		o.steps[h] = frequency * float64(h+1) / o.sampleRate
	}
}

// Morph sets the per-partial gains to the linear crossfade between tables
// a and b: gain[h] = a[h]*(1-amount) + b[h]*amount, amount clamped to
// [0, 1].
func (o *Harmonic) Morph(amount float64, a, b *table.Table) {
	table.Lerp(o.gains[:], a, b, amount)
}

// Frequency returns the fundamental frequency in Hz.
func (o *Harmonic) Frequency() float64 { return o.frequency }

// SampleRate returns the sample rate in Hz.
func (o *Harmonic) SampleRate() float64 { return o.sampleRate }

// Gain returns the current gain for partial h.
func (o *Harmonic) Gain(h int) float64 {
	if h < 0 || h >= table.NumHarmonics {
		return 0
	}

	return o.gains[h]
}

// Reset rewinds all partial phases.
func (o *Harmonic) Reset() {
	for h := range o.phases {
		o.phases[h] = 0
	}
}

// Process advances every partial by one sample and returns the weighted
// sum scaled by the fixed headroom factor.
func (o *Harmonic) Process() float64 {
	sum := 0.0

	for h := 0; h < table.NumHarmonics; h++ {
		sum += math.Sin(2*math.Pi*o.phases[h]) * o.gains[h]

		o.phases[h] += o.steps[h]
		if o.phases[h] >= 1 {
			o.phases[h] -= 1
		}
	}

	return headroom * sum
}
