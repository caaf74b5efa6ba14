// Package blend implements the waveform-blending low-frequency oscillator.
//
// The oscillator runs three phase-locked shapes (sine, triangle, saw) and
// crossfades between them with logistic sigmoid weights, so one continuous
// shape control sweeps sine → triangle → saw without abrupt switches. The
// saw is smoothed by a one-pole low-pass before blending to keep its
// discontinuity from clicking through the nonlinear crossfade.
package blend

import (
	"fmt"
	"math"

	"github.com/meko-christian/algo-approx"
)

const (
	defaultRateHz  = 1.0
	defaultShape   = 0.0
	maxRateHz      = 100.0
	sawSmoothHz    = 500.0
	blendSharpness = 10.0
)

// Oscillator is a morphing LFO producing a unipolar control signal
// in approximately [0, 1].
type Oscillator struct {
	sampleRate float64
	rateHz     float64
	shape      float64

	phase    float64
	sawState float64
	sawCoef  float64
}

// Option mutates oscillator construction parameters.
type Option func(*Oscillator) error

// WithRateHz sets the initial oscillation rate in Hz.
func WithRateHz(rateHz float64) Option {
	return func(o *Oscillator) error {
		if rateHz < 0 || rateHz > maxRateHz || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("blend rate must be in [0, %v]: %f", maxRateHz, rateHz)
		}

		o.rateHz = rateHz

		return nil
	}
}

// WithShape sets the initial shape control (0 = sine, 0.5 = triangle,
// 1 = saw).
func WithShape(shape float64) Option {
	return func(o *Oscillator) error {
		if math.IsNaN(shape) || math.IsInf(shape, 0) {
			return fmt.Errorf("blend shape must be finite: %f", shape)
		}

		o.shape = shape

		return nil
	}
}

// New creates a waveform-blending oscillator.
func New(sampleRate float64, opts ...Option) (*Oscillator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("blend sample rate must be > 0 and finite: %f", sampleRate)
	}

	o := &Oscillator{
		sampleRate: sampleRate,
		rateHz:     defaultRateHz,
		shape:      defaultShape,
		sawCoef:    math.Exp(-2 * math.Pi * sawSmoothHz / sampleRate),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// SetRateHz updates the oscillation rate. The value is sanitized rather
// than rejected: the audio path recomputes parameters every step and must
// stay non-throwing.
func (o *Oscillator) SetRateHz(rateHz float64) {
	if math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		return
	}

	if rateHz < 0 {
		rateHz = 0
	}

	if rateHz > maxRateHz {
		rateHz = maxRateHz
	}

	o.rateHz = rateHz
}

// SetShape updates the shape control. Values outside [0, 1] are kept:
// the logistic blend extrapolates smoothly, and preserving that behavior
// keeps modulation routed into the shape control artifact-free.
func (o *Oscillator) SetShape(shape float64) {
	if math.IsNaN(shape) || math.IsInf(shape, 0) {
		return
	}

	o.shape = shape
}

// RateHz returns the oscillation rate in Hz.
func (o *Oscillator) RateHz() float64 { return o.rateHz }

// Shape returns the shape control value.
func (o *Oscillator) Shape() float64 { return o.shape }

// SampleRate returns the sample rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// Reset rewinds the oscillator phase and clears the saw smoothing state.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.sawState = 0
}

// Process advances the oscillator by one sample and returns the blended
// output in approximately [0, 1].
func (o *Oscillator) Process() float64 {
	sine := 0.5 * (1 + math.Sin(2*math.Pi*o.phase))
	tri := 1 - math.Abs(2*o.phase-1)
	saw := o.phase

	// One-pole low-pass on the saw removes discontinuity energy that
	// would otherwise click through the nonlinear blend.
	o.sawState = o.sawCoef*o.sawState + (1-o.sawCoef)*saw

	p := o.shape * 2
	w1 := sigmoid(p, 0.5)
	w2 := sigmoid(p, 1.5)

	out := (1-w1)*sine + (w1-w2)*tri + w2*o.sawState

	o.phase += o.rateHz / o.sampleRate
	if o.phase >= 1 {
		o.phase -= 1
	}

	return out
}

// sigmoid is the logistic crossfade weight 1/(1+e^(-sharpness*(p-center))).
func sigmoid(p, center float64) float64 {
	return 1 / (1 + approx.FastExp(-blendSharpness*(p-center)))
}
