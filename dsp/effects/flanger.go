package effects

import (
	"fmt"
	"math"

	"github.com/dohmansfi/Chroma/dsp/delay"
)

const (
	defaultFlangerRateHz       = 0.25
	defaultFlangerDepthSeconds = 0.002

	maxFlangerRateHz       = 20.0
	maxFlangerDepthSeconds = 0.01

	// maxEffectDelaySeconds is the fixed history capacity shared by all
	// effect delay lines.
	maxEffectDelaySeconds = 4.0
)

// Flanger is a modulated feedforward comb: the input is summed with
// itself delayed by a triangle-swept time in [0, 2*depth]. One modulator
// instance drives both stereo channels, so the comb sweep is identical on
// the left and right.
type Flanger struct {
	sampleRate   float64
	rateHz       float64
	depthSeconds float64

	lfoPhase float64

	left  *delay.Line
	right *delay.Line
}

// NewFlanger creates a flanger with musical defaults.
func NewFlanger(sampleRate float64) (*Flanger, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("flanger sample rate must be > 0 and finite: %f", sampleRate)
	}

	left, err := delay.NewSeconds(maxEffectDelaySeconds, sampleRate)
	if err != nil {
		return nil, err
	}

	right, err := delay.NewSeconds(maxEffectDelaySeconds, sampleRate)
	if err != nil {
		return nil, err
	}

	return &Flanger{
		sampleRate:   sampleRate,
		rateHz:       defaultFlangerRateHz,
		depthSeconds: defaultFlangerDepthSeconds,
		left:         left,
		right:        right,
	}, nil
}

// SetRateHz updates the sweep rate. Values are sanitized, not rejected:
// parameters are re-applied every processing step.
func (f *Flanger) SetRateHz(rateHz float64) {
	if math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		return
	}

	if rateHz < 0 {
		rateHz = 0
	}

	if rateHz > maxFlangerRateHz {
		rateHz = maxFlangerRateHz
	}

	f.rateHz = rateHz
}

// SetDepthSeconds updates the sweep depth; the delay oscillates in
// [0, 2*depth].
func (f *Flanger) SetDepthSeconds(depth float64) {
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return
	}

	if depth < 0 {
		depth = 0
	}

	if depth > maxFlangerDepthSeconds {
		depth = maxFlangerDepthSeconds
	}

	f.depthSeconds = depth
}

// RateHz returns the sweep rate in Hz.
func (f *Flanger) RateHz() float64 { return f.rateHz }

// DepthSeconds returns the sweep depth in seconds.
func (f *Flanger) DepthSeconds() float64 { return f.depthSeconds }

// SampleRate returns the sample rate in Hz.
func (f *Flanger) SampleRate() float64 { return f.sampleRate }

// Reset clears delay history and rewinds the modulator.
func (f *Flanger) Reset() {
	f.left.Reset()
	f.right.Reset()
	f.lfoPhase = 0
}

// ProcessStereo processes one stereo frame: output = input + delayed.
func (f *Flanger) ProcessStereo(left, right float64) (float64, float64) {
	// Bipolar triangle in [-1, 1] keeps the swept delay in [0, 2*depth].
	tri := 1 - 4*math.Abs(f.lfoPhase-0.5)

	delaySeconds := tri*f.depthSeconds + f.depthSeconds
	delaySamples := delaySeconds * f.sampleRate

	outL := left + f.left.ReadFractional(delaySamples)
	outR := right + f.right.ReadFractional(delaySamples)

	f.left.Write(left)
	f.right.Write(right)

	f.lfoPhase += f.rateHz / f.sampleRate
	if f.lfoPhase >= 1 {
		f.lfoPhase -= 1
	}

	return outL, outR
}

// ProcessInPlace applies the flanger to both channel buffers in place.
func (f *Flanger) ProcessInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("flanger channel length mismatch: %d vs %d", len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = f.ProcessStereo(left[i], right[i])
	}

	return nil
}
