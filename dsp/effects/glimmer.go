package effects

import (
	"fmt"
	"math"

	"github.com/dohmansfi/Chroma/dsp/delay"
)

const (
	defaultGlimmerRateHz = 0.5
	defaultGlimmerGain   = 0.5

	maxGlimmerRateHz = 10.0
	maxGlimmerGain   = 1.0

	glimmerSpreadBase  = 0.3
	glimmerSpreadRange = 0.8

	// glimmerModDepthSeconds is the tap-time modulation depth before
	// spread scaling.
	glimmerModDepthSeconds = 0.002
)

// glimmerBaseSeconds are the four un-spread tap times. Distinct values
// keep the taps from comb-aligning.
var glimmerBaseSeconds = [4]float64{0.011, 0.017, 0.023, 0.029}

// Glimmer is a four-line cross-feedback chorus. Two quarter-cycle offset
// LFOs modulate the tap times, and each output channel subtracts a tap of
// the opposite input channel; the subtraction is the source of the
// stereo-widening character and must not be simplified to a sum.
type Glimmer struct {
	sampleRate float64
	rateHz     float64
	amount     float64
	gain       float64

	lfoPhase float64

	lines [4]*delay.Line
}

// NewGlimmer creates a Glimmer chorus with musical defaults and amount 0
// (exact passthrough).
func NewGlimmer(sampleRate float64) (*Glimmer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("glimmer sample rate must be > 0 and finite: %f", sampleRate)
	}

	g := &Glimmer{
		sampleRate: sampleRate,
		rateHz:     defaultGlimmerRateHz,
		gain:       defaultGlimmerGain,
	}

	for i := range g.lines {
		line, err := delay.NewSeconds(maxEffectDelaySeconds, sampleRate)
		if err != nil {
			return nil, err
		}

		g.lines[i] = line
	}

	return g, nil
}

// SetRateHz updates the LFO rate shared by both modulators.
func (g *Glimmer) SetRateHz(rateHz float64) {
	if math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
		return
	}

	if rateHz < 0 {
		rateHz = 0
	}

	if rateHz > maxGlimmerRateHz {
		rateHz = maxGlimmerRateHz
	}

	g.rateHz = rateHz
}

// SetAmount updates the single widening control in [0, 1]. It scales both
// the tap-time spread (0.3 + amount*0.8) and the tap gains, so amount 0
// degenerates to exact passthrough.
func (g *Glimmer) SetAmount(amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}

	if amount < 0 {
		amount = 0
	}

	if amount > 1 {
		amount = 1
	}

	g.amount = amount
}

// SetGain updates the tap gain in [0, 1].
func (g *Glimmer) SetGain(gain float64) {
	if math.IsNaN(gain) || math.IsInf(gain, 0) {
		return
	}

	if gain < 0 {
		gain = 0
	}

	if gain > maxGlimmerGain {
		gain = maxGlimmerGain
	}

	g.gain = gain
}

// RateHz returns the LFO rate in Hz.
func (g *Glimmer) RateHz() float64 { return g.rateHz }

// Amount returns the widening control in [0, 1].
func (g *Glimmer) Amount() float64 { return g.amount }

// Gain returns the tap gain in [0, 1].
func (g *Glimmer) Gain() float64 { return g.gain }

// SampleRate returns the sample rate in Hz.
func (g *Glimmer) SampleRate() float64 { return g.sampleRate }

// Reset clears all delay history and rewinds both modulators.
func (g *Glimmer) Reset() {
	for _, line := range g.lines {
		line.Reset()
	}

	g.lfoPhase = 0
}

// ProcessStereo processes one stereo frame.
//
//	Left  = inL + tap(line0, mod0)*gain - tap(line1, mod1)*gain
//	Right = inR + tap(line2, mod0)*gain - tap(line3, mod1)*gain
//
// where line0/line3 hold left-channel history and line1/line2 hold
// right-channel history.
func (g *Glimmer) ProcessStereo(left, right float64) (float64, float64) {
	spread := glimmerSpreadBase + g.amount*glimmerSpreadRange

	// Two modulators, same rate, a quarter cycle apart.
	mod0 := 0.5 * (1 + math.Sin(2*math.Pi*g.lfoPhase))
	mod1 := 0.5 * (1 + math.Sin(2*math.Pi*(g.lfoPhase+0.25)))

	modDepth := glimmerModDepthSeconds * spread

	t0 := (glimmerBaseSeconds[0]*spread + mod0*modDepth) * g.sampleRate
	t1 := (glimmerBaseSeconds[1]*spread + mod1*modDepth) * g.sampleRate
	t2 := (glimmerBaseSeconds[2]*spread + mod0*modDepth) * g.sampleRate
	t3 := (glimmerBaseSeconds[3]*spread + mod1*modDepth) * g.sampleRate

	tapGain := g.gain * g.amount

	outL := left + g.lines[0].ReadFractional(t0)*tapGain - g.lines[1].ReadFractional(t1)*tapGain
	outR := right + g.lines[2].ReadFractional(t2)*tapGain - g.lines[3].ReadFractional(t3)*tapGain

	g.lines[0].Write(left)
	g.lines[1].Write(right)
	g.lines[2].Write(right)
	g.lines[3].Write(left)

	g.lfoPhase += g.rateHz / g.sampleRate
	if g.lfoPhase >= 1 {
		g.lfoPhase -= 1
	}

	return outL, outR
}

// ProcessInPlace applies the chorus to both channel buffers in place.
func (g *Glimmer) ProcessInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("glimmer channel length mismatch: %d vs %d", len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = g.ProcessStereo(left[i], right[i])
	}

	return nil
}
