package effects

import (
	"fmt"
	"math"

	"github.com/dohmansfi/Chroma/dsp/delay"
)

const (
	defaultPingPongTimeSeconds = 0.3
	defaultPingPongGain        = 0.5

	maxPingPongTimeSeconds = maxEffectDelaySeconds
	maxPingPongGain        = 1.0
	maxPingPongFeedback    = 0.99
)

// PingPong is a stereo cross-feed delay: the left delay line is fed from
// the processed right channel and vice versa, so echoes bounce between
// channels. Time and gain are independent per channel; a single global
// feedback scalar multiplies gain in the recirculation path.
type PingPong struct {
	sampleRate float64

	timeLeft  float64
	timeRight float64
	gainLeft  float64
	gainRight float64
	feedback  float64

	left  *delay.Line
	right *delay.Line
}

// NewPingPong creates a ping-pong delay with musical defaults and zero
// feedback.
func NewPingPong(sampleRate float64) (*PingPong, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pingpong sample rate must be > 0 and finite: %f", sampleRate)
	}

	left, err := delay.NewSeconds(maxEffectDelaySeconds, sampleRate)
	if err != nil {
		return nil, err
	}

	right, err := delay.NewSeconds(maxEffectDelaySeconds, sampleRate)
	if err != nil {
		return nil, err
	}

	return &PingPong{
		sampleRate: sampleRate,
		timeLeft:   defaultPingPongTimeSeconds,
		timeRight:  defaultPingPongTimeSeconds,
		gainLeft:   defaultPingPongGain,
		gainRight:  defaultPingPongGain,
		left:       left,
		right:      right,
	}, nil
}

// SetTimeLeft updates the left-channel delay time in seconds.
func (p *PingPong) SetTimeLeft(seconds float64) {
	p.timeLeft = sanitizeTime(seconds)
}

// SetTimeRight updates the right-channel delay time in seconds.
func (p *PingPong) SetTimeRight(seconds float64) {
	p.timeRight = sanitizeTime(seconds)
}

// SetGainLeft updates the left-channel echo gain in [0, 1].
func (p *PingPong) SetGainLeft(gain float64) {
	p.gainLeft = sanitizeGain(gain)
}

// SetGainRight updates the right-channel echo gain in [0, 1].
func (p *PingPong) SetGainRight(gain float64) {
	p.gainRight = sanitizeGain(gain)
}

// SetFeedback updates the global feedback scalar in [0, 0.99].
func (p *PingPong) SetFeedback(feedback float64) {
	if math.IsNaN(feedback) || math.IsInf(feedback, 0) {
		return
	}

	if feedback < 0 {
		feedback = 0
	}

	if feedback > maxPingPongFeedback {
		feedback = maxPingPongFeedback
	}

	p.feedback = feedback
}

// TimeLeft returns the left-channel delay time in seconds.
func (p *PingPong) TimeLeft() float64 { return p.timeLeft }

// TimeRight returns the right-channel delay time in seconds.
func (p *PingPong) TimeRight() float64 { return p.timeRight }

// GainLeft returns the left-channel echo gain.
func (p *PingPong) GainLeft() float64 { return p.gainLeft }

// GainRight returns the right-channel echo gain.
func (p *PingPong) GainRight() float64 { return p.gainRight }

// Feedback returns the global feedback scalar.
func (p *PingPong) Feedback() float64 { return p.feedback }

// SampleRate returns the sample rate in Hz.
func (p *PingPong) SampleRate() float64 { return p.sampleRate }

// Reset clears both delay histories.
func (p *PingPong) Reset() {
	p.left.Reset()
	p.right.Reset()
}

// ProcessStereo processes one stereo frame. With feedback 0 an impulse in
// one channel produces exactly one echo in the opposite channel at that
// channel's delay time.
func (p *PingPong) ProcessStereo(left, right float64) (float64, float64) {
	wetL := p.left.ReadFractional(p.timeLeft*p.sampleRate) * p.gainLeft
	wetR := p.right.ReadFractional(p.timeRight*p.sampleRate) * p.gainRight

	outL := left + wetL
	outR := right + wetR

	// Crossed recirculation: the left line carries right-channel signal
	// and vice versa, bouncing each echo to the other side.
	p.left.Write(right + wetR*p.feedback)
	p.right.Write(left + wetL*p.feedback)

	return outL, outR
}

// ProcessInPlace applies the delay to both channel buffers in place.
func (p *PingPong) ProcessInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("pingpong channel length mismatch: %d vs %d", len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = p.ProcessStereo(left[i], right[i])
	}

	return nil
}

func sanitizeTime(seconds float64) float64 {
	if math.IsNaN(seconds) || seconds < 0.001 {
		return 0.001
	}

	if math.IsInf(seconds, 0) || seconds > maxPingPongTimeSeconds {
		return maxPingPongTimeSeconds
	}

	return seconds
}

func sanitizeGain(gain float64) float64 {
	if math.IsNaN(gain) || gain < 0 {
		return 0
	}

	if math.IsInf(gain, 0) || gain > maxPingPongGain {
		return maxPingPongGain
	}

	return gain
}
