// Package delay provides a fixed-capacity circular delay line with
// integer and fractional (interpolated) reads.
package delay

import (
	"fmt"
	"math"

	"github.com/dohmansfi/Chroma/dsp/interp"
)

// Line is a circular delay line. Capacity is fixed at construction, so
// Write and Read never allocate; effects size their lines for the longest
// delay they will ever request.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// Option mutates delay line construction parameters.
type Option func(*Line)

// WithMode selects the fractional interpolation kernel.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		d.mode = mode
	}
}

// New returns a delay line of fixed size.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}

	d := &Line{
		buffer: make([]float64, size),
		mode:   interp.Hermite,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d, nil
}

// NewSeconds returns a delay line sized for maxSeconds of audio at
// sampleRate, with headroom for the interpolation kernel.
func NewSeconds(maxSeconds, sampleRate float64, opts ...Option) (*Line, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0 and finite: %f", sampleRate)
	}

	if maxSeconds <= 0 || math.IsNaN(maxSeconds) || math.IsInf(maxSeconds, 0) {
		return nil, fmt.Errorf("delay max time must be > 0 and finite: %f", maxSeconds)
	}

	size := int(math.Ceil(maxSeconds*sampleRate)) + 4

	return New(size, opts...)
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the largest fractional delay Read supports.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 3)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Read(1) returns the most
// recently written sample.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	readPos := (d.writePos - delay + size) % size
	if readPos < 0 {
		readPos += size
	}

	return d.buffer[readPos]
}

// ReadFractional reads a fractional delay in samples using the configured
// interpolation mode. The delay is clamped to [1, MaxDelay].
func (d *Line) ReadFractional(delay float64) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	if delay < 1 {
		delay = 1
	}

	maxDelay := float64(size - 3)
	if delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	if d.mode == interp.Linear {
		return interp.Linear2(t, d.Read(p), d.Read(p+1))
	}

	xm1 := d.Read(maxInt(1, p-1))
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)

	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.writePos = 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
