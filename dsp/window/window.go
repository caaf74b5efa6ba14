// Package window provides the analysis windows used when measuring the
// synthesizer's spectral output. Rendered notes are not generally
// periodic in the capture length, so measurement code tapers the capture
// before transforming it.
package window

import "math"

// Type selects a window function.
type Type int

const (
	// Rectangular applies no tapering.
	Rectangular Type = iota
	// Hann is the default measurement window.
	Hann
	// Hamming trades first-sidelobe level for a slower rolloff.
	Hamming
	// Blackman suppresses sidelobes further at the cost of a wider main
	// lobe.
	Blackman
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case Rectangular:
		return "rectangular"
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	case Blackman:
		return "blackman"
	default:
		return "unknown"
	}
}

// Generate returns n symmetric window coefficients. Unknown types fall
// back to rectangular.
func Generate(t Type, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}

	denom := float64(n - 1)

	for i := range out {
		x := float64(i) / denom

		switch t {
		case Hann:
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
		case Hamming:
			out[i] = 0.54 - 0.46*math.Cos(2*math.Pi*x)
		case Blackman:
			out[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
		default:
			out[i] = 1
		}
	}

	return out
}

// Apply multiplies signal by the window of type t, writing into dst. The
// shorter length wins; the number of samples written is returned.
func Apply(dst, signal []float64, t Type) int {
	n := len(signal)
	if len(dst) < n {
		n = len(dst)
	}

	coeffs := Generate(t, n)
	for i := 0; i < n; i++ {
		dst[i] = signal[i] * coeffs[i]
	}

	return n
}

// CoherentGain returns the mean coefficient value of the window: the
// factor by which a windowed sine's spectral peak is attenuated.
func CoherentGain(t Type, n int) float64 {
	coeffs := Generate(t, n)
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs))
}
