// Package spectrum provides magnitude-spectrum analysis helpers used to
// verify the synthesizer's harmonic output.
package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/dohmansfi/Chroma/dsp/window"
)

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// The square root is computed with the SIMD-dispatched vecmath kernel.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(in))
	vecmath.Magnitude(out, re, im)

	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(in))
	vecmath.Power(out, re, im)

	return out
}

// Analyze computes the single-sided magnitude spectrum of a real signal.
// The FFT size is the next power of two at or above len(signal); the
// signal is zero-padded to it. The returned slice holds fftSize/2+1 bins
// from DC to Nyquist.
func Analyze(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("spectrum signal must not be empty")
	}

	fftSize := nextPowerOf2(len(signal))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum forward transform: %w", err)
	}

	return Magnitude(out[:fftSize/2+1]), nil
}

// AnalyzeWindowed applies the given analysis window to the signal before
// transforming it. Use this when the signal is not periodic in the
// capture length; the spectral peaks are scaled by the window's coherent
// gain.
func AnalyzeWindowed(signal []float64, windowType window.Type) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("spectrum signal must not be empty")
	}

	tapered := make([]float64, len(signal))
	window.Apply(tapered, signal, windowType)

	return Analyze(tapered)
}

// BinFrequency returns the center frequency in Hz of bin k for the given
// FFT size and sample rate.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}

	return float64(k) * sampleRate / float64(fftSize)
}

// PeakBin returns the index of the largest-magnitude bin in mags.
func PeakBin(mags []float64) int {
	peak := 0
	peakVal := math.Inf(-1)

	for i, v := range mags {
		if v > peakVal {
			peak = i
			peakVal = v
		}
	}

	return peak
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
