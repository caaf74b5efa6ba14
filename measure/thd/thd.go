// Package thd measures total harmonic distortion of rendered audio. It
// is used to quantify how much of a voice's energy sits in harmonics
// above the fundamental, both for verifying the additive oscillator's
// partial weights and for characterizing the filter's effect on them.
package thd

import (
	"fmt"
	"math"

	"github.com/dohmansfi/Chroma/dsp/core"
	"github.com/dohmansfi/Chroma/dsp/spectrum"
	"github.com/dohmansfi/Chroma/dsp/window"
)

// Config holds the analysis parameters.
type Config struct {
	// SampleRate of the analyzed signal in Hz. Required.
	SampleRate float64

	// FundamentalHz pins the fundamental to a known frequency. Zero
	// means detect it from the spectral peak.
	FundamentalHz float64

	// MaxHarmonics bounds the harmonic count above the fundamental.
	// Zero means every harmonic below Nyquist.
	MaxHarmonics int

	// Window is the analysis window. Rectangular is exact for signals
	// periodic in the capture; anything else tolerates leakage.
	Window window.Type
}

// Result holds one distortion measurement.
type Result struct {
	// FundamentalHz is the resolved fundamental frequency.
	FundamentalHz float64

	// FundamentalLevel is the fundamental's spectral magnitude.
	FundamentalLevel float64

	// THD is the root-sum-square of the harmonic levels relative to the
	// fundamental level.
	THD float64

	// THDdB is THD in decibels (negative for THD < 1).
	THDdB float64

	// HarmonicRatios holds harmonic-to-fundamental level ratios,
	// starting at the second harmonic.
	HarmonicRatios []float64
}

// leakageBins widens each harmonic's capture when a tapering window
// smears its energy across neighbouring bins.
func leakageBins(t window.Type) int {
	if t == window.Rectangular {
		return 0
	}

	return 3
}

// AnalyzeSignal measures the harmonic distortion of a time-domain
// signal.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	if len(signal) == 0 {
		return Result{}, fmt.Errorf("thd signal must not be empty")
	}

	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return Result{}, fmt.Errorf("thd sample rate must be > 0 and finite: %f", cfg.SampleRate)
	}

	mags, err := spectrum.AnalyzeWindowed(signal, cfg.Window)
	if err != nil {
		return Result{}, err
	}

	fftSize := 2 * (len(mags) - 1)
	binHz := cfg.SampleRate / float64(fftSize)

	fundBin := spectrum.PeakBin(mags)
	if cfg.FundamentalHz > 0 {
		fundBin = int(math.Round(cfg.FundamentalHz / binHz))
	}

	if fundBin < 1 || fundBin >= len(mags) {
		return Result{}, fmt.Errorf("thd fundamental bin out of range: %d", fundBin)
	}

	capture := leakageBins(cfg.Window)

	fundLevel := bandLevel(mags, fundBin, capture)
	if fundLevel == 0 {
		return Result{}, fmt.Errorf("thd fundamental level is zero at %f Hz", float64(fundBin)*binHz)
	}

	harmonicPower := 0.0
	ratios := make([]float64, 0, 8)

	for k := 2; ; k++ {
		if cfg.MaxHarmonics > 0 && k-1 > cfg.MaxHarmonics {
			break
		}

		bin := k * fundBin
		if bin >= len(mags) {
			break
		}

		level := bandLevel(mags, bin, capture)
		harmonicPower += level * level
		ratios = append(ratios, level/fundLevel)
	}

	ratio := math.Sqrt(harmonicPower) / fundLevel

	return Result{
		FundamentalHz:    float64(fundBin) * binHz,
		FundamentalLevel: fundLevel,
		THD:              ratio,
		THDdB:            core.LinearToDB(ratio),
		HarmonicRatios:   ratios,
	}, nil
}

// bandLevel returns the root-sum-square magnitude of the bins within
// capture of center.
func bandLevel(mags []float64, center, capture int) float64 {
	lo := center - capture
	if lo < 0 {
		lo = 0
	}

	hi := center + capture
	if hi >= len(mags) {
		hi = len(mags) - 1
	}

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mags[i] * mags[i]
	}

	return math.Sqrt(sum)
}
