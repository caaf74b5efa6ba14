package thd

import (
	"math"
	"testing"

	"github.com/dohmansfi/Chroma/dsp/oscillator"
	"github.com/dohmansfi/Chroma/dsp/table"
	"github.com/dohmansfi/Chroma/dsp/window"
)

func TestAnalyzeSignalPureSine(t *testing.T) {
	const (
		sampleRate = 4096.0
		freq       = 128.0
		length     = 4096
	)

	signal := make([]float64, length)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	res, err := AnalyzeSignal(signal, Config{SampleRate: sampleRate})
	if err != nil {
		t.Fatal(err)
	}

	if res.FundamentalHz != freq {
		t.Fatalf("fundamental: got %v want %v", res.FundamentalHz, freq)
	}

	if res.THD > 1e-9 {
		t.Fatalf("pure sine THD: got %v want ~0", res.THD)
	}
}

func TestAnalyzeSignalKnownSecondHarmonic(t *testing.T) {
	const (
		sampleRate = 4096.0
		freq       = 128.0
		length     = 4096
	)

	signal := make([]float64, length)
	for i := range signal {
		phase := 2 * math.Pi * freq * float64(i) / sampleRate
		signal[i] = math.Sin(phase) + 0.1*math.Sin(2*phase)
	}

	res, err := AnalyzeSignal(signal, Config{
		SampleRate:    sampleRate,
		FundamentalHz: freq,
	})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.THD-0.1) > 1e-6 {
		t.Fatalf("THD: got %v want 0.1", res.THD)
	}

	if len(res.HarmonicRatios) == 0 || math.Abs(res.HarmonicRatios[0]-0.1) > 1e-6 {
		t.Fatalf("second harmonic ratio: got %v want 0.1", res.HarmonicRatios)
	}
}

func TestAnalyzeSignalWindowedOffPeriodic(t *testing.T) {
	const (
		sampleRate = 4096.0
		freq       = 130.7
		length     = 4096
	)

	signal := make([]float64, length)
	for i := range signal {
		phase := 2 * math.Pi * freq * float64(i) / sampleRate
		signal[i] = math.Sin(phase) + 0.2*math.Sin(2*phase)
	}

	res, err := AnalyzeSignal(signal, Config{
		SampleRate:    sampleRate,
		FundamentalHz: freq,
		Window:        window.Hann,
	})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.THD-0.2) > 0.02 {
		t.Fatalf("THD: got %v want ~0.2", res.THD)
	}
}

func TestAnalyzeSignalHarmonicOscillator(t *testing.T) {
	const (
		sampleRate = 16384.0
		freq       = 256.0
		length     = 8192
	)

	osc, err := oscillator.New(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	a := table.DefaultA()
	b := table.DefaultB()

	osc.SetFrequency(freq)
	osc.Morph(0, &a, &b)

	signal := make([]float64, length)
	for i := range signal {
		signal[i] = osc.Process()
	}

	res, err := AnalyzeSignal(signal, Config{
		SampleRate:    sampleRate,
		FundamentalHz: freq,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Table A weights partial h at 1/(h+1), so the expected distortion is
	// the root-sum-square of 1/2 .. 1/16.
	wantPower := 0.0
	for h := 2; h <= table.NumHarmonics; h++ {
		wantPower += 1 / float64(h*h)
	}

	want := math.Sqrt(wantPower)
	if math.Abs(res.THD-want) > want*0.01 {
		t.Fatalf("oscillator THD: got %v want %v", res.THD, want)
	}

	if math.Abs(res.HarmonicRatios[0]-0.5) > 0.005 {
		t.Fatalf("second harmonic: got %v want 0.5", res.HarmonicRatios[0])
	}
}

func TestAnalyzeSignalErrors(t *testing.T) {
	if _, err := AnalyzeSignal(nil, Config{SampleRate: 48000}); err == nil {
		t.Fatal("expected error for empty signal")
	}

	if _, err := AnalyzeSignal([]float64{1, 2}, Config{}); err == nil {
		t.Fatal("expected error for missing sample rate")
	}
}
