package oscillator

import (
	"math"
	"testing"

	"github.com/dohmansfi/Chroma/dsp/table"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	if _, err := New(math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
}

func TestSetFrequencyHarmonicSeries(t *testing.T) {
	o, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	o.SetFrequency(440)

	for h := 0; h < table.NumHarmonics; h++ {
		want := 440 * float64(h+1) / 48000
		if math.Abs(o.steps[h]-want) > 1e-15 {
			t.Fatalf("partial %d: step %v want %v", h, o.steps[h], want)
		}
	}
}

func TestMorphEndpointsReproduceTables(t *testing.T) {
	o, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	a := table.DefaultA()
	b := table.DefaultB()

	o.Morph(0, &a, &b)
	for h := 0; h < table.NumHarmonics; h++ {
		if got := o.Gain(h); got != a.At(h) {
			t.Fatalf("amount=0 partial %d: got %v want %v", h, got, a.At(h))
		}
	}

	o.Morph(1, &a, &b)
	for h := 0; h < table.NumHarmonics; h++ {
		if got := o.Gain(h); got != b.At(h) {
			t.Fatalf("amount=1 partial %d: got %v want %v", h, got, b.At(h))
		}
	}
}

func TestMorphIntermediateIsLinear(t *testing.T) {
	o, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	a := table.DefaultA()
	b := table.DefaultB()

	o.Morph(0.25, &a, &b)
	for h := 0; h < table.NumHarmonics; h++ {
		want := a.At(h)*0.75 + b.At(h)*0.25
		if math.Abs(o.Gain(h)-want) > 1e-15 {
			t.Fatalf("partial %d: got %v want %v", h, o.Gain(h), want)
		}
	}
}

func TestProcessSinglePartialIsScaledSine(t *testing.T) {
	o, err := New(1000)
	if err != nil {
		t.Fatal(err)
	}

	// Only the fundamental: a pure 10 Hz sine scaled by the headroom
	// factor.
	var a, b table.Table
	a.Set(0, 1)

	o.SetFrequency(10)
	o.Morph(0, &a, &b)

	for i := 0; i < 500; i++ {
		want := 0.1 * math.Sin(2*math.Pi*10*float64(i)/1000)

		got := o.Process()
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("sample %d: got %v want %v", i, got, want)
		}
	}
}

func TestProcessSumsPartials(t *testing.T) {
	o, err := New(8000)
	if err != nil {
		t.Fatal(err)
	}

	var a, b table.Table
	a.Set(0, 1)
	a.Set(2, 0.5)

	o.SetFrequency(100)
	o.Morph(0, &a, &b)

	for i := 0; i < 400; i++ {
		ti := float64(i) / 8000
		want := 0.1 * (math.Sin(2*math.Pi*100*ti) + 0.5*math.Sin(2*math.Pi*300*ti))

		got := o.Process()
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("sample %d: got %v want %v", i, got, want)
		}
	}
}

func TestResetRewindsPhases(t *testing.T) {
	o, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	a := table.DefaultA()
	b := table.DefaultB()

	o.SetFrequency(220)
	o.Morph(0.5, &a, &b)

	out1 := make([]float64, 128)
	for i := range out1 {
		out1[i] = o.Process()
	}

	o.Reset()

	for i := range out1 {
		got := o.Process()
		if math.Abs(got-out1[i]) > 1e-12 {
			t.Fatalf("sample %d mismatch after reset: got=%g want=%g", i, got, out1[i])
		}
	}
}
