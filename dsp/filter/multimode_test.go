package filter

import (
	"math"
	"testing"
)

func TestMapFrequencyEndpoints(t *testing.T) {
	if got := MapFrequency(0); got != 100 {
		t.Fatalf("MapFrequency(0): got %v want 100", got)
	}

	if got := MapFrequency(1); got != 10000 {
		t.Fatalf("MapFrequency(1): got %v want 10000", got)
	}
}

func TestMapFrequencyMonotonic(t *testing.T) {
	prev := MapFrequency(0)
	for i := 1; i <= 100; i++ {
		got := MapFrequency(float64(i) / 100)
		if got <= prev {
			t.Fatalf("not monotonic at %v: %v <= %v", float64(i)/100, got, prev)
		}

		prev = got
	}
}

func TestMapFrequencyCubicShape(t *testing.T) {
	// Cubing concentrates resolution in the low end: half travel maps
	// well below the arithmetic midpoint.
	mid := MapFrequency(0.5)
	if mid >= 5050 {
		t.Fatalf("MapFrequency(0.5): got %v, expected below linear midpoint", mid)
	}

	want := 100 + 0.125*(10000-100)
	if math.Abs(mid-want) > 1e-9 {
		t.Fatalf("MapFrequency(0.5): got %v want %v", mid, want)
	}
}

func TestModeFromFlagsTruthTable(t *testing.T) {
	cases := []struct {
		hp, lp bool
		want   Mode
	}{
		{true, false, HighPass},
		{false, true, LowPass},
		{true, true, BandPass},
		{false, false, Bypass},
	}

	for _, tc := range cases {
		if got := ModeFromFlags(tc.hp, tc.lp); got != tc.want {
			t.Fatalf("ModeFromFlags(%v, %v): got %v want %v", tc.hp, tc.lp, got, tc.want)
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestBypassPassesThrough(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetMode(Bypass)

	for i := 0; i < 64; i++ {
		in := math.Sin(float64(i) / 3)
		if got := f.Process(in); got != in {
			t.Fatalf("sample %d: got %v want %v", i, got, in)
		}
	}
}

func TestControlClamping(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetControls(-1, -1)

	if got := f.CutoffHz(); got != 20 {
		t.Fatalf("cutoff: got %v want 20", got)
	}

	if got := f.Resonance(); got != 0 {
		t.Fatalf("resonance: got %v want 0", got)
	}

	f.SetControls(5, 5)

	if got := f.CutoffHz(); got != 14000 {
		t.Fatalf("cutoff: got %v want 14000", got)
	}

	if got := f.Resonance(); got != 2 {
		t.Fatalf("resonance: got %v want 2", got)
	}
}

func TestLowPassPassesDCBlocksHigh(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetMode(LowPass)
	f.SetControls(0.5, 1)

	// DC settles to unity.
	var out float64
	for i := 0; i < 48000; i++ {
		out = f.Process(1)
	}

	if math.Abs(out-1) > 1e-3 {
		t.Fatalf("DC response: got %v want 1", out)
	}

	// A tone far above cutoff is strongly attenuated.
	f.Reset()

	cutoff := f.CutoffHz()
	freq := cutoff * 8
	var peak float64

	for i := 0; i < 48000; i++ {
		in := math.Sin(2 * math.Pi * freq * float64(i) / 48000)

		out = f.Process(in)
		if i > 24000 && math.Abs(out) > peak {
			peak = math.Abs(out)
		}
	}

	if peak > 0.1 {
		t.Fatalf("high tone leak: peak %v", peak)
	}
}

func TestHighPassBlocksDC(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetMode(HighPass)
	f.SetControls(0.5, 1)

	var out float64
	for i := 0; i < 48000; i++ {
		out = f.Process(1)
	}

	if math.Abs(out) > 1e-3 {
		t.Fatalf("DC leak: got %v want ~0", out)
	}
}

func TestStableUnderContinuousModulation(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetMode(BandPass)

	// Sweep cutoff and resonance every sample; output must stay finite
	// and bounded.
	for i := 0; i < 96000; i++ {
		phase := float64(i) / 48000
		freq := 0.5 + 0.5*math.Sin(2*math.Pi*2*phase)
		res := 1 + math.Sin(2*math.Pi*3*phase)

		f.SetControls(freq, res)

		in := math.Sin(2 * math.Pi * 440 * float64(i) / 48000)

		out := f.Process(in)
		if math.IsNaN(out) || math.IsInf(out, 0) {
			t.Fatalf("sample %d: non-finite output", i)
		}

		if math.Abs(out) > 50 {
			t.Fatalf("sample %d: unbounded output %v", i, out)
		}
	}
}

func TestCutoffBoundedBySampleRate(t *testing.T) {
	f, err := New(16000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetMode(LowPass)
	f.SetControls(1, 0)

	// 14 kHz exceeds what a 16 kHz rate can represent; the effective
	// cutoff is limited below Nyquist and processing stays finite.
	for i := 0; i < 16000; i++ {
		out := f.Process(math.Sin(float64(i) / 5))
		if math.IsNaN(out) || math.IsInf(out, 0) {
			t.Fatalf("sample %d: non-finite output", i)
		}
	}
}
