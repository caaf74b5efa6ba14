package effects

import (
	"math"
	"testing"
)

func TestNewFlangerValidation(t *testing.T) {
	if _, err := NewFlanger(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	if _, err := NewFlanger(math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
}

func TestFlangerStaticDelayImpulse(t *testing.T) {
	f, err := NewFlanger(1000)
	if err != nil {
		t.Fatal(err)
	}

	// Rate 0 pins the triangle at its minimum, so the swept delay sits
	// at the one-sample floor: direct impulse plus a single echo.
	f.SetRateHz(0)
	f.SetDepthSeconds(0)

	for i := 0; i < 32; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}

		outL, outR := f.ProcessStereo(in, in)

		want := 0.0
		if i == 0 || i == 1 {
			want = 1
		}

		if math.Abs(outL-want) > 1e-12 || math.Abs(outR-want) > 1e-12 {
			t.Fatalf("sample %d: got (%v, %v) want %v", i, outL, outR, want)
		}
	}
}

func TestFlangerChannelsShareModulator(t *testing.T) {
	f, err := NewFlanger(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetRateHz(1)
	f.SetDepthSeconds(0.002)

	// Identical channel inputs must produce identical channel outputs:
	// both channels follow the same modulator instance.
	for i := 0; i < 4800; i++ {
		in := math.Sin(2 * math.Pi * 220 * float64(i) / 48000)

		outL, outR := f.ProcessStereo(in, in)
		if outL != outR {
			t.Fatalf("sample %d: channels diverged (%v vs %v)", i, outL, outR)
		}
	}
}

func TestFlangerSweepStaysFinite(t *testing.T) {
	f, err := NewFlanger(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetRateHz(5)
	f.SetDepthSeconds(0.01)

	for i := 0; i < 96000; i++ {
		in := math.Sin(2 * math.Pi * 440 * float64(i) / 48000)

		outL, outR := f.ProcessStereo(in, -in)
		if math.IsNaN(outL) || math.IsNaN(outR) || math.Abs(outL) > 3 || math.Abs(outR) > 3 {
			t.Fatalf("sample %d: unexpected output (%v, %v)", i, outL, outR)
		}
	}
}

func TestFlangerSetterSanitization(t *testing.T) {
	f, err := NewFlanger(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetRateHz(-1)
	if got := f.RateHz(); got != 0 {
		t.Fatalf("rate: got %v want 0", got)
	}

	f.SetRateHz(1e6)
	if got := f.RateHz(); got != maxFlangerRateHz {
		t.Fatalf("rate: got %v want %v", got, maxFlangerRateHz)
	}

	f.SetDepthSeconds(1)
	if got := f.DepthSeconds(); got != maxFlangerDepthSeconds {
		t.Fatalf("depth: got %v want %v", got, maxFlangerDepthSeconds)
	}

	f.SetDepthSeconds(math.NaN())
	if got := f.DepthSeconds(); got != maxFlangerDepthSeconds {
		t.Fatalf("NaN depth must be ignored: got %v", got)
	}
}

func TestFlangerResetRestoresState(t *testing.T) {
	f, err := NewFlanger(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetRateHz(2)
	f.SetDepthSeconds(0.003)

	out1 := make([]float64, 256)
	for i := range out1 {
		l, _ := f.ProcessStereo(float64(i%7), 0)
		out1[i] = l
	}

	f.Reset()

	for i := range out1 {
		l, _ := f.ProcessStereo(float64(i%7), 0)
		if math.Abs(l-out1[i]) > 1e-12 {
			t.Fatalf("sample %d mismatch after reset: got=%g want=%g", i, l, out1[i])
		}
	}
}

func TestFlangerProcessInPlace(t *testing.T) {
	f1, err := NewFlanger(48000)
	if err != nil {
		t.Fatal(err)
	}

	f2, err := NewFlanger(48000)
	if err != nil {
		t.Fatal(err)
	}

	left := make([]float64, 128)
	right := make([]float64, 128)
	for i := range left {
		left[i] = math.Sin(float64(i) / 5)
		right[i] = math.Cos(float64(i) / 7)
	}

	wantL := make([]float64, len(left))
	wantR := make([]float64, len(right))
	for i := range left {
		wantL[i], wantR[i] = f1.ProcessStereo(left[i], right[i])
	}

	if err := f2.ProcessInPlace(left, right); err != nil {
		t.Fatalf("ProcessInPlace() error = %v", err)
	}

	for i := range left {
		if left[i] != wantL[i] || right[i] != wantR[i] {
			t.Fatalf("sample %d mismatch", i)
		}
	}

	if err := f2.ProcessInPlace(make([]float64, 3), make([]float64, 4)); err == nil {
		t.Fatal("expected error for mismatched channel lengths")
	}
}
