// Package table defines harmonic amplitude tables for additive synthesis.
//
// A table holds one amplitude per harmonic partial. Two tables act as
// timbral endpoints; the oscillator crossfades between them with a morph
// amount in [0, 1].
package table

import "github.com/dohmansfi/Chroma/dsp/core"

// NumHarmonics is the fixed partial count shared by all tables and
// oscillators.
const NumHarmonics = 16

// Table is an ordered set of per-partial amplitudes. Values are nominally
// in [0, 1] but not enforced; downstream gain staging absorbs excursions.
type Table struct {
	amps [NumHarmonics]float64
}

// DefaultA returns the first factory table: every harmonic present with a
// 1/(h+1) amplitude decay.
func DefaultA() Table {
	var t Table
	for h := 0; h < NumHarmonics; h++ {
		t.amps[h] = 1 / float64(h+1)
	}

	return t
}

// DefaultB returns the second factory table: odd harmonics only, with the
// same 1/(h+1) decay. Even partials are silent.
func DefaultB() Table {
	var t Table
	for h := 0; h < NumHarmonics; h += 2 {
		t.amps[h] = 1 / float64(h+1)
	}

	return t
}

// At returns the amplitude for partial h (0-indexed). Out-of-range
// indices return 0.
func (t *Table) At(h int) float64 {
	if h < 0 || h >= NumHarmonics {
		return 0
	}

	return t.amps[h]
}

// Set assigns the amplitude for partial h. Out-of-range indices are
// ignored.
func (t *Table) Set(h int, amp float64) {
	if h < 0 || h >= NumHarmonics {
		return
	}

	t.amps[h] = amp
}

// Amplitudes copies all partial amplitudes into dst and returns the number
// of values written.
func (t *Table) Amplitudes(dst []float64) int {
	n := copy(dst, t.amps[:])
	return n
}

// Lerp writes the per-partial linear interpolation between a and b into
// dst: dst[h] = a[h]*(1-amount) + b[h]*amount. The crossfade is linear in
// the amplitude domain, a deliberate simplicity/performance trade-off.
// amount is clamped to [0, 1].
func Lerp(dst []float64, a, b *Table, amount float64) {
	amount = core.Clamp(amount, 0, 1)

	n := NumHarmonics
	if len(dst) < n {
		n = len(dst)
	}

	for h := 0; h < n; h++ {
		dst[h] = a.amps[h]*(1-amount) + b.amps[h]*amount
	}
}
