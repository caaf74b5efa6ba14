package synth

import (
	"math"
	"sync/atomic"
)

// Bank is the engine's control vector: NumParams float64 scalars stored
// as atomic bit patterns. The host control surface writes values with
// Set while the audio thread reads them with Get or Snapshot; neither
// side takes a lock and neither side can block the other. Coherence is
// per scalar, which is sufficient because every consumer clamps and
// sanitizes its inputs.
type Bank struct {
	values []atomic.Uint64
}

// NewBank returns a control vector with every parameter at zero.
func NewBank() *Bank {
	return &Bank{values: make([]atomic.Uint64, NumParams)}
}

// Len returns the number of parameters in the vector.
func (b *Bank) Len() int {
	return len(b.values)
}

// Set stores value at the given parameter index. Out-of-range indices
// are ignored.
func (b *Bank) Set(index int, value float64) {
	if index < 0 || index >= len(b.values) {
		return
	}

	b.values[index].Store(math.Float64bits(value))
}

// Get returns the value at the given parameter index, or 0 for
// out-of-range indices.
func (b *Bank) Get(index int) float64 {
	if index < 0 || index >= len(b.values) {
		return 0
	}

	return math.Float64frombits(b.values[index].Load())
}

// Snapshot copies the current vector into dst, up to the shorter of the
// two lengths.
func (b *Bank) Snapshot(dst []float64) {
	n := len(dst)
	if n > len(b.values) {
		n = len(b.values)
	}

	for i := 0; i < n; i++ {
		dst[i] = math.Float64frombits(b.values[i].Load())
	}
}
