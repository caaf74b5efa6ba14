// Package synth composes the DSP blocks into the polyphonic engine: the
// voice pool, the control vector contract, and the stereo effects chain.
package synth

import "github.com/dohmansfi/Chroma/dsp/table"

// Control vector index contract. The host control surface addresses
// parameters by these indices; the assignment is stable and must not be
// reordered. All values are normalized scalars; flag and selector
// parameters read as true/selected at 0.5 and above.
const (
	// ParamTableEdit switches the harmonic-table side channel between
	// view mode (the engine writes the addressed table's amplitudes back
	// to the control vector for display) and edit mode (the engine
	// overwrites the table from the control vector).
	ParamTableEdit = iota
	// ParamTableSelect addresses table A (< 0.5) or table B.
	ParamTableSelect
	// ParamHarmonic0 is the first of table.NumHarmonics consecutive
	// per-partial amplitude values.
	ParamHarmonic0
)

const (
	// ParamMorphSource selects the spectral-morph modulation source:
	// LFO (< 0.5) or modulation envelope.
	ParamMorphSource = ParamHarmonic0 + table.NumHarmonics + iota
	// ParamMorphAmount scales the morph modulation in [0, 1].
	ParamMorphAmount
	// ParamFilterHighPass and ParamFilterLowPass are the two mode flags;
	// both set resolves to band-pass, neither bypasses the filter.
	ParamFilterHighPass
	ParamFilterLowPass
	// ParamFilterModSource selects the modulation source for both cutoff
	// and resonance: LFO (< 0.5) or modulation envelope. The two targets
	// deliberately share one selector.
	ParamFilterModSource
	// ParamCutoff is the raw cutoff control in [0, 1] (cubic-mapped to
	// Hz by the filter).
	ParamCutoff
	// ParamResonance is the raw resonance control in [0, 1] (scaled to
	// the filter's [0, 2] range).
	ParamResonance
	// ParamCutoffModDepth and ParamResonanceModDepth scale the additive
	// modulation applied to the two filter targets.
	ParamCutoffModDepth
	ParamResonanceModDepth
	// Amplitude envelope stage parameters; times are normalized and span
	// [0, 5] seconds, sustain is a level in [0, 1].
	ParamAmpAttack
	ParamAmpDecay
	ParamAmpSustain
	ParamAmpRelease
	// Modulation envelope stage parameters, same ranges.
	ParamModAttack
	ParamModDecay
	ParamModSustain
	ParamModRelease
	// ParamLFORate spans [0.1, 20] Hz; ParamLFOShape sweeps
	// sine → triangle → saw over [0, 1].
	ParamLFORate
	ParamLFOShape
	// Flanger controls: enable flag, sweep rate in [0.05, 5] Hz, sweep
	// depth in [0, 5] ms.
	ParamFlangerEnable
	ParamFlangerRate
	ParamFlangerDepth
	// Glimmer controls: enable flag, LFO rate in [0.1, 5] Hz, widening
	// amount and tap gain in [0, 1].
	ParamGlimmerEnable
	ParamGlimmerRate
	ParamGlimmerAmount
	ParamGlimmerGain
	// Ping-pong delay controls: enable flag, per-channel times in
	// [0, 2] s, per-channel gains in [0, 1], global feedback in [0, 0.99].
	ParamDelayEnable
	ParamDelayTimeLeft
	ParamDelayTimeRight
	ParamDelayGainLeft
	ParamDelayGainRight
	ParamDelayFeedback
	// ParamMix is the effect dry/wet balance; ParamMasterVolume the
	// final output gain, both in [0, 1].
	ParamMix
	ParamMasterVolume

	// NumParams is the control vector length.
	NumParams
)

// snapshot holds one coherent per-step view of the control vector,
// decoded into named engine parameters. It is refilled every processing
// step; per-scalar tearing between UI writes is tolerated because every
// value is clamped downstream.
type snapshot struct {
	tableEdit   bool
	tableSelect bool
	harmonics   [table.NumHarmonics]float64

	morphSourceEnv bool
	morphAmount    float64

	filterHP       bool
	filterLP       bool
	filterModEnv   bool
	cutoff         float64
	resonance      float64
	cutoffDepth    float64
	resonanceDepth float64

	ampAttack  float64
	ampDecay   float64
	ampSustain float64
	ampRelease float64

	modAttack  float64
	modDecay   float64
	modSustain float64
	modRelease float64

	lfoRate  float64
	lfoShape float64

	flangerOn    bool
	flangerRate  float64
	flangerDepth float64

	glimmerOn     bool
	glimmerRate   float64
	glimmerAmount float64
	glimmerGain   float64

	delayOn        bool
	delayTimeLeft  float64
	delayTimeRight float64
	delayGainLeft  float64
	delayGainRight float64
	delayFeedback  float64

	mix    float64
	master float64
}
