package synth

import (
	"fmt"

	"github.com/dohmansfi/Chroma/dsp/blend"
	"github.com/dohmansfi/Chroma/dsp/core"
	"github.com/dohmansfi/Chroma/dsp/envelope"
	"github.com/dohmansfi/Chroma/dsp/filter"
	"github.com/dohmansfi/Chroma/dsp/oscillator"
	"github.com/dohmansfi/Chroma/dsp/table"
)

// Control mapping ranges. Normalized control values from the vector are
// mapped here before reaching the DSP blocks.
const (
	lfoRateMinHz = 0.1
	lfoRateMaxHz = 20.0

	envTimeMaxSeconds = 5.0

	// resonanceScale maps the normalized resonance control onto the
	// filter's [0, 2] operating range.
	resonanceScale = 2.0
)

func mapLFORate(raw float64) float64 {
	return core.LinearMap(core.Clamp(raw, 0, 1), lfoRateMinHz, lfoRateMaxHz)
}

func mapEnvTime(raw float64) float64 {
	return core.Clamp(raw, 0, 1) * envTimeMaxSeconds
}

// voice is one mono note path: harmonic oscillator into amplitude
// envelope into filter, with the blend LFO and modulation envelope as
// per-voice modulation sources.
type voice struct {
	osc    *oscillator.Harmonic
	ampEnv *envelope.ADSR
	modEnv *envelope.ADSR
	lfo    *blend.Oscillator
	filt   *filter.Multimode

	frequency float64
	velocity  float64
	active    bool

	// serial orders note-ons for the steal-oldest policy.
	serial uint64
}

func newVoice(sampleRate float64) (*voice, error) {
	osc, err := oscillator.New(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("voice oscillator: %w", err)
	}

	ampEnv, err := envelope.New(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("voice amplitude envelope: %w", err)
	}

	modEnv, err := envelope.New(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("voice modulation envelope: %w", err)
	}

	lfo, err := blend.New(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("voice lfo: %w", err)
	}

	filt, err := filter.New(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("voice filter: %w", err)
	}

	return &voice{
		osc:    osc,
		ampEnv: ampEnv,
		modEnv: modEnv,
		lfo:    lfo,
		filt:   filt,
	}, nil
}

// noteOn restarts the voice at the given fundamental. Oscillator phases,
// LFO phase and filter states are rewound so every onset is identical;
// both envelopes retrigger from zero.
func (v *voice) noteOn(frequency, velocity float64, snap *snapshot, serial uint64) {
	v.frequency = frequency
	v.velocity = core.Clamp(velocity, 0, 1)
	v.serial = serial
	v.active = true

	v.osc.Reset()
	v.osc.SetFrequency(frequency)

	v.lfo.Reset()
	v.filt.Reset()

	v.applyEnvelopes(snap)
	v.ampEnv.Trigger()
	v.modEnv.Trigger()
}

// noteOff starts the amplitude release. The modulation envelope keeps
// running so filter and morph modulation continue through the tail.
func (v *voice) noteOff() {
	v.ampEnv.Release()
}

// forceStop silences the voice immediately, bypassing the release.
func (v *voice) forceStop() {
	v.active = false
	v.ampEnv.Reset()
	v.modEnv.Reset()
	v.filt.Reset()
}

func (v *voice) applyEnvelopes(snap *snapshot) {
	v.ampEnv.SetParameters(
		mapEnvTime(snap.ampAttack),
		mapEnvTime(snap.ampDecay),
		core.Clamp(snap.ampSustain, 0, 1),
		mapEnvTime(snap.ampRelease),
	)
	v.modEnv.SetParameters(
		mapEnvTime(snap.modAttack),
		mapEnvTime(snap.modDecay),
		core.Clamp(snap.modSustain, 0, 1),
		mapEnvTime(snap.modRelease),
	)
}

// process renders one sample. Modulation sources advance first, then the
// oscillator output is shaped by the amplitude envelope and filtered.
// When the amplitude envelope finishes its release the voice returns
// itself to the pool by clearing active.
func (v *voice) process(snap *snapshot, a, b *table.Table) float64 {
	v.applyEnvelopes(snap)

	v.lfo.SetRateHz(mapLFORate(snap.lfoRate))
	v.lfo.SetShape(snap.lfoShape)

	lfoVal := v.lfo.Process()
	modVal := v.modEnv.Process()

	morphSrc := lfoVal
	if snap.morphSourceEnv {
		morphSrc = modVal
	}

	v.osc.Morph(morphSrc*core.Clamp(snap.morphAmount, 0, 1), a, b)

	// Cutoff and resonance share one modulation source.
	filtSrc := lfoVal
	if snap.filterModEnv {
		filtSrc = modVal
	}

	v.filt.SetMode(filter.ModeFromFlags(snap.filterHP, snap.filterLP))
	v.filt.SetControls(
		snap.cutoff+filtSrc*snap.cutoffDepth,
		(snap.resonance+filtSrc*snap.resonanceDepth)*resonanceScale,
	)

	amp := v.ampEnv.Process()
	out := v.filt.Process(v.osc.Process()*amp) * v.velocity

	if v.ampEnv.Finished() {
		v.active = false
	}

	return out
}
