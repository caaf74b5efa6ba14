package synth

import (
	"fmt"
	"math"

	"github.com/dohmansfi/Chroma/dsp/core"
	"github.com/dohmansfi/Chroma/dsp/effects"
	"github.com/dohmansfi/Chroma/dsp/table"
)

// MaxVoices is the fixed polyphony. The voice pool is allocated once at
// construction; note-on never allocates.
const MaxVoices = 32

// effectDrive attenuates the wet path before each enabled effect so
// stacked effects do not clip the recirculating delay lines.
const effectDrive = 0.75

// Effect control mapping ranges, applied to normalized vector values.
const (
	flangerRateMinHz       = 0.05
	flangerRateMaxHz       = 5.0
	flangerDepthMaxSeconds = 0.005

	glimmerRateMinHz = 0.1
	glimmerRateMaxHz = 5.0

	delayTimeMaxSeconds = 2.0
)

// Engine is the polyphonic synthesizer: a fixed pool of voices summed to
// mono, mixed with the stereo input, and run through the flanger, the
// Glimmer chorus and the ping-pong delay in that order. All parameters
// arrive through the control vector; the audio path never allocates and
// never returns an error.
type Engine struct {
	sampleRate float64
	bank       *Bank

	tableA table.Table
	tableB table.Table

	voices [MaxVoices]*voice
	serial uint64

	snap snapshot

	flanger  *effects.Flanger
	glimmer  *effects.Glimmer
	pingpong *effects.PingPong
}

// NewEngine creates an engine with factory tables, an idle voice pool and
// neutral control defaults (unity master, half mix, full sustain, all
// effects off).
func NewEngine(sampleRate float64) (*Engine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("engine sample rate must be > 0 and finite: %f", sampleRate)
	}

	e := &Engine{
		sampleRate: sampleRate,
		bank:       NewBank(),
		tableA:     table.DefaultA(),
		tableB:     table.DefaultB(),
	}

	for i := range e.voices {
		v, err := newVoice(sampleRate)
		if err != nil {
			return nil, err
		}

		e.voices[i] = v
	}

	flanger, err := effects.NewFlanger(sampleRate)
	if err != nil {
		return nil, err
	}

	glimmer, err := effects.NewGlimmer(sampleRate)
	if err != nil {
		return nil, err
	}

	pingpong, err := effects.NewPingPong(sampleRate)
	if err != nil {
		return nil, err
	}

	e.flanger = flanger
	e.glimmer = glimmer
	e.pingpong = pingpong

	e.seedDefaults()

	return e, nil
}

// seedDefaults writes playable startup values into the control vector so
// a freshly constructed engine makes sound without host initialization.
func (e *Engine) seedDefaults() {
	e.bank.Set(ParamMasterVolume, 1)
	e.bank.Set(ParamMix, 0.5)
	e.bank.Set(ParamCutoff, 0.5)
	e.bank.Set(ParamAmpSustain, 1)
	e.bank.Set(ParamModSustain, 1)
	e.bank.Set(ParamGlimmerGain, 0.5)
	e.bank.Set(ParamDelayTimeLeft, 0.15)
	e.bank.Set(ParamDelayTimeRight, 0.25)
	e.bank.Set(ParamDelayGainLeft, 0.5)
	e.bank.Set(ParamDelayGainRight, 0.5)
}

// Bank returns the control vector. The host control surface writes
// parameters here from its own goroutine.
func (e *Engine) Bank() *Bank { return e.bank }

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// TableA returns a copy of harmonic table A.
func (e *Engine) TableA() table.Table { return e.tableA }

// TableB returns a copy of harmonic table B.
func (e *Engine) TableB() table.Table { return e.tableB }

// ActiveVoices returns the number of sounding voices.
func (e *Engine) ActiveVoices() int {
	n := 0
	for _, v := range e.voices {
		if v.active {
			n++
		}
	}

	return n
}

// NoteOn starts a voice at the given fundamental frequency with velocity
// in [0, 1]. With all voices sounding, the oldest one is stolen.
func (e *Engine) NoteOn(frequencyHz, velocity float64) {
	if frequencyHz <= 0 || math.IsNaN(frequencyHz) || math.IsInf(frequencyHz, 0) {
		return
	}

	e.refreshSnapshot()

	target := e.voices[0]
	found := false

	for _, v := range e.voices {
		if !v.active {
			target = v
			found = true

			break
		}
	}

	if !found {
		for _, v := range e.voices {
			if v.serial < target.serial {
				target = v
			}
		}

		target.forceStop()
	}

	e.serial++
	target.noteOn(frequencyHz, velocity, &e.snap, e.serial)
}

// NoteOff releases every sounding voice at the given frequency.
func (e *Engine) NoteOff(frequencyHz float64) {
	for _, v := range e.voices {
		if v.active && math.Abs(v.frequency-frequencyHz) < 1e-6 {
			v.noteOff()
		}
	}
}

// ForceStop silences all voices immediately, bypassing releases.
func (e *Engine) ForceStop() {
	for _, v := range e.voices {
		v.forceStop()
	}
}

// Reset silences all voices and clears all effect history.
func (e *Engine) Reset() {
	e.ForceStop()
	e.flanger.Reset()
	e.glimmer.Reset()
	e.pingpong.Reset()
}

// refreshSnapshot decodes the control vector into the per-step snapshot.
func (e *Engine) refreshSnapshot() {
	s := &e.snap
	b := e.bank

	s.tableEdit = flag(b.Get(ParamTableEdit))
	s.tableSelect = flag(b.Get(ParamTableSelect))

	for h := 0; h < table.NumHarmonics; h++ {
		s.harmonics[h] = b.Get(ParamHarmonic0 + h)
	}

	s.morphSourceEnv = flag(b.Get(ParamMorphSource))
	s.morphAmount = b.Get(ParamMorphAmount)

	s.filterHP = flag(b.Get(ParamFilterHighPass))
	s.filterLP = flag(b.Get(ParamFilterLowPass))
	s.filterModEnv = flag(b.Get(ParamFilterModSource))
	s.cutoff = b.Get(ParamCutoff)
	s.resonance = b.Get(ParamResonance)
	s.cutoffDepth = b.Get(ParamCutoffModDepth)
	s.resonanceDepth = b.Get(ParamResonanceModDepth)

	s.ampAttack = b.Get(ParamAmpAttack)
	s.ampDecay = b.Get(ParamAmpDecay)
	s.ampSustain = b.Get(ParamAmpSustain)
	s.ampRelease = b.Get(ParamAmpRelease)

	s.modAttack = b.Get(ParamModAttack)
	s.modDecay = b.Get(ParamModDecay)
	s.modSustain = b.Get(ParamModSustain)
	s.modRelease = b.Get(ParamModRelease)

	s.lfoRate = b.Get(ParamLFORate)
	s.lfoShape = b.Get(ParamLFOShape)

	s.flangerOn = flag(b.Get(ParamFlangerEnable))
	s.flangerRate = b.Get(ParamFlangerRate)
	s.flangerDepth = b.Get(ParamFlangerDepth)

	s.glimmerOn = flag(b.Get(ParamGlimmerEnable))
	s.glimmerRate = b.Get(ParamGlimmerRate)
	s.glimmerAmount = b.Get(ParamGlimmerAmount)
	s.glimmerGain = b.Get(ParamGlimmerGain)

	s.delayOn = flag(b.Get(ParamDelayEnable))
	s.delayTimeLeft = b.Get(ParamDelayTimeLeft)
	s.delayTimeRight = b.Get(ParamDelayTimeRight)
	s.delayGainLeft = b.Get(ParamDelayGainLeft)
	s.delayGainRight = b.Get(ParamDelayGainRight)
	s.delayFeedback = b.Get(ParamDelayFeedback)

	s.mix = core.Clamp(b.Get(ParamMix), 0, 1)
	s.master = core.Clamp(b.Get(ParamMasterVolume), 0, 1)
}

// syncTables runs the harmonic-table side channel. In edit mode the
// addressed table is overwritten from the vector's harmonic block; in
// view mode the table's amplitudes are written back to the same block so
// the host can display them.
func (e *Engine) syncTables() {
	t := &e.tableA
	if e.snap.tableSelect {
		t = &e.tableB
	}

	if e.snap.tableEdit {
		for h := 0; h < table.NumHarmonics; h++ {
			t.Set(h, e.snap.harmonics[h])
		}

		return
	}

	for h := 0; h < table.NumHarmonics; h++ {
		e.bank.Set(ParamHarmonic0+h, t.At(h))
	}
}

// Process renders one stereo frame. The voice sum joins both input
// channels, enabled effects run on the wet path only, and the output is
// the mix-weighted blend of wet and dry scaled by the master volume.
func (e *Engine) Process(inL, inR float64) (float64, float64) {
	e.refreshSnapshot()
	e.syncTables()

	sum := 0.0
	for _, v := range e.voices {
		if v.active {
			sum += v.process(&e.snap, &e.tableA, &e.tableB)
		}
	}

	dryL := inL + sum
	dryR := inR + sum

	wetL, wetR := dryL, dryR

	if e.snap.flangerOn {
		e.flanger.SetRateHz(core.LinearMap(core.Clamp(e.snap.flangerRate, 0, 1), flangerRateMinHz, flangerRateMaxHz))
		e.flanger.SetDepthSeconds(core.Clamp(e.snap.flangerDepth, 0, 1) * flangerDepthMaxSeconds)

		wetL, wetR = e.flanger.ProcessStereo(wetL*effectDrive, wetR*effectDrive)
	}

	if e.snap.glimmerOn {
		e.glimmer.SetRateHz(core.LinearMap(core.Clamp(e.snap.glimmerRate, 0, 1), glimmerRateMinHz, glimmerRateMaxHz))
		e.glimmer.SetAmount(e.snap.glimmerAmount)
		e.glimmer.SetGain(e.snap.glimmerGain)

		wetL, wetR = e.glimmer.ProcessStereo(wetL*effectDrive, wetR*effectDrive)
	}

	if e.snap.delayOn {
		e.pingpong.SetTimeLeft(core.Clamp(e.snap.delayTimeLeft, 0, 1) * delayTimeMaxSeconds)
		e.pingpong.SetTimeRight(core.Clamp(e.snap.delayTimeRight, 0, 1) * delayTimeMaxSeconds)
		e.pingpong.SetGainLeft(e.snap.delayGainLeft)
		e.pingpong.SetGainRight(e.snap.delayGainRight)
		e.pingpong.SetFeedback(e.snap.delayFeedback)

		wetL, wetR = e.pingpong.ProcessStereo(wetL*effectDrive, wetR*effectDrive)
	}

	mix := e.snap.mix
	outL := (wetL*mix + dryL*(1-mix)) * e.snap.master
	outR := (wetR*mix + dryR*(1-mix)) * e.snap.master

	return outL, outR
}

// ProcessBlock renders a block of stereo frames. Input and output buffers
// may alias; all four must share one length.
func (e *Engine) ProcessBlock(inL, inR, outL, outR []float64) error {
	if len(inL) != len(inR) || len(inL) != len(outL) || len(inL) != len(outR) {
		return fmt.Errorf("engine buffer length mismatch: in %d/%d out %d/%d",
			len(inL), len(inR), len(outL), len(outR))
	}

	for i := range inL {
		outL[i], outR[i] = e.Process(inL[i], inR[i])
	}

	return nil
}

func flag(v float64) bool { return v >= 0.5 }
