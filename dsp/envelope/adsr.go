// Package envelope implements the four-stage ADSR envelope used for both
// amplitude shaping and general-purpose modulation.
package envelope

import (
	"fmt"
	"math"
)

// Stage identifies the current envelope segment.
type Stage int

const (
	// StageIdle means the envelope is silent; Finished reports true only
	// here, after a completed release.
	StageIdle Stage = iota
	// StageAttack ramps 0 → 1 over the attack time.
	StageAttack
	// StageDecay ramps 1 → sustain over the decay time.
	StageDecay
	// StageSustain holds the sustain level until release.
	StageSustain
	// StageRelease ramps the current level → 0 over the release time.
	StageRelease
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// minAttackSeconds keeps the attack ramp from degenerating into a
// zero-duration discontinuity.
const minAttackSeconds = 0.005

const (
	minStageSeconds = 0.001
	maxStageSeconds = 30.0
)

// ADSR is a linear-segment four-stage envelope. Levels stay in [0, 1].
type ADSR struct {
	sampleRate float64

	attack  float64
	decay   float64
	sustain float64
	release float64

	stage     Stage
	level     float64
	triggered bool

	releaseStep float64
}

// New creates an envelope with instant-on parameters (minimum attack and
// decay, full sustain).
func New(sampleRate float64) (*ADSR, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("envelope sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &ADSR{
		sampleRate: sampleRate,
		attack:     minAttackSeconds,
		decay:      minStageSeconds,
		sustain:    1,
		release:    minStageSeconds,
	}, nil
}

// SetParameters updates all four stage parameters. Times are clamped to
// sane bounds and the sustain level to [0, 1]; the audio path recomputes
// these every step and must stay non-throwing.
func (e *ADSR) SetParameters(attack, decay, sustain, release float64) {
	e.attack = clampTime(attack, minAttackSeconds)
	e.decay = clampTime(decay, minStageSeconds)
	e.release = clampTime(release, minStageSeconds)

	if math.IsNaN(sustain) {
		sustain = 0
	}

	if sustain < 0 {
		sustain = 0
	}

	if sustain > 1 {
		sustain = 1
	}

	e.sustain = sustain
}

func clampTime(seconds, minSeconds float64) float64 {
	if math.IsNaN(seconds) || seconds < minSeconds {
		return minSeconds
	}

	if math.IsInf(seconds, 0) || seconds > maxStageSeconds {
		return maxStageSeconds
	}

	return seconds
}

// Attack returns the attack time in seconds.
func (e *ADSR) Attack() float64 { return e.attack }

// Decay returns the decay time in seconds.
func (e *ADSR) Decay() float64 { return e.decay }

// Sustain returns the sustain level in [0, 1].
func (e *ADSR) Sustain() float64 { return e.sustain }

// ReleaseTime returns the release time in seconds.
func (e *ADSR) ReleaseTime() float64 { return e.release }

// Stage returns the current envelope stage.
func (e *ADSR) Stage() Stage { return e.stage }

// Level returns the current envelope level in [0, 1].
func (e *ADSR) Level() float64 { return e.level }

// Trigger starts the attack stage from zero.
func (e *ADSR) Trigger() {
	e.stage = StageAttack
	e.level = 0
	e.triggered = true
}

// Release begins the release stage from whatever level is current, so an
// early note-off during attack or decay ramps down from the partial level
// instead of jumping.
func (e *ADSR) Release() {
	if e.stage == StageIdle || e.stage == StageRelease {
		return
	}

	e.stage = StageRelease
	e.releaseStep = e.level / (e.release * e.sampleRate)
}

// Finished reports whether the envelope has completed a full release and
// returned to idle after being triggered.
func (e *ADSR) Finished() bool {
	return e.triggered && e.stage == StageIdle
}

// Reset returns the envelope to the untriggered idle state.
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.level = 0
	e.triggered = false
	e.releaseStep = 0
}

// Process advances the envelope by one sample and returns the new level.
func (e *ADSR) Process() float64 {
	switch e.stage {
	case StageAttack:
		e.level += 1 / (e.attack * e.sampleRate)
		if e.level >= 1 {
			e.level = 1
			e.stage = StageDecay
		}

	case StageDecay:
		e.level -= (1 - e.sustain) / (e.decay * e.sampleRate)
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = StageSustain
		}

	case StageSustain:
		e.level = e.sustain

	case StageRelease:
		e.level -= e.releaseStep
		if e.level <= 0 {
			e.level = 0
			e.stage = StageIdle
		}

	case StageIdle:
		e.level = 0
	}

	return e.level
}
