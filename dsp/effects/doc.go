// Package effects implements the stereo post-voice effect blocks: the
// triangle-swept flanger, the Glimmer cross-feedback chorus, and the
// ping-pong delay.
//
// Each effect owns its delay-line history and processes one stereo frame
// per call with ProcessStereo. None of the effects apply a dry/wet mix
// internally; gain staging and mixing are the responsibility of the
// engine's effect chain.
package effects
