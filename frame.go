package klatt

import "math"

// Frame is an immutable snapshot of the ~80 scalar parameters that drive one
// window of synthesis. All fields are finite, non-negative reals unless
// documented otherwise. A Frame is always copied by value; the scheduler
// never retains or aliases a caller's Frame.
type Frame struct {
	// Voicing
	VoicePitch                 float64 // fundamental frequency in Hz
	EndVoicePitch              float64 // pitch at the end of the frame's hold
	MidVoicePitch              float64 // pitch at the midpoint; 0 disables the 3-point contour
	VoicePitchOffset           float64 // vibrato peak deviation scale, in fractions of a semitone
	VibratoSpeed               float64 // vibrato rate in Hz
	VoiceAmplitude             float64 // glottal source amplitude, 0..1
	VoiceTurbulenceAmplitude   float64 // aspiration noise mixed into the voiced source, 0..1
	AspirationAmplitude        float64 // aspiration noise amplitude, 0..1
	AspirationFilterFreq       float64 // aspiration bandpass center freq in Hz (0 = white)
	AspirationFilterBw         float64 // aspiration bandpass bandwidth in Hz
	SinusoidalVoicingAmplitude float64 // pure sine voicebar amplitude at F0, 0..1

	// Voice quality
	LFRd         float64 // LF model shape; 0 or 0.3..2.7, 0 disables voicing
	SpectralTilt float64 // spectral tilt in dB, 0..41
	Flutter      float64 // jitter/shimmer amount, 0..1
	Diplophonia  float64 // alternate-cycle pitch modulation, 0..1

	// Tracheal pole/zero pairs
	FTPFreq1 float64
	FTPBw1   float64
	FTZFreq1 float64
	FTZBw1   float64
	FTPFreq2 float64
	FTPBw2   float64
	FTZFreq2 float64
	FTZBw2   float64

	// Glottal-open formant modulation
	DeltaF1 float64 // F1 increase during glottal open phase, Hz
	DeltaB1 float64 // B1 increase during glottal open phase, Hz

	// Cascade formants
	CF1, CF2, CF3, CF4, CF5, CF6 float64
	CB1, CB2, CB3, CB4, CB5, CB6 float64
	CFN0, CBN0                   float64 // cascade nasal zero
	CFNP, CBNP, CANP             float64 // cascade nasal pole and its mix amount

	// Parallel formants
	PF1, PF2, PF3, PF4, PF5, PF6 float64
	PB1, PB2, PB3, PB4, PB5, PB6 float64
	PA1, PA2, PA3, PA4, PA5, PA6 float64
	ParallelAntiFreq             float64
	ParallelAntiBw               float64
	ParallelBypass               float64 // 0 = filtered sum only, 1 = raw input only
	ParallelVoiceMix             float64 // fraction of voice routed into the parallel path

	// Noise / burst
	FricationAmplitude float64
	NoiseFilterFreq    float64
	NoiseFilterBw      float64
	BurstAmplitude     float64
	BurstDuration      float64 // normalized 0..1, maps to 5..20ms
	BurstFilterFreq    float64
	BurstFilterBw      float64
	BurstNoiseColor    float64 // 0 = white, 1 = pink

	// Trill
	TrillRate  float64
	TrillDepth float64

	// Gains
	PreFormantGain float64 // gain applied before the formant resonators; 0 silences speech
	OutputGain     float64 // master output gain
}

// fadeValue applies the crossfade law for a single non-whitelisted parameter.
// A NaN in the target value pins the output to the old value, per spec
// (a producer bug must never inject a NaN into the filter graph).
func fadeValue(oldVal, newVal, smoothRatio float64) float64 {
	if math.IsNaN(newVal) {
		return oldVal
	}
	return oldVal + (newVal-oldVal)*smoothRatio
}

// stepValue applies the step-instant law: the target value is used as soon
// as it is queued, with the same NaN safety as fadeValue.
func stepValue(oldVal, newVal float64) float64 {
	if math.IsNaN(newVal) {
		return oldVal
	}
	return newVal
}

// smoothstep is Perlin's quintic smootherstep: a C2-continuous S-curve with
// zero first AND second derivatives at both endpoints, so parameter sweeps
// accelerate and decelerate smoothly instead of changing slope abruptly at
// the crossfade boundary.
func smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// interpolateFrame produces the frame audible at crossfade ratio r (0..1)
// between old and new. Fields on the step-instant whitelist (burst and
// frication onset parameters, trill rate/depth, the parallel anti-resonator
// frequency) take the new value immediately instead of smoothstepping, so
// that transient onsets never smear across the fade.
func interpolateFrame(old, new *Frame, r float64) Frame {
	s := smoothstep(r)
	var out Frame

	out.VoicePitch = fadeValue(old.VoicePitch, new.VoicePitch, s)
	out.EndVoicePitch = fadeValue(old.EndVoicePitch, new.EndVoicePitch, s)
	out.MidVoicePitch = fadeValue(old.MidVoicePitch, new.MidVoicePitch, s)
	out.VoicePitchOffset = fadeValue(old.VoicePitchOffset, new.VoicePitchOffset, s)
	out.VibratoSpeed = fadeValue(old.VibratoSpeed, new.VibratoSpeed, s)
	out.VoiceAmplitude = fadeValue(old.VoiceAmplitude, new.VoiceAmplitude, s)
	out.VoiceTurbulenceAmplitude = fadeValue(old.VoiceTurbulenceAmplitude, new.VoiceTurbulenceAmplitude, s)
	out.AspirationAmplitude = fadeValue(old.AspirationAmplitude, new.AspirationAmplitude, s)
	out.AspirationFilterFreq = fadeValue(old.AspirationFilterFreq, new.AspirationFilterFreq, s)
	out.AspirationFilterBw = fadeValue(old.AspirationFilterBw, new.AspirationFilterBw, s)
	out.SinusoidalVoicingAmplitude = fadeValue(old.SinusoidalVoicingAmplitude, new.SinusoidalVoicingAmplitude, s)

	out.LFRd = fadeValue(old.LFRd, new.LFRd, s)
	out.SpectralTilt = fadeValue(old.SpectralTilt, new.SpectralTilt, s)
	out.Flutter = fadeValue(old.Flutter, new.Flutter, s)
	out.Diplophonia = fadeValue(old.Diplophonia, new.Diplophonia, s)

	out.FTPFreq1 = fadeValue(old.FTPFreq1, new.FTPFreq1, s)
	out.FTPBw1 = fadeValue(old.FTPBw1, new.FTPBw1, s)
	out.FTZFreq1 = fadeValue(old.FTZFreq1, new.FTZFreq1, s)
	out.FTZBw1 = fadeValue(old.FTZBw1, new.FTZBw1, s)
	out.FTPFreq2 = fadeValue(old.FTPFreq2, new.FTPFreq2, s)
	out.FTPBw2 = fadeValue(old.FTPBw2, new.FTPBw2, s)
	out.FTZFreq2 = fadeValue(old.FTZFreq2, new.FTZFreq2, s)
	out.FTZBw2 = fadeValue(old.FTZBw2, new.FTZBw2, s)

	out.DeltaF1 = fadeValue(old.DeltaF1, new.DeltaF1, s)
	out.DeltaB1 = fadeValue(old.DeltaB1, new.DeltaB1, s)

	out.CF1 = fadeValue(old.CF1, new.CF1, s)
	out.CF2 = fadeValue(old.CF2, new.CF2, s)
	out.CF3 = fadeValue(old.CF3, new.CF3, s)
	out.CF4 = fadeValue(old.CF4, new.CF4, s)
	out.CF5 = fadeValue(old.CF5, new.CF5, s)
	out.CF6 = fadeValue(old.CF6, new.CF6, s)
	out.CB1 = fadeValue(old.CB1, new.CB1, s)
	out.CB2 = fadeValue(old.CB2, new.CB2, s)
	out.CB3 = fadeValue(old.CB3, new.CB3, s)
	out.CB4 = fadeValue(old.CB4, new.CB4, s)
	out.CB5 = fadeValue(old.CB5, new.CB5, s)
	out.CB6 = fadeValue(old.CB6, new.CB6, s)
	out.CFN0 = fadeValue(old.CFN0, new.CFN0, s)
	out.CBN0 = fadeValue(old.CBN0, new.CBN0, s)
	out.CFNP = fadeValue(old.CFNP, new.CFNP, s)
	out.CBNP = fadeValue(old.CBNP, new.CBNP, s)
	out.CANP = fadeValue(old.CANP, new.CANP, s)

	out.PF1 = fadeValue(old.PF1, new.PF1, s)
	out.PF2 = fadeValue(old.PF2, new.PF2, s)
	out.PF3 = fadeValue(old.PF3, new.PF3, s)
	out.PF4 = fadeValue(old.PF4, new.PF4, s)
	out.PF5 = fadeValue(old.PF5, new.PF5, s)
	out.PF6 = fadeValue(old.PF6, new.PF6, s)
	out.PB1 = fadeValue(old.PB1, new.PB1, s)
	out.PB2 = fadeValue(old.PB2, new.PB2, s)
	out.PB3 = fadeValue(old.PB3, new.PB3, s)
	out.PB4 = fadeValue(old.PB4, new.PB4, s)
	out.PB5 = fadeValue(old.PB5, new.PB5, s)
	out.PB6 = fadeValue(old.PB6, new.PB6, s)
	out.PA1 = fadeValue(old.PA1, new.PA1, s)
	out.PA2 = fadeValue(old.PA2, new.PA2, s)
	out.PA3 = fadeValue(old.PA3, new.PA3, s)
	out.PA4 = fadeValue(old.PA4, new.PA4, s)
	out.PA5 = fadeValue(old.PA5, new.PA5, s)
	out.PA6 = fadeValue(old.PA6, new.PA6, s)
	// Step-instant: onsets must not smear across the crossfade.
	out.ParallelAntiFreq = stepValue(old.ParallelAntiFreq, new.ParallelAntiFreq)
	out.ParallelAntiBw = fadeValue(old.ParallelAntiBw, new.ParallelAntiBw, s)
	out.ParallelBypass = fadeValue(old.ParallelBypass, new.ParallelBypass, s)
	out.ParallelVoiceMix = fadeValue(old.ParallelVoiceMix, new.ParallelVoiceMix, s)

	out.FricationAmplitude = stepValue(old.FricationAmplitude, new.FricationAmplitude)
	out.NoiseFilterFreq = stepValue(old.NoiseFilterFreq, new.NoiseFilterFreq)
	out.NoiseFilterBw = stepValue(old.NoiseFilterBw, new.NoiseFilterBw)
	out.BurstAmplitude = stepValue(old.BurstAmplitude, new.BurstAmplitude)
	out.BurstDuration = stepValue(old.BurstDuration, new.BurstDuration)
	out.BurstFilterFreq = stepValue(old.BurstFilterFreq, new.BurstFilterFreq)
	out.BurstFilterBw = stepValue(old.BurstFilterBw, new.BurstFilterBw)
	out.BurstNoiseColor = stepValue(old.BurstNoiseColor, new.BurstNoiseColor)

	out.TrillRate = stepValue(old.TrillRate, new.TrillRate)
	out.TrillDepth = stepValue(old.TrillDepth, new.TrillDepth)

	out.PreFormantGain = fadeValue(old.PreFormantGain, new.PreFormantGain, s)
	out.OutputGain = fadeValue(old.OutputGain, new.OutputGain, s)

	return out
}
