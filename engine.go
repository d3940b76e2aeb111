package klatt

import "math"

// Engine is the top-level synthesis pipeline: one voice generator feeding a
// cascade formant path (through DC-blocking, spectral tilt, tracheal
// coupling and trill modulation), one noise/burst pair feeding a parallel
// formant path, summed and run through a peak limiter. Construct with
// NewEngine or NewEngineWithSeed, attach a FrameScheduler with
// SetFrameManager, then call Generate.
type Engine struct {
	sampleRate int

	noise     *noiseGenerator
	voice     *voiceGenerator
	dcBlock   *dcBlockFilter
	tilt      *spectralTiltFilter
	tracheal  *trachealResonator
	trill     *trillModulator
	cascade   *cascadeFormantGenerator
	hfShelf   *hfShelfFilter
	frication *coloredNoiseGenerator
	burst     *burstGenerator
	parallel  *parallelFormantGenerator
	duck      *cascadeDuckTracker
	limiter   *peakLimiter

	scheduler *FrameScheduler

	// prevPreGain is the effective pre-gain (preFormantGain*trillMod) from
	// the previous sample, used to detect the silence->speech rising edge.
	prevPreGain float64
}

// NewEngine builds an Engine seeded with the package's fixed default noise
// seed, so any two Engines built this way produce bit-identical output for
// the same frame stream.
func NewEngine(sampleRate int) *Engine {
	return NewEngineWithSeed(sampleRate, defaultSeed0, defaultSeed1)
}

// NewEngineWithSeed builds an Engine whose noise generator is seeded
// explicitly, for callers running several engines that must not be
// correlated (e.g. multiple simultaneous voices).
func NewEngineWithSeed(sampleRate int, seed0, seed1 uint64) *Engine {
	noise := newNoiseGenerator(seed0, seed1)
	return &Engine{
		sampleRate: sampleRate,
		noise:      noise,
		voice:      newVoiceGenerator(sampleRate, noise),
		dcBlock:    newDCBlockFilter(sampleRate, 20),
		tilt:       newSpectralTiltFilter(sampleRate),
		tracheal:   newTrachealResonator(sampleRate),
		trill:      newTrillModulator(sampleRate),
		cascade:    newCascadeFormantGenerator(sampleRate),
		hfShelf:    newHFShelfFilter(sampleRate, 3000, 6),
		frication:  newColoredNoiseGenerator(sampleRate, noise),
		burst:      newBurstGenerator(sampleRate, noise),
		parallel:   newParallelFormantGenerator(sampleRate),
		duck:       newCascadeDuckTracker(sampleRate),
		limiter:    newPeakLimiter(sampleRate, -3),
		scheduler:  NewFrameScheduler(),
	}
}

// SetFrameManager replaces the engine's frame scheduler. Callers that need
// to queue frames from outside the synthesis loop should keep their own
// reference to the FrameScheduler they pass in.
func (e *Engine) SetFrameManager(fs *FrameScheduler) {
	e.scheduler = fs
}

// Scheduler returns the engine's active FrameScheduler.
func (e *Engine) Scheduler() *FrameScheduler {
	return e.scheduler
}

// Generate renders numSamples of 16-bit PCM into out (which must have
// length >= numSamples) and returns the number of samples written.
func (e *Engine) Generate(numSamples int, out []int16) int {
	if len(out) < numSamples {
		numSamples = len(out)
	}

	for i := 0; i < numSamples; i++ {
		frame := e.scheduler.CurrentFrame()

		if frame == nil {
			e.settleSilence(0)
			e.limiter.setFastRelease(true)
			out[i] = 0
			continue
		}

		trillMod := e.trill.next(frame.TrillRate, frame.TrillDepth)
		preGain := frame.PreFormantGain * trillMod

		// Fast release tracks frame.PreFormantGain alone, not the
		// trill-modulated preGain that drives the resonator decay logic
		// below, so the limiter recovers quickly through any stretch where
		// the frame's pre-gain sits at zero.
		e.limiter.setFastRelease(frame.PreFormantGain < 0.01)

		e.settleSilence(preGain)

		out[i] = e.renderSample(frame, trillMod, preGain)
	}

	return numSamples
}

// settleSilence drains the cascade, parallel and burst resonators by 0.95
// per sample (roughly a 1ms time constant) whenever the effective pre-gain
// is below the audibility floor, and hard-resets them on the rising edge
// back above it, so stale ringing from the previous sound can never bleed
// into the onset of the next one as an audible click.
func (e *Engine) settleSilence(preGain float64) {
	switch {
	case e.prevPreGain < 0.005 && preGain > 0.01:
		e.cascade.reset()
		e.parallel.reset()
		e.burst.reset()
	case preGain < 0.01:
		e.cascade.decay(0.95)
		e.parallel.decay(0.95)
		e.burst.decay(0.95)
	}
	e.prevPreGain = preGain
}

func (e *Engine) renderSample(frame *Frame, trillMod, preGain float64) int16 {
	voice := e.voice.next(frame)
	voice = e.dcBlock.filter(voice)
	voice = e.tilt.filter(voice, frame.SpectralTilt)
	voice = e.tracheal.resonate(voice, frame)
	voice *= trillMod

	cascadeOut := e.cascade.next(frame, e.voice.glottisOpen, voice*preGain)
	cascadeOut *= e.duck.duck(frame.BurstAmplitude, frame.FricationAmplitude, frame.VoiceAmplitude)
	cascadeOut = e.hfShelf.filter(cascadeOut)

	fricationNoise := e.frication.next(frame.NoiseFilterFreq, frame.NoiseFilterBw) * 0.3 * frame.FricationAmplitude
	burstNoise := e.burst.next(frame.BurstAmplitude, frame.BurstDuration, frame.BurstFilterFreq, frame.BurstFilterBw, frame.BurstNoiseColor)
	parallelInput := (fricationNoise + burstNoise + voice*frame.ParallelVoiceMix) * preGain
	parallelOut := e.parallel.next(frame, parallelInput)

	sum := (cascadeOut + parallelOut) * frame.OutputGain * 4000
	sum = e.limiter.limit(sum)

	return clampInt16(sum)
}

func clampInt16(x float64) int16 {
	rounded := math.Round(x)
	switch {
	case rounded > 32767:
		return 32767
	case rounded < -32767:
		return -32767
	default:
		return int16(rounded)
	}
}
