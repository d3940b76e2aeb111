package klatt

import "math"

// burstGenerator is a self-sustaining stop-burst envelope. Once triggered
// by burstAmplitude rising from zero, it latches the triggering frame's
// burst parameters and completes its envelope independently of whatever the
// frame stream does next, insulating the transient from mid-burst
// interpolation.
type burstGenerator struct {
	sampleRate int
	noise      *noiseGenerator
	filter     *zdfResonator

	phase       float64 // 0 = burst start, 1 = burst end
	lastAmp     float64 // previous burstAmplitude, to detect the 0->positive edge
	active      bool

	// parameters latched at trigger time
	latchedAmp      float64
	latchedDuration float64
	latchedFreq     float64
	latchedBw       float64
	latchedColor    float64
}

func newBurstGenerator(sampleRate int, noise *noiseGenerator) *burstGenerator {
	return &burstGenerator{
		sampleRate: sampleRate,
		noise:      noise,
		filter:     newZDFResonator(sampleRate, modeBandpass),
		phase:      1,
	}
}

func (b *burstGenerator) next(burstAmplitude, burstDuration, filterFreq, filterBw, noiseColor float64) float64 {
	if b.lastAmp <= 0 && burstAmplitude > 0 {
		b.phase = 0
		b.filter.reset()
		b.active = true
		b.latchedAmp = burstAmplitude
		b.latchedDuration = burstDuration
		b.latchedFreq = filterFreq
		b.latchedBw = filterBw
		b.latchedColor = noiseColor
	}
	b.lastAmp = burstAmplitude

	if !b.active || b.phase >= 1 {
		b.active = false
		b.filter.decay(0.9)
		return 0
	}

	durationMs := 5 + b.latchedDuration*15
	durationSamples := (durationMs / 1000) * float64(b.sampleRate)
	envelope := math.Exp(-6 * b.phase)
	b.phase += 1 / durationSamples
	if b.phase > 1 {
		b.phase = 1
	}

	white := b.noise.white()
	raw := white*(1-b.latchedColor) + b.noise.pinkNext()*b.latchedColor
	filtered := raw
	if b.latchedFreq > 0 && b.latchedBw > 0 {
		filtered = b.filter.resonate(raw, b.latchedFreq, b.latchedBw) * 3
	}

	onsetMs := 1.5
	if b.latchedFreq > 0 {
		onsetMs = maxFloat(1.5, 3/(b.latchedFreq/1000))
	}
	onsetSamples := (onsetMs / 1000) * float64(b.sampleRate)
	onsetPhase := minFloat(b.phase*durationSamples/onsetSamples, 1)
	onsetScale := 1 - b.latchedColor*0.7
	noise := filtered + raw*(1-onsetPhase)*onsetScale
	return noise * envelope * b.latchedAmp
}

func (b *burstGenerator) decay(factor float64) {
	b.filter.decay(factor)
}

func (b *burstGenerator) reset() {
	b.filter.reset()
	b.phase = 1
	b.active = false
}
