package klatt

import "math"

// cascadeFormantGenerator is the series chain of all-pole formant
// resonators that produces the spectral envelope of voiced sounds: a nasal
// zero/pole pair, then F6..F4 (2nd-order), then F3..F1 (4th-order for
// sharper 24 dB/oct resonance). F1/B1 track the glottal-open fraction of
// each pitch period via a smoothed blend, modeling subglottal coupling.
type cascadeFormantGenerator struct {
	r1, r2, r3 *zdfResonator4
	r4, r5, r6 *zdfResonator
	rN0, rNP   *zdfResonator

	smoothGlottalBlend float64
	glottalAlpha       float64 // ~2ms smoothing constant
}

func newCascadeFormantGenerator(sampleRate int) *cascadeFormantGenerator {
	return &cascadeFormantGenerator{
		r1:           newZDFResonator4(sampleRate, modeAllPole),
		r2:           newZDFResonator4(sampleRate, modeAllPole),
		r3:           newZDFResonator4(sampleRate, modeAllPole),
		r4:           newZDFResonator(sampleRate, modeAllPole),
		r5:           newZDFResonator(sampleRate, modeAllPole),
		r6:           newZDFResonator(sampleRate, modeAllPole),
		rN0:          newZDFResonator(sampleRate, modeNotch),
		rNP:          newZDFResonator(sampleRate, modeAllPole),
		glottalAlpha: 1 - math.Exp(-1/(0.002*float64(sampleRate))),
	}
}

func (c *cascadeFormantGenerator) next(frame *Frame, glottisOpen bool, input float64) float64 {
	input /= 2

	n0Output := c.rN0.resonate(input, frame.CFN0, frame.CBN0)
	nasalOutput := c.rNP.resonate(n0Output, frame.CFNP, frame.CBNP)
	output := fadePosition(input, nasalOutput, frame.CANP)

	output = c.r6.resonate(output, frame.CF6, frame.CB6)
	output = c.r5.resonate(output, frame.CF5, frame.CB5)
	output = c.r4.resonate(output, frame.CF4, frame.CB4)
	output = c.r3.resonate(output, frame.CF3, frame.CB3)
	output = c.r2.resonate(output, frame.CF2, frame.CB2)

	glottalTarget := 0.0
	if glottisOpen {
		glottalTarget = 1
	}
	c.smoothGlottalBlend += c.glottalAlpha * (glottalTarget - c.smoothGlottalBlend)
	f1 := frame.CF1 + frame.DeltaF1*c.smoothGlottalBlend
	b1 := frame.CB1 + frame.DeltaB1*c.smoothGlottalBlend
	output = c.r1.resonate(output, f1, b1)

	return output
}

func (c *cascadeFormantGenerator) decay(factor float64) {
	c.r1.decay(factor)
	c.r2.decay(factor)
	c.r3.decay(factor)
	c.r4.decay(factor)
	c.r5.decay(factor)
	c.r6.decay(factor)
	c.rN0.decay(factor)
	c.rNP.decay(factor)
}

func (c *cascadeFormantGenerator) reset() {
	c.r1.reset()
	c.r2.reset()
	c.r3.reset()
	c.r4.reset()
	c.r5.reset()
	c.r6.reset()
	c.rN0.reset()
	c.rNP.reset()
}

// fadePosition linearly crossfades between a and b, with ratio 0 selecting a
// (input only) and ratio 1 selecting b (fully mixed).
func fadePosition(a, b, ratio float64) float64 {
	return a + (b-a)*ratio
}
