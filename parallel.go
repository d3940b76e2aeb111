package klatt

// parallelFormantGenerator sums six independent bandpass formants (each
// scaled by its own amplitude), applies one anti-resonator notch, and fades
// between the filtered sum and the raw input per parallelBypass.
type parallelFormantGenerator struct {
	r1, r2, r3, r4, r5, r6 *zdfResonator
	antiRes                *zdfResonator
}

func newParallelFormantGenerator(sampleRate int) *parallelFormantGenerator {
	return &parallelFormantGenerator{
		r1:      newZDFResonator(sampleRate, modeBandpass),
		r2:      newZDFResonator(sampleRate, modeBandpass),
		r3:      newZDFResonator(sampleRate, modeBandpass),
		r4:      newZDFResonator(sampleRate, modeBandpass),
		r5:      newZDFResonator(sampleRate, modeBandpass),
		r6:      newZDFResonator(sampleRate, modeBandpass),
		antiRes: newZDFResonator(sampleRate, modeNotch),
	}
}

func (p *parallelFormantGenerator) next(frame *Frame, input float64) float64 {
	input /= 2

	output := p.r1.resonate(input, frame.PF1, frame.PB1) * frame.PA1
	output += p.r2.resonate(input, frame.PF2, frame.PB2) * frame.PA2
	output += p.r3.resonate(input, frame.PF3, frame.PB3) * frame.PA3
	output += p.r4.resonate(input, frame.PF4, frame.PB4) * frame.PA4
	output += p.r5.resonate(input, frame.PF5, frame.PB5) * frame.PA5
	output += p.r6.resonate(input, frame.PF6, frame.PB6) * frame.PA6

	output = p.antiRes.resonate(output, frame.ParallelAntiFreq, frame.ParallelAntiBw)
	return fadePosition(output, input, frame.ParallelBypass)
}

func (p *parallelFormantGenerator) decay(factor float64) {
	p.r1.decay(factor)
	p.r2.decay(factor)
	p.r3.decay(factor)
	p.r4.decay(factor)
	p.r5.decay(factor)
	p.r6.decay(factor)
	p.antiRes.decay(factor)
}

func (p *parallelFormantGenerator) reset() {
	p.r1.reset()
	p.r2.reset()
	p.r3.reset()
	p.r4.reset()
	p.r5.reset()
	p.r6.reset()
	p.antiRes.reset()
}
