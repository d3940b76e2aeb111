package klatt

import "math"

// dcBlockFilter is a one-pole highpass that removes DC offset from the
// glottal source before it reaches the cascade path. The LF model at high
// Rd produces asymmetric pulses with real DC content, which an all-pole
// cascade (unity DC gain) would pass straight through and shift the
// limiter's operating point.
type dcBlockFilter struct {
	r               float64
	lastIn, lastOut float64
}

func newDCBlockFilter(sampleRate int, cutoffHz float64) *dcBlockFilter {
	r := 1 - (2*math.Pi*cutoffHz)/float64(sampleRate)
	return &dcBlockFilter{r: clampFloat(r, 0.9, 0.9999)}
}

func (d *dcBlockFilter) filter(input float64) float64 {
	output := input - d.lastIn + d.r*d.lastOut
	d.lastIn = input
	d.lastOut = output
	return output
}

// spectralTiltFilter is a two-stage one-pole lowpass (12 dB/oct). tiltDB
// selects the cutoff so that, at 5kHz, the two-stage response attenuates by
// exactly tiltDB.
type spectralTiltFilter struct {
	sampleRate               int
	lastOutput1, lastOutput2 float64
}

func newSpectralTiltFilter(sampleRate int) *spectralTiltFilter {
	return &spectralTiltFilter{sampleRate: sampleRate}
}

func (s *spectralTiltFilter) filter(input, tiltDB float64) float64 {
	if tiltDB < 1.5 {
		return input
	}

	attenLinear := math.Pow(10, -tiltDB/20)
	if attenLinear <= 0.001 {
		attenLinear = 0.001
	}

	fc := 5000 / math.Sqrt(1/attenLinear-1)
	alpha := math.Exp(-2 * math.Pi * fc / float64(s.sampleRate))

	stage1 := (1-alpha)*input + alpha*s.lastOutput1
	s.lastOutput1 = stage1
	output := (1-alpha)*stage1 + alpha*s.lastOutput2
	s.lastOutput2 = output
	return output
}

// trachealResonator models subglottal coupling as a sequential pole/zero/
// pole/zero chain. Each stage bypasses automatically when its frequency is
// zero (the underlying ZDF resonator's own bypass rule).
type trachealResonator struct {
	pole1, pole2 *zdfResonator
	zero1, zero2 *zdfResonator
}

func newTrachealResonator(sampleRate int) *trachealResonator {
	return &trachealResonator{
		pole1: newZDFResonator(sampleRate, modeAllPole),
		zero1: newZDFResonator(sampleRate, modeNotch),
		pole2: newZDFResonator(sampleRate, modeAllPole),
		zero2: newZDFResonator(sampleRate, modeNotch),
	}
}

func (t *trachealResonator) resonate(input float64, frame *Frame) float64 {
	output := input
	if frame.FTPFreq1 > 0 {
		output = t.pole1.resonate(output, frame.FTPFreq1, frame.FTPBw1)
	}
	if frame.FTZFreq1 > 0 {
		output = t.zero1.resonate(output, frame.FTZFreq1, frame.FTZBw1)
	}
	if frame.FTPFreq2 > 0 {
		output = t.pole2.resonate(output, frame.FTPFreq2, frame.FTPBw2)
	}
	if frame.FTZFreq2 > 0 {
		output = t.zero2.resonate(output, frame.FTZFreq2, frame.FTZBw2)
	}
	return output
}

// trillModulator is an amplitude LFO for trilled consonants (/r/, /ʙ/),
// modeled as a cosine closure cycle: fully open at phase 0, most closed at
// phase 0.5.
type trillModulator struct {
	sampleRate int
	phase      float64
}

func newTrillModulator(sampleRate int) *trillModulator {
	return &trillModulator{sampleRate: sampleRate}
}

func (t *trillModulator) next(rate, depth float64) float64 {
	if rate <= 0 || depth <= 0 {
		return 1
	}
	t.phase = math.Mod(t.phase+rate/float64(t.sampleRate), 1)
	return 1 - depth*0.5*(1-math.Cos(twoPi*t.phase))
}
