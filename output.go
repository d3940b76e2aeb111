package klatt

import "math"

// hfShelfFilter compensates for the cascade formant path's structural
// high-frequency loss (roughly 57 dB at 8kHz through six cascaded all-pole
// resonators): y = x + boost*HPF(x), transparent at DC and +boostDB above
// the corner. Applied to the cascade output only; the parallel path already
// carries fricative/sibilant HF energy naturally.
type hfShelfFilter struct {
	alpha           float64
	boost           float64
	lastIn, lastOut float64
}

func newHFShelfFilter(sampleRate int, cornerHz, boostDB float64) *hfShelfFilter {
	return &hfShelfFilter{
		alpha: math.Exp(-2 * math.Pi * cornerHz / float64(sampleRate)),
		boost: math.Pow(10, boostDB/20) - 1,
	}
}

func (h *hfShelfFilter) filter(input float64) float64 {
	hp := h.alpha * (h.lastOut + input - h.lastIn)
	h.lastIn = input
	h.lastOut = hp
	return input + h.boost*hp
}

// cascadeDuckTracker smooths a target gain of 1 - 0.7*max(burstAmp,
// fricAmp)*(1-voiceAmp) with a 1ms time constant, reducing cascade output
// while a burst or frication is active and voicing is low, so cascade
// resonators ringing from a previous vowel don't spike at stop-vowel
// boundaries.
type cascadeDuckTracker struct {
	smoothDuck float64
	alpha      float64
}

func newCascadeDuckTracker(sampleRate int) *cascadeDuckTracker {
	return &cascadeDuckTracker{
		smoothDuck: 1,
		alpha:      1 - math.Exp(-1/(0.001*float64(sampleRate))),
	}
}

func (c *cascadeDuckTracker) duck(burstAmp, fricAmp, voiceAmp float64) float64 {
	burstEnv := maxFloat(burstAmp, fricAmp)
	target := 1 - 0.7*burstEnv*(1-voiceAmp)
	c.smoothDuck += c.alpha * (target - c.smoothDuck)
	return c.smoothDuck
}

// peakLimiter is transparent below its threshold and only compresses peaks,
// with a fast 0.1ms attack and two release speeds: 50ms in normal
// speech, 5ms (engaged via setFastRelease) during silence or stop closure so
// the limiter recovers before the next burst.
type peakLimiter struct {
	gain                                         float64
	attackAlpha, releaseAlpha, fastReleaseAlpha float64
	threshold                                    float64
	fastRelease                                  bool
}

func newPeakLimiter(sampleRate int, thresholdDb float64) *peakLimiter {
	return &peakLimiter{
		gain:             1,
		threshold:        32767 * math.Pow(10, thresholdDb/20),
		attackAlpha:      1 - math.Exp(-1/(0.0001*float64(sampleRate))),
		releaseAlpha:     1 - math.Exp(-1/(0.050*float64(sampleRate))),
		fastReleaseAlpha: 1 - math.Exp(-1/(0.005*float64(sampleRate))),
	}
}

func (p *peakLimiter) setFastRelease(fast bool) {
	p.fastRelease = fast
}

func (p *peakLimiter) limit(input float64) float64 {
	absIn := math.Abs(input)
	if absIn > p.threshold {
		targetGain := p.threshold / absIn
		p.gain += p.attackAlpha * (targetGain - p.gain)
	} else {
		alpha := p.releaseAlpha
		if p.fastRelease {
			alpha = p.fastReleaseAlpha
		}
		p.gain += alpha * (1 - p.gain)
	}
	return input * p.gain
}
