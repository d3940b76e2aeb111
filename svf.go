package klatt

import "math"

// resonatorMode selects a ZDF state-variable filter's output tap. Keeping a
// small tagged mode on the value itself, branching only at the output-
// selection line, keeps the hot per-sample path identical for every mode.
type resonatorMode int

const (
	modeBandpass resonatorMode = iota
	modeAllPole
	modeNotch
)

// cascadeBWCompensation widens each stage of a two-stage cascade so the
// combined -3dB bandwidth matches the caller's requested bandwidth: two
// cascaded 2nd-order stages narrow the combined response by about 0.644x.
const cascadeBWCompensation = 1.554

// zdfResonator is a single zero-delay-feedback state variable filter
// (Zavalishin, "The Art of VA Filter Design", ch. 3.10), selectable as
// bandpass, all-pole lowpass, or notch. Its trapezoidal-integration topology
// supports smooth per-sample modulation of frequency and bandwidth without
// the zipper noise a direct-form biquad would introduce.
type zdfResonator struct {
	sampleRate int
	mode       resonatorMode

	// integrator states
	ic1, ic2 float64

	// cached coefficients, recomputed only when (freq, bw) changes
	freq, bw      float64
	coeffsSet     bool
	g, a1, a2, a3 float64
}

func newZDFResonator(sampleRate int, mode resonatorMode) *zdfResonator {
	return &zdfResonator{sampleRate: sampleRate, mode: mode, a1: 1}
}

func (r *zdfResonator) setParams(freq, bw float64) {
	if r.coeffsSet && freq == r.freq && bw == r.bw {
		return
	}
	r.freq, r.bw = freq, bw
	r.coeffsSet = true

	if freq <= 0 || bw <= 0 {
		r.g, r.a1, r.a2, r.a3 = 0, 1, 0, 0
		return
	}

	g := math.Tan(math.Pi * freq / float64(r.sampleRate))
	if g > 10 {
		g = 10
	}
	d := bw / freq
	r.g = g
	r.a1 = 1 / (1 + g*(g+d))
	r.a2 = g * r.a1
	r.a3 = g * r.a2
}

// resonate filters one sample. A non-positive frequency or bandwidth
// bypasses the filter and freezes its state, per spec.
func (r *zdfResonator) resonate(in, freq, bw float64) float64 {
	r.setParams(freq, bw)
	if r.g == 0 {
		return in
	}

	v3 := in - r.ic2
	v1 := r.a1*r.ic1 + r.a2*v3 // bandpass
	v2 := r.ic2 + r.a2*r.ic1 + r.a3*v3 // allpole, unity DC gain

	r.ic1 = 2*v1 - r.ic1
	r.ic2 = 2*v2 - r.ic2

	switch r.mode {
	case modeNotch:
		return in - v1
	case modeAllPole:
		return v2
	default:
		return v1
	}
}

func (r *zdfResonator) decay(factor float64) {
	r.ic1 *= factor
	r.ic2 *= factor
	r.ic1 = flushDenormal(r.ic1)
	r.ic2 = flushDenormal(r.ic2)
}

func (r *zdfResonator) reset() {
	r.ic1, r.ic2 = 0, 0
}

// zdfResonator4 cascades two 2nd-order all-pole ZDF sections at the same
// frequency for 24 dB/oct rolloff, compensating each stage's bandwidth so
// the combined response matches the requested bandwidth.
type zdfResonator4 struct {
	stage1, stage2 *zdfResonator
}

func newZDFResonator4(sampleRate int, mode resonatorMode) *zdfResonator4 {
	return &zdfResonator4{
		stage1: newZDFResonator(sampleRate, mode),
		stage2: newZDFResonator(sampleRate, mode),
	}
}

func (r *zdfResonator4) resonate(in, freq, bw float64) float64 {
	if freq <= 0 {
		return in
	}
	bwAdjusted := bw * cascadeBWCompensation
	out := r.stage1.resonate(in, freq, bwAdjusted)
	return r.stage2.resonate(out, freq, bwAdjusted)
}

func (r *zdfResonator4) decay(factor float64) {
	r.stage1.decay(factor)
	r.stage2.decay(factor)
}

func (r *zdfResonator4) reset() {
	r.stage1.reset()
	r.stage2.reset()
}

// flushDenormal suppresses subnormal magnitudes at the specific feedback
// points the spec calls out as denormal-prone (resonator decay paths). Go
// has no portable stdlib access to the CPU's FTZ/DAZ control bits without
// cgo or per-arch assembly, so rather than pull in an unsafe dependency this
// clamps tiny magnitudes directly, which has the same practical effect:
// subnormal values never recirculate through a resonator's feedback state.
func flushDenormal(x float64) float64 {
	if x > -1e-300 && x < 1e-300 {
		return 0
	}
	return x
}
