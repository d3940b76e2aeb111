package klatt

import (
	"math"
	"testing"
)

func TestPolyBLEPZeroOutsideDiscontinuity(t *testing.T) {
	if got := polyBLEP(0.5, 0.1); got != 0 {
		t.Errorf("polyBLEP far from a discontinuity = %v, want 0", got)
	}
}

func TestPolyBLEPZeroWhenDtNonPositive(t *testing.T) {
	if got := polyBLEP(0.0, 0); got != 0 {
		t.Errorf("polyBLEP with dt=0 = %v, want 0 (no correction without a known step size)", got)
	}
}

func TestFrequencyGeneratorWrapsPhase(t *testing.T) {
	f := newFrequencyGenerator(16000)
	var last float64
	wrapped := false
	for i := 0; i < 16000; i++ {
		phase := f.next(440)
		if phase < 0 || phase >= 1 {
			t.Fatalf("phase out of [0,1): %v", phase)
		}
		if phase < last-0.5 {
			wrapped = true
		}
		last = phase
	}
	if !wrapped {
		t.Error("phase accumulator at 440Hz over 1 second never wrapped")
	}
}

func TestFrequencyGeneratorFloorsAtOneHz(t *testing.T) {
	f := newFrequencyGenerator(16000)
	f.next(-100)
	if f.dt != 1.0/16000 {
		t.Errorf("dt after a non-positive frequency request = %v, want the 1Hz floor (%v)", f.dt, 1.0/16000)
	}
}

func TestHalfbandDecimatorSettlesToConstantForConstantInput(t *testing.T) {
	var h halfbandDecimator
	var prev, out float64
	for i := 0; i < 20; i++ {
		out = h.process(1, 1)
		if i == 18 {
			prev = out
		}
	}
	if math.Abs(out-prev) > 1e-9 {
		t.Errorf("halfband decimator did not settle to a constant output for constant input: %v then %v", prev, out)
	}
}

func TestComputeGlottalWaveContinuousAtBoundaries(t *testing.T) {
	tp, te, epsilon, ampNorm := 0.4, 0.6, 5.0, 1.0

	atTp := computeGlottalWave(tp, tp, te, epsilon, ampNorm)
	justBeforeTp := computeGlottalWave(tp-1e-6, tp, te, epsilon, ampNorm)
	if math.Abs(atTp-justBeforeTp) > 0.01 {
		t.Errorf("glottal wave discontinuous at tp: %v vs %v", justBeforeTp, atTp)
	}

	// te is the excitation instant: the waveform has a genuine, deliberate
	// discontinuity there (the closing phase ends at amplitude 0 while the
	// return phase begins at 0.5*ampNorm), which is exactly what the
	// voice generator's second PolyBLEP correction term exists to smooth.
	atTe := computeGlottalWave(te, tp, te, epsilon, ampNorm)
	justBeforeTe := computeGlottalWave(te-1e-6, tp, te, epsilon, ampNorm)
	if math.Abs(atTe-justBeforeTe) < 0.1 {
		t.Errorf("expected a real discontinuity at te (the excitation instant): %v vs %v", justBeforeTe, atTe)
	}
}

func TestVoiceGeneratorAspirationOnlyWhenLFRdZero(t *testing.T) {
	noise := newNoiseGenerator(defaultSeed0, defaultSeed1)
	v := newVoiceGenerator(16000, noise)
	frame := &Frame{VoicePitch: 100, EndVoicePitch: 100, LFRd: 0, AspirationAmplitude: 1, VoiceAmplitude: 1}

	for i := 0; i < 100; i++ {
		v.next(frame)
	}
	if v.glottisOpen {
		t.Error("glottisOpen should be false whenever LFRd is 0 (no glottal source)")
	}
}
