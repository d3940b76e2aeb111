package klatt

import "testing"

func TestBurstGeneratorTriggersOnRisingEdge(t *testing.T) {
	noise := newNoiseGenerator(defaultSeed0, defaultSeed1)
	b := newBurstGenerator(16000, noise)

	if out := b.next(0, 0, 0, 0, 0); out != 0 {
		t.Fatalf("burst with zero amplitude = %v, want 0", out)
	}
	if !((func() bool { out := b.next(1, 0.5, 2000, 500, 0); return out != 0 })()) {
		t.Fatal("burst should produce nonzero output on the rising edge of burstAmplitude")
	}
}

func TestBurstGeneratorLatchesTriggerParameters(t *testing.T) {
	noise := newNoiseGenerator(defaultSeed0, defaultSeed1)
	b := newBurstGenerator(16000, noise)

	b.next(1, 1.0, 2000, 500, 0) // trigger with duration=1.0 (the longest)
	if !b.active {
		t.Fatal("burst should be active immediately after triggering")
	}
	if b.latchedDuration != 1.0 {
		t.Fatalf("latchedDuration = %v, want 1.0 (the triggering frame's value)", b.latchedDuration)
	}

	// A mid-burst frame change must not affect the in-flight burst's
	// latched parameters.
	b.next(1, 0.0, 500, 50, 1)
	if b.latchedDuration != 1.0 {
		t.Errorf("latchedDuration changed mid-burst to %v, want it to stay latched at 1.0", b.latchedDuration)
	}
	if b.latchedFreq != 2000 {
		t.Errorf("latchedFreq changed mid-burst to %v, want it to stay latched at 2000", b.latchedFreq)
	}
}

func TestBurstGeneratorCompletesAndGoesInactive(t *testing.T) {
	noise := newNoiseGenerator(defaultSeed0, defaultSeed1)
	b := newBurstGenerator(16000, noise)
	b.next(1, 0, 2000, 500, 0) // shortest duration (5ms at 16kHz = 80 samples)

	sawNonzero := false
	for i := 0; i < 16000; i++ {
		out := b.next(1, 0, 2000, 500, 0)
		if out != 0 {
			sawNonzero = true
		}
		if !b.active {
			break
		}
	}
	if !sawNonzero {
		t.Fatal("burst never produced output before completing")
	}
	if b.active {
		t.Fatal("burst never completed within one second of held trigger")
	}
}

func TestBurstGeneratorRetriggersOnNewRisingEdge(t *testing.T) {
	noise := newNoiseGenerator(defaultSeed0, defaultSeed1)
	b := newBurstGenerator(16000, noise)
	b.next(1, 0, 2000, 500, 0)
	for b.active {
		b.next(1, 0, 2000, 500, 0)
	}

	b.next(0, 0, 0, 0, 0) // drop to zero so the next rise is a real edge
	if out := b.next(1, 0, 3000, 500, 0); out == 0 {
		t.Error("burst should retrigger and produce output on a fresh rising edge")
	}
	if b.latchedFreq != 3000 {
		t.Errorf("latchedFreq after retrigger = %v, want 3000", b.latchedFreq)
	}
}
