package klatt

import (
	"math"
	"testing"
)

func TestSmoothstepEndpointsAndMidpoint(t *testing.T) {
	if got := smoothstep(0); got != 0 {
		t.Errorf("smoothstep(0) = %v, want 0", got)
	}
	if got := smoothstep(1); got != 1 {
		t.Errorf("smoothstep(1) = %v, want 1", got)
	}
	if got := smoothstep(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("smoothstep(0.5) = %v, want 0.5 (symmetric around the midpoint)", got)
	}
}

func TestFadeValueNaNSafety(t *testing.T) {
	if got := fadeValue(440, math.NaN(), 0.5); got != 440 {
		t.Errorf("fadeValue with NaN target = %v, want old value 440", got)
	}
	if got := fadeValue(100, 200, 0); got != 100 {
		t.Errorf("fadeValue at ratio 0 = %v, want old value", got)
	}
	if got := fadeValue(100, 200, 1); got != 200 {
		t.Errorf("fadeValue at ratio 1 = %v, want new value", got)
	}
}

func TestStepValueTakesNewImmediately(t *testing.T) {
	if got := stepValue(100, 200); got != 200 {
		t.Errorf("stepValue = %v, want 200 regardless of ratio", got)
	}
	if got := stepValue(100, math.NaN()); got != 100 {
		t.Errorf("stepValue with NaN target = %v, want old value", got)
	}
}

func TestInterpolateFrameWhitelist(t *testing.T) {
	oldFrame := Frame{CF1: 500, BurstAmplitude: 0, TrillRate: 0, ParallelAntiFreq: 1000}
	newFrame := Frame{CF1: 700, BurstAmplitude: 1, TrillRate: 30, ParallelAntiFreq: 2000}

	// At a small ratio, a smoothed field should barely have moved off old...
	out := interpolateFrame(&oldFrame, &newFrame, 0.01)
	if out.CF1 >= oldFrame.CF1+5 {
		t.Errorf("CF1 moved too fast at ratio 0.01: got %v", out.CF1)
	}
	// ...but a step-instant field must already equal the new value.
	if out.BurstAmplitude != 1 {
		t.Errorf("BurstAmplitude = %v, want 1 (step-instant) even at ratio 0.01", out.BurstAmplitude)
	}
	if out.TrillRate != 30 {
		t.Errorf("TrillRate = %v, want 30 (step-instant)", out.TrillRate)
	}
	if out.ParallelAntiFreq != 2000 {
		t.Errorf("ParallelAntiFreq = %v, want 2000 (step-instant)", out.ParallelAntiFreq)
	}
}

func TestInterpolateFrameMidpointMatchesSmoothstep(t *testing.T) {
	oldFrame := Frame{CF2: 1000}
	newFrame := Frame{CF2: 2000}
	out := interpolateFrame(&oldFrame, &newFrame, 0.5)
	want := 1000 + (2000-1000)*smoothstep(0.5)
	if math.Abs(out.CF2-want) > 1e-9 {
		t.Errorf("CF2 at ratio 0.5 = %v, want %v", out.CF2, want)
	}
}
