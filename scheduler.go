package klatt

import "sync"

// frameRequest is a queued (or active) frame plus the scheduling
// information needed to cross-fade into and hold it. Pending requests are
// owned exclusively by the scheduler; a Frame handed to QueueFrame is
// copied into the request and never aliased.
type frameRequest struct {
	minNumSamples  int
	numFadeSamples int
	nullFrame      bool
	frame          Frame

	voicePitchInc  float64 // pitch increment for the first half (or whole hold, if no contour)
	voicePitchInc2 float64 // pitch increment for the second half (3-point contour)
	hasContour     bool
	userIndex      int
}

// FrameScheduler holds the two active frame slots (old, new) and the FIFO of
// pending requests that the engine consults once per output sample. All
// mutation goes through a single mutex covering queue mutation, active-frame
// promotion, and purge, matching the "one short critical section" model the
// spec calls for; a plain (non-reentrant) mutex is sufficient because
// QueueFrame and CurrentFrame never call into each other.
type FrameScheduler struct {
	mu sync.Mutex

	queue []*frameRequest
	old   *frameRequest
	new   *frameRequest

	curFrame       Frame
	curFrameIsNULL bool
	sampleCounter  int
	lastUserIndex  int
}

// NewFrameScheduler returns a scheduler with no active frame; CurrentFrame
// returns nil until the first frame is queued, and the first call after that
// returns the start of its fade-in.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{
		old:            &frameRequest{nullFrame: true},
		curFrameIsNULL: true,
		lastUserIndex:  -1,
	}
}

// QueueFrame enqueues a request. frame == nil is the silence sentinel: when
// it is promoted, its target is a copy of the then-current frame with
// PreFormantGain forced to zero, so the cross-fade ramps gain down instead
// of jumping. Symmetrically, if the old slot is itself a silence sentinel
// when a real frame is promoted, the old slot is replaced by a copy of the
// incoming frame with PreFormantGain zeroed, so the fade ramps gain up
// rather than stepping it.
//
// purgeQueue drops every pending request and collapses the active pair to a
// single frame holding the currently-interpolated values, so the next
// queued frame begins a fresh cross-fade from exactly what is audible now.
func (s *FrameScheduler) QueueFrame(frame *Frame, minNumSamples, numFadeSamples, userIndex int, purgeQueue bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := &frameRequest{
		minNumSamples:  max(minNumSamples, 1),
		numFadeSamples: max(numFadeSamples, 1),
		userIndex:      userIndex,
	}

	if frame != nil {
		req.frame = *frame
		if frame.MidVoicePitch > 0 {
			req.hasContour = true
			half := req.minNumSamples / 2
			if half > 0 {
				req.voicePitchInc = (frame.MidVoicePitch - frame.VoicePitch) / float64(half)
				req.voicePitchInc2 = (frame.EndVoicePitch - frame.MidVoicePitch) / float64(req.minNumSamples-half)
			}
		} else {
			req.voicePitchInc = (frame.EndVoicePitch - frame.VoicePitch) / float64(req.minNumSamples)
		}
	} else {
		req.nullFrame = true
	}

	if purgeQueue {
		s.queue = nil
		s.sampleCounter = s.old.minNumSamples
		if s.new != nil {
			s.old.nullFrame = s.new.nullFrame
			s.old.frame = s.curFrame
			s.new = nil
		}
	}

	s.queue = append(s.queue, req)
}

// CurrentFrame advances the scheduler by exactly one output sample and
// returns the frame audible at that sample, or nil if no request is active
// (the scheduler has drained and the queue is empty). The engine calls this
// once per generated sample; the returned pointer is only valid until the
// next call.
func (s *FrameScheduler) CurrentFrame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step()

	if s.curFrameIsNULL {
		return nil
	}
	return &s.curFrame
}

// LastUserIndex returns the userIndex of the most recently promoted
// request, or -1 before any request has been promoted.
func (s *FrameScheduler) LastUserIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUserIndex
}

func (s *FrameScheduler) step() {
	s.sampleCounter++

	switch {
	case s.new != nil:
		if s.sampleCounter > s.new.numFadeSamples {
			s.old = s.new
			s.new = nil
			return
		}
		ratio := float64(s.sampleCounter) / float64(s.new.numFadeSamples)
		s.curFrame = interpolateFrame(&s.old.frame, &s.new.frame, ratio)

	case s.sampleCounter > s.old.minNumSamples:
		if len(s.queue) == 0 {
			s.curFrameIsNULL = true
			return
		}

		next := s.queue[0]
		s.queue = s.queue[1:]
		s.curFrameIsNULL = false

		switch {
		case next.nullFrame:
			next.frame = s.old.frame
			next.frame.PreFormantGain = 0
			next.frame.VoicePitch = s.curFrame.VoicePitch
			next.voicePitchInc = 0
		case s.old.nullFrame:
			s.old.frame = next.frame
			s.old.frame.PreFormantGain = 0
		}

		if next.userIndex != -1 {
			s.lastUserIndex = next.userIndex
		}
		s.sampleCounter = 0
		next.frame.VoicePitch += next.voicePitchInc * float64(next.numFadeSamples)
		s.new = next
		// The sample that triggers promotion is the instant before any fade
		// has been applied: ratio 0 reduces to exactly s.old.frame (which
		// was just set above for one of the two NULL-frame cases).
		s.curFrame = interpolateFrame(&s.old.frame, &next.frame, 0)

	default:
		if s.old.hasContour && s.sampleCounter > s.old.minNumSamples/2 {
			s.curFrame.VoicePitch += s.old.voicePitchInc2
		} else {
			s.curFrame.VoicePitch += s.old.voicePitchInc
		}
		s.old.frame.VoicePitch = s.curFrame.VoicePitch
	}
}
