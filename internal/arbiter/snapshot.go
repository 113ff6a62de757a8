package arbiter

import (
	"sync/atomic"
	"time"
)

// Snapshot is the minimal recognizer state the arbiter reads on the
// latency-critical event path. The fields are independently-synchronized
// scalars rather than one locked aggregate: the finger count is written
// synchronously on the capture path, the session flags are posted from the
// processing goroutine. A zero-valued snapshot reads as "not active", so a
// missing write fails toward passing real user input through.
type Snapshot struct {
	fingerCount    atomic.Int32
	inGesture      atomic.Bool
	dragging       atomic.Bool
	passThrough    atomic.Bool
	lastEndNanos   atomic.Int64
	lastEndActive  atomic.Bool
	lastClickNanos atomic.Int64
}

// SetFingerCount records the current valid finger count. Called
// synchronously from the capture path, ahead of the async gesture queue, so
// the force-click path sees "how many fingers are down right now".
func (s *Snapshot) SetFingerCount(n int) {
	if n < 0 {
		n = 0
	}
	s.fingerCount.Store(int32(n))
}

// FingerCount returns the last synchronously-recorded valid finger count.
func (s *Snapshot) FingerCount() int {
	return int(s.fingerCount.Load())
}

// SetInGesture records whether a session is in progress.
func (s *Snapshot) SetInGesture(v bool) {
	s.inGesture.Store(v)
}

// InGesture reports whether a session is in progress.
func (s *Snapshot) InGesture() bool {
	return s.inGesture.Load()
}

// SetDragging records whether a drag is actively in progress.
func (s *Snapshot) SetDragging(v bool) {
	s.dragging.Store(v)
}

// Dragging reports whether a drag is actively in progress.
func (s *Snapshot) Dragging() bool {
	return s.dragging.Load()
}

// SetPassThrough flags the current session as owned by the host environment.
func (s *Snapshot) SetPassThrough(v bool) {
	s.passThrough.Store(v)
}

// PassThrough reports whether the current session is host-owned.
func (s *Snapshot) PassThrough() bool {
	return s.passThrough.Load()
}

// NoteGestureEnd records when the last session ended and whether it was
// active (tap or completed drag) rather than cancelled.
func (s *Snapshot) NoteGestureEnd(t time.Time, active bool) {
	s.lastEndNanos.Store(t.UnixNano())
	s.lastEndActive.Store(active)
}

// LastGestureEnd returns the time of the last session end and whether that
// session was active. The zero time means no session has ended.
func (s *Snapshot) LastGestureEnd() (time.Time, bool) {
	n := s.lastEndNanos.Load()
	if n == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, n), s.lastEndActive.Load()
}

// NoteClickConversion records when a physical click was last converted.
func (s *Snapshot) NoteClickConversion(t time.Time) {
	s.lastClickNanos.Store(t.UnixNano())
}

// LastClickConversion returns the time of the last force-click conversion,
// or the zero time.
func (s *Snapshot) LastClickConversion() time.Time {
	n := s.lastClickNanos.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
