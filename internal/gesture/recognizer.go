package gesture

import (
	"math"
	"time"

	"tridrag/internal/touch"
)

// Recognizer is the per-frame gesture state machine. It holds the only
// persistent mutable state of the engine and must be driven from a single
// goroutine, one frame at a time. Identical input sequences produce identical
// event sequences.
type Recognizer struct {
	state            State
	startCentroid    touch.Point
	lastCentroid     touch.Point
	startTime        time.Duration
	underCountFrames int
	cooldown         bool
}

// NewRecognizer returns a recognizer in the idle state.
func NewRecognizer() *Recognizer {
	return &Recognizer{}
}

// State returns the current session state.
func (r *Recognizer) State() State {
	return r.state
}

// Reset forcibly returns the session to idle, clearing all counters and
// flags, without emitting any event. Used on enable/disable toggles and
// external teardown.
func (r *Recognizer) Reset() {
	r.resetSession()
	r.cooldown = false
}

func (r *Recognizer) resetSession() {
	r.state = StateIdle
	r.startCentroid = touch.Point{}
	r.lastCentroid = touch.Point{}
	r.startTime = 0
	r.underCountFrames = 0
}

// Process consumes one frame of already-filtered contacts and advances the
// state machine. The returned events are in emission order; most frames
// return none or one.
func (r *Recognizer) Process(contacts []touch.Contact, timestamp time.Duration, mods touch.Modifier, cfg Configuration) []Event {
	count := len(contacts)
	centroid := touch.CentroidOf(contacts)

	// Cooldown clears the moment the valid count drops below three.
	if count < 3 {
		r.cooldown = false
	}

	// Excess fingers preempt everything, including relift tolerance.
	if count >= 4 {
		switch r.state {
		case StatePossibleTap:
			r.resetSession()
			r.cooldown = true
			return []Event{{Kind: EventCancel}}
		case StateDragging:
			r.resetSession()
			r.cooldown = true
			return []Event{{Kind: EventCancelDrag}}
		}
		return nil
	}

	// An unmet modifier requirement cancels the session and blocks new ones.
	if !cfg.ModifierSatisfied(mods) {
		switch r.state {
		case StatePossibleTap:
			r.resetSession()
			return []Event{{Kind: EventCancel}}
		case StateDragging:
			r.resetSession()
			return []Event{{Kind: EventCancelDrag}}
		}
		return nil
	}

	if r.state == StateWaitingForRelease && count < 3 {
		r.state = StateIdle
	}

	if r.state == StateIdle {
		if count == 3 {
			r.cooldown = false
		}
		if count == 3 && !r.cooldown {
			r.state = StatePossibleTap
			r.startCentroid = centroid
			r.lastCentroid = centroid
			r.startTime = timestamp
			r.underCountFrames = 0
			return []Event{{Kind: EventStart, Position: centroid}}
		}
		return nil
	}

	if !r.state.Active() {
		return nil
	}

	// Session is active: PossibleTap or Dragging.
	minCount := 3
	if r.state == StateDragging && cfg.AllowReliftDuringDrag {
		minCount = 2
	}

	if count == 3 || (count == 2 && r.state == StateDragging && cfg.AllowReliftDuringDrag) {
		r.underCountFrames = 0
		if cfg.Smoothing > 0 {
			s := cfg.Smoothing
			centroid = touch.Point{
				X: r.lastCentroid.X*s + centroid.X*(1-s),
				Y: r.lastCentroid.Y*s + centroid.Y*(1-s),
			}
		}

		// While waiting for movement onset the reference is the gesture
		// origin; while dragging it is the last recorded position.
		ref := r.startCentroid
		if r.state == StateDragging {
			ref = r.lastCentroid
		}
		dispX := centroid.X - ref.X
		dispY := centroid.Y - ref.Y

		var events []Event
		switch {
		case exceedsJump(dispX, dispY):
			// Tracking artifact: re-anchor the reference, emit nothing, keep
			// the state. While dragging the reference is lastCentroid, which
			// picks up the new position below; the gesture origin stays put.
			if r.state == StatePossibleTap {
				r.startCentroid = centroid
			}
		case r.state == StatePossibleTap && exceedsMove(dispX, dispY, cfg.MoveThreshold):
			r.state = StateDragging
			events = append(events, Event{Kind: EventBeginDrag, Position: r.startCentroid})
		case r.state == StateDragging:
			data := Data{
				Centroid:      centroid,
				Velocity:      meanVelocity(contacts),
				Pressure:      totalPressure(contacts),
				FingerCount:   count,
				StartPosition: r.startCentroid,
				LastPosition:  r.lastCentroid,
			}
			if dx, dy := FrameDelta(data, cfg); dx != 0 || dy != 0 {
				events = append(events, Event{
					Kind:  EventUpdateDrag,
					Data:  data,
					Delta: touch.Point{X: dx, Y: dy},
				})
			}
		}
		r.lastCentroid = centroid
		return events
	}

	if count < minCount {
		r.underCountFrames++
		if r.underCountFrames < 2 {
			// Debounce: a single under-count frame never ends a gesture.
			return nil
		}
		var events []Event
		switch r.state {
		case StatePossibleTap:
			elapsed := timestamp - r.startTime
			withinHold := cfg.MaxTapHoldDuration <= 0 || elapsed <= cfg.MaxTapHoldDuration
			if elapsed <= cfg.TapThreshold && withinHold {
				events = append(events, Event{Kind: EventTap, Position: r.startCentroid})
			}
			// Held too long: neither a tap nor a drag, silent reset.
		case StateDragging:
			events = append(events, Event{Kind: EventEndDrag})
		}
		r.resetSession()
		return events
	}

	// Count recovered to the gesture's minimum; the debounce resets.
	r.underCountFrames = 0
	return nil
}

func exceedsMove(dx, dy, threshold float64) bool {
	return math.Abs(dx) >= threshold || math.Abs(dy) >= threshold
}

func meanVelocity(contacts []touch.Contact) touch.Point {
	if len(contacts) == 0 {
		return touch.Point{}
	}
	var v touch.Point
	for _, c := range contacts {
		v.X += c.VelX
		v.Y += c.VelY
	}
	n := float64(len(contacts))
	return touch.Point{X: v.X / n, Y: v.Y / n}
}

func totalPressure(contacts []touch.Contact) float64 {
	var z float64
	for _, c := range contacts {
		z += c.ZTotal
	}
	return z
}
