package gesture

import "tridrag/internal/touch"

// State is the recognizer's session phase.
type State int

const (
	StateIdle State = iota
	StatePossibleTap
	StateDragging
	StateWaitingForRelease
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StatePossibleTap:       "possible_tap",
	StateDragging:          "dragging",
	StateWaitingForRelease: "waiting_for_release",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Active reports whether the state counts as an in-progress gesture for
// suppression purposes. Idle and WaitingForRelease do not.
func (s State) Active() bool {
	return s == StatePossibleTap || s == StateDragging
}

// EventKind identifies a recognizer event.
type EventKind int

const (
	// EventStart marks a new session: three valid fingers at rest.
	EventStart EventKind = iota
	// EventTap is a completed three-finger tap.
	EventTap
	// EventBeginDrag marks movement onset past the move threshold.
	EventBeginDrag
	// EventUpdateDrag carries one frame's drag data and delta.
	EventUpdateDrag
	// EventEndDrag is a completed drag (fingers lifted).
	EventEndDrag
	// EventCancel aborts a possible tap without completing it.
	EventCancel
	// EventCancelDrag aborts an in-progress drag.
	EventCancelDrag
)

var eventKindNames = map[EventKind]string{
	EventStart:      "start",
	EventTap:        "tap",
	EventBeginDrag:  "begin_drag",
	EventUpdateDrag: "update_drag",
	EventEndDrag:    "end_drag",
	EventCancel:     "cancel",
	EventCancelDrag: "cancel_drag",
}

func (k EventKind) String() string {
	if n, ok := eventKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether the event ends a session.
func (k EventKind) Terminal() bool {
	switch k {
	case EventTap, EventEndDrag, EventCancel, EventCancelDrag:
		return true
	}
	return false
}

// Data is the per-frame drag payload emitted with EventUpdateDrag. Derived
// from the current frame; not retained by the recognizer.
type Data struct {
	Centroid      touch.Point
	Velocity      touch.Point
	Pressure      float64
	FingerCount   int
	StartPosition touch.Point
	LastPosition  touch.Point
}

// Event is one recognizer output. Position is the gesture origin for
// EventStart; Data and Delta are populated for EventUpdateDrag.
type Event struct {
	Kind     EventKind
	Position touch.Point
	Data     Data
	Delta    touch.Point
}
