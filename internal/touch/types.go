// Package touch provides the per-frame contact model and contact filtering
// for the gesture engine.
package touch

import "time"

// Phase is the tracking phase reported for a contact by the touch surface.
type Phase int

const (
	PhaseNotTracking Phase = iota
	PhaseStarting
	PhaseHovering
	PhaseTouching
	PhaseActive
	PhaseLifting
	PhaseOutOfRange
)

var phaseNames = map[Phase]string{
	PhaseNotTracking: "not_tracking",
	PhaseStarting:    "starting",
	PhaseHovering:    "hovering",
	PhaseTouching:    "touching",
	PhaseActive:      "active",
	PhaseLifting:     "lifting",
	PhaseOutOfRange:  "out_of_range",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether the phase counts as a resting finger.
func (p Phase) Valid() bool {
	return p == PhaseTouching || p == PhaseActive
}

// Modifier is a bitmask of held modifier keys.
type Modifier uint16

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModMeta
	ModFn
)

// Has reports whether all bits of m are held.
func (mods Modifier) Has(m Modifier) bool {
	return mods&m == m
}

// Point is a position in normalized surface space ([0,1] on both axes).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contact is one finger's reported state for a single frame. Contacts are
// ephemeral; the engine never retains them across frames.
type Contact struct {
	ID        int     `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelX      float64 `json:"vx"`
	VelY      float64 `json:"vy"`
	ZTotal    float64 `json:"size"`
	MajorAxis float64 `json:"major,omitempty"`
	MinorAxis float64 `json:"minor,omitempty"`
	Phase     Phase   `json:"phase"`
}

// Frame is one hardware report: all contacts seen at a single timestamp plus
// the modifier keys held at that moment.
type Frame struct {
	Contacts  []Contact
	Timestamp time.Duration
	Modifiers Modifier
}

// Clone deep-copies the frame. The capture buffer's lifetime is owned by the
// hardware collaborator, so a frame must be cloned before it crosses the
// capture boundary.
func (f Frame) Clone() Frame {
	out := f
	out.Contacts = make([]Contact, len(f.Contacts))
	copy(out.Contacts, f.Contacts)
	return out
}

// CentroidOf returns the mean position of the contacts, or the zero point
// when the slice is empty.
func CentroidOf(contacts []Contact) Point {
	if len(contacts) == 0 {
		return Point{}
	}
	var p Point
	for _, c := range contacts {
		p.X += c.X
		p.Y += c.Y
	}
	n := float64(len(contacts))
	return Point{X: p.X / n, Y: p.Y / n}
}
