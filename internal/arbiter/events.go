// Package arbiter decides, per incoming hardware pointer event, whether the
// event passes through to the host environment, is suppressed, or is
// converted into a synthesized middle click.
package arbiter

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonOther
)

var buttonNames = map[Button]string{
	ButtonLeft:   "left",
	ButtonRight:  "right",
	ButtonMiddle: "middle",
	ButtonOther:  "other",
}

func (b Button) String() string {
	if n, ok := buttonNames[b]; ok {
		return n
	}
	return "unknown"
}

// EventType identifies the kind of incoming pointer event.
type EventType int

const (
	ButtonDown EventType = iota
	ButtonUp
	Move
	Scroll

	// TapDisabledTimeout and TapDisabledUserInput indicate the host disabled
	// the interception layer; the arbiter must re-enable it and pass the
	// event through.
	TapDisabledTimeout
	TapDisabledUserInput
)

// SynthesisTag is the fixed marker value the synthesis collaborator writes
// onto events it posts, so the arbiter never re-processes its own output.
const SynthesisTag int64 = 0x74726964 // "trid"

// PointerEvent is one incoming hardware pointer event. For Move events X and
// Y carry the relative motion; for Scroll events they carry the horizontal
// and vertical wheel deltas.
type PointerEvent struct {
	Type   EventType
	Button Button
	X, Y   float64
	Tag    int64
}

// Tagged reports whether the event carries the engine's own synthesis tag.
func (e PointerEvent) Tagged() bool {
	return e.Tag == SynthesisTag
}

// Decision is the arbiter's verdict for one pointer event.
type Decision int

const (
	PassThrough Decision = iota
	Suppress
	ConvertToClick
)

var decisionNames = map[Decision]string{
	PassThrough:    "pass_through",
	Suppress:       "suppress",
	ConvertToClick: "convert_to_click",
}

func (d Decision) String() string {
	if n, ok := decisionNames[d]; ok {
		return n
	}
	return "unknown"
}
