// Package protocol defines the wire messages used to feed touch frames into
// the engine and to publish recognized gesture events to observers.
package protocol

import (
	"time"

	"tridrag/internal/gesture"
	"tridrag/internal/touch"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeAuth is sent by a client immediately after connection to
	// authenticate.
	TypeAuth MessageType = "auth"

	// TypeFrame carries one touch frame from a frame source.
	TypeFrame MessageType = "frame"

	// TypeEvent carries one recognized gesture event to observers.
	TypeEvent MessageType = "event"

	// TypePing can be used for application-level heartbeats if needed.
	TypePing MessageType = "ping"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// AuthPayload is the payload for TypeAuth
type AuthPayload struct {
	Token         string `json:"token"`
	SourceName    string `json:"source_name"`
	SourceVersion string `json:"source_version"`
}

// FramePayload is the wire form of one touch frame.
type FramePayload struct {
	Contacts  []touch.Contact `json:"contacts"`
	Timestamp int64           `json:"ts"` // microseconds since device epoch
	Modifiers uint16          `json:"mods,omitempty"`
}

// Frame converts the payload into the engine's frame representation.
func (p FramePayload) Frame() touch.Frame {
	return touch.Frame{
		Contacts:  p.Contacts,
		Timestamp: time.Duration(p.Timestamp) * time.Microsecond,
		Modifiers: touch.Modifier(p.Modifiers),
	}
}

// NewFramePayload converts a frame into its wire form.
func NewFramePayload(f touch.Frame) FramePayload {
	return FramePayload{
		Contacts:  f.Contacts,
		Timestamp: int64(f.Timestamp / time.Microsecond),
		Modifiers: uint16(f.Modifiers),
	}
}

// EventPayload is the wire form of one recognized gesture event.
type EventPayload struct {
	Kind     string      `json:"kind"`
	Position touch.Point `json:"position,omitempty"`
	Delta    touch.Point `json:"delta,omitempty"`
	Fingers  int         `json:"fingers,omitempty"`
}

// NewEventPayload converts a recognizer event into its wire form.
func NewEventPayload(ev gesture.Event) EventPayload {
	return EventPayload{
		Kind:     ev.Kind.String(),
		Position: ev.Position,
		Delta:    ev.Delta,
		Fingers:  ev.Data.FingerCount,
	}
}
