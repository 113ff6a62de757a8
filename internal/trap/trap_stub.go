//go:build !linux

package trap

import (
	"fmt"

	"tridrag/internal/arbiter"
	"tridrag/internal/touch"
)

// Stub implementation for non-Linux platforms.

// Trap is a stub pointer interceptor.
type Trap struct{}

// NewTrap creates a new stub trap.
func NewTrap(devicePath string) *Trap {
	return &Trap{}
}

// SetKillSwitch registers the kill switch (stub).
func (t *Trap) SetKillSwitch(callback func()) {}

// Start begins interception (stub).
func (t *Trap) Start() error {
	return fmt.Errorf("pointer interception not supported on this platform")
}

// Stop stops interception (stub).
func (t *Trap) Stop() error {
	return nil
}

// Events returns the pointer event channel (stub).
func (t *Trap) Events() <-chan arbiter.PointerEvent {
	return nil
}

// Modifiers returns the held modifier keys (stub).
func (t *Trap) Modifiers() touch.Modifier {
	return 0
}
