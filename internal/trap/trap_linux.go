//go:build linux

package trap

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"tridrag/internal/arbiter"
	"tridrag/internal/touch"
)

// Linux implementation of pointer interception using evdev with EVIOCGRAB.

// evdev ioctls and event codes, from <linux/input.h> and
// <linux/input-event-codes.h>.
const (
	eviocGrab = 0x40044590

	evKey = 0x01
	evRel = 0x02

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
	btnSide   = 0x113
	btnExtra  = 0x114

	keyEsc        = 1
	keyLeftCtrl   = 29
	keyLeftShift  = 42
	keyLeftAlt    = 56
	keyLeftMeta   = 125
	keyRightCtrl  = 97
	keyRightShift = 54
	keyRightAlt   = 100
)

type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// Trap grabs a pointer device and republishes its events for arbitration.
// While grabbed, the host environment sees nothing from the physical device;
// passed-through events must be re-posted by the synthesis collaborator.
type Trap struct {
	mu         sync.Mutex
	devicePath string
	fd         int
	running    bool
	events     chan arbiter.PointerEvent
	killSwitch func()

	modifiers atomic.Uint32
}

// NewTrap creates a trap for the given evdev device path.
func NewTrap(devicePath string) *Trap {
	return &Trap{
		devicePath: devicePath,
		fd:         -1,
		events:     make(chan arbiter.PointerEvent, 1000),
	}
}

// SetKillSwitch registers the callback invoked on the ctrl+alt+esc chord.
func (t *Trap) SetKillSwitch(callback func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.killSwitch = callback
}

// Start grabs the device and begins the read loop.
func (t *Trap) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("trap already running")
	}

	fd, err := unix.Open(t.devicePath, unix.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", t.devicePath, err)
	}

	if err := unix.IoctlSetInt(fd, eviocGrab, 1); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to grab %s: %w", t.devicePath, err)
	}

	t.fd = fd
	t.running = true
	go t.readLoop(fd)

	log.Printf("Trap: grabbed %s", t.devicePath)
	return nil
}

// Stop releases the device and closes the event channel.
func (t *Trap) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}
	t.running = false

	unix.IoctlSetInt(t.fd, eviocGrab, 0)
	unix.Close(t.fd)
	t.fd = -1

	close(t.events)
	return nil
}

// Events returns the intercepted pointer event channel.
func (t *Trap) Events() <-chan arbiter.PointerEvent {
	return t.events
}

// Modifiers returns the modifier keys held right now, as seen on the
// intercepted device.
func (t *Trap) Modifiers() touch.Modifier {
	return touch.Modifier(t.modifiers.Load())
}

func (t *Trap) readLoop(fd int) {
	var ev inputEvent
	buf := (*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev))[:]

	for {
		n, err := unix.Read(fd, buf)
		if err != nil || n != len(buf) {
			t.mu.Lock()
			running := t.running
			t.mu.Unlock()
			if running {
				log.Printf("Trap: read loop ended: n=%d err=%v", n, err)
			}
			return
		}
		t.handleEvent(ev)
	}
}

func (t *Trap) handleEvent(ev inputEvent) {
	switch ev.Type {
	case evKey:
		if t.handleModifier(ev) {
			return
		}
		button, ok := decodeButton(ev.Code)
		if !ok {
			return
		}
		typ := arbiter.ButtonUp
		if ev.Value != 0 {
			typ = arbiter.ButtonDown
		}
		t.send(arbiter.PointerEvent{Type: typ, Button: button})

	case evRel:
		switch ev.Code {
		case relX:
			t.send(arbiter.PointerEvent{Type: arbiter.Move, X: float64(ev.Value)})
		case relY:
			t.send(arbiter.PointerEvent{Type: arbiter.Move, Y: float64(ev.Value)})
		case relHWheel:
			t.send(arbiter.PointerEvent{Type: arbiter.Scroll, X: float64(ev.Value)})
		case relWheel:
			t.send(arbiter.PointerEvent{Type: arbiter.Scroll, Y: float64(ev.Value)})
		}
	}
}

// handleModifier tracks modifier state and fires the kill switch. Returns
// true when the event was a modifier or chord key.
func (t *Trap) handleModifier(ev inputEvent) bool {
	var mod touch.Modifier
	switch ev.Code {
	case keyLeftCtrl, keyRightCtrl:
		mod = touch.ModControl
	case keyLeftShift, keyRightShift:
		mod = touch.ModShift
	case keyLeftAlt, keyRightAlt:
		mod = touch.ModAlt
	case keyLeftMeta:
		mod = touch.ModMeta
	case keyEsc:
		held := touch.Modifier(t.modifiers.Load())
		if ev.Value != 0 && held.Has(touch.ModControl|touch.ModAlt) {
			t.mu.Lock()
			cb := t.killSwitch
			t.mu.Unlock()
			if cb != nil {
				log.Printf("Trap: kill switch chord detected")
				cb()
			}
			return true
		}
		return false
	default:
		return false
	}

	for {
		old := t.modifiers.Load()
		held := touch.Modifier(old)
		if ev.Value != 0 {
			held |= mod
		} else {
			held &^= mod
		}
		if t.modifiers.CompareAndSwap(old, uint32(held)) {
			return true
		}
	}
}

func (t *Trap) send(ev arbiter.PointerEvent) {
	select {
	case t.events <- ev:
	default:
		// Channel full, drop event.
	}
}

func decodeButton(code uint16) (arbiter.Button, bool) {
	switch code {
	case btnLeft:
		return arbiter.ButtonLeft, true
	case btnRight:
		return arbiter.ButtonRight, true
	case btnMiddle:
		return arbiter.ButtonMiddle, true
	case btnSide, btnExtra:
		return arbiter.ButtonOther, true
	}
	return 0, false
}
