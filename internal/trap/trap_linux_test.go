//go:build linux

package trap

import (
	"testing"

	"tridrag/internal/arbiter"
	"tridrag/internal/touch"
)

func drain(t *testing.T, tr *Trap) arbiter.PointerEvent {
	t.Helper()
	select {
	case ev := <-tr.events:
		return ev
	default:
		t.Fatal("no event published")
		return arbiter.PointerEvent{}
	}
}

func expectEmpty(t *testing.T, tr *Trap) {
	t.Helper()
	select {
	case ev := <-tr.events:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestHandleEventButtons(t *testing.T) {
	tr := NewTrap("/dev/null")

	tr.handleEvent(inputEvent{Type: evKey, Code: btnLeft, Value: 1})
	ev := drain(t, tr)
	if ev.Type != arbiter.ButtonDown || ev.Button != arbiter.ButtonLeft {
		t.Errorf("left press = %+v", ev)
	}

	tr.handleEvent(inputEvent{Type: evKey, Code: btnMiddle, Value: 0})
	ev = drain(t, tr)
	if ev.Type != arbiter.ButtonUp || ev.Button != arbiter.ButtonMiddle {
		t.Errorf("middle release = %+v", ev)
	}

	tr.handleEvent(inputEvent{Type: evKey, Code: btnSide, Value: 1})
	if ev = drain(t, tr); ev.Button != arbiter.ButtonOther {
		t.Errorf("side button = %+v", ev)
	}

	// Unknown key codes are not pointer events.
	tr.handleEvent(inputEvent{Type: evKey, Code: 0x200, Value: 1})
	expectEmpty(t, tr)
}

func TestHandleEventMotion(t *testing.T) {
	tr := NewTrap("/dev/null")

	tr.handleEvent(inputEvent{Type: evRel, Code: relX, Value: -3})
	ev := drain(t, tr)
	if ev.Type != arbiter.Move || ev.X != -3 || ev.Y != 0 {
		t.Errorf("rel x = %+v", ev)
	}

	tr.handleEvent(inputEvent{Type: evRel, Code: relY, Value: 5})
	ev = drain(t, tr)
	if ev.Type != arbiter.Move || ev.Y != 5 {
		t.Errorf("rel y = %+v", ev)
	}

	tr.handleEvent(inputEvent{Type: evRel, Code: relWheel, Value: -1})
	ev = drain(t, tr)
	if ev.Type != arbiter.Scroll || ev.Y != -1 {
		t.Errorf("wheel = %+v", ev)
	}

	tr.handleEvent(inputEvent{Type: evRel, Code: relHWheel, Value: 2})
	ev = drain(t, tr)
	if ev.Type != arbiter.Scroll || ev.X != 2 {
		t.Errorf("hwheel = %+v", ev)
	}
}

func TestModifierTracking(t *testing.T) {
	tr := NewTrap("/dev/null")

	tr.handleEvent(inputEvent{Type: evKey, Code: keyLeftCtrl, Value: 1})
	tr.handleEvent(inputEvent{Type: evKey, Code: keyLeftShift, Value: 1})
	if got := tr.Modifiers(); !got.Has(touch.ModControl | touch.ModShift) {
		t.Errorf("modifiers = %v, want ctrl+shift", got)
	}
	expectEmpty(t, tr)

	tr.handleEvent(inputEvent{Type: evKey, Code: keyLeftCtrl, Value: 0})
	if got := tr.Modifiers(); got.Has(touch.ModControl) {
		t.Errorf("modifiers = %v, ctrl should be released", got)
	}

	// Right-hand variants map to the same bits.
	tr.handleEvent(inputEvent{Type: evKey, Code: keyRightAlt, Value: 1})
	if got := tr.Modifiers(); !got.Has(touch.ModAlt) {
		t.Errorf("modifiers = %v, want alt", got)
	}
}

func TestKillSwitchChord(t *testing.T) {
	tr := NewTrap("/dev/null")
	fired := 0
	tr.SetKillSwitch(func() { fired++ })

	// Esc without the chord held does nothing.
	tr.handleEvent(inputEvent{Type: evKey, Code: keyEsc, Value: 1})
	if fired != 0 {
		t.Fatal("kill switch fired without the chord")
	}

	tr.handleEvent(inputEvent{Type: evKey, Code: keyLeftCtrl, Value: 1})
	tr.handleEvent(inputEvent{Type: evKey, Code: keyLeftAlt, Value: 1})
	tr.handleEvent(inputEvent{Type: evKey, Code: keyEsc, Value: 1})
	if fired != 1 {
		t.Fatalf("kill switch fired %d times, want 1", fired)
	}

	// Ctrl alone does not satisfy the chord.
	tr.handleEvent(inputEvent{Type: evKey, Code: keyLeftAlt, Value: 0})
	tr.handleEvent(inputEvent{Type: evKey, Code: keyEsc, Value: 1})
	if fired != 1 {
		t.Fatalf("kill switch fired %d times after alt release, want 1", fired)
	}
}
