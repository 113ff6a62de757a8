package arbiter

import (
	"testing"
	"time"

	"tridrag/internal/gesture"
	"tridrag/internal/touch"
)

type fakeClicker struct {
	clicks int
}

func (f *fakeClicker) Click() error {
	f.clicks++
	return nil
}

func newTestArbiter(snap *Snapshot, clicker Clicker) *Arbiter {
	return New(snap, func() gesture.Configuration {
		return gesture.DefaultConfiguration()
	}, clicker, nil)
}

func at(ms int) time.Time {
	return time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond)
}

func TestZeroSnapshotPassesEverything(t *testing.T) {
	a := newTestArbiter(&Snapshot{}, nil)
	events := []PointerEvent{
		{Type: Move},
		{Type: ButtonDown, Button: ButtonLeft},
		{Type: ButtonUp, Button: ButtonLeft},
		{Type: ButtonDown, Button: ButtonRight},
		{Type: Scroll},
	}
	for _, ev := range events {
		if d := a.Decide(ev, at(0)); d != PassThrough {
			t.Errorf("%v: decision = %v, want pass", ev.Type, d)
		}
	}
}

func TestActiveGestureSuppresses(t *testing.T) {
	snap := &Snapshot{}
	snap.SetInGesture(true)
	a := newTestArbiter(snap, nil)

	if d := a.Decide(PointerEvent{Type: Move}, at(0)); d != Suppress {
		t.Errorf("move during gesture = %v, want suppress", d)
	}
	if d := a.Decide(PointerEvent{Type: ButtonDown, Button: ButtonRight}, at(0)); d != Suppress {
		t.Errorf("right down during gesture = %v, want suppress", d)
	}
	if d := a.Decide(PointerEvent{Type: Scroll}, at(0)); d != Suppress {
		t.Errorf("scroll during gesture = %v, want suppress", d)
	}
}

func TestMiddleButtonExemptFromSuppression(t *testing.T) {
	snap := &Snapshot{}
	snap.SetDragging(true)
	a := newTestArbiter(snap, nil)

	if d := a.Decide(PointerEvent{Type: ButtonDown, Button: ButtonMiddle}, at(0)); d != PassThrough {
		t.Errorf("untagged middle during drag = %v, want pass", d)
	}
	ev := PointerEvent{Type: ButtonDown, Button: ButtonMiddle, Tag: SynthesisTag}
	if d := a.Decide(ev, at(0)); d != PassThrough {
		t.Errorf("tagged middle during drag = %v, want pass", d)
	}
}

func TestResidualSuppressionWindow(t *testing.T) {
	snap := &Snapshot{}
	snap.NoteGestureEnd(at(1000), true)
	a := newTestArbiter(snap, nil)

	if d := a.Decide(PointerEvent{Type: Move}, at(1100)); d != Suppress {
		t.Errorf("move 100ms after active end = %v, want suppress", d)
	}
	if d := a.Decide(PointerEvent{Type: Move}, at(1200)); d != PassThrough {
		t.Errorf("move 200ms after active end = %v, want pass", d)
	}
	if d := a.Decide(PointerEvent{Type: ButtonDown, Button: ButtonMiddle}, at(1050)); d != PassThrough {
		t.Errorf("middle inside window = %v, want pass", d)
	}
}

func TestCancelledGestureHasNoResidualWindow(t *testing.T) {
	snap := &Snapshot{}
	snap.NoteGestureEnd(at(1000), false)
	a := newTestArbiter(snap, nil)

	if d := a.Decide(PointerEvent{Type: Move}, at(1010)); d != PassThrough {
		t.Errorf("move right after a cancelled session = %v, want pass", d)
	}
}

func TestForceClickConversion(t *testing.T) {
	snap := &Snapshot{}
	snap.SetFingerCount(3)
	clicker := &fakeClicker{}
	a := newTestArbiter(snap, clicker)

	down := PointerEvent{Type: ButtonDown, Button: ButtonLeft}
	if d := a.Decide(down, at(500)); d != ConvertToClick {
		t.Fatalf("left down with 3 fingers = %v, want convert", d)
	}
	if clicker.clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicker.clicks)
	}
	if !snap.LastClickConversion().Equal(at(500)) {
		t.Errorf("conversion time not recorded")
	}

	// The matching up is swallowed even after the fingers lift.
	snap.SetFingerCount(0)
	up := PointerEvent{Type: ButtonUp, Button: ButtonLeft}
	if d := a.Decide(up, at(600)); d != Suppress {
		t.Fatalf("paired left up = %v, want suppress", d)
	}

	// A later unpaired up passes through.
	if d := a.Decide(up, at(700)); d != PassThrough {
		t.Errorf("unpaired left up = %v, want pass", d)
	}
}

func TestForceClickUpSwallowedAfterSnapshotShift(t *testing.T) {
	snap := &Snapshot{}
	snap.SetFingerCount(3)
	clicker := &fakeClicker{}
	a := newTestArbiter(snap, clicker)

	down := PointerEvent{Type: ButtonDown, Button: ButtonLeft}
	if d := a.Decide(down, at(0)); d != ConvertToClick {
		t.Fatalf("left down = %v, want convert", d)
	}

	// The session state moves on before the physical up arrives; the paired
	// up is still the converted click's other half.
	snap.SetPassThrough(true)
	up := PointerEvent{Type: ButtonUp, Button: ButtonLeft}
	if d := a.Decide(up, at(50)); d != Suppress {
		t.Fatalf("paired up during pass-through = %v, want suppress", d)
	}

	snap.SetPassThrough(false)
	snap.SetDragging(true)
	if d := a.Decide(down, at(100)); d == ConvertToClick {
		t.Fatal("converted a left down while dragging")
	}
}

func TestForceClickRequiresThreeFingers(t *testing.T) {
	snap := &Snapshot{}
	snap.SetFingerCount(2)
	clicker := &fakeClicker{}
	a := newTestArbiter(snap, clicker)

	down := PointerEvent{Type: ButtonDown, Button: ButtonLeft}
	if d := a.Decide(down, at(0)); d != PassThrough {
		t.Fatalf("left down with 2 fingers = %v, want pass", d)
	}
	if clicker.clicks != 0 {
		t.Errorf("clicker fired with 2 fingers")
	}
}

func TestForceClickSkippedWhileDragging(t *testing.T) {
	snap := &Snapshot{}
	snap.SetFingerCount(3)
	snap.SetDragging(true)
	clicker := &fakeClicker{}
	a := newTestArbiter(snap, clicker)

	down := PointerEvent{Type: ButtonDown, Button: ButtonLeft}
	if d := a.Decide(down, at(0)); d != Suppress {
		t.Fatalf("left down while dragging = %v, want suppress", d)
	}
	if clicker.clicks != 0 {
		t.Errorf("clicker fired during drag")
	}
}

func TestForceClickSkippedDuringPassThroughSession(t *testing.T) {
	snap := &Snapshot{}
	snap.SetFingerCount(3)
	snap.SetPassThrough(true)
	clicker := &fakeClicker{}
	a := newTestArbiter(snap, clicker)

	down := PointerEvent{Type: ButtonDown, Button: ButtonLeft}
	if d := a.Decide(down, at(0)); d != PassThrough {
		t.Fatalf("left down in host-owned session = %v, want pass", d)
	}
	if clicker.clicks != 0 {
		t.Errorf("clicker fired in host-owned session")
	}
}

func TestTapDisabledTriggersReenable(t *testing.T) {
	snap := &Snapshot{}
	snap.SetInGesture(true)
	calls := 0
	a := newTestArbiter(snap, nil)
	a.SetReenable(func() { calls++ })

	if d := a.Decide(PointerEvent{Type: TapDisabledTimeout}, at(0)); d != PassThrough {
		t.Errorf("disabled timeout = %v, want pass even mid-gesture", d)
	}
	if d := a.Decide(PointerEvent{Type: TapDisabledUserInput}, at(0)); d != PassThrough {
		t.Errorf("disabled user input = %v, want pass", d)
	}
	if calls != 2 {
		t.Errorf("reenable calls = %d, want 2", calls)
	}
}

func TestModifierGateOnSuppression(t *testing.T) {
	snap := &Snapshot{}
	snap.SetInGesture(true)
	cfg := gesture.DefaultConfiguration()
	cfg.RequireModifierKey = true
	cfg.ModifierKey = touch.ModControl
	a := New(snap, func() gesture.Configuration { return cfg }, nil, nil)

	// Modifier up: the recognizer is about to cancel, so events pass now.
	if d := a.Decide(PointerEvent{Type: Move}, at(0)); d != PassThrough {
		t.Errorf("move with modifier up = %v, want pass", d)
	}

	a.SetModifiers(touch.ModControl)
	if d := a.Decide(PointerEvent{Type: Move}, at(0)); d != Suppress {
		t.Errorf("move with modifier held = %v, want suppress", d)
	}
}

func TestSnapshotDefaults(t *testing.T) {
	var snap Snapshot
	if snap.FingerCount() != 0 || snap.InGesture() || snap.Dragging() || snap.PassThrough() {
		t.Fatal("zero snapshot reports activity")
	}
	if _, active := snap.LastGestureEnd(); active {
		t.Fatal("zero snapshot reports a gesture end")
	}
	if !snap.LastClickConversion().IsZero() {
		t.Fatal("zero snapshot reports a click conversion")
	}

	snap.SetFingerCount(-2)
	if snap.FingerCount() != 0 {
		t.Errorf("negative finger count = %d, want clamped to 0", snap.FingerCount())
	}
}
