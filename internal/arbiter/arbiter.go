package arbiter

import (
	"time"

	"tridrag/internal/gesture"
	"tridrag/internal/touch"
)

// suppressionWindow is how long residual pointer events are still suppressed
// after an active gesture ends (fingers lifting off generate stray events).
const suppressionWindow = 150 * time.Millisecond

// Clicker synthesizes the middle click that replaces a physical left click
// performed with three or more fingers resting on the surface.
type Clicker interface {
	Click() error
}

// Arbiter applies the pass/suppress/convert decision table. Decide must stay
// synchronous and non-blocking: it runs on the event-interception context and
// reads only the snapshot's atomic scalars.
type Arbiter struct {
	snap *Snapshot

	// config returns the live configuration; replaced wholesale on change.
	config func() gesture.Configuration

	clicker  Clicker
	reenable func()

	// modifiers held right now, written by the same context that calls
	// Decide (the interception path sees key events too).
	held touch.Modifier

	// pendingUp tracks a converted physical click whose button-up has not
	// arrived yet; both halves of the pair are suppressed.
	pendingUp bool
}

// New creates an arbiter over the given snapshot. The clicker may be nil
// (conversion then only suppresses); reenable may be nil.
func New(snap *Snapshot, config func() gesture.Configuration, clicker Clicker, reenable func()) *Arbiter {
	if config == nil {
		config = gesture.DefaultConfiguration
	}
	return &Arbiter{
		snap:    snap,
		config:  config,
		clicker: clicker,
	}
}

// SetReenable installs the callback invoked when the host reports the
// interception layer was disabled.
func (a *Arbiter) SetReenable(fn func()) {
	a.reenable = fn
}

// SetModifiers records the modifier keys currently held. Must be called from
// the same context as Decide.
func (a *Arbiter) SetModifiers(mods touch.Modifier) {
	a.held = mods
}

// Decide returns the verdict for one incoming pointer event at the given
// time. ConvertToClick means the physical event was replaced: the caller
// must not deliver it (the synthesized click is posted by the clicker).
func (a *Arbiter) Decide(ev PointerEvent, now time.Time) Decision {
	// Host disabled the interception layer: ask for re-enabling and let the
	// event through regardless of gesture state.
	if ev.Type == TapDisabledTimeout || ev.Type == TapDisabledUserInput {
		if a.reenable != nil {
			a.reenable()
		}
		return PassThrough
	}

	// Our own synthesized middle-button events are never re-processed.
	if ev.Tagged() && ev.Button == ButtonMiddle {
		return PassThrough
	}

	cfg := a.config()
	modifierSatisfied := cfg.ModifierSatisfied(a.held)
	gestureActive := modifierSatisfied && (a.snap.InGesture() || a.snap.Dragging())

	// Force click: a physical left click with three or more fingers resting
	// becomes a synthesized middle click; both halves of the physical pair
	// are swallowed.
	if ev.Button == ButtonLeft && !ev.Tagged() {
		// The pending up is matched unconditionally: the snapshot may have
		// turned dragging or pass-through since the down was converted, and
		// an orphaned up would land on a host that never saw its down.
		if ev.Type == ButtonUp && a.pendingUp {
			a.pendingUp = false
			return Suppress
		}
		if ev.Type == ButtonDown && !a.snap.Dragging() && !a.snap.PassThrough() && a.snap.FingerCount() >= 3 {
			if a.clicker != nil {
				a.clicker.Click()
			}
			a.snap.NoteClickConversion(now)
			a.pendingUp = true
			return ConvertToClick
		}
	}

	// Residual suppression: during a session, and briefly after one that
	// completed (tap or finished drag, not a cancel). Middle-button events
	// are exempt.
	if ev.Button != ButtonMiddle {
		if gestureActive {
			return Suppress
		}
		if end, active := a.snap.LastGestureEnd(); active && now.Sub(end) < suppressionWindow {
			return Suppress
		}
	}

	return PassThrough
}
