// Package engine wires the contact filter and gesture recognizer to the
// capture path, the arbiter snapshot, and the drag-synthesis sink.
package engine

import (
	"log"
	"sync"
	"time"

	"tridrag/internal/arbiter"
	"tridrag/internal/gesture"
	"tridrag/internal/touch"
)

// Sink is the drag/click synthesis collaborator.
type Sink interface {
	BeginDragAt(x, y float64) error
	UpdateDrag(dx, dy float64) error
	EndDrag() error
	CancelDrag() error
	Click() error
	ForceRelease() error
}

// Predicates are the window-geometry collaborators, queried synchronously
// when a session starts or a drag begins.
type Predicates struct {
	// InReservedRegion reports whether a point lies in a region the host
	// environment owns, e.g. a window title bar.
	InReservedRegion func(p touch.Point) bool

	// MeetsMinimumWindowSize reports whether the window under the point is
	// large enough to drag.
	MeetsMinimumWindowSize func(p touch.Point) bool
}

// frameQueueSize bounds the FIFO between the capture path and the processing
// goroutine. Capture must never block; frames are dropped when full.
const frameQueueSize = 128

// Engine owns one recognizer instance and its processing goroutine. All
// session state mutation happens on that goroutine; other contexts see it
// only through the arbiter snapshot.
type Engine struct {
	mu      sync.Mutex
	running bool
	enabled bool

	config func() gesture.Configuration
	sink   Sink
	preds  Predicates
	snap   *arbiter.Snapshot

	frames chan touch.Frame
	quit   chan struct{}
	done   chan struct{}

	rec *gesture.Recognizer

	// Session-scoped, touched only by the processing goroutine.
	passThrough bool
	dragging    bool

	// onEvent observes recognizer output (stream broadcast, replay trace).
	onEvent func(gesture.Event)

	now func() time.Time
}

// New creates an engine. config must not be nil; sink may be nil (events are
// still recognized and observable, nothing is synthesized).
func New(config func() gesture.Configuration, sink Sink, preds Predicates) *Engine {
	if config == nil {
		config = gesture.DefaultConfiguration
	}
	return &Engine{
		config:  config,
		sink:    sink,
		preds:   preds,
		snap:    &arbiter.Snapshot{},
		rec:     gesture.NewRecognizer(),
		enabled: true,
		now:     time.Now,
	}
}

// Snapshot returns the arbiter snapshot the engine maintains.
func (e *Engine) Snapshot() *arbiter.Snapshot {
	return e.snap
}

// SetEventObserver installs a callback invoked on the processing goroutine
// for every recognizer event.
func (e *Engine) SetEventObserver(fn func(gesture.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvent = fn
}

// Start launches the processing goroutine.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}
	e.frames = make(chan touch.Frame, frameQueueSize)
	e.quit = make(chan struct{})
	e.done = make(chan struct{})
	e.running = true
	go e.processLoop(e.frames, e.quit, e.done)
	return nil
}

// Stop shuts the processing goroutine down after draining queued frames.
// The frames channel is never closed: the capture context may be mid-send
// when Stop runs, and a send must never panic.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.quit)
	done := e.done
	e.mu.Unlock()
	<-done
}

// SetEnabled toggles gesture handling. Disabling resets the session without
// emitting events and force-releases an in-flight drag.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.enabled = enabled
	e.mu.Unlock()
	if !enabled {
		// Posted through the queue so the reset runs on the processing
		// goroutine, after any frame already in flight.
		e.SupplyFrame(nil, 0, 0)
	}
}

// Enabled reports whether gesture handling is on.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// SupplyFrame pushes one hardware frame into the engine. Called on the
// capture context; it must not block. The contacts are copied before handoff
// because the capture buffer is owned by the hardware collaborator. The
// valid finger count is written to the snapshot synchronously, ahead of the
// processing queue, so the force-click path sees it with zero latency.
func (e *Engine) SupplyFrame(contacts []touch.Contact, timestamp time.Duration, mods touch.Modifier) {
	cfg := e.config()
	frame := touch.Frame{Contacts: contacts, Timestamp: timestamp, Modifiers: mods}.Clone()
	frame.Contacts = touch.Filter(frame.Contacts, cfg.FilterConfig())

	e.snap.SetFingerCount(len(frame.Contacts))

	e.mu.Lock()
	running := e.running
	frames := e.frames
	e.mu.Unlock()
	if !running {
		return
	}

	select {
	case frames <- frame:
	default:
		log.Printf("Engine: frame queue full, dropping frame at %v", timestamp)
	}
}

func (e *Engine) processLoop(frames <-chan touch.Frame, quit, done chan struct{}) {
	defer close(done)
	for {
		select {
		case frame := <-frames:
			e.processFrame(frame)
		case <-quit:
			// Drain what the capture context already handed off, then exit.
			for {
				select {
				case frame := <-frames:
					e.processFrame(frame)
				default:
					return
				}
			}
		}
	}
}

func (e *Engine) processFrame(frame touch.Frame) {
	e.mu.Lock()
	enabled := e.enabled
	cfg := e.config()
	observer := e.onEvent
	e.mu.Unlock()

	if !enabled {
		e.teardownSession()
		return
	}

	events := e.rec.Process(frame.Contacts, frame.Timestamp, frame.Modifiers, cfg)
	for _, ev := range events {
		e.dispatch(ev, cfg)
		if observer != nil {
			observer(ev)
		}
	}
}

// teardownSession resets the recognizer without emitting events, releasing
// any in-flight drag. Runs on the processing goroutine.
func (e *Engine) teardownSession() {
	if e.dragging && !e.passThrough && e.sink != nil {
		if err := e.sink.ForceRelease(); err != nil {
			log.Printf("Engine: force release failed: %v", err)
		}
	}
	e.rec.Reset()
	e.dragging = false
	e.passThrough = false
	e.snap.SetInGesture(false)
	e.snap.SetDragging(false)
	e.snap.SetPassThrough(false)
}

// dispatch updates the snapshot and drives the sink for one recognizer
// event. Pass-through sessions leave the snapshot flags unset and the sink
// untouched, so the host environment handles the gesture itself.
func (e *Engine) dispatch(ev gesture.Event, cfg gesture.Configuration) {
	switch ev.Kind {
	case gesture.EventStart:
		e.passThrough = e.preds.InReservedRegion != nil && e.preds.InReservedRegion(ev.Position)
		if e.passThrough {
			e.snap.SetPassThrough(true)
			return
		}
		e.snap.SetInGesture(true)

	case gesture.EventTap:
		if !e.passThrough && e.sink != nil {
			if err := e.sink.Click(); err != nil {
				log.Printf("Engine: click synthesis failed: %v", err)
			}
		}
		e.endSession(!e.passThrough)

	case gesture.EventBeginDrag:
		if !e.passThrough && e.preds.MeetsMinimumWindowSize != nil && !e.preds.MeetsMinimumWindowSize(ev.Position) {
			// Too small to drag: the host keeps this one.
			e.passThrough = true
			e.snap.SetInGesture(false)
			e.snap.SetPassThrough(true)
		}
		e.dragging = true
		if e.passThrough {
			return
		}
		e.snap.SetDragging(true)
		if e.sink != nil {
			if err := e.sink.BeginDragAt(ev.Position.X, ev.Position.Y); err != nil {
				log.Printf("Engine: begin drag failed: %v", err)
			}
		}

	case gesture.EventUpdateDrag:
		if e.passThrough || e.sink == nil {
			return
		}
		if err := e.sink.UpdateDrag(ev.Delta.X, ev.Delta.Y); err != nil {
			log.Printf("Engine: drag update failed: %v", err)
		}

	case gesture.EventEndDrag:
		if !e.passThrough && e.sink != nil {
			if err := e.sink.EndDrag(); err != nil {
				log.Printf("Engine: end drag failed: %v", err)
			}
		}
		e.endSession(!e.passThrough)

	case gesture.EventCancel:
		e.endSession(false)

	case gesture.EventCancelDrag:
		if !e.passThrough && e.sink != nil {
			if err := e.sink.CancelDrag(); err != nil {
				log.Printf("Engine: drag cancel failed: %v", err)
			}
		}
		e.endSession(false)
	}
}

// endSession clears the session flags. active records whether the gesture
// completed (tap or finished drag) for the arbiter's residual-suppression
// window; pass-through sessions never count.
func (e *Engine) endSession(active bool) {
	wasPassThrough := e.passThrough
	e.dragging = false
	e.passThrough = false
	e.snap.SetInGesture(false)
	e.snap.SetDragging(false)
	e.snap.SetPassThrough(false)
	if !wasPassThrough {
		e.snap.NoteGestureEnd(e.now(), active)
	}
}
