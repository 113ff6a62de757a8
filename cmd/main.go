// tridrag - three-finger tap/drag gesture engine
// Turns multi-finger touch frames into tap and drag gestures and arbitrates
// which hardware pointer events reach the host environment.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tridrag/internal/arbiter"
	"tridrag/internal/config"
	"tridrag/internal/engine"
	"tridrag/internal/gesture"
	"tridrag/internal/protocol"
	"tridrag/internal/stream"
	"tridrag/internal/synth"
	"tridrag/internal/touch"
	"tridrag/internal/trap"
)

var (
	version    = "0.1.0"
	showVer    = flag.Bool("version", false, "Show version")
	replayPath = flag.String("replay", "", "Replay a JSONL frame recording and print the event trace")
	streamAddr = flag.String("addr", "", "Frame stream listen address (overrides config)")
	udpAddr    = flag.String("udp", "", "UDP frame receiver address (overrides config)")
	devicePath = flag.String("device", "", "Pointer device to intercept (overrides config)")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("tridrag version %s\n", version)
		return
	}

	if *replayPath != "" {
		runReplay(*replayPath)
		return
	}

	cfgMgr, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}

	runService(cfgMgr)
}

// runReplay feeds a recorded frame stream straight through the recognizer
// and prints the resulting event trace. Each input line is one
// protocol.FramePayload in JSON.
func runReplay(path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open recording: %v", err)
	}
	defer f.Close()

	cfg := gesture.DefaultConfiguration()
	rec := gesture.NewRecognizer()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var payload protocol.FramePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("Replay: skipping bad frame on line %d: %v", line, err)
			continue
		}
		frame := payload.Frame()
		contacts := touch.Filter(frame.Contacts, cfg.FilterConfig())
		for _, ev := range rec.Process(contacts, frame.Timestamp, frame.Modifiers, cfg) {
			switch ev.Kind {
			case gesture.EventStart:
				fmt.Printf("%v  %s at (%.3f, %.3f)\n", frame.Timestamp, ev.Kind, ev.Position.X, ev.Position.Y)
			case gesture.EventUpdateDrag:
				fmt.Printf("%v  %s delta (%+.4f, %+.4f)\n", frame.Timestamp, ev.Kind, ev.Delta.X, ev.Delta.Y)
			default:
				fmt.Printf("%v  %s\n", frame.Timestamp, ev.Kind)
			}
			if ev.Kind.Terminal() {
				fmt.Println()
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Replay: read failed: %v", err)
	}
}

func runService(cfgMgr *config.Manager) {
	log.Printf("tridrag %s starting", version)
	settings := cfgMgr.Get()

	device, err := synth.NewDevice(synth.Options{
		DeviceName: settings.General.SynthDeviceName,
		PixelRange: settings.General.PixelRange,
	})
	if err != nil {
		log.Printf("Warning: pointer synthesis unavailable: %v", err)
		device = nil
	} else {
		defer device.Close()
	}

	var sink engine.Sink
	if device != nil {
		sink = device
	}
	eng := engine.New(cfgMgr.Gesture, sink, engine.Predicates{})
	eng.SetEnabled(settings.General.Enabled)
	if err := eng.Start(); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	defer eng.Stop()

	// Frame stream server (WebSocket ingest + event broadcast).
	addr := settings.General.StreamAddr
	if *streamAddr != "" {
		addr = *streamAddr
	}
	var streamSrv *stream.Server
	if addr != "" {
		streamSrv = stream.NewServer(eng, settings.General.StreamToken)
		eng.SetEventObserver(streamSrv.BroadcastEvent)
		// Registered after eng.Stop so frame sources shut down first.
		defer streamSrv.Stop()
		go func() {
			if err := streamSrv.Start(addr); err != nil {
				log.Printf("Stream server error: %v", err)
			}
		}()
	}

	// Low-latency UDP frame path.
	uaddr := settings.General.UDPAddr
	if *udpAddr != "" {
		uaddr = *udpAddr
	}
	if uaddr != "" {
		udp := stream.NewUDPReceiver(uaddr, eng)
		if err := udp.Start(); err != nil {
			log.Printf("UDP receiver error: %v", err)
		} else {
			defer udp.Stop()
		}
	}

	// Pointer interception and arbitration.
	dev := settings.General.DevicePath
	if *devicePath != "" {
		dev = *devicePath
	}
	if dev != "" {
		tr := trap.NewTrap(dev)
		var clicker arbiter.Clicker
		if device != nil {
			clicker = device
		}
		arb := arbiter.New(eng.Snapshot(), cfgMgr.Gesture, clicker, nil)
		arb.SetReenable(func() {
			log.Printf("Arbiter: interception disabled by host, re-enabling")
			if err := tr.Start(); err != nil {
				log.Printf("Trap restart failed: %v", err)
			}
		})
		tr.SetKillSwitch(func() {
			log.Printf("Kill switch: releasing pointer device and disabling gestures")
			eng.SetEnabled(false)
			tr.Stop()
		})

		if err := tr.Start(); err != nil {
			log.Printf("Warning: pointer interception unavailable: %v", err)
		} else {
			defer tr.Stop()
			go arbitrate(tr, arb, device)
		}
	}

	log.Printf("tridrag running (stream=%q udp=%q device=%q)", addr, uaddr, dev)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Printf("tridrag shutting down")
}

// arbitrate pumps intercepted pointer events through the decision table and
// re-posts the ones that pass.
func arbitrate(tr *trap.Trap, arb *arbiter.Arbiter, device *synth.Device) {
	for ev := range tr.Events() {
		arb.SetModifiers(tr.Modifiers())
		decision := arb.Decide(ev, time.Now())
		if decision != arbiter.PassThrough || device == nil {
			continue
		}
		switch ev.Type {
		case arbiter.Move:
			if err := device.InjectMove(int32(ev.X), int32(ev.Y)); err != nil {
				log.Printf("Forward move failed: %v", err)
			}
		case arbiter.Scroll:
			if err := device.InjectScroll(int32(ev.X), int32(ev.Y)); err != nil {
				log.Printf("Forward scroll failed: %v", err)
			}
		case arbiter.ButtonDown, arbiter.ButtonUp:
			button := 0
			switch ev.Button {
			case arbiter.ButtonLeft:
				button = 1
			case arbiter.ButtonRight:
				button = 2
			case arbiter.ButtonMiddle:
				button = 3
			default:
				continue
			}
			if err := device.InjectButton(button, ev.Type == arbiter.ButtonDown); err != nil {
				log.Printf("Forward button failed: %v", err)
			}
		}
	}
}
