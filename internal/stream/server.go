// Package stream provides the network frame sources for the engine: a
// WebSocket server that ingests touch frames and broadcasts recognized
// gesture events, and a low-latency UDP frame receiver.
package stream

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"tridrag/internal/gesture"
	"tridrag/internal/protocol"
	"tridrag/internal/touch"
)

// FrameSink receives decoded touch frames. Implemented by engine.Engine.
type FrameSink interface {
	SupplyFrame(contacts []touch.Contact, timestamp time.Duration, mods touch.Modifier)
}

// Server ingests touch frames over WebSocket and broadcasts gesture events
// to connected observers.
type Server struct {
	sink  FrameSink
	token string
	wsMgr *WSManager
}

// NewServer creates a frame stream server feeding the given sink. token may
// be empty to disable authentication.
func NewServer(sink FrameSink, token string) *Server {
	s := &Server{sink: sink, token: token}
	s.wsMgr = newWSManager(s)
	return s
}

// BroadcastEvent publishes a recognized gesture event to all connected
// observers. Safe to call from the engine's processing goroutine.
func (s *Server) BroadcastEvent(ev gesture.Event) {
	s.wsMgr.broadcastEvent(protocol.NewEventPayload(ev))
}

// Start starts the server on the specified address. Blocking.
func (s *Server) Start(addr string) error {
	go s.wsMgr.start()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsMgr.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		return fmt.Errorf("stream server failed to listen on %s: %w", addr, err)
	}
	log.Printf("Stream: listening on %s", addr)

	server := &http.Server{
		Handler: s.authMiddleware(s.recoverMiddleware(mux)),
	}
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the hub down.
func (s *Server) Stop() {
	s.wsMgr.stop()
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Stream: panic recovered: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks the bearer token if one is configured. WebSocket
// clients may instead authenticate with a first-message auth payload.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.URL.Path != "/ws" && r.URL.Path != "/health" {
			if r.Header.Get("Authorization") != "Bearer "+s.token {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
