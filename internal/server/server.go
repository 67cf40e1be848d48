package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jim-kask/project-xeri/internal/game"
)

// Server is the session gateway: it owns the websocket endpoint, tracks
// live sessions and fans table state out to them, one personalized
// projection per seated player.
type Server struct {
	logger   zerolog.Logger
	registry *game.Registry
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[*Session]struct{}

	httpSrv *http.Server
}

// NewServer creates a gateway around the given table registry.
func NewServer(logger zerolog.Logger, registry *game.Registry) *Server {
	return &Server{
		logger:   logger.With().Str("component", "server").Logger(),
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The session service in front of this one enforces origins.
				return true
			},
		},
		sessions: make(map[*Session]struct{}),
	}
}

// Start serves the websocket and admin endpoints until Shutdown.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/tables", s.handleTables)

	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	s.logger.Info().Str("addr", addr).Msg("Starting websocket server")
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops the HTTP server and closes every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for sess := range s.sessions {
		_ = sess.Close()
	}
	s.sessions = make(map[*Session]struct{})
	s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	sess := NewSession(conn, s, s.logger)
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	total := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info().Int("total", total).Msg("Client connected")

	sess.Start()
	go func() {
		<-sess.Done()
		s.unregister(sess)
	}()
}

// unregister drops a session and vacates its seat. A drop during an active
// game forces the table back to a fresh unstarted state.
func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	if _, ok := s.sessions[sess]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, sess)
	total := len(s.sessions)
	s.mu.Unlock()

	if kind, room, id, ok := sess.seat(); ok {
		s.logger.Info().
			Str("game", string(kind)).
			Str("room", room).
			Msg("Cleaning up disconnected player")
		s.registry.Remove(kind, room, id)
		s.PushLobby(kind, room)
		s.PushGameState(kind, room)
	}
	s.logger.Info().Int("total", total).Msg("Client disconnected")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// handleTables lists live tables as JSON, optionally filtered by ?game=.
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	kinds := []game.Kind{game.KindXeri, game.KindStress}
	if q := r.URL.Query().Get("game"); q != "" {
		kind := game.Kind(q)
		if !kind.Valid() {
			http.Error(w, "unknown game", http.StatusBadRequest)
			return
		}
		kinds = []game.Kind{kind}
	}

	out := make(map[game.Kind][]game.Summary, len(kinds))
	for _, k := range kinds {
		out[k] = s.registry.Summaries(k)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode table list")
	}
}

// roomSessions snapshots the sessions seated in one room.
func (s *Server) roomSessions(kind game.Kind, room string) []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Session
	for sess := range s.sessions {
		if k, rm, _, ok := sess.seat(); ok && k == kind && rm == room {
			out = append(out, sess)
		}
	}
	return out
}

// BroadcastToRoom sends an identical payload to every session in a room.
// Only hidden-information-free events go through here.
func (s *Server) BroadcastToRoom(kind game.Kind, room string, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		s.logger.Error().Err(err).Str("type", mt.String()).Msg("Failed to create broadcast message")
		return
	}
	for _, sess := range s.roomSessions(kind, room) {
		if err := sess.Send(msg); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to send to session")
		}
	}
}

// PushLobby broadcasts the room's lobby state, identical for every member.
func (s *Server) PushLobby(kind game.Kind, room string) {
	lobby, _, ok := s.registry.Project(kind, room)
	if !ok {
		return
	}
	s.BroadcastToRoom(kind, room, MessageTypeLobbyState, lobby)
}

// PushGameState computes one redacted projection per seated player and
// sends each to that player's own session only. Hands differ per viewer,
// so a shared payload would leak hidden cards.
func (s *Server) PushGameState(kind game.Kind, room string) {
	_, views, ok := s.registry.Project(kind, room)
	if !ok {
		return
	}
	for _, sess := range s.roomSessions(kind, room) {
		_, _, id, ok := sess.seat()
		if !ok {
			continue
		}
		view, ok := views[id]
		if !ok {
			continue
		}
		msg, err := NewMessage(MessageTypeGameState, view)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create game state message")
			continue
		}
		if err := sess.Send(msg); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to send game state")
		}
	}
}

// SessionCount reports live connections, for tests and the stats log line.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
