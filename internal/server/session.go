package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jim-kask/project-xeri/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// ErrSessionClosed is returned when sending on a session that has shut down.
var ErrSessionClosed = websocket.ErrCloseSent

// Session wraps one websocket connection and its table association. A
// player is weakly owned by the session: when the connection drops the seat
// is vacated and, mid-game, the table reset.
type Session struct {
	conn   *websocket.Conn
	send   chan *Message
	server *Server
	logger zerolog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.RWMutex
	kind     game.Kind
	room     string
	playerID uuid.UUID
}

// NewSession creates a session wrapper for an upgraded connection.
func NewSession(conn *websocket.Conn, server *Server, logger zerolog.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.With().Str("component", "session").Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (s *Session) Start() {
	go s.writePump()
	go s.readPump()
}

// Close closes the connection
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.conn.Close()
	})
	return err
}

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Send queues a message for the client, dropping the connection when the
// buffer is full rather than blocking gameplay.
func (s *Session) Send(msg *Message) error {
	select {
	case s.send <- msg:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		s.logger.Warn().Msg("Session send buffer full, closing connection")
		_ = s.Close()
		return ErrSessionClosed
	}
}

// setSeat records the table association after a successful join.
func (s *Session) setSeat(kind game.Kind, room string, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = kind
	s.room = room
	s.playerID = id
}

// clearSeat drops the table association.
func (s *Session) clearSeat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = ""
	s.room = ""
	s.playerID = uuid.Nil
}

// seat returns the current table association; ok is false before any join.
func (s *Session) seat() (game.Kind, string, uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind, s.room, s.playerID, s.playerID != uuid.Nil
}

// readPump handles incoming messages from the client
func (s *Session) readPump() {
	defer func() { _ = s.Close() }()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error().Err(err).Msg("WebSocket error")
			}
			return
		}
		s.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Error().Err(err).Msg("Failed to write message")
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.ctx.Done():
			return
		}
	}
}

// handleMessage dispatches one inbound action. Actions for a connection
// arrive sequentially off the read pump, so a single session never has two
// actions in flight.
func (s *Session) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			s.sendError("invalid_message", "Failed to parse join data")
			return
		}
		s.handleJoin(data)

	case MessageTypeReady:
		s.handleReady()

	case MessageTypeCancelReady:
		s.handleCancelReady()

	case MessageTypePlayCard:
		var data PlayCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			s.sendError("invalid_message", "Failed to parse play data")
			return
		}
		s.handlePlayCard(msg, data)

	case MessageTypeDrawRequest:
		s.handleDrawRequest(msg)

	case MessageTypeLeave:
		s.handleLeave()

	case MessageTypeListTables:
		var data ListTablesData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			s.sendError("invalid_message", "Failed to parse list data")
			return
		}
		s.handleListTables(data)

	case MessageTypeCreateTable:
		var data CreateTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			s.sendError("invalid_message", "Failed to parse create data")
			return
		}
		s.handleCreateTable(data)

	default:
		s.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (s *Session) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create error message")
		return
	}
	_ = s.Send(msg)
}

func (s *Session) handleJoin(data JoinData) {
	if data.Name == "" || data.Room == "" || !data.Game.Valid() {
		s.sendError("invalid_join", "Game, room and name are required")
		return
	}

	id, err := s.server.registry.Join(data.Game, data.Room, data.Name, data.Password)
	switch err {
	case nil:
	case game.ErrWrongPassword:
		s.sendDenied(DenyPasswordRequired)
		return
	case game.ErrRoomFull:
		s.sendDenied(DenyRoomFull)
		return
	default:
		s.sendError("join_failed", err.Error())
		return
	}

	s.setSeat(data.Game, data.Room, id)
	s.logger.Info().
		Str("game", string(data.Game)).
		Str("room", data.Room).
		Str("player", data.Name).
		Msg("Join accepted")

	joined, _ := NewMessage(MessageTypeJoined, JoinedData{
		Game:     data.Game,
		Room:     data.Room,
		PlayerID: id.String(),
	})
	_ = s.Send(joined)

	// Rejoin while a game is running also needs the board pushed back out.
	s.server.PushLobby(data.Game, data.Room)
	s.server.PushGameState(data.Game, data.Room)
}

func (s *Session) sendDenied(reason string) {
	msg, _ := NewMessage(MessageTypeJoinDenied, JoinDeniedData{Reason: reason})
	_ = s.Send(msg)
}

func (s *Session) handleReady() {
	kind, room, id, ok := s.seat()
	if !ok {
		s.sendError("not_seated", "Join a table first")
		return
	}

	started := s.server.registry.MarkReady(kind, room, id)
	s.server.PushLobby(kind, room)
	if started {
		s.server.PushGameState(kind, room)
	}
}

func (s *Session) handleCancelReady() {
	kind, room, id, ok := s.seat()
	if !ok {
		s.sendError("not_seated", "Join a table first")
		return
	}

	s.server.registry.ClearReady(kind, room, id)
	s.server.PushLobby(kind, room)
}

func (s *Session) handlePlayCard(msg *Message, data PlayCardData) {
	kind, room, id, ok := s.seat()
	if !ok {
		s.sendError("not_seated", "Join a table first")
		return
	}

	mv := game.Move{HandIndex: data.Index, Card: data.Card, Pile: data.Pile}
	out, found := s.server.registry.Apply(kind, room, id, mv)
	if !found || !out.Applied {
		// Rejections are echoed to the acting player only; the table was
		// not mutated, so nobody else hears about it.
		invalid, _ := NewMessage(MessageTypeInvalidMove, InvalidMoveData{
			Action: msg.Type,
			Data:   msg.Data,
		})
		_ = s.Send(invalid)
		return
	}

	s.server.PushGameState(kind, room)
	if out.RoundEnded {
		// Ready flags were cleared; the room is back in the lobby.
		s.server.PushLobby(kind, room)
	}
}

func (s *Session) handleDrawRequest(msg *Message) {
	kind, room, id, ok := s.seat()
	if !ok {
		s.sendError("not_seated", "Join a table first")
		return
	}

	out, found := s.server.registry.Apply(kind, room, id, game.Move{Draw: true})
	if !found {
		invalid, _ := NewMessage(MessageTypeInvalidMove, InvalidMoveData{Action: msg.Type})
		_ = s.Send(invalid)
		return
	}
	if out.NoDraw {
		s.server.BroadcastToRoom(kind, room, MessageTypeNoDraw, NoDrawData{
			Message: "No more cards to draw.",
		})
		return
	}
	if out.Applied {
		s.server.PushGameState(kind, room)
	}
}

func (s *Session) handleLeave() {
	kind, room, id, ok := s.seat()
	if !ok {
		return
	}
	s.clearSeat()
	s.server.registry.Remove(kind, room, id)
	s.server.PushLobby(kind, room)
	s.server.PushGameState(kind, room)
}

func (s *Session) handleListTables(data ListTablesData) {
	if !data.Game.Valid() {
		s.sendError("invalid_game", "Unknown game")
		return
	}
	msg, err := NewMessage(MessageTypeTableList, TableListData{
		Game:   data.Game,
		Tables: s.server.registry.Summaries(data.Game),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create table list message")
		return
	}
	_ = s.Send(msg)
}

func (s *Session) handleCreateTable(data CreateTableData) {
	t, err := s.server.registry.Create(data.Game, data.Name, data.Password)
	if err != nil {
		s.sendError("create_failed", err.Error())
		return
	}
	msg, _ := NewMessage(MessageTypeTableCreated, TableCreatedData{
		Game: data.Game,
		Room: t.ID,
	})
	_ = s.Send(msg)
}
