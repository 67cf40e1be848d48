package server

import (
	"encoding/json"
	"time"

	"github.com/jim-kask/project-xeri/internal/card"
	"github.com/jim-kask/project-xeri/internal/game"
)

// Message is the wire envelope for every websocket frame in both directions.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = bytes
	}
	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads

type JoinData struct {
	Game     game.Kind `json:"game"`
	Room     string    `json:"room"`
	Name     string    `json:"name"`
	Password string    `json:"password,omitempty"`
}

type PlayCardData struct {
	Index int        `json:"index"`          // Xeri: position in own hand
	Card  *card.Card `json:"card,omitempty"` // Stress: the named card
	Pile  int        `json:"pile"`           // Stress: target center slot
}

type ListTablesData struct {
	Game game.Kind `json:"game"`
}

type CreateTableData struct {
	Game     game.Kind `json:"game"`
	Name     string    `json:"name,omitempty"`
	Password string    `json:"password,omitempty"`
}

// Server → Client payloads

type JoinedData struct {
	Game     game.Kind `json:"game"`
	Room     string    `json:"room"`
	PlayerID string    `json:"player_id"`
}

// Join denial reasons.
const (
	DenyPasswordRequired = "password_required"
	DenyRoomFull         = "room_full"
)

type JoinDeniedData struct {
	Reason string `json:"reason"`
}

// InvalidMoveData echoes a rejected action back to the acting player only.
type InvalidMoveData struct {
	Action MessageType     `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type NoDrawData struct {
	Message string `json:"message"`
}

type TableListData struct {
	Game   game.Kind      `json:"game"`
	Tables []game.Summary `json:"tables"`
}

type TableCreatedData struct {
	Game game.Kind `json:"game"`
	Room string    `json:"room"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
