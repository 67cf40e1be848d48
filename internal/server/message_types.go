package server

// MessageType represents a websocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeJoin        MessageType = "join"
	MessageTypeReady       MessageType = "ready"
	MessageTypeCancelReady MessageType = "cancel_ready"
	MessageTypePlayCard    MessageType = "play_card"
	MessageTypeDrawRequest MessageType = "draw_request"
	MessageTypeLeave       MessageType = "leave"
	MessageTypeListTables  MessageType = "list_tables"
	MessageTypeCreateTable MessageType = "create_table"

	// Server to client messages
	MessageTypeJoined       MessageType = "joined"
	MessageTypeJoinDenied   MessageType = "join_denied"
	MessageTypeLobbyState   MessageType = "lobby_state"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypeInvalidMove  MessageType = "invalid_move"
	MessageTypeNoDraw       MessageType = "no_draw"
	MessageTypeTableList    MessageType = "table_list"
	MessageTypeTableCreated MessageType = "table_created"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
