package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jim-kask/project-xeri/internal/game"
	"github.com/jim-kask/project-xeri/internal/randutil"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// newTestServer builds a gateway around a fresh registry and serves it over
// httptest so clients can dial real websockets.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	registry := game.NewRegistry(testLogger(), randutil.New(42))
	s := NewServer(testLogger(), registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/tables", s.handleTables)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return s, ts
}

// testClient is one websocket client against the test gateway.
type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialClient(t *testing.T, ts *httptest.Server) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(mt MessageType, data interface{}) {
	c.t.Helper()
	msg, err := NewMessage(mt, data)
	if err != nil {
		c.t.Fatalf("build %s: %v", mt, err)
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		c.t.Fatalf("write %s: %v", mt, err)
	}
}

// expect reads frames until one of the wanted type arrives, skipping
// interleaved pushes, and fails the test on timeout.
func (c *testClient) expect(mt MessageType) *Message {
	c.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		_ = c.conn.SetReadDeadline(deadline)
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.t.Fatalf("waiting for %s: %v", mt, err)
		}
		if msg.Type == mt {
			return &msg
		}
	}
}

// expectPayload waits for a frame of the given type and decodes its data.
func (c *testClient) expectPayload(mt MessageType, v interface{}) {
	c.t.Helper()
	msg := c.expect(mt)
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.t.Fatalf("decode %s payload: %v", mt, err)
	}
}

// join runs the happy-path join handshake and returns the assigned player id.
func (c *testClient) join(kind game.Kind, room, name, password string) string {
	c.t.Helper()
	c.send(MessageTypeJoin, JoinData{Game: kind, Room: room, Name: name, Password: password})
	var joined JoinedData
	c.expectPayload(MessageTypeJoined, &joined)
	return joined.PlayerID
}
