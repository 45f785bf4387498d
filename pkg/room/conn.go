package room

import (
	"context"

	"github.com/gorilla/websocket"

	"drawfour-server/pkg/protocol"
)

// Conn is a bidirectional envelope transport. The production implementation
// wraps a websocket; tests use an in-memory pipe.
type Conn interface {
	ReadEnvelope() (*protocol.Envelope, error)
	WriteEnvelope(env *protocol.Envelope) error
	Close() error
}

// WebsocketConn adapts a gorilla websocket connection to the Conn interface
type WebsocketConn struct {
	conn *websocket.Conn
}

// NewWebsocketConn wraps an established websocket connection
func NewWebsocketConn(conn *websocket.Conn) *WebsocketConn {
	return &WebsocketConn{conn: conn}
}

// ReadEnvelope reads the next envelope off the wire
func (w *WebsocketConn) ReadEnvelope() (*protocol.Envelope, error) {
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	return protocol.ParseEnvelope(data)
}

// WriteEnvelope writes an envelope to the wire
func (w *WebsocketConn) WriteEnvelope(env *protocol.Envelope) error {
	return w.conn.WriteJSON(env)
}

// Close closes the underlying connection
func (w *WebsocketConn) Close() error {
	return w.conn.Close()
}

// Dial connects to a room host's websocket endpoint
func Dial(ctx context.Context, url string) (*WebsocketConn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	return NewWebsocketConn(conn), nil
}
