package room

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"drawfour-server/pkg/protocol"
)

// Client is a participant connected to a room host
type Client struct {
	// Conn is the underlying envelope transport
	Conn Conn

	// send is a channel for sending messages to the client
	send chan *protocol.Envelope

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	host *Host

	// seatID is assigned by the host on a successful join
	mu     sync.RWMutex
	seatID string
}

// NewClient returns a new client object
func NewClient(conn Conn) *Client {
	return &Client{
		send:  make(chan *protocol.Envelope, 256),
		Close: make(chan string, 1),
		Conn:  conn,
	}
}

// CloseWithReason signals the transport write loop to send a close frame to
// the remote participant. Only the first reason is kept; if nothing is
// listening the signal is discarded.
func (c *Client) CloseWithReason(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}

// Send sends a message to the remote participant
// A full send buffer drops the message; the participant recovers from any gap
// on the next state update because updates carry the full state.
func (c *Client) Send(env *protocol.Envelope) bool {
	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan *protocol.Envelope {
	return c.send
}

// SeatID returns the seat this client occupies, or "" before a join completes
func (c *Client) SeatID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.seatID
}

func (c *Client) setSeatID(seatID string) {
	c.mu.Lock()
	c.seatID = seatID
	c.mu.Unlock()
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	if c.host == nil {
		return fmt.Sprintf("unjoined:%s", c.SeatID())
	}

	return fmt.Sprintf("%s:%s", c.host.Code(), c.SeatID())
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(env *protocol.Envelope) {
	if c.host == nil {
		logrus.WithField("type", env.Type).Warn("received message, but host not found")
		return
	}

	c.host.ReceivedMessage(c, env)
}
