// Package protocol defines the wire format between a room host and its
// participants. Payloads form a closed union: exactly one payload type per
// message type, decoded explicitly so unknown or malformed messages are caught
// at the boundary.
package protocol

import (
	"encoding/json"
	"fmt"

	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"
)

// Type identifies a message variant
type Type string

// message type constants
const (
	// TypeJoin is sent participant to host and carries the display name
	TypeJoin Type = "join"
	// TypeWelcome is the host's reply to a successful join
	TypeWelcome Type = "welcome"
	// TypeIntent carries a proposed rules-engine action, participant to host
	TypeIntent Type = "intent"
	// TypeStateUpdate broadcasts the public state projection to everyone
	TypeStateUpdate Type = "stateUpdate"
	// TypeHandUpdate unicasts a seat's private hand to that seat only
	TypeHandUpdate Type = "handUpdate"
	// TypeError reports a protocol-level rejection to one participant
	TypeError Type = "error"
)

// error codes
const (
	CodeRoomFull    = "ROOM_FULL"
	CodeGameRunning = "GAME_RUNNING"
	CodeBadMessage  = "BAD_MESSAGE"
)

// Envelope is the outer message format
type Envelope struct {
	Type     Type            `json:"type"`
	RoomID   string          `json:"roomId"`
	SenderID string          `json:"senderId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Seq      uint64          `json:"seq,omitempty"`
}

// Join is the payload for TypeJoin
type Join struct {
	Name string `json:"name"`
	// Token, when present, is a seat-session token claiming an existing seat
	// (the host seat claims itself this way)
	Token string `json:"token,omitempty"`
}

// Welcome is the payload for TypeWelcome
type Welcome struct {
	PlayerID string             `json:"playerId"`
	Token    string             `json:"token"`
	State    engine.PublicState `json:"state"`
	Hand     []deck.Card        `json:"hand"`
}

// Intent is the payload for TypeIntent
type Intent struct {
	Action Action `json:"action"`
}

// StateUpdate is the payload for TypeStateUpdate
type StateUpdate struct {
	State engine.PublicState `json:"state"`
	Seq   uint64             `json:"seq"`
}

// HandUpdate is the payload for TypeHandUpdate
type HandUpdate struct {
	Hand []deck.Card `json:"hand"`
}

// Error is the payload for TypeError
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEnvelope builds an envelope around a payload
func NewEnvelope(t Type, roomID, senderID string, payload interface{}) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not marshal %s payload: %w", t, err)
	}

	return &Envelope{
		Type:     t,
		RoomID:   roomID,
		SenderID: senderID,
		Payload:  raw,
	}, nil
}

// ParseEnvelope decodes the outer envelope
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("could not parse envelope: %w", err)
	}

	if env.Type == "" {
		return nil, fmt.Errorf("envelope is missing a type")
	}

	return &env, nil
}

func (e *Envelope) decode(want Type, into interface{}) error {
	if e.Type != want {
		return fmt.Errorf("expected %s message, got %s", want, e.Type)
	}

	if err := json.Unmarshal(e.Payload, into); err != nil {
		return fmt.Errorf("could not decode %s payload: %w", want, err)
	}

	return nil
}

// DecodeJoin decodes a TypeJoin payload
func (e *Envelope) DecodeJoin() (*Join, error) {
	var p Join
	if err := e.decode(TypeJoin, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// DecodeWelcome decodes a TypeWelcome payload
func (e *Envelope) DecodeWelcome() (*Welcome, error) {
	var p Welcome
	if err := e.decode(TypeWelcome, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// DecodeIntent decodes a TypeIntent payload
func (e *Envelope) DecodeIntent() (*Intent, error) {
	var p Intent
	if err := e.decode(TypeIntent, &p); err != nil {
		return nil, err
	}

	if p.Action.Action == nil {
		return nil, fmt.Errorf("intent is missing an action")
	}

	return &p, nil
}

// DecodeStateUpdate decodes a TypeStateUpdate payload
func (e *Envelope) DecodeStateUpdate() (*StateUpdate, error) {
	var p StateUpdate
	if err := e.decode(TypeStateUpdate, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// DecodeHandUpdate decodes a TypeHandUpdate payload
func (e *Envelope) DecodeHandUpdate() (*HandUpdate, error) {
	var p HandUpdate
	if err := e.decode(TypeHandUpdate, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// DecodeError decodes a TypeError payload
func (e *Envelope) DecodeError() (*Error, error) {
	var p Error
	if err := e.decode(TypeError, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
