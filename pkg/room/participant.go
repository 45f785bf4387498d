package room

import (
	"errors"
	"fmt"
	"sync"

	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"
	"drawfour-server/pkg/protocol"
)

// Participant is the client side of the sync protocol. It joins a room over a
// Conn, keeps the last known public state and private hand, and forwards
// proposed actions to the host as intents.
//
// The host is authoritative: a participant never applies an action locally,
// it only reflects the state the host broadcasts. Updates with a version at
// or below the last seen one are discarded.
type Participant struct {
	conn   Conn
	roomID string

	// OnStateUpdate is called when a newer public state arrives
	OnStateUpdate func(engine.PublicState)
	// OnHandUpdate is called when the private hand changes
	OnHandUpdate func(deck.Hand)
	// OnError is called when the host rejects a message
	OnError func(protocol.Error)

	mu          sync.RWMutex
	seatID      string
	token       string
	state       engine.PublicState
	hand        deck.Hand
	lastVersion uint64
}

// NewParticipant returns a participant on an established connection
func NewParticipant(conn Conn) *Participant {
	return &Participant{conn: conn}
}

// Join requests a seat. A non-empty token claims an existing seat instead of
// taking a new one. Join must complete before Listen is started.
func (p *Participant) Join(name, token string) (*protocol.Welcome, error) {
	env, err := protocol.NewEnvelope(protocol.TypeJoin, "", "", protocol.Join{Name: name, Token: token})
	if err != nil {
		return nil, err
	}

	if err := p.conn.WriteEnvelope(env); err != nil {
		return nil, err
	}

	for {
		reply, err := p.conn.ReadEnvelope()
		if err != nil {
			return nil, err
		}

		switch reply.Type {
		case protocol.TypeWelcome:
			welcome, err := reply.DecodeWelcome()
			if err != nil {
				return nil, err
			}

			p.mu.Lock()
			p.roomID = reply.RoomID
			p.seatID = welcome.PlayerID
			p.token = welcome.Token
			p.state = welcome.State
			p.hand = welcome.Hand
			p.lastVersion = welcome.State.Version
			p.mu.Unlock()

			return welcome, nil
		case protocol.TypeError:
			perr, err := reply.DecodeError()
			if err != nil {
				return nil, err
			}

			return nil, fmt.Errorf("join rejected: %s: %s", perr.Code, perr.Message)
		default:
			// a broadcast can race the welcome; skip it
		}
	}
}

// Listen reads envelopes until the connection closes, dispatching updates to
// the callbacks. It returns the read error that ended the loop.
func (p *Participant) Listen() error {
	for {
		env, err := p.conn.ReadEnvelope()
		if err != nil {
			return err
		}

		p.handle(env)
	}
}

func (p *Participant) handle(env *protocol.Envelope) {
	switch env.Type {
	case protocol.TypeStateUpdate:
		update, err := env.DecodeStateUpdate()
		if err != nil {
			return
		}

		p.mu.Lock()
		if update.State.Version <= p.lastVersion {
			p.mu.Unlock()
			return
		}

		p.lastVersion = update.State.Version
		p.state = update.State
		p.mu.Unlock()

		if p.OnStateUpdate != nil {
			p.OnStateUpdate(update.State)
		}
	case protocol.TypeHandUpdate:
		update, err := env.DecodeHandUpdate()
		if err != nil {
			return
		}

		p.mu.Lock()
		p.hand = update.Hand
		p.mu.Unlock()

		if p.OnHandUpdate != nil {
			p.OnHandUpdate(update.Hand)
		}
	case protocol.TypeError:
		perr, err := env.DecodeError()
		if err != nil {
			return
		}

		if p.OnError != nil {
			p.OnError(*perr)
		}
	}
}

// SendIntent proposes an action to the host
func (p *Participant) SendIntent(action engine.Action) error {
	if action == nil {
		return errors.New("no action given")
	}

	p.mu.RLock()
	roomID, seatID := p.roomID, p.seatID
	p.mu.RUnlock()

	if seatID == "" {
		return errors.New("not joined")
	}

	env, err := protocol.NewEnvelope(protocol.TypeIntent, roomID, seatID, protocol.Intent{
		Action: protocol.Action{Action: action},
	})
	if err != nil {
		return err
	}

	return p.conn.WriteEnvelope(env)
}

// SeatID returns the seat granted by the host, or "" before a join completes
func (p *Participant) SeatID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.seatID
}

// Token returns the seat-session token granted by the host
func (p *Participant) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.token
}

// State returns the last public state received from the host
func (p *Participant) State() engine.PublicState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state
}

// Hand returns the last private hand received from the host
func (p *Participant) Hand() deck.Hand {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.hand.Clone()
}
