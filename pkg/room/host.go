package room

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"drawfour-server/internal/jwt"
	"drawfour-server/internal/rng"
	"drawfour-server/internal/util"
	"drawfour-server/pkg/bot"
	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"
	"drawfour-server/pkg/protocol"
)

// seedSource provides round seeds when a StartGame intent leaves the seed
// unset
var seedSource rng.Generator = rng.Crypto{}

type botSeat struct {
	name   string
	tuning bot.Tuning
	timer  *time.Timer
}

// Host owns the authoritative state for one room and is responsible for
// running the game. All state access is serialized through the run loop:
// intents come in one at a time, are applied, and accepted transitions are
// broadcast before the next intent is considered.
type Host struct {
	pitBoss *PitBoss
	code    string

	state  *engine.State
	memory *bot.Memory

	clients map[*Client]bool
	lock    sync.RWMutex

	bots       map[string]*botSeat
	botOrder   []string
	difficulty bot.Difficulty

	execInRunLoop chan func()
	stateChanged  chan struct{}
	close         chan bool
}

// NewHost creates a new host for a room and seats its creator
// This is called from a blocking state, so it needs to return quickly
func NewHost(pitBoss *PitBoss, code, hostSeatID, hostName string, memory *bot.Memory, difficulty bot.Difficulty) *Host {
	state := engine.NewState(code, hostSeatID)
	state = engine.Apply(state, engine.PlayerJoin{PlayerID: hostSeatID, Name: hostName})

	return &Host{
		pitBoss:       pitBoss,
		code:          code,
		state:         state,
		memory:        memory,
		clients:       make(map[*Client]bool),
		bots:          make(map[string]*botSeat),
		difficulty:    difficulty,
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan struct{}, 256),
		close:         make(chan bool),
	}
}

// Code returns the room code
func (h *Host) Code() string {
	return h.code
}

// HostSeatID returns the seat the room's creator occupies
func (h *Host) HostSeatID() string {
	return h.state.HostID
}

// Clients will return a slice of connected (at the time) clients
func (h *Host) Clients() []*Client {
	h.lock.RLock()
	defer h.lock.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (h *Host) StartShift() {
	go h.runLoop()
}

func (h *Host) runLoop() {
	log := logrus.WithField("room", h.code)

	log.Debug("creating host run loop")
	for {
		select {
		case <-h.stateChanged:
			h.broadcast()
		case fn := <-h.execInRunLoop:
			fn()
		case <-h.close:
			for _, bs := range h.bots {
				if bs.timer != nil {
					bs.timer.Stop()
				}
			}

			log.Debug("terminating host run loop")
			return
		}
	}
}

// AddClient adds a client
// This method must return quickly; the client has no seat until its join
// message is handled.
func (h *Host) AddClient(client *Client) {
	h.lock.Lock()
	client.host = h
	h.clients[client] = true
	h.lock.Unlock()
}

// RemoveClient removes a client
// This method must return quickly
func (h *Host) RemoveClient(client *Client) (lastClient bool) {
	h.lock.Lock()
	delete(h.clients, client)
	seatID := client.SeatID()
	nClients := len(h.clients)
	h.lock.Unlock()

	if seatID != "" {
		h.execInRunLoop <- func() {
			h.dispatch(engine.SetConnected{PlayerID: seatID, Connected: false})
		}
	}

	return nClients == 0
}

// EndShift is called when the host is no longer needed
func (h *Host) EndShift() {
	close(h.close)
}

// ReceivedMessage is called when a client sends a message to the server
func (h *Host) ReceivedMessage(c *Client, env *protocol.Envelope) {
	switch env.Type {
	case protocol.TypeJoin:
		join, err := env.DecodeJoin()
		if err != nil {
			h.sendError(c, protocol.CodeBadMessage, err.Error())
			return
		}

		h.execInRunLoop <- func() {
			h.handleJoin(c, join)
		}
	case protocol.TypeIntent:
		intent, err := env.DecodeIntent()
		if err != nil {
			h.sendError(c, protocol.CodeBadMessage, err.Error())
			return
		}

		h.execInRunLoop <- func() {
			h.handleIntent(c, intent.Action.Action)
		}
	default:
		logrus.WithField("type", env.Type).WithField("client", c.String()).Warn("unknown message")
		h.sendError(c, protocol.CodeBadMessage, "unexpected message type")
	}
}

// NOTE: must only be called from the run loop
func (h *Host) handleJoin(c *Client, join *protocol.Join) {
	if join.Token != "" {
		seat, err := jwt.ValidSeat(join.Token)
		if err != nil || seat.RoomID != h.code {
			h.sendError(c, protocol.CodeBadMessage, "invalid seat token")
			c.CloseWithReason("invalid seat token")
			return
		}

		if _, ok := h.state.Players[seat.SeatID]; !ok {
			h.sendError(c, protocol.CodeBadMessage, "unknown seat")
			c.CloseWithReason("unknown seat")
			return
		}

		c.setSeatID(seat.SeatID)
		h.dispatch(engine.SetConnected{PlayerID: seat.SeatID, Connected: true})
		h.sendWelcome(c, join.Token)
		return
	}

	if h.state.Phase != engine.PhaseLobby {
		h.sendError(c, protocol.CodeGameRunning, "a round is in progress")
		c.CloseWithReason("a round is in progress")
		return
	}

	if len(h.state.Order) >= engine.MaxSeats && !h.evictNewestBot() {
		h.sendError(c, protocol.CodeRoomFull, "the room is full")
		c.CloseWithReason("the room is full")
		return
	}

	name := join.Name
	if name == "" {
		name = util.GetRandomName()
	}

	seatID := uuid.New().String()
	if !h.dispatch(engine.PlayerJoin{PlayerID: seatID, Name: name}) {
		h.sendError(c, protocol.CodeRoomFull, "the room is full")
		return
	}

	c.setSeatID(seatID)

	token, err := jwt.Sign(jwt.Seat{RoomID: h.code, SeatID: seatID})
	if err != nil {
		logrus.WithError(err).WithField("room", h.code).Error("could not sign seat token")
		h.sendError(c, protocol.CodeBadMessage, "could not issue a seat token")
		return
	}

	h.sendWelcome(c, token)
}

// NOTE: must only be called from the run loop
func (h *Host) sendWelcome(c *Client, token string) {
	env, err := protocol.NewEnvelope(protocol.TypeWelcome, h.code, h.state.HostID, protocol.Welcome{
		PlayerID: c.SeatID(),
		Token:    token,
		State:    h.state.PublicProjection(),
		Hand:     h.state.HandOf(c.SeatID()),
	})

	if err != nil {
		logrus.WithError(err).Error("could not build welcome")
		return
	}

	c.Send(env)
}

// NOTE: must only be called from the run loop
func (h *Host) handleIntent(c *Client, action engine.Action) {
	actor := action.Actor()
	if actor == "" {
		// host-scoped actions require the host seat
		if c.SeatID() != h.state.HostID {
			h.sendError(c, protocol.CodeBadMessage, "only the host may do that")
			return
		}
	} else if actor != c.SeatID() {
		// drop silently; replying would confirm which seat IDs exist
		logrus.WithFields(logrus.Fields{
			"room":   h.code,
			"client": c.String(),
			"actor":  actor,
		}).Warn("discarding intent for another seat")
		return
	}

	if !h.dispatch(action) {
		logrus.WithFields(logrus.Fields{
			"room":   h.code,
			"seat":   c.SeatID(),
			"action": action.Type(),
		}).Debug("intent rejected")
	}
}

// dispatch runs an action through the rules engine. If the action is accepted,
// the transition is observed by the shared opponent model, broadcast to every
// participant, and a bot move is scheduled when a bot is up next.
// NOTE: must only be called from the run loop
func (h *Host) dispatch(action engine.Action) bool {
	if sg, ok := action.(engine.StartGame); ok && sg.Seed == 0 {
		sg.Seed = int64(seedSource.Intn(math.MaxInt32))
		action = sg
	}

	prev := h.state
	next := engine.Apply(prev, action)
	if next.Version == prev.Version {
		return false
	}

	h.state = next
	h.memory.Observe(prev, next)
	h.stateChanged <- struct{}{}
	h.scheduleBotMove()

	return true
}

// NOTE: must only be called from the run loop
func (h *Host) scheduleBotMove() {
	if h.state.Phase != engine.PhaseTurn && h.state.Phase != engine.PhaseChooseColor {
		return
	}

	seatID := h.state.CurrentPlayerID()
	bs, ok := h.bots[seatID]
	if !ok {
		return
	}

	if bs.timer != nil {
		bs.timer.Stop()
	}

	version := h.state.Version
	delay := bot.ThinkDelay(len(h.state.HandOf(seatID)), bs.tuning)
	bs.timer = time.AfterFunc(delay, func() {
		// block until the run loop can take the move; dropping it would
		// leave the table waiting on a bot that never acts
		select {
		case h.execInRunLoop <- func() { h.botMove(seatID, version) }:
		case <-h.close:
		}
	})
}

// NOTE: must only be called from the run loop
func (h *Host) botMove(seatID string, version uint64) {
	if h.state.Version != version {
		// a newer transition already rescheduled this bot
		return
	}

	bs := h.bots[seatID]
	if bs == nil {
		return
	}

	action := bot.Decide(h.state, seatID, h.memory, bs.tuning)
	if action != nil && h.dispatch(action) {
		return
	}

	logrus.WithFields(logrus.Fields{
		"room": h.code,
		"seat": seatID,
	}).Warn("bot proposed no acceptable move; drawing instead")
	h.dispatch(engine.DrawCard{PlayerID: seatID})
}

// broadcast sends the public projection to every seated client, plus each
// seat's private hand to that seat only
// NOTE: must only be called from the run loop
func (h *Host) broadcast() {
	public := h.state.PublicProjection()
	stateEnv, err := protocol.NewEnvelope(protocol.TypeStateUpdate, h.code, h.state.HostID, protocol.StateUpdate{
		State: public,
		Seq:   public.Version,
	})
	if err != nil {
		logrus.WithError(err).Error("could not build state update")
		return
	}

	for _, client := range h.Clients() {
		if client.SeatID() == "" {
			continue
		}

		client.Send(stateEnv)

		handEnv, err := protocol.NewEnvelope(protocol.TypeHandUpdate, h.code, h.state.HostID, protocol.HandUpdate{
			Hand: h.state.HandOf(client.SeatID()),
		})
		if err != nil {
			logrus.WithError(err).Error("could not build hand update")
			continue
		}

		client.Send(handEnv)
	}
}

func (h *Host) sendError(c *Client, code, message string) {
	env, err := protocol.NewEnvelope(protocol.TypeError, h.code, "", protocol.Error{Code: code, Message: message})
	if err != nil {
		logrus.WithError(err).Error("could not build error response")
		return
	}

	c.Send(env)
}

// AddBot seats a bot in the lobby and returns its seat ID
func (h *Host) AddBot(name string) (string, error) {
	type reply struct {
		seatID string
		err    error
	}

	replyCh := make(chan reply, 1)
	h.execInRunLoop <- func() {
		if h.state.Phase != engine.PhaseLobby {
			replyCh <- reply{err: errors.New("a round is in progress")}
			return
		}

		if len(h.state.Order) >= engine.MaxSeats {
			replyCh <- reply{err: errors.New("the room is full")}
			return
		}

		if name == "" {
			name = bot.DefaultName(len(h.botOrder))
		}

		seatID := uuid.New().String()
		if !h.dispatch(engine.PlayerJoin{PlayerID: seatID, Name: name, IsBot: true}) {
			replyCh <- reply{err: errors.New("could not seat the bot")}
			return
		}

		profile := bot.ProfileForName(name)
		h.bots[seatID] = &botSeat{
			name:   name,
			tuning: bot.TuningFor(profile, h.difficulty),
		}
		h.botOrder = append(h.botOrder, seatID)

		replyCh <- reply{seatID: seatID}
	}

	r := <-replyCh
	return r.seatID, r.err
}

// RemoveBot unseats a bot by display name (case-insensitive). An empty name
// removes the most recently added bot. Only valid in the lobby.
func (h *Host) RemoveBot(name string) bool {
	replyCh := make(chan bool, 1)
	h.execInRunLoop <- func() {
		if h.state.Phase != engine.PhaseLobby {
			replyCh <- false
			return
		}

		seatID := ""
		if name == "" {
			if len(h.botOrder) > 0 {
				seatID = h.botOrder[len(h.botOrder)-1]
			}
		} else {
			for _, id := range h.botOrder {
				if bs := h.bots[id]; bs != nil && strings.EqualFold(bs.name, name) {
					seatID = id
					break
				}
			}
		}

		if seatID == "" {
			replyCh <- false
			return
		}

		replyCh <- h.removeBot(seatID)
	}

	return <-replyCh
}

// NOTE: must only be called from the run loop
func (h *Host) removeBot(seatID string) bool {
	if !h.dispatch(engine.PlayerLeave{PlayerID: seatID}) {
		return false
	}

	if bs := h.bots[seatID]; bs != nil && bs.timer != nil {
		bs.timer.Stop()
	}

	delete(h.bots, seatID)
	for i, id := range h.botOrder {
		if id == seatID {
			h.botOrder = append(h.botOrder[:i], h.botOrder[i+1:]...)
			break
		}
	}

	return true
}

// evictNewestBot makes room for a human by unseating the most recently added
// bot
// NOTE: must only be called from the run loop
func (h *Host) evictNewestBot() bool {
	if len(h.botOrder) == 0 {
		return false
	}

	return h.removeBot(h.botOrder[len(h.botOrder)-1])
}

// GetPublicState returns the current public projection
func (h *Host) GetPublicState() engine.PublicState {
	reply := make(chan engine.PublicState, 1)
	h.execInRunLoop <- func() {
		reply <- h.state.PublicProjection()
	}

	return <-reply
}

// GetMyHand returns a copy of a seat's private hand
func (h *Host) GetMyHand(seatID string) deck.Hand {
	reply := make(chan deck.Hand, 1)
	h.execInRunLoop <- func() {
		reply <- h.state.HandOf(seatID)
	}

	return <-reply
}

// DispatchLocalAction runs an action from the host's own process through the
// same serialized path remote intents take. It reports whether the action was
// accepted.
func (h *Host) DispatchLocalAction(action engine.Action) bool {
	reply := make(chan bool, 1)
	h.execInRunLoop <- func() {
		reply <- h.dispatch(action)
	}

	return <-reply
}
