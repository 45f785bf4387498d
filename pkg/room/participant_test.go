package room

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"drawfour-server/internal/jwt"
	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"
	"drawfour-server/pkg/protocol"
)

// pipeConn is an in-memory Conn for tests
type pipeConn struct {
	in, out chan *protocol.Envelope
	once    *sync.Once
	closed  chan struct{}
}

func newPipe() (a, b *pipeConn) {
	aToB := make(chan *protocol.Envelope, 256)
	bToA := make(chan *protocol.Envelope, 256)
	closed := make(chan struct{})
	once := &sync.Once{}

	a = &pipeConn{in: bToA, out: aToB, once: once, closed: closed}
	b = &pipeConn{in: aToB, out: bToA, once: once, closed: closed}
	return a, b
}

func (p *pipeConn) ReadEnvelope() (*protocol.Envelope, error) {
	select {
	case env := <-p.in:
		return env, nil
	case <-p.closed:
		return nil, io.EOF
	}
}

func (p *pipeConn) WriteEnvelope(env *protocol.Envelope) error {
	select {
	case p.out <- env:
		return nil
	case <-p.closed:
		return io.EOF
	}
}

func (p *pipeConn) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

// servePipe attaches the server end of a pipe to a host, pumping envelopes
// the way the websocket handler does in production
func servePipe(t *testing.T, h *Host, conn *pipeConn) *Client {
	t.Helper()

	c := NewClient(conn)
	h.AddClient(c)

	go func() {
		for {
			env, err := conn.ReadEnvelope()
			if err != nil {
				return
			}

			c.ReceivedMessage(env)
		}
	}()

	go func() {
		for {
			select {
			case env := <-c.SendChan():
				if err := conn.WriteEnvelope(env); err != nil {
					return
				}
			case <-conn.closed:
				return
			}
		}
	}()

	return c
}

func connectParticipant(t *testing.T, h *Host) *Participant {
	t.Helper()

	clientEnd, serverEnd := newPipe()
	servePipe(t, h, serverEnd)
	t.Cleanup(func() { _ = clientEnd.Close() })

	return NewParticipant(clientEnd)
}

func TestParticipant_joinAndSync(t *testing.T) {
	h := newTestHost(t)

	p1 := connectParticipant(t, h)
	welcome, err := p1.Join("Bob", "")
	assert.NoError(t, err)
	assert.Equal(t, welcome.PlayerID, p1.SeatID())
	assert.NotEmpty(t, p1.Token())

	var mu sync.Mutex
	var versions []uint64
	p1.OnStateUpdate = func(s engine.PublicState) {
		mu.Lock()
		versions = append(versions, s.Version)
		mu.Unlock()
	}

	go func() { _ = p1.Listen() }()

	p2 := connectParticipant(t, h)
	_, err = p2.Join("Carol", "")
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(versions) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	for i := 1; i < len(versions); i++ {
		assert.Greater(t, versions[i], versions[i-1])
	}
	mu.Unlock()

	assert.Len(t, p1.State().Players, 3)
}

func TestParticipant_joinRejected(t *testing.T) {
	h := newTestHost(t)

	joinHost(t, h, "Bob")
	joinHost(t, h, "Carol")
	joinHost(t, h, "Dave")

	p := connectParticipant(t, h)
	_, err := p.Join("Eve", "")
	assert.ErrorContains(t, err, protocol.CodeRoomFull)
}

func TestParticipant_playByIntent(t *testing.T) {
	h := newTestHost(t)

	pHost := connectParticipant(t, h)
	signed, err := jwt.Sign(jwt.Seat{RoomID: h.Code(), SeatID: h.HostSeatID()})
	assert.NoError(t, err)
	wHost, err := pHost.Join("", signed)
	assert.NoError(t, err)

	p1 := connectParticipant(t, h)
	w1, err := p1.Join("Bob", "")
	assert.NoError(t, err)

	go func() { _ = pHost.Listen() }()
	go func() { _ = p1.Listen() }()

	assert.NoError(t, pHost.SendIntent(engine.StartGame{Seed: 9}))

	assert.Eventually(t, func() bool {
		return p1.State().Phase == engine.PhaseTurn || p1.State().Phase == engine.PhaseChooseColor
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return len(pHost.Hand()) == engine.InitialHandSize && len(p1.Hand()) == engine.InitialHandSize
	}, 2*time.Second, 10*time.Millisecond)

	participants := map[string]*Participant{
		wHost.PlayerID: pHost,
		w1.PlayerID:    p1,
	}

	state := p1.State()
	actor := participants[state.CurrentPlayerID()]
	assert.NotNil(t, actor)

	before := state.Version
	if state.Phase == engine.PhaseChooseColor {
		assert.NoError(t, actor.SendIntent(engine.ChooseColor{PlayerID: actor.SeatID(), Color: deck.Red}))
	} else {
		assert.NoError(t, actor.SendIntent(engine.DrawCard{PlayerID: actor.SeatID()}))
	}

	assert.Eventually(t, func() bool {
		return pHost.State().Version > before && p1.State().Version > before
	}, 2*time.Second, 10*time.Millisecond)
}

func TestParticipant_discardsStaleUpdates(t *testing.T) {
	p := NewParticipant(nil)
	p.seatID = "p1"
	p.lastVersion = 10

	calls := 0
	p.OnStateUpdate = func(engine.PublicState) { calls++ }

	stale, err := protocol.NewEnvelope(protocol.TypeStateUpdate, "ROOM", "h", protocol.StateUpdate{
		State: engine.PublicState{Version: 10},
		Seq:   10,
	})
	assert.NoError(t, err)
	p.handle(stale)
	assert.Zero(t, calls)
	assert.Equal(t, uint64(10), p.lastVersion)

	newer, err := protocol.NewEnvelope(protocol.TypeStateUpdate, "ROOM", "h", protocol.StateUpdate{
		State: engine.PublicState{Version: 11},
		Seq:   11,
	})
	assert.NoError(t, err)
	p.handle(newer)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(11), p.lastVersion)
}

func TestParticipant_intentForAnotherSeatGetsNoReply(t *testing.T) {
	h := newTestHost(t)

	p := connectParticipant(t, h)
	_, err := p.Join("Bob", "")
	assert.NoError(t, err)

	errs := make(chan protocol.Error, 1)
	p.OnError = func(e protocol.Error) { errs <- e }
	go func() { _ = p.Listen() }()

	before := h.GetPublicState().Version
	assert.NoError(t, p.SendIntent(engine.DrawCard{PlayerID: h.HostSeatID()}))

	select {
	case e := <-errs:
		t.Fatalf("expected no reply to the spoofed intent, got %s", e.Code)
	case <-time.After(250 * time.Millisecond):
	}

	assert.Equal(t, before, h.GetPublicState().Version)
}
