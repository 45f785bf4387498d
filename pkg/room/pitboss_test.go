package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"drawfour-server/internal/jwt"
	"drawfour-server/pkg/bot"
	"drawfour-server/pkg/protocol"
)

func newTestPitBoss() *PitBoss {
	return &PitBoss{
		memories:    bot.NewMemoryStore(),
		codeLength:  4,
		idleTimeout: 25 * time.Millisecond,
		difficulty:  bot.Normal,
		hosts:       make(map[string]*Host),
		reapTimers:  make(map[string]*time.Timer),
	}
}

func TestPitBoss_CreateRoom(t *testing.T) {
	p := newTestPitBoss()

	host, signed, err := p.CreateRoom("Alice")
	assert.NoError(t, err)
	assert.Len(t, host.Code(), 4)

	seat, err := jwt.ValidSeat(signed)
	assert.NoError(t, err)
	assert.Equal(t, host.Code(), seat.RoomID)
	assert.Equal(t, host.HostSeatID(), seat.SeatID)

	found, ok := p.Room(host.Code())
	assert.True(t, ok)
	assert.Same(t, host, found)

	_, ok = p.Room("NOPE")
	assert.False(t, ok)
}

func TestPitBoss_ClientConnected_unknownRoom(t *testing.T) {
	p := newTestPitBoss()

	err := p.ClientConnected("XYZQ", NewClient(nil))
	assert.EqualError(t, err, "room not found")
}

func TestPitBoss_reapsIdleRooms(t *testing.T) {
	p := newTestPitBoss()

	host, _, err := p.CreateRoom("Alice")
	assert.NoError(t, err)

	c := NewClient(nil)
	assert.NoError(t, p.ClientConnected(host.Code(), c))
	p.ClientDisconnected(c)

	assert.Eventually(t, func() bool {
		_, ok := p.Room(host.Code())
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPitBoss_reconnectCancelsReap(t *testing.T) {
	p := newTestPitBoss()
	p.idleTimeout = 100 * time.Millisecond

	host, signed, err := p.CreateRoom("Alice")
	assert.NoError(t, err)

	c := NewClient(nil)
	assert.NoError(t, p.ClientConnected(host.Code(), c))

	env, err := protocol.NewEnvelope(protocol.TypeJoin, host.Code(), "", protocol.Join{Token: signed})
	assert.NoError(t, err)
	c.ReceivedMessage(env)
	recv(t, c, protocol.TypeWelcome)

	p.ClientDisconnected(c)

	c2 := NewClient(nil)
	assert.NoError(t, p.ClientConnected(host.Code(), c2))

	time.Sleep(250 * time.Millisecond)
	_, ok := p.Room(host.Code())
	assert.True(t, ok)
}
