package room

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"drawfour-server/internal/config"
	"drawfour-server/internal/jwt"
	"drawfour-server/pkg/bot"
	"drawfour-server/pkg/token"
)

// PitBoss is responsible for dispatching players to rooms
type PitBoss struct {
	memories    *bot.MemoryStore
	codeLength  int
	idleTimeout time.Duration
	difficulty  bot.Difficulty

	lock       sync.RWMutex
	hosts      map[string]*Host
	reapTimers map[string]*time.Timer
}

// NewPitBoss returns a new dispatch object
func NewPitBoss() *PitBoss {
	cfg := config.Instance()

	return &PitBoss{
		memories:    bot.NewMemoryStore(),
		codeLength:  cfg.Room.CodeLength,
		idleTimeout: time.Duration(cfg.Room.IdleTimeoutMinutes) * time.Minute,
		difficulty:  bot.ParseDifficulty(cfg.Room.BotDifficulty),
		hosts:       make(map[string]*Host),
		reapTimers:  make(map[string]*time.Timer),
	}
}

// CreateRoom creates a new room with the creator seated as its host
// It returns the running host and a seat-session token for the creator.
func (p *PitBoss) CreateRoom(hostName string) (*Host, string, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	code := ""
	for attempt := 0; ; attempt++ {
		c, err := token.GenerateRoomCode(p.codeLength)
		if err != nil {
			return nil, "", err
		}

		if _, taken := p.hosts[c]; !taken {
			code = c
			break
		}

		if attempt >= 10 {
			return nil, "", errors.New("could not find an available room code")
		}
	}

	seatID := uuid.New().String()
	signed, err := jwt.Sign(jwt.Seat{RoomID: code, SeatID: seatID})
	if err != nil {
		return nil, "", err
	}

	host := NewHost(p, code, seatID, hostName, p.memories.ForRoom(code), p.difficulty)
	host.StartShift()
	p.hosts[code] = host

	logrus.WithField("room", code).Debug("room created")
	return host, signed, nil
}

// Room returns the host for a room code
func (p *PitBoss) Room(code string) (*Host, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	host, found := p.hosts[strings.ToUpper(code)]
	return host, found
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(code string, client *Client) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	host, found := p.hosts[strings.ToUpper(code)]
	if !found {
		return errors.New("room not found")
	}

	if timer, ok := p.reapTimers[host.code]; ok {
		timer.Stop()
		delete(p.reapTimers, host.code)
	}

	logrus.WithField("room", host.code).Debug("client connected")
	host.AddClient(client)
	return nil
}

// ClientDisconnected is called when a client disconnects from the server
// When a room's last client leaves, the room lingers for the idle timeout so
// seat tokens can reconnect, then is torn down.
func (p *PitBoss) ClientDisconnected(client *Client) {
	host := client.host
	if host == nil {
		return
	}

	logrus.WithField("client", client.String()).Debug("client disconnected")
	if !host.RemoveClient(client) {
		return
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if _, ok := p.hosts[host.code]; !ok {
		return
	}

	if timer, ok := p.reapTimers[host.code]; ok {
		timer.Stop()
	}

	p.reapTimers[host.code] = time.AfterFunc(p.idleTimeout, func() {
		p.reapRoom(host)
	})
}

func (p *PitBoss) reapRoom(host *Host) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if len(host.Clients()) > 0 {
		return
	}

	if _, ok := p.hosts[host.code]; !ok {
		return
	}

	host.EndShift()
	delete(p.hosts, host.code)
	delete(p.reapTimers, host.code)
	p.memories.Forget(host.code)

	logrus.WithField("room", host.code).Debug("room reaped")
}
