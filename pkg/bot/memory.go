package bot

import (
	"sync"

	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"
)

// decay applied to all evidence on every observation so stale reads fade
const memoryDecay = 0.98

// seatModel is what a bot believes about one opponent, built only from public
// transitions: which colors they have shown they can follow and how likely
// they are to be sitting on a wild.
type seatModel struct {
	colors        map[deck.Color]float64
	wildSuspicion float64
}

func newSeatModel() *seatModel {
	return &seatModel{colors: make(map[deck.Color]float64)}
}

// Memory is the opponent model for one room. It accumulates evidence from
// public state transitions and resets itself when the version counter
// regresses, which signals a new game.
type Memory struct {
	version uint64
	seats   map[string]*seatModel
}

// NewMemory returns an empty opponent model
func NewMemory() *Memory {
	return &Memory{seats: make(map[string]*seatModel)}
}

func (m *Memory) reset() {
	m.seats = make(map[string]*seatModel)
}

func (m *Memory) seat(id string) *seatModel {
	s, ok := m.seats[id]
	if !ok {
		s = newSeatModel()
		m.seats[id] = s
	}

	return s
}

// Observe updates the model from one accepted public transition. Hidden hand
// contents are never consulted; everything here follows from what any
// participant at the table could see.
func (m *Memory) Observe(prev, next *engine.State) {
	if next.Version < m.version || next.Version <= 1 {
		m.reset()
	}
	m.version = next.Version

	// a fresh deal invalidates everything learned from the previous round
	if prev.Phase == engine.PhaseLobby || prev.Phase == engine.PhaseRoundEnd {
		m.reset()
		return
	}

	actor := prev.CurrentPlayerID()
	if actor == "" {
		return
	}

	for _, s := range m.seats {
		for color := range s.colors {
			s.colors[color] *= memoryDecay
		}
		s.wildSuspicion *= memoryDecay
	}

	switch {
	// color chosen after a wild: the chooser is committed to that color
	case prev.Phase == engine.PhaseChooseColor && next.Phase == engine.PhaseTurn:
		s := m.seat(actor)
		s.colors[next.ActiveColor] += 1.0
		if s.wildSuspicion > 0 {
			s.wildSuspicion -= 1.0
		}

	// a card actually played shows the actor held that color
	case topCardChanged(prev, next):
		card := *next.TopCard
		if card.IsWild() {
			m.seat(actor).wildSuspicion += 1.0
		} else {
			m.seat(actor).colors[card.Color] += 0.5
		}

	// a draw while a color was active suggests the actor cannot follow it
	case handGrew(prev, next, actor) && prev.ActiveColor != "" && prev.PendingDraw == 0:
		m.seat(actor).colors[prev.ActiveColor] -= 1.0
	}
}

// ColorLikelihood returns the accumulated evidence that the seat can follow
// the color. Zero means no evidence either way; negative means they have
// shown they cannot.
func (m *Memory) ColorLikelihood(seatID string, color deck.Color) float64 {
	s, ok := m.seats[seatID]
	if !ok {
		return 0
	}

	return s.colors[color]
}

// WildSuspicion returns the evidence that the seat is holding wilds
func (m *Memory) WildSuspicion(seatID string) float64 {
	s, ok := m.seats[seatID]
	if !ok {
		return 0
	}

	return s.wildSuspicion
}

func topCardChanged(prev, next *engine.State) bool {
	if next.TopCard == nil {
		return false
	}
	if prev.TopCard == nil {
		return true
	}

	return prev.TopCard.ID != next.TopCard.ID
}

func handGrew(prev, next *engine.State, seatID string) bool {
	p, ok := prev.Players[seatID]
	if !ok {
		return false
	}
	n, ok := next.Players[seatID]
	if !ok {
		return false
	}

	return len(n.Hand) > len(p.Hand)
}

// MemoryStore owns the per-room opponent models. The host owns exactly one
// store with a lifecycle tied to its own, so nothing leaks across rooms or
// outlives the process.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]*Memory
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*Memory)}
}

// ForRoom returns the room's model, creating it on first use
func (ms *MemoryStore) ForRoom(roomID string) *Memory {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	m, ok := ms.rooms[roomID]
	if !ok {
		m = NewMemory()
		ms.rooms[roomID] = m
	}

	return m
}

// Forget drops the room's model
func (ms *MemoryStore) Forget(roomID string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.rooms, roomID)
}
