package engine

import (
	"drawfour-server/pkg/deck"
)

// game limits
const (
	MinSeats        = 2
	MaxSeats        = 4
	InitialHandSize = 7
)

// Phase is the current phase of the game
type Phase string

// phase constants
const (
	PhaseLobby       Phase = "lobby"
	PhaseTurn        Phase = "turn"
	PhaseChooseColor Phase = "chooseColorRequired"
	PhaseRoundEnd    Phase = "roundEnd"
)

// RoundEndReason explains why a round ended
type RoundEndReason string

// round end reasons
const (
	ReasonEmptyHand    RoundEndReason = "playerEmptyHand"
	ReasonOpponentLeft RoundEndReason = "opponentLeft"
)

// Player is a seat in the game
// The hand is known only to the host and to that seat.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Connected bool      `json:"connected"`
	IsBot     bool      `json:"isBot"`
	Hand      deck.Hand `json:"hand"`
}

// State is the authoritative game state, owned exclusively by the host.
// It must only be changed through Apply, which never mutates its input.
type State struct {
	RoomID string
	HostID string

	// Order defines turn order by seat ID; CurrentIndex indexes into it
	Order        []string
	CurrentIndex int
	Direction    int

	TopCard     *deck.Card
	ActiveColor deck.Color
	PendingDraw int

	Phase     Phase
	WinnerID  string
	EndReason RoundEndReason

	// Version strictly increases on every accepted transition
	Version uint64

	// draw pile and discard pile below the visible top card; never sent to participants
	DrawPile    []deck.Card
	DiscardPile []deck.Card

	// Seed drives the reshuffle-discards RNG so transitions stay deterministic
	Seed int64

	Players map[string]*Player
}

// NewState returns a fresh lobby-phase state for a room
func NewState(roomID, hostID string) *State {
	return &State{
		RoomID:    roomID,
		HostID:    hostID,
		Order:     []string{},
		Direction: 1,
		Phase:     PhaseLobby,
		Version:   1,
		Players:   make(map[string]*Player),
	}
}

// CurrentPlayerID returns the seat ID whose turn it is, or "" outside a round
func (s *State) CurrentPlayerID() string {
	if len(s.Order) == 0 || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Order) {
		return ""
	}

	return s.Order[s.CurrentIndex]
}

// HandOf returns a copy of the seat's hand, or nil for an unknown seat
func (s *State) HandOf(seatID string) deck.Hand {
	player, ok := s.Players[seatID]
	if !ok {
		return nil
	}

	return player.Hand.Clone()
}

// ConnectedCount returns the number of connected seats
func (s *State) ConnectedCount() int {
	count := 0
	for _, id := range s.Order {
		if p, ok := s.Players[id]; ok && p.Connected {
			count++
		}
	}

	return count
}

// clone returns a deep copy
// Apply mutates the clone and leaves the caller's state untouched.
func (s *State) clone() *State {
	next := *s

	next.Order = append([]string{}, s.Order...)
	next.DrawPile = append([]deck.Card{}, s.DrawPile...)
	next.DiscardPile = append([]deck.Card{}, s.DiscardPile...)

	if s.TopCard != nil {
		top := *s.TopCard
		next.TopCard = &top
	}

	next.Players = make(map[string]*Player, len(s.Players))
	for id, p := range s.Players {
		player := *p
		player.Hand = p.Hand.Clone()
		next.Players[id] = &player
	}

	return &next
}
