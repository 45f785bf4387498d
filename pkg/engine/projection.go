package engine

import "drawfour-server/pkg/deck"

// PublicPlayer is the seat information safe to broadcast: the hand itself is
// reduced to its count.
type PublicPlayer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsBot     bool   `json:"isBot"`
	CardCount int    `json:"cardCount"`
}

// PublicState is the projection of the game state broadcast to every
// participant. Hands and the internal piles never appear here.
type PublicState struct {
	RoomID       string         `json:"roomId"`
	HostID       string         `json:"hostId"`
	Players      []PublicPlayer `json:"players"`
	Order        []string       `json:"order"`
	CurrentIndex int            `json:"currentPlayerIndex"`
	Direction    int            `json:"direction"`
	TopCard      *deck.Card     `json:"topCard,omitempty"`
	ActiveColor  deck.Color     `json:"activeColor,omitempty"`
	PendingDraw  int            `json:"pendingDraw"`
	Phase        Phase          `json:"phase"`
	WinnerID     string         `json:"winnerId,omitempty"`
	EndReason    RoundEndReason `json:"roundEndReason,omitempty"`
	Version      uint64         `json:"stateVersion"`
}

// PublicProjection returns the broadcast-safe view of the state
func (s *State) PublicProjection() PublicState {
	players := make([]PublicPlayer, 0, len(s.Order))
	for _, id := range s.Order {
		p := s.Players[id]
		players = append(players, PublicPlayer{
			ID:        p.ID,
			Name:      p.Name,
			Connected: p.Connected,
			IsBot:     p.IsBot,
			CardCount: len(p.Hand),
		})
	}

	var topCard *deck.Card
	if s.TopCard != nil {
		top := *s.TopCard
		topCard = &top
	}

	return PublicState{
		RoomID:       s.RoomID,
		HostID:       s.HostID,
		Players:      players,
		Order:        append([]string{}, s.Order...),
		CurrentIndex: s.CurrentIndex,
		Direction:    s.Direction,
		TopCard:      topCard,
		ActiveColor:  s.ActiveColor,
		PendingDraw:  s.PendingDraw,
		Phase:        s.Phase,
		WinnerID:     s.WinnerID,
		EndReason:    s.EndReason,
		Version:      s.Version,
	}
}

// CurrentPlayerID returns the seat whose turn it is, or "" outside a round
func (p PublicState) CurrentPlayerID() string {
	if len(p.Order) == 0 || p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Order) {
		return ""
	}

	return p.Order[p.CurrentIndex]
}
