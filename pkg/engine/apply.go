package engine

import (
	"drawfour-server/pkg/deck"
)

// Apply is the rules engine transition function. It is pure: the input state is
// never mutated, and the same (state, action) pair always yields the same
// result. Illegal or unrecognized actions return the input state unchanged;
// callers detect acceptance by comparing versions. The version increments only
// on accepted transitions.
func Apply(s *State, action Action) *State {
	switch a := action.(type) {
	case StartGame:
		return applyStartGame(s, a)
	case PlayCard:
		return applyPlayCardAction(s, a)
	case ChooseColor:
		return applyChooseColor(s, a)
	case DrawCard:
		return applyDrawCard(s, a)
	case PlayerJoin:
		return applyPlayerJoin(s, a)
	case PlayerLeave:
		return applyPlayerLeave(s, a)
	case SetConnected:
		return applySetConnected(s, a)
	}

	return s
}

func accept(next *State) *State {
	next.Version++
	return next
}

func applyStartGame(s *State, a StartGame) *State {
	if s.Phase != PhaseLobby && s.Phase != PhaseRoundEnd {
		return s
	}

	if len(s.Order) < MinSeats {
		return s
	}

	next := s.clone()

	seed := a.Seed
	if seed == 0 {
		seed = 1
	}

	d := deck.New()
	d.Shuffle(seed)

	next.Seed = seed
	next.DrawPile = d.Cards
	next.DiscardPile = []deck.Card{}
	next.TopCard = nil
	next.ActiveColor = ""
	next.PendingDraw = 0
	next.Direction = 1
	next.CurrentIndex = 0
	next.WinnerID = ""
	next.EndReason = ""
	next.Phase = PhaseTurn

	for _, id := range next.Order {
		next.Players[id].Hand = deck.Hand{}
		drawCards(next, id, InitialHandSize)
	}

	// flip the starter; the pile cannot be empty with at most 4 seats
	top := next.DrawPile[len(next.DrawPile)-1]
	next.DrawPile = next.DrawPile[:len(next.DrawPile)-1]
	next.TopCard = &top

	if top.IsWild() {
		// the first seat chooses the color before play starts; a wild draw
		// four also leaves the first seat facing the forced draw
		next.Phase = PhaseChooseColor
		if top.Kind == deck.WildDrawFour {
			next.PendingDraw = 4
		}
	} else {
		next.ActiveColor = top.Color
		effect := EvaluateCardEffect(top, 0, 1, len(next.Order))
		next.PendingDraw = effect.PendingDraw
		next.Direction = effect.Direction

		if effect.SkipNext {
			advanceTurn(next)
		}
	}

	return accept(next)
}

func applyPlayCardAction(s *State, a PlayCard) *State {
	if s.Phase != PhaseTurn || s.CurrentPlayerID() != a.PlayerID {
		return s
	}

	player, ok := s.Players[a.PlayerID]
	if !ok || !player.Hand.HasCard(a.CardID) {
		return s
	}

	i := player.Hand.IndexOfCard(a.CardID)
	if !IsValidMove(player.Hand[i], s) {
		return s
	}

	next := s.clone()
	playCard(next, a.PlayerID, a.CardID)
	return accept(next)
}

// playCard moves the card onto the discard and resolves its effect.
// Shared by PlayCard and the auto-play path of DrawCard. The caller has
// validated legality.
func playCard(next *State, playerID, cardID string) {
	player := next.Players[playerID]
	card, _ := player.Hand.RemoveCard(cardID)

	if next.TopCard != nil {
		next.DiscardPile = append(next.DiscardPile, *next.TopCard)
	}

	next.TopCard = &card
	if card.IsWild() {
		next.ActiveColor = ""
	} else {
		next.ActiveColor = card.Color
	}

	// an emptied hand ends the round immediately; the card's effect is never
	// resolved, so a final wild does not request a color
	if len(player.Hand) == 0 {
		next.Phase = PhaseRoundEnd
		next.WinnerID = playerID
		next.EndReason = ReasonEmptyHand
		return
	}

	effect := EvaluateCardEffect(card, next.PendingDraw, next.Direction, len(next.Order))
	next.PendingDraw = effect.PendingDraw
	next.Direction = effect.Direction

	if effect.RequiresColorChoice {
		next.Phase = PhaseChooseColor
		return
	}

	if effect.SkipNext {
		advanceTurn(next)
	}

	advanceTurn(next)
}

func applyChooseColor(s *State, a ChooseColor) *State {
	if s.Phase != PhaseChooseColor || s.CurrentPlayerID() != a.PlayerID {
		return s
	}

	if !isRealColor(a.Color) {
		return s
	}

	next := s.clone()
	next.ActiveColor = a.Color
	next.Phase = PhaseTurn
	advanceTurn(next)
	return accept(next)
}

func applyDrawCard(s *State, a DrawCard) *State {
	if s.Phase != PhaseTurn || s.CurrentPlayerID() != a.PlayerID {
		return s
	}

	next := s.clone()

	if next.PendingDraw > 0 {
		drawCards(next, a.PlayerID, next.PendingDraw)
		next.PendingDraw = 0
		advanceTurn(next)
		return accept(next)
	}

	drawn := drawCards(next, a.PlayerID, 1)
	if drawn == 1 {
		hand := next.Players[a.PlayerID].Hand
		card := hand[len(hand)-1]
		if IsValidMove(card, next) {
			playCard(next, a.PlayerID, card.ID)
			return accept(next)
		}
	}

	advanceTurn(next)
	return accept(next)
}

func applyPlayerJoin(s *State, a PlayerJoin) *State {
	if s.Phase != PhaseLobby {
		return s
	}

	if _, ok := s.Players[a.PlayerID]; ok {
		return s
	}

	if len(s.Order) >= MaxSeats {
		return s
	}

	next := s.clone()
	next.Players[a.PlayerID] = &Player{
		ID:        a.PlayerID,
		Name:      a.Name,
		Connected: true,
		IsBot:     a.IsBot,
		Hand:      deck.Hand{},
	}
	next.Order = append(next.Order, a.PlayerID)
	return accept(next)
}

func applyPlayerLeave(s *State, a PlayerLeave) *State {
	if s.Phase != PhaseLobby {
		return s
	}

	if _, ok := s.Players[a.PlayerID]; !ok {
		return s
	}

	next := s.clone()
	delete(next.Players, a.PlayerID)
	for i, id := range next.Order {
		if id == a.PlayerID {
			next.Order = append(next.Order[:i], next.Order[i+1:]...)
			break
		}
	}

	if next.CurrentIndex >= len(next.Order) {
		next.CurrentIndex = 0
	}

	return accept(next)
}

func applySetConnected(s *State, a SetConnected) *State {
	player, ok := s.Players[a.PlayerID]
	if !ok || player.Connected == a.Connected {
		return s
	}

	next := s.clone()
	next.Players[a.PlayerID].Connected = a.Connected

	if a.Connected || (next.Phase != PhaseTurn && next.Phase != PhaseChooseColor) {
		return accept(next)
	}

	if next.ConnectedCount() < MinSeats {
		next.Phase = PhaseRoundEnd
		next.EndReason = ReasonOpponentLeft
		next.WinnerID = ""
		for _, id := range next.Order {
			if next.Players[id].Connected {
				next.WinnerID = id
				break
			}
		}

		return accept(next)
	}

	if next.CurrentPlayerID() == a.PlayerID {
		// a departed color chooser forfeits the choice to their own strongest color
		if next.Phase == PhaseChooseColor {
			next.ActiveColor = next.Players[a.PlayerID].Hand.MostAbundantColor()
			next.Phase = PhaseTurn
		}

		advanceTurn(next)
	}

	return accept(next)
}

// advanceTurn moves to the next connected seat, bounded by one full lap so a
// fully disconnected table cannot loop forever
func advanceTurn(next *State) {
	n := len(next.Order)
	if n == 0 {
		return
	}

	idx := NextIndex(next.CurrentIndex, n, next.Direction)
	for lap := 0; lap < n; lap++ {
		if player, ok := next.Players[next.Order[idx]]; ok && player.Connected {
			break
		}

		idx = NextIndex(idx, n, next.Direction)
	}

	next.CurrentIndex = idx
}

// drawCards moves up to count cards from the draw pile into the seat's hand,
// recycling the discard pile mid-draw when the pile empties. When both piles
// are empty the draw simply stops short. Returns how many cards were drawn.
func drawCards(next *State, playerID string, count int) int {
	player, ok := next.Players[playerID]
	if !ok {
		return 0
	}

	drawn := 0
	for i := 0; i < count; i++ {
		if len(next.DrawPile) == 0 {
			if len(next.DiscardPile) == 0 {
				break
			}

			d := &deck.Deck{}
			d.SetSeed(next.Seed + int64(next.Version))
			d.ShuffleDiscards(next.DiscardPile)
			next.DrawPile = d.Cards
			next.DiscardPile = []deck.Card{}
		}

		card := next.DrawPile[len(next.DrawPile)-1]
		next.DrawPile = next.DrawPile[:len(next.DrawPile)-1]
		player.Hand.AddCard(card)
		drawn++
	}

	return drawn
}

func isRealColor(color deck.Color) bool {
	for _, c := range deck.Colors {
		if c == color {
			return true
		}
	}

	return false
}
