package engine

import "drawfour-server/pkg/deck"

// NextIndex moves one step through the seat order in the given direction
func NextIndex(current, seatCount, direction int) int {
	next := (current + direction) % seatCount
	if next < 0 {
		next += seatCount
	}

	return next
}

// IsValidMove returns true if the card is a legal play given the top card, the
// active color, and any outstanding forced draw.
//
// While a forced draw is outstanding, only counter-stacking is legal: draw-two
// on draw-two, wild-draw-four on wild-draw-four, or either on the other. Color
// and number matching never apply inside a stack confrontation, so a seat
// cannot escape the draw by color-matching.
func IsValidMove(card deck.Card, s *State) bool {
	if s.PendingDraw > 0 {
		if s.TopCard == nil {
			return false
		}

		return s.TopCard.IsForcedDraw() && card.IsForcedDraw()
	}

	if card.IsWild() {
		return true
	}

	if card.Color == s.ActiveColor {
		return true
	}

	// no top card should only occur before the first deal
	if s.TopCard == nil {
		return true
	}

	if card.Kind == s.TopCard.Kind {
		if card.Kind == deck.Number {
			return card.Number == s.TopCard.Number
		}

		return true
	}

	return false
}

// CanPlayAny returns true if any card in the hand is a legal play
func CanPlayAny(hand deck.Hand, s *State) bool {
	for _, card := range hand {
		if IsValidMove(card, s) {
			return true
		}
	}

	return false
}

// CardEffect is the outcome of resolving a played card
type CardEffect struct {
	PendingDraw         int
	Direction           int
	SkipNext            bool
	RequiresColorChoice bool
}

// EvaluateCardEffect computes the state changes a card causes when played.
// With two seats a reverse behaves exactly like a skip.
func EvaluateCardEffect(card deck.Card, pendingDraw, direction, seatCount int) CardEffect {
	effect := CardEffect{
		PendingDraw: pendingDraw,
		Direction:   direction,
	}

	switch card.Kind {
	case deck.Skip:
		effect.SkipNext = true
	case deck.Reverse:
		if seatCount == 2 {
			effect.SkipNext = true
		} else {
			effect.Direction = -direction
		}
	case deck.DrawTwo:
		effect.PendingDraw += 2
	case deck.WildCard:
		effect.RequiresColorChoice = true
	case deck.WildDrawFour:
		effect.PendingDraw += 4
		effect.RequiresColorChoice = true
	}

	return effect
}
