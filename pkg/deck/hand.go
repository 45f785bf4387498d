package deck

// Hand represents a collection of cards held by a seat
type Hand []Card

// AddCard adds a card to the hand
func (h *Hand) AddCard(card Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains a card with the specified ID
func (h Hand) HasCard(cardID string) bool {
	return h.IndexOfCard(cardID) >= 0
}

// IndexOfCard returns the index of the card with the specified ID, or -1
func (h Hand) IndexOfCard(cardID string) int {
	for i, c := range h {
		if c.ID == cardID {
			return i
		}
	}

	return -1
}

// RemoveCard removes and returns the card with the specified ID
// The second return value is false if the card is not in the hand.
func (h *Hand) RemoveCard(cardID string) (Card, bool) {
	i := h.IndexOfCard(cardID)
	if i < 0 {
		return Card{}, false
	}

	card := (*h)[i]
	*h = append((*h)[:i:i], (*h)[i+1:]...)
	return card, true
}

// CountColor returns the number of cards of the given real color in the hand
// Wild cards never count towards a color.
func (h Hand) CountColor(color Color) int {
	count := 0
	for _, c := range h {
		if c.Color == color {
			count++
		}
	}

	return count
}

// MostAbundantColor returns the real color the hand holds the most of
// Ties break in the fixed order red, green, blue, yellow for determinism.
func (h Hand) MostAbundantColor() Color {
	best := Red
	bestCount := -1
	for _, color := range Colors {
		if count := h.CountColor(color); count > bestCount {
			best = color
			bestCount = count
		}
	}

	return best
}

// Clone returns a copy of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}

func (h Hand) String() string {
	return CardsToString(h)
}
