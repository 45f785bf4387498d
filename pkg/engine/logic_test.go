package engine

import (
	"fmt"
	"testing"

	"drawfour-server/pkg/deck"

	"github.com/stretchr/testify/assert"
)

func TestNextIndex(t *testing.T) {
	assert.Equal(t, 1, NextIndex(0, 4, 1))
	assert.Equal(t, 0, NextIndex(3, 4, 1))
	assert.Equal(t, 3, NextIndex(0, 4, -1))
	assert.Equal(t, 2, NextIndex(3, 4, -1))
	assert.Equal(t, 0, NextIndex(1, 2, 1))
}

func legalityState(top string, active deck.Color, pending int) *State {
	s := NewState("room", "a")
	topCard := deck.CardFromString(top)
	s.TopCard = &topCard
	s.ActiveColor = active
	s.PendingDraw = pending
	s.Phase = PhaseTurn
	return s
}

func TestIsValidMove(t *testing.T) {
	tests := []struct {
		card    string
		top     string
		active  deck.Color
		pending int
		want    bool
	}{
		// color match
		{"r5", "r2", deck.Red, 0, true},
		{"g5", "r2", deck.Red, 0, false},
		// number match across colors
		{"g2", "r2", deck.Red, 0, true},
		{"g3", "r2", deck.Red, 0, false},
		// kind match for actions
		{"gs", "rs", deck.Red, 0, true},
		{"gr", "rs", deck.Red, 0, false},
		// active color wins over the card's printed color after a wild
		{"b9", "w", deck.Blue, 0, true},
		{"r9", "w", deck.Blue, 0, false},
		// wilds always legal outside a stack
		{"w", "r2", deck.Red, 0, true},
		{"w4", "r2", deck.Red, 0, true},
		// stack confrontation: only counter-stacking is legal
		{"gd", "rd", deck.Red, 2, true},
		{"w4", "rd", deck.Red, 2, true},
		{"rd", "w4", deck.Blue, 4, true},
		{"w4#2", "w4", deck.Blue, 4, true},
		// color match does not escape a stack
		{"r5", "rd", deck.Red, 2, false},
		{"w", "rd", deck.Red, 2, false},
		{"b5", "w4", deck.Blue, 4, false},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("%s on %s (%s, pending %d)", test.card, test.top, test.active, test.pending), func(t *testing.T) {
			s := legalityState(test.top, test.active, test.pending)
			assert.Equal(t, test.want, IsValidMove(deck.CardFromString(test.card), s))
		})
	}
}

func TestIsValidMove_noTopCard(t *testing.T) {
	s := NewState("room", "a")
	s.Phase = PhaseTurn
	assert.True(t, IsValidMove(deck.CardFromString("r5"), s))
	assert.True(t, IsValidMove(deck.CardFromString("w4"), s))
}

func TestCanPlayAny(t *testing.T) {
	s := legalityState("r2", deck.Red, 0)
	assert.True(t, CanPlayAny(deck.CardsFromString("g9,r7"), s))
	assert.False(t, CanPlayAny(deck.CardsFromString("g9,b7"), s))
	assert.False(t, CanPlayAny(deck.Hand{}, s))
}

func TestEvaluateCardEffect(t *testing.T) {
	effect := EvaluateCardEffect(deck.CardFromString("r5"), 0, 1, 4)
	assert.Equal(t, CardEffect{PendingDraw: 0, Direction: 1}, effect)

	effect = EvaluateCardEffect(deck.CardFromString("rs"), 0, 1, 4)
	assert.True(t, effect.SkipNext)

	// reverse flips direction with more than two seats
	effect = EvaluateCardEffect(deck.CardFromString("rr"), 0, 1, 4)
	assert.Equal(t, -1, effect.Direction)
	assert.False(t, effect.SkipNext)

	// with two seats a reverse is a skip
	effect = EvaluateCardEffect(deck.CardFromString("rr"), 0, 1, 2)
	assert.Equal(t, 1, effect.Direction)
	assert.True(t, effect.SkipNext)

	effect = EvaluateCardEffect(deck.CardFromString("rd"), 2, 1, 4)
	assert.Equal(t, 4, effect.PendingDraw)

	effect = EvaluateCardEffect(deck.CardFromString("w"), 0, 1, 4)
	assert.True(t, effect.RequiresColorChoice)
	assert.Equal(t, 0, effect.PendingDraw)

	effect = EvaluateCardEffect(deck.CardFromString("w4"), 2, 1, 4)
	assert.True(t, effect.RequiresColorChoice)
	assert.Equal(t, 6, effect.PendingDraw)
}
