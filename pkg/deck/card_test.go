package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardFromString(t *testing.T) {
	card := CardFromString("r5")
	assert.Equal(t, Card{ID: "r5", Kind: Number, Color: Red, Number: 5}, card)

	assert.Equal(t, Card{ID: "gs", Kind: Skip, Color: Green}, CardFromString("gs"))
	assert.Equal(t, Card{ID: "br", Kind: Reverse, Color: Blue}, CardFromString("br"))
	assert.Equal(t, Card{ID: "yd", Kind: DrawTwo, Color: Yellow}, CardFromString("yd"))
	assert.Equal(t, Card{ID: "w", Kind: WildCard, Color: Wild}, CardFromString("w"))
	assert.Equal(t, Card{ID: "w4", Kind: WildDrawFour, Color: Wild}, CardFromString("w4"))

	// duplicate discriminator keeps the ID but not the identity
	dupe := CardFromString("r5#2")
	assert.Equal(t, "r5#2", dupe.ID)
	assert.Equal(t, Number, dupe.Kind)
	assert.Equal(t, 5, dupe.Number)

	assert.Panics(t, func() {
		CardFromString("x9")
	})
}

func TestCard_String(t *testing.T) {
	assert.Equal(t, "r5", CardFromString("r5").String())
	assert.Equal(t, "gs", CardFromString("gs").String())
	assert.Equal(t, "w4", CardFromString("w4").String())
	assert.Equal(t, "r5", CardFromString("r5#3").String())
}

func TestCard_IsWild(t *testing.T) {
	assert.True(t, CardFromString("w").IsWild())
	assert.True(t, CardFromString("w4").IsWild())
	assert.False(t, CardFromString("rd").IsWild())
	assert.False(t, CardFromString("r5").IsWild())
}

func TestCard_IsForcedDraw(t *testing.T) {
	assert.True(t, CardFromString("rd").IsForcedDraw())
	assert.True(t, CardFromString("w4").IsForcedDraw())
	assert.False(t, CardFromString("w").IsForcedDraw())
	assert.False(t, CardFromString("rs").IsForcedDraw())
}

func TestCardsFromString(t *testing.T) {
	cards := CardsFromString("r5,gs,w4")
	assert.Equal(t, 3, len(cards))
	assert.Equal(t, "r5,gs,w4", CardsToString(cards))

	assert.Equal(t, []Card{}, CardsFromString(""))
}
