package bot

import (
	"testing"

	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"

	"github.com/stretchr/testify/assert"
)

func TestMemory_observesColorChoice(t *testing.T) {
	prev := testGame([]string{"p1", "p2"}, map[string]string{"p1": "g5,g3", "p2": "b7"}, "w", "", 0)
	prev.Phase = engine.PhaseChooseColor

	next := engine.Apply(prev, engine.ChooseColor{PlayerID: "p1", Color: deck.Green})

	mem := NewMemory()
	mem.Observe(prev, next)

	assert.Greater(t, mem.ColorLikelihood("p1", deck.Green), 0.0)
	assert.Equal(t, 0.0, mem.ColorLikelihood("p1", deck.Blue))
}

func TestMemory_observesPlayedCard(t *testing.T) {
	prev := testGame([]string{"p1", "p2"}, map[string]string{"p1": "r5,g3", "p2": "b7"}, "r2", deck.Red, 0)
	next := engine.Apply(prev, engine.PlayCard{PlayerID: "p1", CardID: "r5"})

	mem := NewMemory()
	mem.Observe(prev, next)

	assert.Greater(t, mem.ColorLikelihood("p1", deck.Red), 0.0)
}

func TestMemory_observesWildPlay(t *testing.T) {
	prev := testGame([]string{"p1", "p2"}, map[string]string{"p1": "w,g3", "p2": "b7"}, "r2", deck.Red, 0)
	next := engine.Apply(prev, engine.PlayCard{PlayerID: "p1", CardID: "w"})

	mem := NewMemory()
	mem.Observe(prev, next)

	assert.Greater(t, mem.WildSuspicion("p1"), 0.0)
}

func TestMemory_observesFailureToFollowColor(t *testing.T) {
	prev := testGame([]string{"p1", "p2"}, map[string]string{"p1": "g5,g3", "p2": "b7"}, "r2", deck.Red, 0)
	// the drawn card is not playable, so the hand grows
	prev.DrawPile = deck.CardsFromString("b9")

	next := engine.Apply(prev, engine.DrawCard{PlayerID: "p1"})

	mem := NewMemory()
	mem.Observe(prev, next)

	assert.Less(t, mem.ColorLikelihood("p1", deck.Red), 0.0)
}

func TestMemory_resetsOnNewGame(t *testing.T) {
	mem := NewMemory()
	mem.version = 50
	mem.seat("p1").colors[deck.Red] = 2.0

	// version regressed: a new game started
	prev := testGame([]string{"p1", "p2"}, map[string]string{"p1": "r5", "p2": "b7"}, "r2", deck.Red, 0)
	prev.Version = 2
	next := engine.Apply(prev, engine.PlayCard{PlayerID: "p1", CardID: "r5"})

	mem.Observe(prev, next)
	assert.Equal(t, 0.5, mem.ColorLikelihood("p1", deck.Red))
}

func TestMemory_neverUsesHiddenInformation(t *testing.T) {
	// p2 secretly holds nothing but yellow; no observation may reflect that
	prev := testGame([]string{"p1", "p2"}, map[string]string{"p1": "r5,g3", "p2": "y1,y2,y3"}, "r2", deck.Red, 0)
	next := engine.Apply(prev, engine.PlayCard{PlayerID: "p1", CardID: "r5"})

	mem := NewMemory()
	mem.Observe(prev, next)

	assert.Equal(t, 0.0, mem.ColorLikelihood("p2", deck.Yellow))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	m1 := store.ForRoom("room1")
	m2 := store.ForRoom("room2")
	assert.NotSame(t, m1, m2)
	assert.Same(t, m1, store.ForRoom("room1"))

	store.Forget("room1")
	assert.NotSame(t, m1, store.ForRoom("room1"))
}
