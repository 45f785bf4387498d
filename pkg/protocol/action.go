package protocol

import (
	"encoding/json"
	"fmt"

	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"
)

// Action wraps an engine action with a tagged JSON encoding. Only actions a
// participant may propose are encodable; seat management actions stay inside
// the host and never cross the wire.
type Action struct {
	engine.Action
}

type actionWire struct {
	Type     engine.ActionType `json:"type"`
	PlayerID string            `json:"playerId,omitempty"`
	CardID   string            `json:"cardId,omitempty"`
	Color    deck.Color        `json:"color,omitempty"`
	Seed     int64             `json:"seed,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Action) MarshalJSON() ([]byte, error) {
	if a.Action == nil {
		return nil, fmt.Errorf("cannot marshal an empty action")
	}

	wire := actionWire{Type: a.Action.Type()}
	switch act := a.Action.(type) {
	case engine.StartGame:
		wire.Seed = act.Seed
	case engine.PlayCard:
		wire.PlayerID = act.PlayerID
		wire.CardID = act.CardID
	case engine.ChooseColor:
		wire.PlayerID = act.PlayerID
		wire.Color = act.Color
	case engine.DrawCard:
		wire.PlayerID = act.PlayerID
	default:
		return nil, fmt.Errorf("action %s cannot cross the wire", a.Action.Type())
	}

	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Action) UnmarshalJSON(data []byte) error {
	var wire actionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("could not decode action: %w", err)
	}

	switch wire.Type {
	case engine.TypeStartGame:
		a.Action = engine.StartGame{Seed: wire.Seed}
	case engine.TypePlayCard:
		a.Action = engine.PlayCard{PlayerID: wire.PlayerID, CardID: wire.CardID}
	case engine.TypeChooseColor:
		a.Action = engine.ChooseColor{PlayerID: wire.PlayerID, Color: wire.Color}
	case engine.TypeDrawCard:
		a.Action = engine.DrawCard{PlayerID: wire.PlayerID}
	default:
		return fmt.Errorf("unknown action type %q", wire.Type)
	}

	return nil
}
