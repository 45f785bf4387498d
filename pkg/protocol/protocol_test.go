package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"
)

func TestEnvelope_roundTrip(t *testing.T) {
	env, err := NewEnvelope(TypeJoin, "ROOM", "p1", Join{Name: "Alice"})
	assert.NoError(t, err)

	data, err := json.Marshal(env)
	assert.NoError(t, err)

	parsed, err := ParseEnvelope(data)
	assert.NoError(t, err)
	assert.Equal(t, TypeJoin, parsed.Type)
	assert.Equal(t, "ROOM", parsed.RoomID)
	assert.Equal(t, "p1", parsed.SenderID)

	join, err := parsed.DecodeJoin()
	assert.NoError(t, err)
	assert.Equal(t, "Alice", join.Name)
	assert.Empty(t, join.Token)
}

func TestParseEnvelope_rejectsGarbage(t *testing.T) {
	_, err := ParseEnvelope([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseEnvelope([]byte(`{"roomId":"ROOM"}`))
	assert.EqualError(t, err, "envelope is missing a type")
}

func TestEnvelope_decodeWrongType(t *testing.T) {
	env, err := NewEnvelope(TypeError, "ROOM", "", Error{Code: CodeRoomFull, Message: "room is full"})
	assert.NoError(t, err)

	_, err = env.DecodeJoin()
	assert.EqualError(t, err, "expected join message, got error")

	p, err := env.DecodeError()
	assert.NoError(t, err)
	assert.Equal(t, CodeRoomFull, p.Code)
}

func TestAction_roundTrip(t *testing.T) {
	actions := []engine.Action{
		engine.StartGame{Seed: 42},
		engine.PlayCard{PlayerID: "p1", CardID: "r5"},
		engine.ChooseColor{PlayerID: "p1", Color: deck.Green},
		engine.DrawCard{PlayerID: "p2"},
	}

	for _, action := range actions {
		t.Run(string(action.Type()), func(t *testing.T) {
			data, err := json.Marshal(Action{action})
			assert.NoError(t, err)

			var decoded Action
			assert.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, action, decoded.Action)
		})
	}
}

func TestAction_rejectsHostOnlyActions(t *testing.T) {
	_, err := json.Marshal(Action{engine.PlayerJoin{PlayerID: "p1", Name: "Alice"}})
	assert.Error(t, err)

	_, err = json.Marshal(Action{engine.SetConnected{PlayerID: "p1"}})
	assert.Error(t, err)

	var decoded Action
	assert.EqualError(t, json.Unmarshal([]byte(`{"type":"playerJoin","playerId":"p1"}`), &decoded),
		`unknown action type "playerJoin"`)
}

func TestAction_rejectsUnknownType(t *testing.T) {
	var decoded Action
	err := json.Unmarshal([]byte(`{"type":"cheat"}`), &decoded)
	assert.EqualError(t, err, `unknown action type "cheat"`)
}

func TestDecodeIntent(t *testing.T) {
	env, err := NewEnvelope(TypeIntent, "ROOM", "p1", Intent{Action: Action{engine.DrawCard{PlayerID: "p1"}}})
	assert.NoError(t, err)

	intent, err := env.DecodeIntent()
	assert.NoError(t, err)
	assert.Equal(t, engine.DrawCard{PlayerID: "p1"}, intent.Action.Action)
}

func TestDecodeIntent_missingAction(t *testing.T) {
	env := &Envelope{Type: TypeIntent, Payload: json.RawMessage(`{}`)}
	_, err := env.DecodeIntent()
	assert.Error(t, err)
}

func TestStateUpdate_carriesProjection(t *testing.T) {
	s := engine.NewState("ROOM", "p1")
	s = engine.Apply(s, engine.PlayerJoin{PlayerID: "p1", Name: "Alice"})
	s = engine.Apply(s, engine.PlayerJoin{PlayerID: "p2", Name: "Bob"})

	env, err := NewEnvelope(TypeStateUpdate, "ROOM", "p1", StateUpdate{State: s.PublicProjection(), Seq: 7})
	assert.NoError(t, err)

	update, err := env.DecodeStateUpdate()
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), update.Seq)
	assert.Equal(t, s.Version, update.State.Version)
	assert.Len(t, update.State.Players, 2)
}

func TestHandUpdate_roundTrip(t *testing.T) {
	hand := deck.CardsFromString("r5,gS,w")
	env, err := NewEnvelope(TypeHandUpdate, "ROOM", "", HandUpdate{Hand: hand})
	assert.NoError(t, err)

	update, err := env.DecodeHandUpdate()
	assert.NoError(t, err)
	assert.Equal(t, hand, update.Hand)
}
