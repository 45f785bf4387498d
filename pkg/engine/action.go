package engine

import "drawfour-server/pkg/deck"

// ActionType identifies an action variant
type ActionType string

// action type constants
const (
	TypeStartGame    ActionType = "startGame"
	TypePlayCard     ActionType = "playCard"
	TypeChooseColor  ActionType = "chooseColor"
	TypeDrawCard     ActionType = "drawCard"
	TypePlayerJoin   ActionType = "playerJoin"
	TypePlayerLeave  ActionType = "playerLeave"
	TypeSetConnected ActionType = "setConnected"
)

// Action is a closed union of the rules engine's action variants.
// Only types in this package implement it.
type Action interface {
	Type() ActionType

	// Actor returns the seat ID the action claims to act for, or "" for
	// host-scoped actions. The sync layer compares it against the sender.
	Actor() string
}

// StartGame deals a new round. Valid only from the lobby or after a round ends.
// Seed drives the shuffle; the dispatcher fills it so the transition stays a
// pure function of (state, action).
type StartGame struct {
	Seed int64
}

// PlayCard plays a card from the current seat's hand
type PlayCard struct {
	PlayerID string
	CardID   string
}

// ChooseColor resolves a pending wild-card color choice
type ChooseColor struct {
	PlayerID string
	Color    deck.Color
}

// DrawCard draws from the pile: the full pending count during a forced-draw
// confrontation, otherwise a single card (auto-played when immediately legal).
type DrawCard struct {
	PlayerID string
}

// PlayerJoin seats a new player. Valid only in the lobby.
type PlayerJoin struct {
	PlayerID string
	Name     string
	IsBot    bool
}

// PlayerLeave removes a seat. Valid only in the lobby.
type PlayerLeave struct {
	PlayerID string
}

// SetConnected flags a seat's transport connectivity. Host-scoped; never
// accepted from a remote intent.
type SetConnected struct {
	PlayerID  string
	Connected bool
}

// Type implements Action
func (StartGame) Type() ActionType { return TypeStartGame }

// Type implements Action
func (PlayCard) Type() ActionType { return TypePlayCard }

// Type implements Action
func (ChooseColor) Type() ActionType { return TypeChooseColor }

// Type implements Action
func (DrawCard) Type() ActionType { return TypeDrawCard }

// Type implements Action
func (PlayerJoin) Type() ActionType { return TypePlayerJoin }

// Type implements Action
func (PlayerLeave) Type() ActionType { return TypePlayerLeave }

// Type implements Action
func (SetConnected) Type() ActionType { return TypeSetConnected }

// Actor implements Action
func (StartGame) Actor() string { return "" }

// Actor implements Action
func (a PlayCard) Actor() string { return a.PlayerID }

// Actor implements Action
func (a ChooseColor) Actor() string { return a.PlayerID }

// Actor implements Action
func (a DrawCard) Actor() string { return a.PlayerID }

// Actor implements Action
func (PlayerJoin) Actor() string { return "" }

// Actor implements Action
func (a PlayerLeave) Actor() string { return a.PlayerID }

// Actor implements Action
func (SetConnected) Actor() string { return "" }
