package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Color represents a card color
type Color string

// color constants
const (
	Red    Color = "red"
	Green  Color = "green"
	Blue   Color = "blue"
	Yellow Color = "yellow"
	// Wild is the intrinsic color of wild cards before a color is chosen
	Wild Color = "wild"
)

// Colors is the set of real (non-wild) colors in deterministic order
var Colors = []Color{Red, Green, Blue, Yellow}

// Kind represents a card kind
type Kind string

// kind constants
const (
	Number       Kind = "number"
	Skip         Kind = "skip"
	Reverse      Kind = "reverse"
	DrawTwo      Kind = "drawTwo"
	WildCard     Kind = "wild"
	WildDrawFour Kind = "wildDrawFour"
)

// Card is an individual playing card
// Cards are immutable values; they are created once at deck-build time and only
// change ownership (deck, hand, discard) after that.
type Card struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Color Color  `json:"color"`
	// Number is only meaningful when Kind is Number
	Number int `json:"number"`
}

func (c Card) String() string {
	switch c.Kind {
	case WildCard:
		return "w"
	case WildDrawFour:
		return "w4"
	}

	var color string
	switch c.Color {
	case Red:
		color = "r"
	case Green:
		color = "g"
	case Blue:
		color = "b"
	case Yellow:
		color = "y"
	default:
		panic("unknown color")
	}

	switch c.Kind {
	case Number:
		return fmt.Sprintf("%s%d", color, c.Number)
	case Skip:
		return color + "s"
	case Reverse:
		return color + "r"
	case DrawTwo:
		return color + "d"
	}

	panic("unknown kind")
}

// IsWild returns true for wild and wild-draw-four cards
func (c Card) IsWild() bool {
	return c.Kind == WildCard || c.Kind == WildDrawFour
}

// IsForcedDraw returns true for cards that add to the pending draw count
func (c Card) IsForcedDraw() bool {
	return c.Kind == DrawTwo || c.Kind == WildDrawFour
}

var cardRx = regexp.MustCompile(`(?i)^(?:([rgby])([0-9]|[srd])|(w4?))(?:#\d+)?\z`)

// CardFromString returns a Card from a compact string like "r5", "gs", "br",
// "yd", "w", or "w4". A "#n" suffix distinguishes duplicate cards in fixtures.
// The card's ID is the full input string, so fixtures are deterministic.
func CardFromString(s string) Card {
	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	if match[3] != "" {
		kind := WildCard
		if strings.EqualFold(match[3], "w4") {
			kind = WildDrawFour
		}

		return Card{ID: s, Kind: kind, Color: Wild}
	}

	var color Color
	switch strings.ToLower(match[1]) {
	case "r":
		color = Red
	case "g":
		color = Green
	case "b":
		color = Blue
	case "y":
		color = Yellow
	}

	switch strings.ToLower(match[2]) {
	case "s":
		return Card{ID: s, Kind: Skip, Color: color}
	case "r":
		return Card{ID: s, Kind: Reverse, Color: color}
	case "d":
		return Card{ID: s, Kind: DrawTwo, Color: color}
	}

	number, err := strconv.Atoi(match[2])
	if err != nil {
		// should never be hit due to the regexp
		panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
	}

	return Card{ID: s, Kind: Number, Color: color, Number: number}
}

// CardsFromString will return a slice of cards from a comma-separated string
func CardsFromString(s string) []Card {
	if s == "" {
		return []Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardsToString will convert a slice of cards to a string in the format of r5,gs,w4,...
func CardsToString(cards []Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = card.String()
	}

	return strings.Join(c, ",")
}
