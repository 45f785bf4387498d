// Package bot is the decision engine for AI seats. Given the authoritative
// game state it produces a legal action for a seat, using only information a
// human player at that seat could see: its own hand and the public state.
package bot

import (
	"hash/fnv"

	"drawfour-server/internal/rng"
	"drawfour-server/pkg/deck"
	"drawfour-server/pkg/engine"
)

// scoring weights, scaled by the profile tuning
const (
	continuityBonus  = 10.0
	actionBonus      = 5.0
	targetBonus      = 6.0
	wildPenalty      = 30.0
	orphanPenalty    = 2.0
	deadHandPenalty  = 4.0
	tieBreakWindow   = 1.0
	criticalHandSize = 2
)

// Decide returns the action the seat should take, or nil when it is not
// actually that seat's turn. When it is the seat's turn an action is always
// returned: drawing is legal whenever nothing else is.
func Decide(s *engine.State, seatID string, mem *Memory, tuning Tuning) engine.Action {
	if s.CurrentPlayerID() != seatID {
		return nil
	}

	player, ok := s.Players[seatID]
	if !ok {
		return nil
	}

	switch s.Phase {
	case engine.PhaseChooseColor:
		return engine.ChooseColor{
			PlayerID: seatID,
			Color:    chooseColor(s, seatID, player.Hand, mem, tuning),
		}
	case engine.PhaseTurn:
		// handled below
	default:
		return nil
	}

	if s.PendingDraw > 0 {
		return decideStack(s, seatID, player.Hand, mem, tuning)
	}

	return decideTurn(s, seatID, player.Hand, mem, tuning)
}

// chooseColor picks the seat's most abundant color, shaded away from colors
// the most dangerous opponent has shown they can follow.
func chooseColor(s *engine.State, seatID string, hand deck.Hand, mem *Memory, tuning Tuning) deck.Color {
	danger := ""
	if tuning.TargetingEnabled {
		danger = mostDangerousOpponent(s, seatID)
	}

	best := hand.MostAbundantColor()
	bestScore := -1e9
	for _, color := range deck.Colors {
		score := float64(hand.CountColor(color))
		if danger != "" && mem != nil && tuning.MemoryEnabled {
			score -= mem.ColorLikelihood(danger, color) * tuning.Aggression
		}

		if score > bestScore {
			best = color
			bestScore = score
		}
	}

	return best
}

// decideStack handles a forced-draw confrontation: stack if possible,
// otherwise absorb the draw.
func decideStack(s *engine.State, seatID string, hand deck.Hand, mem *Memory, tuning Tuning) engine.Action {
	var drawTwo, wildDrawFour *deck.Card
	for i, card := range hand {
		if !engine.IsValidMove(card, s) {
			continue
		}

		switch card.Kind {
		case deck.DrawTwo:
			if drawTwo == nil {
				drawTwo = &hand[i]
			}
		case deck.WildDrawFour:
			if wildDrawFour == nil {
				wildDrawFour = &hand[i]
			}
		}
	}

	if drawTwo == nil && wildDrawFour == nil {
		return engine.DrawCard{PlayerID: seatID}
	}

	// a wild draw four is a scarce resource: spend it only when no draw two is
	// available or a tracked opponent is about to go out
	spendWild := drawTwo == nil
	if !spendWild && wildDrawFour != nil && tuning.TargetingEnabled {
		if danger := mostDangerousOpponent(s, seatID); danger != "" {
			if p, ok := s.Players[danger]; ok && len(p.Hand) <= criticalHandSize {
				spendWild = true
			}
		}
	}

	if spendWild && wildDrawFour != nil {
		return engine.PlayCard{PlayerID: seatID, CardID: wildDrawFour.ID}
	}

	return engine.PlayCard{PlayerID: seatID, CardID: drawTwo.ID}
}

// decideTurn scores every legal card and plays the best one, or draws when
// nothing is legal.
func decideTurn(s *engine.State, seatID string, hand deck.Hand, mem *Memory, tuning Tuning) engine.Action {
	legal := make([]deck.Card, 0, len(hand))
	for _, card := range hand {
		if engine.IsValidMove(card, s) {
			legal = append(legal, card)
		}
	}

	if len(legal) == 0 {
		return engine.DrawCard{PlayerID: seatID}
	}

	danger := ""
	if tuning.TargetingEnabled {
		danger = mostDangerousOpponent(s, seatID)
	}

	gen := tieBreaker(s, seatID)
	bestColor := hand.MostAbundantColor()

	scores := make([]float64, len(legal))
	for i, card := range legal {
		scores[i] = scoreCard(s, seatID, hand, card, bestColor, danger, mem, tuning)
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	// near-ties resolve by a seeded, reproducible pick
	window := tieBreakWindow + tuning.Chaos*continuityBonus
	candidates := make([]int, 0, len(legal))
	for i, score := range scores {
		if scores[best]-score <= window {
			candidates = append(candidates, i)
		}
	}

	pick := candidates[gen.Intn(len(candidates))]
	return engine.PlayCard{PlayerID: seatID, CardID: legal[pick].ID}
}

func scoreCard(s *engine.State, seatID string, hand deck.Hand, card deck.Card, bestColor deck.Color, danger string, mem *Memory, tuning Tuning) float64 {
	score := 0.0

	// continuity: stay inside the color we are rich in
	if card.Color == bestColor {
		score += continuityBonus
	}

	// a wild now is a wild we do not have later
	if card.IsWild() {
		penalty := wildPenalty * tuning.ConserveWild
		if len(hand) <= 3 || dangerIsCritical(s, danger) {
			// closing out or under threat: spend it
			penalty /= 4
		}
		score -= penalty
	}

	threatened := dangerIsCritical(s, danger)

	// action cards are worth more when they can be aimed at the most
	// dangerous opponent's upcoming turn
	if card.Kind == deck.Skip || card.Kind == deck.Reverse || card.Kind == deck.DrawTwo {
		score += actionBonus * tuning.Aggression
		if danger != "" && nextSeat(s) == danger {
			score += targetBonus * tuning.Aggression
			if threatened {
				score += targetBonus * tuning.Aggression
			}
		}
	}

	// avoid stranding our own color as an unplayable singleton
	remaining := remainingAfter(hand, card.ID)
	if !card.IsWild() && remaining.CountColor(card.Color) == 1 {
		score -= orphanPenalty * tuning.RiskAversion
	}

	// a play that leaves no plausible follow-up invites a forced draw next turn
	if !card.IsWild() && !hasFollowUp(remaining, card) {
		score -= deadHandPenalty * tuning.RiskAversion
	}

	// shade toward colors the dangerous opponent has struggled with
	if danger != "" && mem != nil && tuning.MemoryEnabled && !card.IsWild() {
		score -= mem.ColorLikelihood(danger, card.Color) * tuning.Aggression
	}

	return score
}

// hasFollowUp reports whether any remaining card could plausibly be played on
// top of the card we are about to play
func hasFollowUp(remaining deck.Hand, played deck.Card) bool {
	for _, c := range remaining {
		if c.IsWild() || c.Color == played.Color || (c.Kind == played.Kind && (c.Kind != deck.Number || c.Number == played.Number)) {
			return true
		}
	}

	return false
}

func remainingAfter(hand deck.Hand, cardID string) deck.Hand {
	remaining := hand.Clone()
	_, _ = remaining.RemoveCard(cardID)
	return remaining
}

func dangerIsCritical(s *engine.State, danger string) bool {
	if danger == "" {
		return false
	}

	p, ok := s.Players[danger]
	return ok && len(p.Hand) <= criticalHandSize
}

// nextSeat returns the seat that would act after the current one
func nextSeat(s *engine.State) string {
	if len(s.Order) == 0 {
		return ""
	}

	idx := engine.NextIndex(s.CurrentIndex, len(s.Order), s.Direction)
	for lap := 0; lap < len(s.Order); lap++ {
		if p, ok := s.Players[s.Order[idx]]; ok && p.Connected {
			return s.Order[idx]
		}
		idx = engine.NextIndex(idx, len(s.Order), s.Direction)
	}

	return ""
}

// mostDangerousOpponent is the connected opponent with the fewest cards, ties
// broken by whoever acts soonest in turn order.
func mostDangerousOpponent(s *engine.State, seatID string) string {
	best := ""
	bestCards := 0
	bestDistance := 0

	for distance := 1; distance <= len(s.Order); distance++ {
		idx := s.CurrentIndex
		for step := 0; step < distance; step++ {
			idx = engine.NextIndex(idx, len(s.Order), s.Direction)
		}

		id := s.Order[idx]
		if id == seatID {
			continue
		}

		p, ok := s.Players[id]
		if !ok || !p.Connected {
			continue
		}

		if best == "" || len(p.Hand) < bestCards || (len(p.Hand) == bestCards && distance < bestDistance) {
			best = id
			bestCards = len(p.Hand)
			bestDistance = distance
		}
	}

	return best
}

// tieBreaker returns a deterministic generator for (room, seat, version), so
// a bot's choice is reproducible for a given state
func tieBreaker(s *engine.State, seatID string) rng.Generator {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.RoomID))
	_, _ = h.Write([]byte(seatID))

	return rng.NewSeeded(int64(h.Sum64() ^ s.Version*0x9e3779b97f4a7c15))
}
