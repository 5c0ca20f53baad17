package bot

import (
	"cardi/internal/domain"
)

// ActionKind is the shape of a bot decision.
type ActionKind int

const (
	ActionPlay ActionKind = iota
	ActionDraw
	ActionPass
)

// Action is one turn decision. DeclareCardi asks for a Cardi call before the
// action is applied; rooms gating the call may reject it, which is fine.
type Action struct {
	Kind         ActionKind
	CardIDs      []string
	ChosenSuit   domain.Suit
	DeclareCardi bool
}

// Decide picks a move for the bot holding the turn. Single-card plays only;
// legal non-action cards are preferred so penalties and questions are saved
// for when nothing else fits.
func Decide(room *domain.Room, p *domain.Player) Action {
	if room.HasActed && !room.QuestionPending {
		return Action{Kind: ActionPass}
	}
	if len(p.Hand) == 0 {
		return Action{Kind: ActionDraw}
	}

	top, ok := room.TopCard()
	if !ok {
		return Action{Kind: ActionDraw}
	}

	pick := pickCard(room, p, top)
	if pick == nil {
		return Action{Kind: ActionDraw}
	}

	action := Action{
		Kind:         ActionPlay,
		CardIDs:      []string{pick.ID},
		DeclareCardi: len(p.Hand) <= 2,
	}
	if pick.Value == domain.Ace {
		action.ChosenSuit = preferredSuit(p.Hand, pick.ID)
	}
	return action
}

func pickCard(room *domain.Room, p *domain.Player, top domain.Card) *domain.Card {
	var fallback *domain.Card
	for i := range p.Hand {
		c := &p.Hand[i]
		if !domain.IsValidPlay(*c, top, room) {
			continue
		}
		if !domain.IsActionValue(c.Value) {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

// preferredSuit is the suit the bot holds the most of, skipping the card
// about to be played and the jokers.
func preferredSuit(hand []domain.Card, excludeID string) domain.Suit {
	counts := map[domain.Suit]int{}
	best := domain.Hearts
	for _, c := range hand {
		if c.ID == excludeID || c.Suit == domain.SuitJoker {
			continue
		}
		counts[c.Suit]++
		if counts[c.Suit] > counts[best] {
			best = c.Suit
		}
	}
	return best
}
