package domain

// IsValidPlay reports whether a single card may be played onto the table.
// Checks resolve in a fixed priority order: a wild joker on top opens
// everything up, then a pending penalty restricts play to counters, then an
// active-suit override, then a pending question, and only last the default
// suit/value matching. Penalty before matching, or a player could slip out of
// a penalty with an unrelated card; question before the default ace rule, or
// an ace would bypass the suit requirement of an answer.
func IsValidPlay(card Card, top Card, room *Room) bool {
	if top.Value == ValueJoker && room.DrawPenalty == 0 {
		return true
	}

	if room.DrawPenalty > 0 {
		if !CanCounterPenalty(card.Value) {
			return false
		}
		if room.Rules.RestrictJKCounters && (card.Value == Jack || card.Value == King) {
			return false
		}
		if room.Rules.MatchShapeForCounter && card.Value != Ace && card.Suit != top.Suit {
			return false
		}
		return true
	}

	if room.ActiveSuit != "" {
		return card.Suit == room.ActiveSuit || card.Value == Ace
	}

	if room.QuestionPending {
		return card.Suit == top.Suit || card.Value == Ace
	}

	if card.Value == Ace || card.Value == ValueJoker {
		return true
	}
	return card.Suit == top.Suit || card.Value == top.Value
}

// CanPlayMultiple reports whether a batch of cards may be played together.
// A batch is legal when it is non-empty and either every card shares one
// value, or every card is a question card of one suit; in both shapes at
// least one card must individually pass IsValidPlay.
func CanPlayMultiple(cards []Card, top Card, room *Room) bool {
	if len(cards) == 0 {
		return false
	}

	sameValue := true
	for _, c := range cards[1:] {
		if c.Value != cards[0].Value {
			sameValue = false
			break
		}
	}

	questionRun := true
	for _, c := range cards {
		if !IsQuestionCard(c) || c.Suit != cards[0].Suit {
			questionRun = false
			break
		}
	}

	if !sameValue && !questionRun {
		return false
	}
	for _, c := range cards {
		if IsValidPlay(c, top, room) {
			return true
		}
	}
	return false
}

// IsAllowedToFinishWith reports whether the game may end on this card.
// Action cards never finish a game.
func IsAllowedToFinishWith(card Card) bool {
	return !IsActionValue(card.Value)
}
