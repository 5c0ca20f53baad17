package domain

// DeckSize is the full Cardi deck: 52 standard cards plus two jokers.
const DeckSize = 54

// NewDeck returns an ordered 54-card deck. Callers shuffle it themselves so
// the randomness source stays under their control.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range StandardSuits {
		for _, v := range StandardValues {
			deck = append(deck, NewCard(s, v))
		}
	}
	deck = append(deck, NewCard(SuitJoker, ValueJoker))
	deck = append(deck, NewCard(SuitJoker, ValueJoker))
	return deck
}
