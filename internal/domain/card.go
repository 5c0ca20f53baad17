package domain

import "github.com/google/uuid"

// Suit is one of the four French suits, or the sentinel joker suit.
type Suit string

const (
	Hearts   Suit = "Hearts"
	Spades   Suit = "Spades"
	Diamonds Suit = "Diamonds"
	Clubs    Suit = "Clubs"
	// SuitJoker is carried only by the two jokers.
	SuitJoker Suit = "Joker"
)

// Value is a card face value.
type Value string

const (
	Two   Value = "2"
	Three Value = "3"
	Four  Value = "4"
	Five  Value = "5"
	Six   Value = "6"
	Seven Value = "7"
	Eight Value = "8"
	Nine  Value = "9"
	Ten   Value = "10"
	Jack  Value = "J"
	Queen Value = "Q"
	King  Value = "K"
	Ace   Value = "A"
	// ValueJoker is the wild joker value.
	ValueJoker Value = "Joker"
)

// StandardSuits are the suits dealt thirteen cards each.
var StandardSuits = []Suit{Hearts, Spades, Diamonds, Clubs}

// StandardValues are the thirteen non-joker face values.
var StandardValues = []Value{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// AllValues is every value a deck can contain, jokers included.
var AllValues = append(append([]Value{}, StandardValues...), ValueJoker)

// Card is a single physical card. A hand may hold two cards with the same
// suit and value as distinct objects, so identity is the ID, never the faces.
type Card struct {
	ID    string `json:"id"`
	Suit  Suit   `json:"suit"`
	Value Value  `json:"value"`
}

// NewCard mints a card with a fresh identity.
func NewCard(suit Suit, value Value) Card {
	return Card{ID: uuid.NewString(), Suit: suit, Value: value}
}

// IsQuestionCard reports whether the card demands an answer from the player
// who laid it (Q or 8).
func IsQuestionCard(c Card) bool {
	return c.Value == Queen || c.Value == Eight
}

// IsActionValue reports whether a value carries a gameplay effect. A game may
// neither open nor finish on an action card.
func IsActionValue(v Value) bool {
	switch v {
	case Two, Three, Jack, King, Queen, Eight, ValueJoker, Ace:
		return true
	}
	return false
}

// CanCounterPenalty reports whether a value may answer a pending draw
// penalty instead of drawing.
func CanCounterPenalty(v Value) bool {
	switch v {
	case Two, Three, ValueJoker, Jack, King, Ace:
		return true
	}
	return false
}
