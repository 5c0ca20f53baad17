package domain

// EffectKind tags the gameplay effect a card value carries.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectPenalty
	EffectSkip
	EffectReverse
	EffectAce
	EffectQuestion
)

// Effect pairs a kind with its penalty weight.
type Effect struct {
	Kind    EffectKind
	Penalty int
}

// effectTable is total over AllValues so a new deck value cannot be silently
// ignored; the domain tests assert completeness.
var effectTable = map[Value]Effect{
	Two:        {Kind: EffectPenalty, Penalty: 2},
	Three:      {Kind: EffectPenalty, Penalty: 3},
	Four:       {Kind: EffectNone},
	Five:       {Kind: EffectNone},
	Six:        {Kind: EffectNone},
	Seven:      {Kind: EffectNone},
	Eight:      {Kind: EffectQuestion},
	Nine:       {Kind: EffectNone},
	Ten:        {Kind: EffectNone},
	Jack:       {Kind: EffectSkip},
	Queen:      {Kind: EffectQuestion},
	King:       {Kind: EffectReverse},
	Ace:        {Kind: EffectAce},
	ValueJoker: {Kind: EffectPenalty, Penalty: 5},
}

// EffectOf returns the effect for a card value.
func EffectOf(v Value) Effect {
	return effectTable[v]
}

// AutoAdvances reports whether a play of this value ends the turn on its own,
// with no separate pass required.
func AutoAdvances(v Value) bool {
	switch v {
	case Two, Three, ValueJoker, Jack, King, Ace:
		return true
	}
	return false
}

// ApplyEffect resolves the special-card effect of the last card played.
// penaltyWasActive is whether a draw penalty was pending before this play
// reached the table; chosenSuit is the suit the player nominated alongside a
// wild ace, if any. Any previously live suit override is cleared first, since
// an override lasts for exactly one subsequent play.
func ApplyEffect(room *Room, played Card, penaltyWasActive bool, chosenSuit Suit) {
	room.ActiveSuit = ""

	switch e := EffectOf(played.Value); e.Kind {
	case EffectPenalty:
		room.DrawPenalty += e.Penalty
	case EffectSkip:
		room.SkipNext = true
	case EffectReverse:
		room.Direction = -room.Direction
	case EffectAce:
		room.DrawPenalty = 0
		if penaltyWasActive {
			// The counter exposes the card beneath the ace; its suit
			// becomes the override unless it is a joker.
			if beneath, ok := room.CardBeneathTop(); ok && beneath.Value != ValueJoker {
				room.ActiveSuit = beneath.Suit
			}
		} else if chosenSuit != "" {
			room.ActiveSuit = chosenSuit
		}
	case EffectQuestion:
		room.QuestionPending = true
	}
}
