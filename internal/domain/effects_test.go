package domain

import (
	"testing"
)

// Every deck value must carry an explicit effect entry, EffectNone included.
func TestEffectTableIsTotal(t *testing.T) {
	for _, v := range AllValues {
		if _, ok := effectTable[v]; !ok {
			t.Errorf("value %s has no effect entry", v)
		}
	}
	if len(effectTable) != len(AllValues) {
		t.Errorf("effect table has %d entries, deck has %d values", len(effectTable), len(AllValues))
	}
}

func TestApplyEffectPenalties(t *testing.T) {
	tests := []struct {
		value   Value
		penalty int
	}{
		{Two, 2},
		{Three, 3},
		{ValueJoker, 5},
	}
	for _, tt := range tests {
		room := NewRoom("TEST01", Rules{})
		room.DrawPenalty = 2
		ApplyEffect(room, card(Hearts, tt.value), true, "")
		if room.DrawPenalty != 2+tt.penalty {
			t.Errorf("%s: penalty = %d, want %d", tt.value, room.DrawPenalty, 2+tt.penalty)
		}
	}
}

func TestApplyEffectSkipAndReverse(t *testing.T) {
	room := NewRoom("TEST01", Rules{})

	ApplyEffect(room, card(Hearts, Jack), false, "")
	if !room.SkipNext {
		t.Error("jack should set the skip flag")
	}

	ApplyEffect(room, card(Hearts, King), false, "")
	if room.Direction != -1 {
		t.Errorf("king should reverse direction, got %d", room.Direction)
	}
	ApplyEffect(room, card(Spades, King), false, "")
	if room.Direction != 1 {
		t.Errorf("second king should restore direction, got %d", room.Direction)
	}
}

func TestApplyEffectQuestion(t *testing.T) {
	for _, v := range []Value{Queen, Eight} {
		room := NewRoom("TEST01", Rules{})
		ApplyEffect(room, card(Hearts, v), false, "")
		if !room.QuestionPending {
			t.Errorf("%s should mark a pending question", v)
		}
	}
}

func TestApplyEffectAce(t *testing.T) {
	t.Run("chosen suit becomes the override", func(t *testing.T) {
		room := NewRoom("TEST01", Rules{})
		room.PushPlayed(card(Hearts, Seven))
		room.PushPlayed(card(Spades, Ace))
		ApplyEffect(room, card(Spades, Ace), false, Clubs)
		if room.ActiveSuit != Clubs {
			t.Errorf("active suit = %q, want %q", room.ActiveSuit, Clubs)
		}
	})

	t.Run("counter picks up the suit beneath", func(t *testing.T) {
		room := NewRoom("TEST01", Rules{})
		room.DrawPenalty = 2
		room.PushPlayed(card(Diamonds, Two))
		room.PushPlayed(card(Spades, Ace))
		ApplyEffect(room, card(Spades, Ace), true, "")
		if room.DrawPenalty != 0 {
			t.Errorf("penalty = %d, want 0", room.DrawPenalty)
		}
		if room.ActiveSuit != Diamonds {
			t.Errorf("active suit = %q, want %q", room.ActiveSuit, Diamonds)
		}
	})

	t.Run("counter over a joker sets no override", func(t *testing.T) {
		room := NewRoom("TEST01", Rules{})
		room.DrawPenalty = 5
		room.PushPlayed(card(SuitJoker, ValueJoker))
		room.PushPlayed(card(Spades, Ace))
		ApplyEffect(room, card(Spades, Ace), true, "")
		if room.ActiveSuit != "" {
			t.Errorf("active suit = %q, want none", room.ActiveSuit)
		}
	})

	t.Run("chosen suit ignored when countering", func(t *testing.T) {
		room := NewRoom("TEST01", Rules{})
		room.DrawPenalty = 2
		room.PushPlayed(card(Diamonds, Two))
		room.PushPlayed(card(Spades, Ace))
		ApplyEffect(room, card(Spades, Ace), true, Hearts)
		if room.ActiveSuit != Diamonds {
			t.Errorf("active suit = %q, want %q", room.ActiveSuit, Diamonds)
		}
	})
}

func TestApplyEffectClearsStaleOverride(t *testing.T) {
	room := NewRoom("TEST01", Rules{})
	room.ActiveSuit = Spades
	ApplyEffect(room, card(Spades, Nine), false, "")
	if room.ActiveSuit != "" {
		t.Errorf("override should clear on any play, got %q", room.ActiveSuit)
	}
}

func TestAutoAdvances(t *testing.T) {
	advancing := []Value{Two, Three, ValueJoker, Jack, King, Ace}
	for _, v := range advancing {
		if !AutoAdvances(v) {
			t.Errorf("%s should auto-advance the turn", v)
		}
	}
	for _, v := range []Value{Four, Seven, Ten, Queen, Eight} {
		if AutoAdvances(v) {
			t.Errorf("%s should not auto-advance the turn", v)
		}
	}
}
