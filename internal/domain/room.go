package domain

import (
	"math/rand"
	"strings"
)

// Phase represents the lifecycle stage of a room.
type Phase string

const (
	// PhaseLobby indicates the room is waiting for players.
	PhaseLobby Phase = "lobby"
	// PhasePlaying indicates the game is actively in progress.
	PhasePlaying Phase = "playing"
	// PhaseFinished indicates a player has won and the game is over.
	PhaseFinished Phase = "finished"
)

// Rules holds per-room toggles fixed at creation time.
type Rules struct {
	// MatchShapeForCounter requires a penalty counter to match the top
	// card's suit (aces exempt).
	MatchShapeForCounter bool `json:"match_shape_for_counter"`
	// RestrictJKCounters excludes jacks and kings from countering a penalty.
	RestrictJKCounters bool `json:"restrict_jk_counters"`
	// MaxHandSize caps a hand; 0 means unlimited.
	MaxHandSize int `json:"max_hand_size"`
	// RequireSingleCardToCall gates the Cardi declaration on holding
	// exactly one card.
	RequireSingleCardToCall bool `json:"require_single_card_to_call"`
}

// Player holds the state for a participant in a room. A player with an empty
// SessionID is disconnected but keeps its seat in turn order.
type Player struct {
	ID            string
	Username      string
	SessionID     string
	Hand          []Card
	DeclaredCardi bool
}

// Room is the authoritative state of one game instance. It is owned by a
// single goroutine; nothing here synchronizes.
type Room struct {
	Code    string
	OwnerID string
	Phase   Phase
	Rules   Rules

	// Players in join order; this is the turn order and is never reordered.
	Players []*Player

	DrawPile   []Card // LIFO, top = last element
	PlayedPile []Card // LIFO, top = table card

	CurrentIndex int
	Direction    int // +1 forward, -1 reversed

	// Round-scoped state, reset at game start and mutated only through
	// the transition helpers and the effect engine.
	DrawPenalty     int
	QuestionPending bool
	SkipNext        bool
	ActiveSuit      Suit // empty when no override is live
	HasActed        bool
}

// NewRoom creates an empty lobby-phase room.
func NewRoom(code string, rules Rules) *Room {
	return &Room{
		Code:      code,
		Phase:     PhaseLobby,
		Rules:     rules,
		Direction: 1,
	}
}

// CurrentPlayer returns the player whose turn it is, or nil for an empty room.
func (r *Room) CurrentPlayer() *Player {
	if len(r.Players) == 0 {
		return nil
	}
	return r.Players[r.CurrentIndex]
}

// PlayerByID finds a player by id.
func (r *Room) PlayerByID(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerBySession finds the player bound to a session.
func (r *Room) PlayerBySession(sessionID string) *Player {
	if sessionID == "" {
		return nil
	}
	for _, p := range r.Players {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

// PlayerByUsername finds a player by username, case-insensitively. Usernames
// are the reconnect key, so lookups must not be case-sensitive.
func (r *Room) PlayerByUsername(username string) *Player {
	for _, p := range r.Players {
		if strings.EqualFold(p.Username, username) {
			return p
		}
	}
	return nil
}

// AddPlayer appends a player to the end of the turn order.
func (r *Room) AddPlayer(p *Player) {
	r.Players = append(r.Players, p)
}

// RemovePlayer drops a player from the turn order and returns whether it was
// present. The current index is clamped so it never points past the end of
// the shortened list.
func (r *Room) RemovePlayer(id string) bool {
	for i, p := range r.Players {
		if p.ID != id {
			continue
		}
		r.Players = append(r.Players[:i], r.Players[i+1:]...)
		if len(r.Players) == 0 {
			r.CurrentIndex = 0
			return true
		}
		if i < r.CurrentIndex {
			r.CurrentIndex--
		}
		if r.CurrentIndex >= len(r.Players) {
			r.CurrentIndex = 0
		}
		return true
	}
	return false
}

// AdvanceTurn moves play to the next player, honoring direction and a pending
// skip, and resets the has-acted flag for the new current player.
func (r *Room) AdvanceTurn() {
	n := len(r.Players)
	if n <= 1 {
		r.HasActed = false
		return
	}
	r.CurrentIndex = (r.CurrentIndex + r.Direction + n) % n
	if r.SkipNext {
		r.CurrentIndex = (r.CurrentIndex + r.Direction + n) % n
		r.SkipNext = false
	}
	r.HasActed = false
}

// TopCard returns the table card, or false if the game has not started.
func (r *Room) TopCard() (Card, bool) {
	if len(r.PlayedPile) == 0 {
		return Card{}, false
	}
	return r.PlayedPile[len(r.PlayedPile)-1], true
}

// CardBeneathTop returns the card directly under the table card, used by the
// ace counter to pick up the suit it exposes.
func (r *Room) CardBeneathTop() (Card, bool) {
	if len(r.PlayedPile) < 2 {
		return Card{}, false
	}
	return r.PlayedPile[len(r.PlayedPile)-2], true
}

// PushPlayed puts a card on top of the played pile.
func (r *Room) PushPlayed(c Card) {
	r.PlayedPile = append(r.PlayedPile, c)
}

// Draw pops the top of the draw pile, replenishing from the played pile
// first when it is empty. Returns false only when both piles are exhausted.
func (r *Room) Draw(rng *rand.Rand) (Card, bool) {
	if len(r.DrawPile) == 0 {
		r.replenish(rng)
	}
	if len(r.DrawPile) == 0 {
		return Card{}, false
	}
	c := r.DrawPile[len(r.DrawPile)-1]
	r.DrawPile = r.DrawPile[:len(r.DrawPile)-1]
	return c, true
}

// replenish shuffles the played pile back into the draw pile, preserving the
// table card as the sole remaining played card.
func (r *Room) replenish(rng *rand.Rand) {
	if len(r.PlayedPile) < 2 {
		return
	}
	top := r.PlayedPile[len(r.PlayedPile)-1]
	rest := r.PlayedPile[:len(r.PlayedPile)-1]
	rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	r.DrawPile = append(r.DrawPile, rest...)
	r.PlayedPile = []Card{top}
}

// ClearRoundState resets the volatile per-round fields ahead of a new game.
func (r *Room) ClearRoundState() {
	r.Direction = 1
	r.DrawPenalty = 0
	r.QuestionPending = false
	r.SkipNext = false
	r.ActiveSuit = ""
	r.HasActed = false
}
