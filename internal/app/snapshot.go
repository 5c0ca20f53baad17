package app

import "cardi/internal/domain"

// PlayerState is a player's slice of the snapshot.
type PlayerState struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Hand          []domain.Card `json:"hand"`
	Connected     bool          `json:"connected"`
	DeclaredCardi bool          `json:"declared_cardi"`
}

// GameState is the authoritative snapshot broadcast after every action.
type GameState struct {
	RoomCode        string        `json:"room_code"`
	OwnerID         string        `json:"owner_id"`
	Phase           domain.Phase  `json:"phase"`
	Started         bool          `json:"started"`
	Players         []PlayerState `json:"players"`
	TopCard         *domain.Card  `json:"top_card,omitempty"`
	CurrentIndex    int           `json:"current_index"`
	Direction       int           `json:"direction"`
	DrawPenalty     int           `json:"draw_penalty"`
	QuestionPending bool          `json:"question_pending"`
	HasActed        bool          `json:"has_acted"`
	ActiveSuit      domain.Suit   `json:"active_suit,omitempty"`
	DrawPileSize    int           `json:"draw_pile_size"`
	Message         string        `json:"message"`

	// RejoinToken is set only on privately delivered snapshots.
	RejoinToken string `json:"rejoin_token,omitempty"`
}

// Snapshot captures the full room state plus a human-readable last-action
// message.
func Snapshot(room *domain.Room, message string) GameState {
	players := make([]PlayerState, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, PlayerState{
			ID:            p.ID,
			Username:      p.Username,
			Hand:          p.Hand,
			Connected:     p.SessionID != "",
			DeclaredCardi: p.DeclaredCardi,
		})
	}
	gs := GameState{
		RoomCode:        room.Code,
		OwnerID:         room.OwnerID,
		Phase:           room.Phase,
		Started:         room.Phase != domain.PhaseLobby,
		Players:         players,
		CurrentIndex:    room.CurrentIndex,
		Direction:       room.Direction,
		DrawPenalty:     room.DrawPenalty,
		QuestionPending: room.QuestionPending,
		HasActed:        room.HasActed,
		ActiveSuit:      room.ActiveSuit,
		DrawPileSize:    len(room.DrawPile),
		Message:         message,
	}
	if top, ok := room.TopCard(); ok {
		gs.TopCard = &top
	}
	return gs
}
