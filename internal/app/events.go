package app

import "cardi/internal/domain"

// EventKind identifies emitted engine events for dispatch at the transport.
type EventKind string

const (
	EventGameStart         EventKind = "GAME_START"
	EventPlayerJoined      EventKind = "PLAYER_JOINED"
	EventPlayerLeft        EventKind = "PLAYER_LEFT"
	EventPlayerReconnected EventKind = "PLAYER_RECONNECTED"
	EventGameStateUpdate   EventKind = "GAME_STATE_UPDATE"
	EventCardPlayed        EventKind = "CARD_PLAYED"
	EventCardDrawn         EventKind = "CARD_DRAWN"
	EventTurnPassed        EventKind = "TURN_PASSED"
	EventCardiCalled       EventKind = "CARDI_CALLED"
	EventGameWin           EventKind = "GAME_WIN"
	EventError             EventKind = "ERROR"
)

// Event is an engine output with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast to the room
}

type PlayerEventPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

type CardPlayedPayload struct {
	PlayerID string        `json:"player_id"`
	Username string        `json:"username"`
	Cards    []domain.Card `json:"cards"`
}

type CardDrawnPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Count    int    `json:"count"`
}

type CardiCalledPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

type GameWinPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
