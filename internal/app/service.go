package app

import (
	"fmt"
	"math/rand"
	"time"

	"cardi/internal/domain"
)

// Service contains the Cardi use-cases operating on room state. It holds no
// room state itself; the caller owns the room and its serialization.
type Service struct {
	rng    *rand.Rand
	tokens *RejoinTokenService
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. tokens may be nil, in which case snapshots carry no rejoin token.
func NewService(rng *rand.Rand, tokens *RejoinTokenService) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, tokens: tokens}
}

// CanJoin checks join admission without mutating the room. A username already
// present is a reconnect and is always admitted.
func (s *Service) CanJoin(room *domain.Room, username string) error {
	if room.PlayerByUsername(username) != nil {
		return nil
	}
	if room.Phase != domain.PhaseLobby {
		return ErrGameAlreadyStarted
	}
	if len(room.Players) >= MaxPlayers {
		return ErrRoomFull
	}
	return nil
}

// Join adds a player to the room, or rebinds the session when the username is
// already seated. The first joiner becomes the room owner.
func (s *Service) Join(room *domain.Room, playerID, username, sessionID string) ([]Event, error) {
	if existing := room.PlayerByUsername(username); existing != nil {
		return s.rebind(room, existing, sessionID, fmt.Sprintf("%s reconnected", existing.Username)), nil
	}
	if room.Phase != domain.PhaseLobby {
		return nil, ErrGameAlreadyStarted
	}
	if len(room.Players) >= MaxPlayers {
		return nil, ErrRoomFull
	}

	p := &domain.Player{ID: playerID, Username: username, SessionID: sessionID}
	room.AddPlayer(p)
	if room.OwnerID == "" {
		room.OwnerID = p.ID
	}

	events := []Event{
		{Kind: EventPlayerJoined, Payload: PlayerEventPayload{PlayerID: p.ID, Username: p.Username}},
		s.privateSnapshot(room, p, fmt.Sprintf("welcome, %s", p.Username)),
		s.broadcastSnapshot(room, fmt.Sprintf("%s joined the room", p.Username)),
	}
	return events, nil
}

// Rejoin rebinds a session by player id, the recovery path for a client that
// lost its connection state but kept its rejoin token.
func (s *Service) Rejoin(room *domain.Room, playerID, sessionID string) ([]Event, error) {
	p := room.PlayerByID(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	return s.rebind(room, p, sessionID, fmt.Sprintf("%s reconnected", p.Username)), nil
}

func (s *Service) rebind(room *domain.Room, p *domain.Player, sessionID, message string) []Event {
	p.SessionID = sessionID
	return []Event{
		{Kind: EventPlayerReconnected, Payload: PlayerEventPayload{PlayerID: p.ID, Username: p.Username}},
		s.privateSnapshot(room, p, message),
		s.broadcastSnapshot(room, message),
	}
}

// Disconnect unbinds the session of whichever player holds it. The player
// keeps its seat and turn-order position. Unknown sessions are a no-op.
func (s *Service) Disconnect(room *domain.Room, sessionID string) []Event {
	p := room.PlayerBySession(sessionID)
	if p == nil {
		return nil
	}
	p.SessionID = ""
	return []Event{s.broadcastSnapshot(room, fmt.Sprintf("%s disconnected", p.Username))}
}

// Leave removes a player from the room for good. The second return reports
// whether the room is now empty and should be torn down. Removing an unknown
// player is a no-op, not an error.
func (s *Service) Leave(room *domain.Room, playerID string) ([]Event, bool) {
	p := room.PlayerByID(playerID)
	if p == nil {
		return nil, len(room.Players) == 0
	}
	room.RemovePlayer(playerID)
	if len(room.Players) == 0 {
		return nil, true
	}
	if room.OwnerID == p.ID {
		room.OwnerID = room.Players[0].ID
	}
	events := []Event{
		{Kind: EventPlayerLeft, Payload: PlayerEventPayload{PlayerID: p.ID, Username: p.Username}},
		s.broadcastSnapshot(room, fmt.Sprintf("%s left the room", p.Username)),
	}
	return events, false
}

// CallCardi records the final-card declaration. The single-card gate is a
// room rule; with it off the call is accepted at any time.
func (s *Service) CallCardi(room *domain.Room, playerID string) ([]Event, error) {
	p := room.PlayerByID(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if room.Rules.RequireSingleCardToCall && len(p.Hand) != 1 {
		return nil, ErrCardiNeedsLastCard
	}
	p.DeclaredCardi = true
	events := []Event{
		{Kind: EventCardiCalled, Payload: CardiCalledPayload{PlayerID: p.ID, Username: p.Username}},
		s.broadcastSnapshot(room, fmt.Sprintf("%s called Cardi!", p.Username)),
	}
	return events, nil
}

func (s *Service) broadcastSnapshot(room *domain.Room, message string) Event {
	return Event{Kind: EventGameStateUpdate, Payload: Snapshot(room, message)}
}

// privateSnapshot is the per-session snapshot; it carries the rejoin token
// when a token service is configured.
func (s *Service) privateSnapshot(room *domain.Room, p *domain.Player, message string) Event {
	snap := Snapshot(room, message)
	if s.tokens != nil {
		if token, err := s.tokens.Issue(room.Code, p.ID); err == nil {
			snap.RejoinToken = token
		}
	}
	return Event{Kind: EventGameStateUpdate, Payload: snap, Recipients: []string{p.ID}}
}
