package app

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"cardi/internal/domain"
)

func newTestService(seed int64) *Service {
	return NewService(rand.New(rand.NewSource(seed)), nil)
}

func lobbyRoom(rules domain.Rules, names ...string) *domain.Room {
	room := domain.NewRoom("ROOM01", rules)
	for _, n := range names {
		room.AddPlayer(&domain.Player{ID: n, Username: n, SessionID: "sess-" + n})
	}
	if len(names) > 0 {
		room.OwnerID = names[0]
	}
	return room
}

func eventsOfKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestJoinFirstPlayerBecomesOwner(t *testing.T) {
	svc := newTestService(1)
	room := domain.NewRoom("ROOM01", domain.Rules{})

	events, err := svc.Join(room, "alice", "alice", "sess-alice")
	if err != nil {
		t.Fatalf("join error: %v", err)
	}
	if room.OwnerID != "alice" {
		t.Errorf("owner = %s, want alice", room.OwnerID)
	}
	if len(eventsOfKind(events, EventPlayerJoined)) != 1 {
		t.Error("expected a player-joined event")
	}

	var private []Event
	for _, e := range eventsOfKind(events, EventGameStateUpdate) {
		if len(e.Recipients) == 1 {
			private = append(private, e)
		}
	}
	if len(private) != 1 || private[0].Recipients[0] != "alice" {
		t.Errorf("expected exactly one private snapshot for alice, got %v", private)
	}
}

func TestJoinRejectsFullRoom(t *testing.T) {
	svc := newTestService(1)
	room := lobbyRoom(domain.Rules{}, "p1", "p2", "p3", "p4", "p5", "p6")

	if _, err := svc.Join(room, "p7", "p7", "sess-p7"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
	if err := svc.CanJoin(room, "p7"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("CanJoin err = %v, want ErrRoomFull", err)
	}
}

func TestJoinRejectsStartedGame(t *testing.T) {
	svc := newTestService(1)
	room := lobbyRoom(domain.Rules{}, "alice", "bob")
	room.Phase = domain.PhasePlaying

	if _, err := svc.Join(room, "carol", "carol", "sess-carol"); !errors.Is(err, ErrGameAlreadyStarted) {
		t.Fatalf("err = %v, want ErrGameAlreadyStarted", err)
	}
}

func TestJoinSameUsernameIsReconnect(t *testing.T) {
	svc := newTestService(1)
	room := lobbyRoom(domain.Rules{}, "alice", "bob")
	room.Phase = domain.PhasePlaying // reconnects are admitted mid-game
	room.PlayerByID("alice").SessionID = ""

	events, err := svc.Join(room, "ignored", "ALICE", "sess-new")
	if err != nil {
		t.Fatalf("reconnect error: %v", err)
	}
	if len(room.Players) != 2 {
		t.Errorf("reconnect re-added a player, count = %d", len(room.Players))
	}
	if got := room.PlayerByID("alice").SessionID; got != "sess-new" {
		t.Errorf("session = %s, want sess-new", got)
	}
	if len(eventsOfKind(events, EventPlayerReconnected)) != 1 {
		t.Error("expected a player-reconnected event")
	}
}

func TestRejoinByPlayerID(t *testing.T) {
	svc := newTestService(1)
	room := lobbyRoom(domain.Rules{}, "alice", "bob")
	room.PlayerByID("bob").SessionID = ""

	if _, err := svc.Rejoin(room, "bob", "sess-back"); err != nil {
		t.Fatalf("rejoin error: %v", err)
	}
	if got := room.PlayerByID("bob").SessionID; got != "sess-back" {
		t.Errorf("session = %s, want sess-back", got)
	}

	if _, err := svc.Rejoin(room, "mallory", "sess-x"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestDisconnectKeepsSeat(t *testing.T) {
	svc := newTestService(1)
	room := lobbyRoom(domain.Rules{}, "alice", "bob")

	events := svc.Disconnect(room, "sess-bob")
	if len(events) == 0 {
		t.Fatal("expected a snapshot broadcast")
	}
	p := room.PlayerByID("bob")
	if p == nil {
		t.Fatal("bob lost his seat")
	}
	if p.SessionID != "" {
		t.Errorf("session = %s, want empty", p.SessionID)
	}

	if events := svc.Disconnect(room, "sess-unknown"); events != nil {
		t.Errorf("unknown session should be a silent no-op, got %v", events)
	}
}

func TestLeaveReassignsOwnerAndReportsEmpty(t *testing.T) {
	svc := newTestService(1)
	room := lobbyRoom(domain.Rules{}, "alice", "bob")

	events, empty := svc.Leave(room, "alice")
	if empty {
		t.Fatal("room should not be empty yet")
	}
	if room.OwnerID != "bob" {
		t.Errorf("owner = %s, want bob", room.OwnerID)
	}
	if len(eventsOfKind(events, EventPlayerLeft)) != 1 {
		t.Error("expected a player-left event")
	}

	_, empty = svc.Leave(room, "bob")
	if !empty {
		t.Fatal("room should report empty after the last leave")
	}

	// Removing an already-gone player is a no-op.
	if events, _ := svc.Leave(room, "alice"); events != nil {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestCallCardiUngatedByDefault(t *testing.T) {
	svc := newTestService(1)
	room := lobbyRoom(domain.Rules{}, "alice", "bob")
	room.PlayerByID("alice").Hand = []domain.Card{
		domain.NewCard(domain.Hearts, domain.Four),
		domain.NewCard(domain.Spades, domain.Nine),
	}

	events, err := svc.CallCardi(room, "alice")
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	if !room.PlayerByID("alice").DeclaredCardi {
		t.Error("declaration not recorded")
	}
	if len(eventsOfKind(events, EventCardiCalled)) != 1 {
		t.Error("expected a cardi-called event")
	}
}

func TestCallCardiSingleCardGate(t *testing.T) {
	svc := newTestService(1)
	room := lobbyRoom(domain.Rules{RequireSingleCardToCall: true}, "alice", "bob")
	alice := room.PlayerByID("alice")
	alice.Hand = []domain.Card{
		domain.NewCard(domain.Hearts, domain.Four),
		domain.NewCard(domain.Spades, domain.Nine),
	}

	if _, err := svc.CallCardi(room, "alice"); !errors.Is(err, ErrCardiNeedsLastCard) {
		t.Fatalf("err = %v, want ErrCardiNeedsLastCard", err)
	}

	alice.Hand = alice.Hand[:1]
	if _, err := svc.CallCardi(room, "alice"); err != nil {
		t.Fatalf("call error with one card: %v", err)
	}
}

func TestPrivateSnapshotCarriesRejoinToken(t *testing.T) {
	tokens := NewRejoinTokenService("test-secret", time.Hour)
	svc := NewService(rand.New(rand.NewSource(1)), tokens)
	room := domain.NewRoom("ROOM01", domain.Rules{})

	events, err := svc.Join(room, "alice", "alice", "sess-alice")
	if err != nil {
		t.Fatalf("join error: %v", err)
	}

	for _, e := range eventsOfKind(events, EventGameStateUpdate) {
		if len(e.Recipients) != 1 {
			continue
		}
		snap, ok := e.Payload.(GameState)
		if !ok {
			t.Fatalf("private snapshot payload is %T", e.Payload)
		}
		if snap.RejoinToken == "" {
			t.Fatal("private snapshot missing rejoin token")
		}
		roomCode, playerID, err := tokens.Verify(snap.RejoinToken)
		if err != nil {
			t.Fatalf("verify issued token: %v", err)
		}
		if roomCode != "ROOM01" || playerID != "alice" {
			t.Errorf("token binds %s/%s, want ROOM01/alice", roomCode, playerID)
		}
		return
	}
	t.Fatal("no private snapshot found")
}
