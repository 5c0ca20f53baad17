package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/coopernurse/gorp"
	_ "github.com/mattn/go-sqlite3"
)

func newTestStore(t *testing.T) *PlayerStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewPlayerStore(db, gorp.SqliteDialect{})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestGetOrCreatePlayer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.GetOrCreatePlayer(ctx, "Alice")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created player has no id")
	}
	if created.Wins != 0 {
		t.Errorf("wins = %d, want 0", created.Wins)
	}

	// Same name in another case resolves to the same record.
	found, err := s.GetOrCreatePlayer(ctx, "ALICE")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("lookup created a duplicate: %s vs %s", found.ID, created.ID)
	}
	if found.Username != "Alice" {
		t.Errorf("username = %s, want the original casing Alice", found.Username)
	}

	if _, err := s.GetOrCreatePlayer(ctx, "   "); err == nil {
		t.Fatal("expected error for blank username")
	}
}

func TestIncrementWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.GetOrCreatePlayer(ctx, "bob")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if err := s.IncrementWins(ctx, p.ID); err != nil {
		t.Fatalf("increment error: %v", err)
	}
	if err := s.IncrementWins(ctx, p.ID); err != nil {
		t.Fatalf("increment error: %v", err)
	}

	got, err := s.GetOrCreatePlayer(ctx, "bob")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if got.Wins != 2 {
		t.Errorf("wins = %d, want 2", got.Wins)
	}

	if err := s.IncrementWins(ctx, "no-such-id"); err == nil {
		t.Fatal("expected error for unknown player id")
	}
}
