package ports

import "context"

// PersistentPlayer is a player's durable record, independent of any room.
type PersistentPlayer struct {
	ID       string
	Username string
	Wins     int64
}

// IdentityPort stores player identities and win counts outside the room
// lifecycle.
type IdentityPort interface {
	// GetOrCreatePlayer resolves a username (case-insensitive) to its
	// durable record, creating one on first sight.
	GetOrCreatePlayer(ctx context.Context, username string) (*PersistentPlayer, error)
	// IncrementWins bumps the win counter for a player id.
	IncrementWins(ctx context.Context, playerID string) error
}
