package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/coopernurse/gorp"
	"github.com/google/uuid"

	"cardi/internal/ports"
)

// playerRow is the gorp mapping for the cardi_players table.
type playerRow struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Wins     int64  `db:"wins"`
}

// PlayerStore persists player identities and win counts. It implements
// ports.IdentityPort.
type PlayerStore struct {
	dbmap *gorp.DbMap
}

// NewPlayerStore wraps a database handle with the player table mapping and
// creates the table if it is missing.
func NewPlayerStore(db *sql.DB, dialect gorp.Dialect) (*PlayerStore, error) {
	dbmap := &gorp.DbMap{Db: db, Dialect: dialect}
	dbmap.AddTableWithName(playerRow{}, "cardi_players").SetKeys(false, "ID")
	if err := dbmap.CreateTablesIfNotExists(); err != nil {
		return nil, fmt.Errorf("create cardi_players table: %w", err)
	}
	return &PlayerStore{dbmap: dbmap}, nil
}

// GetOrCreatePlayer resolves a username to its durable record,
// case-insensitively, creating a fresh record on first sight.
func (s *PlayerStore) GetOrCreatePlayer(ctx context.Context, username string) (*ports.PersistentPlayer, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	query := "select id, username, wins from cardi_players where lower(username) = " +
		s.dbmap.Dialect.BindVar(0)
	var row playerRow
	err := s.dbmap.SelectOne(&row, query, strings.ToLower(username))
	switch {
	case err == nil:
		return &ports.PersistentPlayer{ID: row.ID, Username: row.Username, Wins: row.Wins}, nil
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("look up player %q: %w", username, err)
	}

	row = playerRow{ID: uuid.NewString(), Username: username}
	if err := s.dbmap.Insert(&row); err != nil {
		return nil, fmt.Errorf("insert player %q: %w", username, err)
	}
	return &ports.PersistentPlayer{ID: row.ID, Username: row.Username}, nil
}

// IncrementWins bumps the win counter for a player id.
func (s *PlayerStore) IncrementWins(ctx context.Context, playerID string) error {
	query := "update cardi_players set wins = wins + 1 where id = " +
		s.dbmap.Dialect.BindVar(0)
	result, err := s.dbmap.Exec(query, playerID)
	if err != nil {
		return fmt.Errorf("increment wins for %s: %w", playerID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no player with id %s", playerID)
	}
	return nil
}
