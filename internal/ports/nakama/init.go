package nakama

import (
	"context"
	"database/sql"
	"time"

	"github.com/coopernurse/gorp"
	"github.com/heroiclabs/nakama-common/runtime"

	"cardi/internal/app"
	"cardi/internal/config"
	"cardi/internal/ports"
	"cardi/internal/store"
)

// InitModule wires RPCs and the match handler into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("InitModule: using default game config: %v", err)
	}

	secret := "cardi-dev-secret"
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if s := env["cardi_rejoin_secret"]; s != "" {
			secret = s
		} else {
			logger.Warn("InitModule: cardi_rejoin_secret not set, using the dev secret")
		}
	}
	ttl := time.Duration(config.GetGameConfig().RejoinTokenTTLHours) * time.Hour
	tokens := app.NewRejoinTokenService(secret, ttl)

	// Nakama hands the module its own Postgres pool; win counts live in a
	// table alongside Nakama's.
	var identity ports.IdentityPort
	players, err := store.NewPlayerStore(db, gorp.PostgresDialect{})
	if err != nil {
		logger.Error("InitModule: player store unavailable, wins will not persist: %v", err)
	} else {
		identity = players
	}

	if err := RegisterRPCs(initializer, tokens); err != nil {
		return err
	}

	if identity != nil {
		if err := initializer.RegisterAfterAuthenticateDevice(afterAuthenticateDevice(identity)); err != nil {
			return err
		}
	}

	if err := initializer.RegisterMatch(MatchNameCardi, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(identity, tokens), nil
	}); err != nil {
		return err
	}

	logger.Info("Cardi Go module loaded.")
	return nil
}
