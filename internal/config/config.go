package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"cardi/internal/domain"
)

type GameConfig struct {
	// DefaultRules seeds every room; create_room params override per room.
	DefaultRules domain.Rules `json:"default_rules"`
	// BotActDelayTicks is how many match ticks a bot waits before acting on
	// its turn, so plays stay watchable for humans.
	BotActDelayTicks int `json:"bot_act_delay_ticks"`
	// RejoinTokenTTLHours bounds how long a rejoin token stays valid.
	RejoinTokenTTLHours int `json:"rejoin_token_ttl_hours"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, falling back to safe
// defaults when no file was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return &GameConfig{
			BotActDelayTicks:    2,
			RejoinTokenTTLHours: 24,
		}
	}
	return cfg
}
