package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGameConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_config.json")
	body := `{
		"default_rules": {
			"match_shape_for_counter": true,
			"max_hand_size": 15
		},
		"bot_act_delay_ticks": 3,
		"rejoin_token_ttl_hours": 12
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("load error: %v", err)
	}

	got := GetGameConfig()
	if !got.DefaultRules.MatchShapeForCounter {
		t.Error("match_shape_for_counter not loaded")
	}
	if got.DefaultRules.MaxHandSize != 15 {
		t.Errorf("max_hand_size = %d, want 15", got.DefaultRules.MaxHandSize)
	}
	if got.BotActDelayTicks != 3 {
		t.Errorf("bot_act_delay_ticks = %d, want 3", got.BotActDelayTicks)
	}
	if got.RejoinTokenTTLHours != 12 {
		t.Errorf("rejoin_token_ttl_hours = %d, want 12", got.RejoinTokenTTLHours)
	}
}
