package nakama

import (
	"encoding/json"

	"cardi/internal/config"
	"cardi/internal/domain"
)

// matchLabel is the JSON advertised through the Nakama match registry so the
// room RPCs can query by code and openness.
type matchLabel struct {
	Game    string `json:"game"`
	Code    string `json:"code"`
	Open    bool   `json:"open"`
	Phase   string `json:"phase"`
	Players int    `json:"players"`
}

func (l matchLabel) encode() string {
	b, err := json.Marshal(l)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// rulesFromParams merges per-room rule overrides from match creation params
// over the configured defaults. The "rules" param is a JSON object matching
// domain.Rules.
func rulesFromParams(params map[string]interface{}) domain.Rules {
	rules := config.GetGameConfig().DefaultRules
	raw, ok := params["rules"]
	if !ok {
		return rules
	}

	// Params arrive as map[string]interface{} or a pre-encoded string
	// depending on the caller; a JSON round trip handles both.
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return rules
		}
		data = encoded
	}
	if err := json.Unmarshal(data, &rules); err != nil {
		return config.GetGameConfig().DefaultRules
	}
	return rules
}

func codeFromParams(params map[string]interface{}) string {
	code, _ := params["code"].(string)
	return code
}
