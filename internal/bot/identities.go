package bot

import (
	"fmt"
	"strings"
)

// IDPrefix marks bot player ids so the rest of the system can tell them from
// humans without extra state.
const IDPrefix = "cardi-bot-"

var botNames = []string{
	"Zawadi", "Kiptoo", "Achieng", "Baraka", "Nyambura", "Otieno",
}

// NewIdentity returns a stable id/name pair for the nth bot in a room.
func NewIdentity(index int) (id, name string) {
	name = botNames[index%len(botNames)]
	if index >= len(botNames) {
		name = fmt.Sprintf("%s %d", name, index/len(botNames)+1)
	}
	return fmt.Sprintf("%s%d", IDPrefix, index), name
}

// IsBot reports whether a player id belongs to a bot.
func IsBot(playerID string) bool {
	return strings.HasPrefix(playerID, IDPrefix)
}
