package app

const (
	// MaxPlayers is the room seat limit.
	MaxPlayers = 6
	// MinPlayersToStart is the fewest players a game can begin with.
	MinPlayersToStart = 2
	// InitialHandSize is how many cards each player is dealt.
	InitialHandSize = 4
)
