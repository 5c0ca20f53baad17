package nakama

const (
	// RpcCreateRoom allocates a room code, creates the match, and returns both.
	RpcCreateRoom = "create_room"
	// RpcFindRoom resolves a room code to a match id.
	RpcFindRoom = "find_room"
	// RpcRejoinRoom resolves a rejoin token to a match id and player id.
	RpcRejoinRoom = "rejoin_room"

	// MatchNameCardi is the authoritative match handler name registered with Nakama.
	MatchNameCardi = "cardi_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpPlayCards int64 = 2
	OpDrawCard  int64 = 3
	OpCallCardi int64 = 4
	OpPassTurn  int64 = 5
	OpLeaveRoom int64 = 6
	OpAddBot    int64 = 7

	// Server -> Client events
	OpPlayerJoined      int64 = 101
	OpPlayerLeft        int64 = 102
	OpPlayerReconnected int64 = 103
	OpGameStart         int64 = 104
	OpGameStateUpdate   int64 = 105
	OpCardPlayed        int64 = 106
	OpCardDrawn         int64 = 107
	OpTurnPassed        int64 = 108
	OpCardiCalled       int64 = 109
	OpGameWin           int64 = 110
	OpError             int64 = 120
)
