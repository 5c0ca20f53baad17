package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/heroiclabs/nakama-common/runtime"

	"cardi/internal/app"
)

// roomCodeLength is the length of the human-typeable room code.
const roomCodeLength = 6

// codeAlphabet leaves out 0/O and 1/I so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type createRoomRequest struct {
	Rules json.RawMessage `json:"rules,omitempty"`
}

type roomResponse struct {
	RoomCode string `json:"room_code"`
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id,omitempty"`
}

type findRoomRequest struct {
	RoomCode string `json:"room_code"`
}

type rejoinRoomRequest struct {
	Token string `json:"token"`
}

// RegisterRPCs registers the room registry endpoints.
func RegisterRPCs(initializer runtime.Initializer, tokens *app.RejoinTokenService) error {
	if err := initializer.RegisterRpc(RpcCreateRoom, rpcCreateRoom); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcFindRoom, rpcFindRoom); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcRejoinRoom, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		return rpcRejoinRoom(ctx, logger, nk, tokens, payload)
	})
}

func rpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req createRoomRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid create_room payload", 3)
		}
	}

	code, err := allocateRoomCode(ctx, nk)
	if err != nil {
		logger.Error("create_room: code allocation failed: %v", err)
		return "", err
	}

	params := map[string]interface{}{"code": code}
	if len(req.Rules) > 0 {
		params["rules"] = string(req.Rules)
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameCardi, params)
	if err != nil {
		logger.Error("create_room: match create failed: %v", err)
		return "", err
	}

	logger.Info("create_room: room %s is match %s", code, matchID)
	return marshalResponse(roomResponse{RoomCode: code, MatchID: matchID})
}

func rpcFindRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req findRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.RoomCode == "" {
		return "", runtime.NewError("invalid find_room payload", 3)
	}

	matchID, err := matchIDForCode(ctx, nk, req.RoomCode)
	if err != nil {
		return "", err
	}
	return marshalResponse(roomResponse{RoomCode: req.RoomCode, MatchID: matchID})
}

func rpcRejoinRoom(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, tokens *app.RejoinTokenService, payload string) (string, error) {
	var req rejoinRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Token == "" {
		return "", runtime.NewError("invalid rejoin_room payload", 3)
	}

	roomCode, playerID, err := tokens.Verify(req.Token)
	if err != nil {
		logger.Warn("rejoin_room: bad token: %v", err)
		return "", runtime.NewError("rejoin token rejected", 16)
	}

	matchID, err := matchIDForCode(ctx, nk, roomCode)
	if err != nil {
		return "", err
	}
	return marshalResponse(roomResponse{RoomCode: roomCode, MatchID: matchID, PlayerID: playerID})
}

// matchIDForCode queries the match registry label index for a live room.
func matchIDForCode(ctx context.Context, nk runtime.NakamaModule, code string) (string, error) {
	matchID, found, err := lookupRoom(ctx, nk, code)
	if err != nil {
		return "", err
	}
	if !found {
		return "", runtime.NewError(app.ErrRoomNotFound.Error(), 5)
	}
	return matchID, nil
}

func lookupRoom(ctx context.Context, nk runtime.NakamaModule, code string) (string, bool, error) {
	query := fmt.Sprintf("+label.game:cardi +label.code:%s", code)
	limit := 1
	authoritative := true
	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, query)
	if err != nil {
		return "", false, err
	}
	if len(matches) == 0 {
		return "", false, nil
	}
	return matches[0].MatchId, true, nil
}

// allocateRoomCode finds a code no live room carries. Collisions are rare but
// codes are short, so each candidate is checked against the registry.
func allocateRoomCode(ctx context.Context, nk runtime.NakamaModule) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code := randomCode()
		_, found, err := lookupRoom(ctx, nk, code)
		if err != nil {
			return "", err
		}
		if !found {
			return code, nil
		}
	}
	return "", runtime.NewError("could not allocate a room code", 8)
}

func randomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

func marshalResponse(resp roomResponse) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
