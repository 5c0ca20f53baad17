package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"

	"cardi/internal/app"
	"cardi/internal/bot"
	"cardi/internal/config"
	"cardi/internal/domain"
	"cardi/internal/ports"
)

// MatchState holds the authoritative runtime state for one room. The match
// loop runs on a single goroutine, which is the room's serialization
// boundary: actions apply strictly one at a time.
type MatchState struct {
	Room      *domain.Room
	Service   *app.Service
	Presences map[string]runtime.Presence // player id -> live presence

	// PendingRejoins maps a session id whose join attempt carried a valid
	// rejoin token to the player id it reclaims.
	PendingRejoins map[string]string

	Tick         int64
	BotCount     int
	BotDelay     int
	BotWaitUntil int64
	Empty        bool
}

type matchHandler struct {
	identity ports.IdentityPort
	tokens   *app.RejoinTokenService
}

func newMatchHandler(identity ports.IdentityPort, tokens *app.RejoinTokenService) *matchHandler {
	return &matchHandler{identity: identity, tokens: tokens}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	code := codeFromParams(params)
	if code == "" {
		logger.Error("MatchInit: no room code in params")
		return nil, 0, ""
	}
	rules := rulesFromParams(params)

	state := &MatchState{
		Room:           domain.NewRoom(code, rules),
		Service:        app.NewService(nil, mh.tokens),
		Presences:      make(map[string]runtime.Presence),
		PendingRejoins: make(map[string]string),
		BotDelay:       config.GetGameConfig().BotActDelayTicks,
	}

	label := matchLabel{Game: "cardi", Code: code, Open: true, Phase: string(domain.PhaseLobby)}
	logger.Info("MatchInit: room %s created", code)

	tickRate := 1
	return state, tickRate, label.encode()
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A valid rejoin token admits the holder regardless of phase or count.
	if token := metadata["rejoin_token"]; token != "" {
		roomCode, playerID, err := mh.tokens.Verify(token)
		if err != nil || roomCode != matchState.Room.Code {
			logger.Warn("MatchJoinAttempt: rejected rejoin token for %s: %v", presence.GetUserId(), err)
			return matchState, false, "rejoin token rejected"
		}
		if matchState.Room.PlayerByID(playerID) == nil {
			return matchState, false, app.ErrPlayerNotFound.Error()
		}
		matchState.PendingRejoins[presence.GetSessionId()] = playerID
		return matchState, true, ""
	}

	if err := matchState.Service.CanJoin(matchState.Room, presence.GetUsername()); err != nil {
		logger.Debug("MatchJoinAttempt: %s rejected: %v", presence.GetUsername(), err)
		return matchState, false, err.Error()
	}
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		sessionID := p.GetSessionId()

		if playerID, pending := matchState.PendingRejoins[sessionID]; pending {
			delete(matchState.PendingRejoins, sessionID)
			matchState.Presences[playerID] = p
			events, err := matchState.Service.Rejoin(matchState.Room, playerID, sessionID)
			if err != nil {
				logger.Warn("MatchJoin: rejoin for %s failed: %v", playerID, err)
				continue
			}
			mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)
			continue
		}

		matchState.Presences[p.GetUserId()] = p
		events, err := matchState.Service.Join(matchState.Room, p.GetUserId(), p.GetUsername(), sessionID)
		if err != nil {
			// The room filled or started between attempt and join.
			logger.Warn("MatchJoin: %s could not be seated: %v", p.GetUsername(), err)
			mh.sendError(matchState, dispatcher, logger, p.GetUserId(), err)
			continue
		}
		mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave fires on presence drops. The player keeps its seat and turn
// position; only the session binding is cleared. Seats are given up through
// the explicit leave op.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		delete(matchState.PendingRejoins, p.GetSessionId())
		events := matchState.Service.Disconnect(matchState.Room, p.GetSessionId())
		mh.dispatchEvents(ctx, matchState, dispatcher, logger, events)
	}

	if matchState.Room.Phase == domain.PhaseFinished && len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: finished room %s is deserted, tearing down", matchState.Room.Code)
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpDrawCard:
			mh.handleDrawCard(ctx, matchState, dispatcher, logger, msg)
		case OpCallCardi:
			mh.handleCallCardi(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		case OpLeaveRoom:
			mh.handleLeaveRoom(ctx, matchState, dispatcher, logger, msg)
		case OpAddBot:
			mh.handleAddBot(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode %d from %s", msg.GetOpCode(), msg.GetUserId())
		}
		if matchState.Empty {
			logger.Info("MatchLoop: room %s is empty, tearing down", matchState.Room.Code)
			return nil
		}
	}

	mh.processBots(ctx, matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := state.Service.StartGame(state.Room)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if err != nil {
		logger.Warn("StartGame: %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err)
		return
	}
	mh.updateLabel(state, dispatcher, logger)
}

type playCardsMessage struct {
	CardIDs    []string    `json:"card_ids"`
	ChosenSuit domain.Suit `json:"chosen_suit,omitempty"`
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var req playCardsMessage
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("PlayCards: bad payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrInvalidPlay)
		return
	}

	events, err := state.Service.PlayCards(state.Room, msg.GetUserId(), req.CardIDs, req.ChosenSuit)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if err != nil {
		logger.Debug("PlayCards: %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err)
		return
	}
	if state.Room.Phase == domain.PhaseFinished {
		mh.updateLabel(state, dispatcher, logger)
	}
}

func (mh *matchHandler) handleDrawCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := state.Service.DrawCard(state.Room, msg.GetUserId())
	// A draw refused at the hand cap still broadcasts the stuck state.
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if err != nil {
		logger.Debug("DrawCard: %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err)
	}
}

func (mh *matchHandler) handleCallCardi(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := state.Service.CallCardi(state.Room, msg.GetUserId())
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err)
	}
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, err := state.Service.PassTurn(state.Room, msg.GetUserId())
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err)
	}
}

func (mh *matchHandler) handleLeaveRoom(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	events, empty := state.Service.Leave(state.Room, msg.GetUserId())
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	delete(state.Presences, msg.GetUserId())
	if empty {
		state.Empty = true
		return
	}
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleAddBot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if msg.GetUserId() != state.Room.OwnerID {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), app.ErrNotOwner)
		return
	}

	id, name := bot.NewIdentity(state.BotCount)
	events, err := state.Service.Join(state.Room, id, name, "")
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err)
		return
	}
	state.BotCount++
	logger.Info("AddBot: %s seated in room %s", name, state.Room.Code)
	mh.updateLabel(state, dispatcher, logger)
}

// processBots lets a bot holding the turn act after a short delay so its
// plays stay visible to humans.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Room.Phase != domain.PhasePlaying {
		state.BotWaitUntil = 0
		return
	}
	current := state.Room.CurrentPlayer()
	if current == nil || !bot.IsBot(current.ID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		state.BotWaitUntil = state.Tick + int64(state.BotDelay)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	action := bot.Decide(state.Room, current)
	if action.DeclareCardi && !current.DeclaredCardi {
		if events, err := state.Service.CallCardi(state.Room, current.ID); err == nil {
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		}
	}

	switch action.Kind {
	case bot.ActionPlay:
		events, err := state.Service.PlayCards(state.Room, current.ID, action.CardIDs, action.ChosenSuit)
		if err != nil {
			// The pick was refused (finish gating and similar); drawing
			// is always a legal fallback.
			logger.Debug("processBots: %s play refused: %v", current.ID, err)
			events, err = state.Service.DrawCard(state.Room, current.ID)
			if err != nil {
				mh.dispatchEvents(ctx, state, dispatcher, logger, events)
				return
			}
		}
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		if state.Room.Phase == domain.PhaseFinished {
			mh.updateLabel(state, dispatcher, logger)
		}
	case bot.ActionDraw:
		events, err := state.Service.DrawCard(state.Room, current.ID)
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		if err != nil {
			logger.Debug("processBots: %s draw refused: %v", current.ID, err)
		}
	case bot.ActionPass:
		if events, err := state.Service.PassTurn(state.Room, current.ID); err == nil {
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		}
	}
}

// opCodeFor maps engine event kinds to wire op codes.
func opCodeFor(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	case app.EventPlayerReconnected:
		return OpPlayerReconnected, true
	case app.EventGameStart:
		return OpGameStart, true
	case app.EventGameStateUpdate:
		return OpGameStateUpdate, true
	case app.EventCardPlayed:
		return OpCardPlayed, true
	case app.EventCardDrawn:
		return OpCardDrawn, true
	case app.EventTurnPassed:
		return OpTurnPassed, true
	case app.EventCardiCalled:
		return OpCardiCalled, true
	case app.EventGameWin:
		return OpGameWin, true
	case app.EventError:
		return OpError, true
	}
	return 0, false
}

// dispatchEvents hands engine events to the Nakama dispatcher, fire and
// forget. Targeted events whose recipients are all offline (or bots) are
// dropped rather than leaked to the whole room.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		if ev.Kind == app.EventGameWin {
			mh.recordWin(ctx, state, logger, ev)
		}

		opCode, known := opCodeFor(ev.Kind)
		if !known {
			logger.Warn("dispatchEvents: unknown event kind %s", ev.Kind)
			continue
		}
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			logger.Error("dispatchEvents: marshal %s: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, id := range ev.Recipients {
				if p, ok := state.Presences[id]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}
		dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
	}
}

// recordWin persists the winner's win count. Bots have no durable identity.
func (mh *matchHandler) recordWin(ctx context.Context, state *MatchState, logger runtime.Logger, ev app.Event) {
	payload, ok := ev.Payload.(app.GameWinPayload)
	if !ok || mh.identity == nil || bot.IsBot(payload.PlayerID) {
		return
	}
	persistent, err := mh.identity.GetOrCreatePlayer(ctx, payload.Username)
	if err != nil {
		logger.Error("recordWin: resolve %s: %v", payload.Username, err)
		return
	}
	if err := mh.identity.IncrementWins(ctx, persistent.ID); err != nil {
		logger.Error("recordWin: increment for %s: %v", persistent.ID, err)
	}
}

// sendError reports a per-request failure privately to the acting session.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, playerID string, actionErr error) {
	presence, ok := state.Presences[playerID]
	if !ok {
		return
	}
	data, err := json.Marshal(app.ErrorPayload{Message: actionErr.Error()})
	if err != nil {
		logger.Error("sendError: marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpError, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label := matchLabel{
		Game:    "cardi",
		Code:    state.Room.Code,
		Open:    state.Room.Phase == domain.PhaseLobby && len(state.Room.Players) < app.MaxPlayers,
		Phase:   string(state.Room.Phase),
		Players: len(state.Room.Players),
	}
	if err := dispatcher.MatchLabelUpdate(label.encode()); err != nil {
		logger.Error("updateLabel: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
