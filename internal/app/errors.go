package app

import "errors"

// Per-request failures. None of these corrupts room state; they are reported
// privately to the acting session and the room carries on.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrGameNotStarted      = errors.New("game has not started")
	ErrRoomFull            = errors.New("room is full")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrTooFewPlayers       = errors.New("not enough players to start")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrAlreadyActed        = errors.New("already acted this turn")
	ErrMustActFirst        = errors.New("must play or draw before passing")
	ErrMustDrawFirst       = errors.New("no cards to play, draw instead")
	ErrInvalidPlay         = errors.New("that play is not legal")
	ErrIllegalFinish       = errors.New("cannot finish on an action card")
	ErrHandSizeLimit       = errors.New("hand size limit reached")
	ErrCardiNeedsLastCard  = errors.New("cardi can only be called on the final card")
	ErrNotOwner            = errors.New("only the room owner can do that")
)
