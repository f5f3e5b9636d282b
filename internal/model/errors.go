package model

import "errors"

// Sentinel errors, checked with errors.Is.
var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrInvalidFEN    = errors.New("invalid FEN")
	ErrInvalidMove   = errors.New("invalid move text")
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("game is over")
	ErrGameFull      = errors.New("game is full")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotInGame     = errors.New("player not in game")
	ErrPlayerQueued  = errors.New("player already in queue")
	ErrConnected     = errors.New("connection already exists")
	ErrNotAuthorized = errors.New("not authorized to join this game")
)
