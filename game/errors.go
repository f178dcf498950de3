package game

import "errors"

var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrIndexOutOfRange = errors.New("move index out of range")
	ErrInvalidState    = errors.New("invalid state")
	ErrGameOver        = errors.New("game is over - no moves allowed")
)
