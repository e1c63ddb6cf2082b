package service

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("game already exists")
	ErrNotParticipant = errors.New("player not in game")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrGameOver       = errors.New("game is over")
	ErrIllegalMove    = errors.New("illegal move")
	ErrInvalidColor   = errors.New("invalid color")

	ErrAlreadyConnected = errors.New("player already connected to this game")
)
