package model

import "errors"

var (
	ErrEmptyHistory    = errors.New("no move to undo")
	ErrInvalidPosition = errors.New("invalid position")
	ErrNoMoves         = errors.New("no legal moves")
)
