package notation

import "errors"

var (
	ErrMalformedMove = errors.New("malformed move")
	ErrInvalidFEN    = errors.New("invalid FEN")
)
