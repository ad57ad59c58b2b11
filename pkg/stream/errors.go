package stream

import "errors"

var (
	ErrInvalidPosition = errors.New("invalid stream position")
	ErrNotPositioned   = errors.New("navigator is not positioned on a record")
	ErrClosed          = errors.New("navigator is closed")
	ErrIndexMiss       = errors.New("record index cache has no entry for a visited record")
)
