package errors

import "errors"

// ErrListen is returned when the listening socket cannot be bound. The OS error is kept as the cause.
var ErrListen = errors.New("failed to bind listening socket")

var ErrInvalidPort = errors.New("invalid port")

var (
	ErrAlreadyListening = errors.New("server is already listening")
	ErrNotListening     = errors.New("server is not listening")
)
