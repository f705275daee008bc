package service

import "errors"

// ErrInvalidInput marks request validation failures, as opposed to storage
// or engine errors. Handlers map it to a client error status.
var ErrInvalidInput = errors.New("invalid input")
