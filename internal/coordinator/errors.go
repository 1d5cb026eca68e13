package coordinator

import "errors"

// Common coordinator errors
var (
	ErrAlreadyStarted = errors.New("coordinator is already started")
)
