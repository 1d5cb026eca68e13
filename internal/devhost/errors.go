package devhost

import "errors"

// Common devhost errors
var (
	ErrHostClosed = errors.New("host simulator is closed")
)
