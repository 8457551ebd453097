package analysis

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrBadDignityTable = errors.New("malformed dignity table")
	ErrNilChart        = errors.New("nil chart")
)
