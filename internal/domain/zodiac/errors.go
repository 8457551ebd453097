package zodiac

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotFinite = errors.New("longitude is not a finite number")
)
