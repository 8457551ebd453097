package chart

import "errors"

// Sentinel error kinds for chart construction. These allow errors.Is/As
// from callers; the engine never produces a partial chart.
var (
	ErrUnknownBody  = errors.New("unknown body name")
	ErrMissingBody  = errors.New("missing required body")
	ErrMissingHouse = errors.New("missing house cusp")
	ErrMissingAngle = errors.New("missing chart angle")
	ErrBadHouse     = errors.New("house number out of range")
)
