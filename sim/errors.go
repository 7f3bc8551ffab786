package sim

import "errors"

// ErrInsufficientData reports a strategy warm-up window longer than the
// available quote history. It is returned by NewEngine, before any
// result row is produced.
var ErrInsufficientData = errors.New("sim: not enough history for strategy warm-up")
