package engine

import "errors"

// Sentinel errors returned by engine constructors and lifecycle helpers.
// playerAction itself is total (returns false, not an error) per its
// contract in §4.1.2; these are reserved for the surrounding lifecycle
// operations and for dispatch-layer error-code mapping.
var (
	ErrInvalidConfig   = errors.New("engine: invalid config")
	ErrSeatOccupied    = errors.New("engine: seat already occupied")
	ErrSeatOutOfRange  = errors.New("engine: seat index out of range")
	ErrAlreadySeated   = errors.New("engine: id already seated")
	ErrInvalidBuyIn    = errors.New("engine: buy-in must be positive")
	ErrNotSeated       = errors.New("engine: id not seated")
	ErrHandInProgress  = errors.New("engine: hand in progress")
	ErrRebuyNotIdle    = errors.New("engine: rebuy only allowed at Idle")
)
