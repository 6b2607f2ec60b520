package lobby

import "errors"

var (
	ErrAlreadyJoined    = errors.New("lobby: id already joined")
	ErrNotJoined        = errors.New("lobby: id not joined")
	ErrNotHost          = errors.New("lobby: caller is not host")
	ErrSelfKick         = errors.New("lobby: cannot kick self")
	ErrGameInProgress   = errors.New("lobby: game already in progress")
	ErrNoGameInProgress = errors.New("lobby: no game in progress")
	ErrHandNotIdle      = errors.New("lobby: hand not idle")
	ErrNotEnoughSeats   = errors.New("lobby: fewer than two seats have chips")
	ErrEmptyMessage     = errors.New("lobby: chat message is empty")
)

type configError string

func (e configError) Error() string { return "lobby: invalid config: " + string(e) }

func errInvalidConfig(msg string) error { return configError(msg) }
