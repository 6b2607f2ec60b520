package lobby

import "github.com/jz1452/Poker-Project/internal/engine"

// SitPlayer seats id at seatIndex. buyIn <= 0 defaults to the lobby's
// startingStack. On success the user is marked non-spectator.
func (l *Lobby) SitPlayer(id string, seatIndex int, buyIn int64) error {
	u, ok := l.usersByID[id]
	if !ok {
		return ErrNotJoined
	}
	if buyIn <= 0 {
		buyIn = l.cfg.StartingStack
	}
	if err := l.engine.SitPlayerAt(seatIndex, id, u.Name, buyIn); err != nil {
		return err
	}
	u.IsSpectator = false
	return nil
}

// StandPlayer stands id from its seat. On success the user is marked a
// spectator again.
func (l *Lobby) StandPlayer(id string) error {
	if _, ok := l.usersByID[id]; !ok {
		return ErrNotJoined
	}
	if err := l.engine.ForfeitAndVacateSeat(id, l.gameInProgress); err != nil {
		return err
	}
	l.usersByID[id].IsSpectator = true
	return nil
}

// Rebuy is allowed only when the hand is Idle and amount > 0.
func (l *Lobby) Rebuy(id string, amount int64) error {
	if l.engine.Stage() != engine.Idle {
		return ErrHandNotIdle
	}
	return l.engine.RebuyPlayer(id, amount)
}

// StartGame is host-only; fails if a game is already in progress. It
// cleans orphaned seats, requires at least two seats with chips, then
// starts the first hand.
func (l *Lobby) StartGame(hostID string) error {
	if err := l.requireHost(hostID); err != nil {
		return err
	}
	if l.gameInProgress {
		return ErrGameInProgress
	}
	l.cleanOrphanedSeats()
	if !l.hasTwoFundedSeats() {
		return ErrNotEnoughSeats
	}
	l.gameInProgress = true
	l.engine.StartHand()
	return nil
}

// StartNextHand is host-only; requires an in-progress game at Idle. If
// fewer than two seats remain eligible, the game ends instead.
func (l *Lobby) StartNextHand(hostID string) error {
	if err := l.requireHost(hostID); err != nil {
		return err
	}
	if !l.gameInProgress {
		return ErrNoGameInProgress
	}
	if l.engine.Stage() != engine.Idle {
		return ErrHandNotIdle
	}
	l.cleanOrphanedSeats()
	if !l.hasTwoFundedSeats() {
		l.gameInProgress = false
		return ErrNotEnoughSeats
	}
	l.engine.StartHand()
	return nil
}

// EndGame is host-only; clears gameInProgress and resets the engine to
// Idle while preserving seat identities and stacks.
func (l *Lobby) EndGame(hostID string) error {
	if err := l.requireHost(hostID); err != nil {
		return err
	}
	l.gameInProgress = false
	l.engine.ResetForEndGame()
	return nil
}

// UpdateConfig is host-only and forbidden while a game is in progress. It
// applies to both the lobby-level config and the engine's Config.
func (l *Lobby) UpdateConfig(hostID string, newCfg Config) error {
	if err := l.requireHost(hostID); err != nil {
		return err
	}
	if l.gameInProgress {
		return ErrGameInProgress
	}
	if err := newCfg.validate(); err != nil {
		return err
	}
	if newCfg.MaxChatMessages <= 0 {
		newCfg.MaxChatMessages = defaultMaxChatMessages
	}
	if err := l.engine.ApplyConfig(engine.Config{
		MaxSeats:   newCfg.MaxSeats,
		SmallBlind: newCfg.SmallBlind,
		BigBlind:   newCfg.BigBlind,
	}); err != nil {
		return err
	}
	l.cfg = newCfg
	return nil
}

// GameAction delegates to the Hand Engine, verifying the requester is
// joined first.
func (l *Lobby) GameAction(id string, action engine.Action, amount int64) bool {
	if _, ok := l.usersByID[id]; !ok {
		return false
	}
	return l.engine.PlayerAction(id, action, amount)
}

// MuckShow delegates to the Hand Engine's muck-or-show resolution.
func (l *Lobby) MuckShow(id string, show bool) bool {
	if _, ok := l.usersByID[id]; !ok {
		return false
	}
	return l.engine.PlayerMuckOrShow(id, show)
}

func (l *Lobby) cleanOrphanedSeats() {
	valid := make(map[string]bool, len(l.users))
	for _, u := range l.users {
		valid[u.ID] = true
	}
	l.engine.RemoveOrphanedSeats(valid)
}

func (l *Lobby) hasTwoFundedSeats() bool {
	n := 0
	for _, s := range l.engine.Seats() {
		if !s.IsVacant() && s.Chips > 0 {
			n++
		}
	}
	return n >= 2
}
