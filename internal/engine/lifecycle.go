package engine

// SitPlayerAt seats id at seatIndex with the given buy-in, per §4.1.8.
// Succeeds only if the seat is vacant, id is not seated elsewhere, and
// buyIn > 0. The seat becomes Waiting.
func (e *Engine) SitPlayerAt(seatIndex int, id, name string, buyIn int64) error {
	if seatIndex < 0 || seatIndex >= e.numSeats() {
		return ErrSeatOutOfRange
	}
	if buyIn <= 0 {
		return ErrInvalidBuyIn
	}
	if e.seatIndexOf(id) != noSeat {
		return ErrAlreadySeated
	}
	s := e.seats[seatIndex]
	if !s.IsVacant() || s.Status != SittingOut {
		return ErrSeatOccupied
	}
	s.ID = id
	s.Name = name
	s.Chips = buyIn
	s.Status = Waiting
	s.Connected = true
	return nil
}

// RebuyPlayer adds amount to id's chip stack. If the seat was SittingOut
// with no chips and is connected, it is promoted to Waiting. Rebuys are
// only allowed between hands; the engine enforces this itself rather
// than trusting the lobby's own Idle check.
func (e *Engine) RebuyPlayer(id string, amount int64) error {
	if e.stage != Idle {
		return ErrRebuyNotIdle
	}
	if amount <= 0 {
		return ErrInvalidBuyIn
	}
	seatIdx := e.seatIndexOf(id)
	if seatIdx == noSeat {
		return ErrNotSeated
	}
	s := e.seats[seatIdx]
	s.Chips += amount
	if s.Status == SittingOut && s.Connected {
		s.Status = Waiting
	}
	return nil
}

// ForfeitAndVacateSeat removes id from the table, folding it out of a live
// hand first if necessary, per §4.1.8. handInProgress reflects the
// lobby's own view of whether a game is underway (distinct from the
// engine's own Idle/non-Idle stage, since the lobby may consider a game
// "in progress" between hands).
func (e *Engine) ForfeitAndVacateSeat(id string, handInProgress bool) error {
	seatIdx := e.seatIndexOf(id)
	if seatIdx == noSeat {
		return ErrNotSeated
	}
	s := e.seats[seatIdx]

	if handInProgress && e.stage != Idle && e.stage != Showdown && s.Status == Active {
		if e.currentActor == seatIdx {
			e.applyFold(seatIdx)
			if e.handStillLive() {
				e.nextTurn()
			}
		} else {
			s.Status = Folded
			e.markActed(seatIdx)
			if e.nonFoldedCount() == 1 {
				e.foldWinner = e.soleRemainingSeat()
				e.distributePot()
			}
		}
	}

	currentBet, totalBet := s.CurrentBet, s.TotalBet
	s.clear()
	s.CurrentBet = currentBet
	s.TotalBet = totalBet
	return nil
}

// SetPlayerConnection updates id's connectivity flag. On disconnection
// while the seat is the current actor mid-hand, the engine performs the
// same auto-check-else-fold transition as nextTurn does for a stale actor.
func (e *Engine) SetPlayerConnection(id string, connected bool) error {
	seatIdx := e.seatIndexOf(id)
	if seatIdx == noSeat {
		return ErrNotSeated
	}
	s := e.seats[seatIdx]
	s.Connected = connected
	if !connected && e.currentActor == seatIdx && s.Status == Active {
		e.autoResolve(seatIdx)
	}
	return nil
}

// MarkWaitingIfEligible promotes a SittingOut, connected, chip-holding seat
// to Waiting.
func (e *Engine) MarkWaitingIfEligible(id string) {
	seatIdx := e.seatIndexOf(id)
	if seatIdx == noSeat {
		return
	}
	s := e.seats[seatIdx]
	if s.Status == SittingOut && s.Connected && s.Chips > 0 {
		s.Status = Waiting
	}
}

// RemoveOrphanedSeats vacates every seat whose id is not in validIDs.
func (e *Engine) RemoveOrphanedSeats(validIDs map[string]bool) {
	for _, s := range e.seats {
		if s.IsVacant() {
			continue
		}
		if !validIDs[s.ID] {
			s.clear()
		}
	}
}

// ResetForEndGame returns the table to Idle while preserving seat
// identities and chip stacks.
func (e *Engine) ResetForEndGame() {
	e.stage = Idle
	e.pot = 0
	e.board = nil
	e.sidePots = nil
	e.showdownResults = nil
	e.foldWinner = noSeat
	e.isAllInShowdown = false
	e.currentActor = noSeat
	for i, s := range e.seats {
		s.CurrentBet = 0
		s.TotalBet = 0
		s.Hand = nil
		s.ShowCards = false
		e.hasActed[i] = false
		if !s.IsVacant() && s.Status != SittingOut {
			if s.Chips > 0 && s.Connected {
				s.Status = Waiting
			} else {
				s.Status = SittingOut
			}
		}
	}
}

// ApplyConfig applies a new Config, resizing the seat vector if MaxSeats
// changed and clamping role indices that would otherwise point past the
// new end of the table. Like RebuyPlayer, the engine enforces the
// between-hands restriction itself rather than trusting the lobby.
func (e *Engine) ApplyConfig(newCfg Config) error {
	if e.stage != Idle {
		return ErrHandInProgress
	}
	if err := newCfg.validate(); err != nil {
		return err
	}
	if newCfg.MaxSeats != e.numSeats() {
		newSeats := make([]*Seat, newCfg.MaxSeats)
		for i := range newSeats {
			if i < len(e.seats) {
				newSeats[i] = e.seats[i]
			} else {
				newSeats[i] = &Seat{Status: SittingOut}
			}
		}
		e.seats = newSeats
		e.hasActed = make([]bool, newCfg.MaxSeats)
		e.clampRoleIndices()
	}
	e.cfg = newCfg
	return nil
}

func (e *Engine) clampRoleIndices() {
	n := e.numSeats()
	clamp := func(i int) int {
		if i >= n {
			return noSeat
		}
		return i
	}
	e.buttonPos = clamp(e.buttonPos)
	e.sbPos = clamp(e.sbPos)
	e.bbPos = clamp(e.bbPos)
	e.currentActor = clamp(e.currentActor)
}

// SetButtonPosition pins the button to pos, for deterministic test setup.
func (e *Engine) SetButtonPosition(pos int) {
	if pos >= -1 && pos < e.numSeats() {
		e.buttonPos = pos
	}
}

// SetSeatStackForTesting overwrites a seat's chip stack directly.
func (e *Engine) SetSeatStackForTesting(seatIndex int, amount int64) {
	if seatIndex >= 0 && seatIndex < e.numSeats() {
		e.seats[seatIndex].Chips = amount
	}
}
