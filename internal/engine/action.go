package engine

// PlayerAction applies one action for the seat holding id (§4.1.2). It
// returns true iff the action was legal and applied; otherwise state is
// left unchanged. The engine is total: illegal actions never panic or
// error, they simply fail.
func (e *Engine) PlayerAction(id string, action Action, amount int64) bool {
	if e.stage == Idle || e.stage == Showdown {
		return false
	}
	seatIdx := e.seatIndexOf(id)
	if seatIdx == noSeat {
		return false
	}
	if e.currentActor != seatIdx {
		return false
	}
	s := e.seats[seatIdx]
	if s.Status != Active {
		return false
	}

	switch action {
	case Fold:
		e.applyFold(seatIdx)
	case Check:
		if e.currentBet != s.CurrentBet {
			return false
		}
		e.markActed(seatIdx)
	case Call:
		callCost := e.currentBet - s.CurrentBet
		if callCost == 0 {
			e.markActed(seatIdx)
		} else if callCost >= s.Chips {
			e.applyAllIn(seatIdx)
		} else {
			e.commit(seatIdx, callCost)
			e.markActed(seatIdx)
		}
	case Raise:
		toAdd := amount - s.CurrentBet
		if toAdd <= 0 || toAdd > s.Chips {
			return false
		}
		if toAdd == s.Chips {
			// Shoving the whole stack is always legal, even short of a
			// full raise; applyAllIn decides whether it reopens betting.
			e.applyAllIn(seatIdx)
		} else if amount < e.currentBet+e.minRaise {
			return false
		} else {
			previousCurrentBet := e.currentBet
			e.commit(seatIdx, toAdd)
			e.currentBet = amount
			e.minRaise = amount - previousCurrentBet
			e.reopenBetting(seatIdx)
		}
	case AllInAction:
		e.applyAllIn(seatIdx)
	default:
		return false
	}

	if e.handStillLive() {
		e.nextTurn()
	}
	return true
}

// handStillLive reports whether the turn flow should keep running: the
// stage hasn't reached Idle/Showdown, and a fold hasn't already decided a
// winner (which settles via distributePot + playerMuckOrShow instead of
// more betting).
func (e *Engine) handStillLive() bool {
	return e.stage != Idle && e.stage != Showdown && e.foldWinner == noSeat
}

func (e *Engine) seatIndexOf(id string) int {
	if id == "" {
		return noSeat
	}
	for i, s := range e.seats {
		if s.ID == id {
			return i
		}
	}
	return noSeat
}

func (e *Engine) commit(seatIdx int, amount int64) {
	s := e.seats[seatIdx]
	s.Chips -= amount
	s.CurrentBet += amount
	s.TotalBet += amount
	e.pot += amount
}

func (e *Engine) markActed(seatIdx int) {
	e.hasActed[seatIdx] = true
}

func (e *Engine) reopenBetting(seatIdx int) {
	for i, s := range e.seats {
		if s.Status == Active {
			e.hasActed[i] = false
		}
	}
	e.hasActed[seatIdx] = true
}

func (e *Engine) applyFold(seatIdx int) {
	e.seats[seatIdx].Status = Folded
	e.markActed(seatIdx)
	if e.nonFoldedCount() == 1 {
		e.foldWinner = e.soleRemainingSeat()
		e.distributePot()
	}
}

func (e *Engine) soleRemainingSeat() int {
	for i, s := range e.seats {
		if s.InHand() {
			return i
		}
	}
	return noSeat
}

func (e *Engine) applyAllIn(seatIdx int) {
	s := e.seats[seatIdx]
	previousCurrentBet := e.currentBet
	amount := s.Chips
	s.Chips = 0
	s.CurrentBet += amount
	s.TotalBet += amount
	e.pot += amount
	s.Status = AllIn

	if s.CurrentBet > previousCurrentBet {
		raiseSize := s.CurrentBet - previousCurrentBet
		e.currentBet = s.CurrentBet
		if raiseSize >= e.minRaise {
			e.minRaise = raiseSize
			e.reopenBetting(seatIdx)
			return
		}
	}
	e.markActed(seatIdx)
}

// nextTurn advances currentActor or the street, per §4.1.3.
func (e *Engine) nextTurn() {
	if e.stage == Idle || e.stage == Showdown {
		return
	}
	if e.roundComplete() {
		e.nextStreet()
		return
	}
	next := e.firstUnresolvedActor(e.currentActor)
	if next == noSeat {
		e.nextStreet()
		return
	}
	e.currentActor = next
	if !e.seats[next].Connected {
		e.autoResolve(next)
	}
}

func (e *Engine) roundComplete() bool {
	for i, s := range e.seats {
		if s.Status == Active && (!e.hasActed[i] || s.CurrentBet != e.currentBet) {
			return false
		}
	}
	return true
}

// firstUnresolvedActor returns the next Active seat in ring order after
// from that either has not acted this round or is behind the current bet.
func (e *Engine) firstUnresolvedActor(from int) int {
	i := from
	for n := 0; n < e.numSeats(); n++ {
		i = e.next(i)
		s := e.seats[i]
		if s.Status == Active && (!e.hasActed[i] || s.CurrentBet < e.currentBet) {
			return i
		}
	}
	return noSeat
}

// autoResolve performs the connection-aware auto-action: check if legal,
// else fold, then recurses through the normal turn flow.
func (e *Engine) autoResolve(seatIdx int) {
	s := e.seats[seatIdx]
	if s.CurrentBet == e.currentBet {
		e.markActed(seatIdx)
	} else {
		e.applyFold(seatIdx)
	}
	if e.handStillLive() {
		e.nextTurn()
	}
}

// nextStreet advances the stage and deals the next street, per §4.1.4.
func (e *Engine) nextStreet() {
	e.currentBet = 0
	e.minRaise = e.cfg.BigBlind
	for i := range e.hasActed {
		e.hasActed[i] = false
	}
	for _, s := range e.seats {
		if s.Status != Folded && s.Status != SittingOut {
			s.CurrentBet = 0
		}
	}

	switch e.stage {
	case PreFlop:
		e.stage = Flop
	case Flop:
		e.stage = Turn
	case Turn:
		e.stage = River
	case River:
		e.stage = Showdown
	}
	if e.stage == Showdown {
		e.distributePot()
		return
	}

	e.deck.Deal() // burn
	switch e.stage {
	case Flop:
		for i := 0; i < 3; i++ {
			if c, ok := e.deck.Deal(); ok {
				e.board = append(e.board, c)
			}
		}
	case Turn, River:
		if c, ok := e.deck.Deal(); ok {
			e.board = append(e.board, c)
		}
	}

	if e.activeCount() >= 2 {
		first := e.nextActiveAfter(e.buttonPos)
		e.currentActor = first
		if first != noSeat && !e.seats[first].Connected {
			e.autoResolve(first)
			return
		}
	} else {
		e.currentActor = noSeat
	}

	if e.activeCount() < 2 && e.nonFoldedCount() > 1 {
		e.nextStreet()
	}
}
