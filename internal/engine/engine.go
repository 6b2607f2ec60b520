package engine

import (
	"time"

	"github.com/jz1452/Poker-Project/card"
)

// Engine is the deterministic state machine for one table: it owns the
// deck and the per-seat hand state for exactly one hand at a time. It
// never refers to users, chat, or transport.
type Engine struct {
	cfg  Config
	seats []*Seat
	deck *card.Deck

	// hand state, §3
	stage        Stage
	pot          int64
	board        []card.Card
	buttonPos    int
	sbPos        int
	bbPos        int
	currentActor int
	currentBet   int64
	minRaise     int64
	hasActed     []bool

	sidePots        []SidePot
	showdownResults []ShowdownResult
	isAllInShowdown bool
	foldWinner      int

	eval     Evaluator
	describe Describer
}

// Evaluator is the external hand-ranking function the engine delegates
// showdown scoring to. Lower rank is better; this matches
// internal/handrank.Evaluate's contract exactly.
type Evaluator func(cards []card.Card) (int32, error)

// Describer renders a rank produced by Evaluator as a human-readable hand
// category, for display on ShowdownResult. Matches
// internal/handrank.Describe's contract.
type Describer func(rank int32) string

// NewEngine builds an Engine with cfg.MaxSeats empty seats, all Idle. eval
// is the external evaluator used at showdown; a nil eval is only valid for
// engines that never reach Showdown (e.g. fold-only tests). describe may
// be nil, in which case HandDescription is left empty.
func NewEngine(cfg Config, eval Evaluator, describe Describer) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	seats := make([]*Seat, cfg.MaxSeats)
	for i := range seats {
		seats[i] = &Seat{Status: SittingOut}
	}
	return &Engine{
		cfg:          cfg,
		seats:        seats,
		deck:         card.NewDeck(seed),
		stage:        Idle,
		buttonPos:    noSeat,
		sbPos:        noSeat,
		bbPos:        noSeat,
		currentActor: noSeat,
		foldWinner:   noSeat,
		hasActed:     make([]bool, cfg.MaxSeats),
		eval:         eval,
		describe:     describe,
	}, nil
}

// Stage returns the hand's current phase.
func (e *Engine) Stage() Stage { return e.stage }

// Pot returns the running total of contributed chips not yet awarded.
func (e *Engine) Pot() int64 { return e.pot }

// Board returns the community cards dealt so far.
func (e *Engine) Board() []card.Card { return e.board }

// Seats returns the engine's seats. Callers must not retain the slice
// across mutations; ApplyConfig replaces it on resize.
func (e *Engine) Seats() []*Seat { return e.seats }

// CurrentActor returns the seat index on turn, or -1 if none.
func (e *Engine) CurrentActor() int { return e.currentActor }

// ButtonPos, SBPos, BBPos return the seat indices of the corresponding
// roles for the live hand, or -1 if none.
func (e *Engine) ButtonPos() int { return e.buttonPos }
func (e *Engine) SBPos() int     { return e.sbPos }
func (e *Engine) BBPos() int     { return e.bbPos }

// CurrentBet, MinRaise expose the round's betting line.
func (e *Engine) CurrentBet() int64 { return e.currentBet }
func (e *Engine) MinRaise() int64   { return e.minRaise }

// SidePots, ShowdownResults, FoldWinner, IsAllInShowdown expose terminal
// hand state for the view projector and the dispatcher.
func (e *Engine) SidePots() []SidePot             { return e.sidePots }
func (e *Engine) ShowdownResults() []ShowdownResult { return e.showdownResults }
func (e *Engine) FoldWinner() int                 { return e.foldWinner }
func (e *Engine) IsAllInShowdown() bool           { return e.isAllInShowdown }

func (e *Engine) numSeats() int { return len(e.seats) }

func (e *Engine) next(i int) int { return (i + 1) % e.numSeats() }

// eligibleSeats returns indices of seats that count toward "active for
// hand": status ≠ SittingOut and chips > 0.
func (e *Engine) eligibleSeats() []int {
	out := make([]int, 0, e.numSeats())
	for i, s := range e.seats {
		if s.eligibleForHand() {
			out = append(out, i)
		}
	}
	return out
}

// StartHand deals a new hand if preconditions hold (§4.1.1). It is a
// no-op, returning false, if fewer than two seats are eligible or a hand
// is already live.
func (e *Engine) StartHand() bool {
	if e.stage != Idle {
		return false
	}
	if len(e.eligibleSeats()) < 2 {
		return false
	}

	// 1. Reset per-hand seat fields.
	for _, s := range e.seats {
		s.resetForNewHand()
	}

	// 2. Clear hand-level state.
	e.pot = 0
	e.board = nil
	e.sidePots = nil
	e.showdownResults = nil
	e.foldWinner = noSeat
	e.isAllInShowdown = false
	for i := range e.hasActed {
		e.hasActed[i] = false
	}

	// 3. Rebuild and shuffle the deck.
	e.deck.Reset()
	e.deck.Shuffle()

	eligible := e.eligibleSeats()

	// 4. Advance the button.
	e.buttonPos = e.advanceButton()

	// 5. Assign blinds.
	if len(eligible) == 2 {
		e.sbPos = e.buttonPos
		e.bbPos = e.nextEligibleAfter(e.sbPos)
	} else {
		e.sbPos = e.nextEligibleAfter(e.buttonPos)
		e.bbPos = e.nextEligibleAfter(e.sbPos)
	}

	// 6. Post blinds.
	e.postBlind(e.sbPos, e.cfg.SmallBlind)
	e.postBlind(e.bbPos, e.cfg.BigBlind)

	// 7. Opening betting line.
	e.currentBet = e.cfg.BigBlind
	e.minRaise = e.cfg.BigBlind

	// 8. Deal two hole cards, one per player per pass, starting left of
	// the button. A seat a blind has put all-in is still dealt in.
	for pass := 0; pass < 2; pass++ {
		seatIdx := e.buttonPos
		for n := 0; n < e.numSeats(); n++ {
			seatIdx = e.next(seatIdx)
			if !e.seats[seatIdx].InHand() {
				continue
			}
			if c, ok := e.deck.Deal(); ok {
				e.seats[seatIdx].Hand = append(e.seats[seatIdx].Hand, c)
			}
		}
	}

	// 9. First actor and stage.
	if len(eligible) == 2 {
		e.currentActor = e.sbPos
	} else {
		e.currentActor = e.nextEligibleAfter(e.bbPos)
	}
	e.stage = PreFlop
	return true
}

// advanceButton walks the ring from the current button to the next seat
// eligible for the hand, giving up after 2*maxSeats cycles.
func (e *Engine) advanceButton() int {
	start := e.buttonPos
	if start == noSeat {
		start = e.numSeats() - 1
	}
	pos := start
	for i := 0; i < 2*e.numSeats(); i++ {
		pos = e.next(pos)
		if e.seats[pos].eligibleForHand() {
			return pos
		}
	}
	return start
}

// nextEligibleAfter walks the ring from pos, exclusive, to the next seat
// eligible for the hand.
func (e *Engine) nextEligibleAfter(pos int) int {
	i := pos
	for n := 0; n < e.numSeats(); n++ {
		i = e.next(i)
		if e.seats[i].eligibleForHand() {
			return i
		}
	}
	return pos
}

// nextActiveAfter walks the ring from pos, exclusive, to the next seat
// still Active in the live hand.
func (e *Engine) nextActiveAfter(pos int) int {
	i := pos
	for n := 0; n < e.numSeats(); n++ {
		i = e.next(i)
		if e.seats[i].Status == Active {
			return i
		}
	}
	return noSeat
}

// postBlind commits blind (capped at the seat's stack) to the pot. A
// blind that exhausts the stack converts the seat to AllIn immediately,
// so a short-stacked blind never leaves an Active seat with zero chips
// waiting to be dealt into the action.
func (e *Engine) postBlind(seatIdx int, blind int64) {
	if seatIdx == noSeat {
		return
	}
	s := e.seats[seatIdx]
	amount := blind
	if amount > s.Chips {
		amount = s.Chips
	}
	s.Chips -= amount
	s.CurrentBet += amount
	s.TotalBet += amount
	e.pot += amount
	if s.Chips == 0 {
		s.Status = AllIn
		e.markActed(seatIdx)
	}
}

// activeCount returns how many seats can still bet this round.
func (e *Engine) activeCount() int {
	n := 0
	for _, s := range e.seats {
		if s.Status == Active {
			n++
		}
	}
	return n
}

// nonFoldedCount returns how many seats remain in the hand at all
// (Active or AllIn).
func (e *Engine) nonFoldedCount() int {
	n := 0
	for _, s := range e.seats {
		if s.InHand() {
			n++
		}
	}
	return n
}
