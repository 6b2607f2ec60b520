package engine

import (
	"sort"

	"github.com/jz1452/Poker-Project/card"
)

// resolveSidePots computes the side-pot decomposition over every seat's
// TotalBet, per §4.1.5. Distinct positive commit levels become pot
// boundaries; a seat is eligible for a pot iff its TotalBet reaches that
// pot's level and it is not Folded/SittingOut. Pots with amount 0 are
// dropped.
func (e *Engine) resolveSidePots() []SidePot {
	levelSet := make(map[int64]bool)
	for _, s := range e.seats {
		if s.TotalBet > 0 {
			levelSet[s.TotalBet] = true
		}
	}
	levels := make([]int64, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	var pots []SidePot
	prevLevel := int64(0)
	for _, level := range levels {
		var amount int64
		var eligible []int
		for i, s := range e.seats {
			contribAtLevel := min64(s.TotalBet, level) - min64(s.TotalBet, prevLevel)
			amount += contribAtLevel
			if s.TotalBet >= level && s.Status != Folded && s.Status != SittingOut {
				eligible = append(eligible, i)
			}
		}
		if amount > 0 {
			pots = append(pots, SidePot{Amount: amount, EligibleSeats: eligible})
		}
		prevLevel = level
	}
	return pots
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// distributePot awards every side pot to its winner(s), per §4.1.6, then
// populates showdownResults (only when the hand actually reached
// Showdown), and finally transitions to Idle if every result has decided.
func (e *Engine) distributePot() {
	e.isAllInShowdown = e.activeCount() < 2
	e.sidePots = e.resolveSidePots()

	wonBySeat := make(map[int]int64, e.numSeats())
	handRankBySeat := make(map[int]int32, e.numSeats())

	for _, pot := range e.sidePots {
		if len(pot.EligibleSeats) == 0 {
			continue
		}
		if len(pot.EligibleSeats) == 1 {
			winner := pot.EligibleSeats[0]
			wonBySeat[winner] += pot.Amount
			continue
		}

		winners, ranks := e.bestHands(pot.EligibleSeats)
		for seat, rank := range ranks {
			handRankBySeat[seat] = rank
		}

		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		for _, w := range winners {
			wonBySeat[w] += share
		}
		if remainder > 0 {
			order := e.winnersLeftOfButton(winners)
			for i := int64(0); i < remainder; i++ {
				wonBySeat[order[i%int64(len(order))]] += 1
			}
		}
	}

	for seat, amount := range wonBySeat {
		e.seats[seat].Chips += amount
	}
	e.pot = 0

	if e.stage == Showdown {
		e.showdownResults = nil
		for i, s := range e.seats {
			if s.Status == Folded || s.Status == SittingOut || s.Status == Waiting {
				continue
			}
			rank, hasRank := handRankBySeat[i]
			if !hasRank {
				rank = e.evaluateSeat(i)
			}
			won := wonBySeat[i]
			mustShow := won > 0 || e.isAllInShowdown
			s.ShowCards = mustShow
			e.showdownResults = append(e.showdownResults, ShowdownResult{
				SeatIndex:       i,
				HandRank:        rank,
				HandDescription: e.describeRank(rank),
				ChipsWon:        won,
				MustShow:        mustShow,
				HasDecided:      mustShow,
			})
		}
	}

	e.checkShowdownResolved()
}

// bestHands evaluates every eligible seat's 7-card hand and returns the
// seats tied for the minimum (best) rank, plus every evaluated seat's rank.
func (e *Engine) bestHands(eligible []int) (winners []int, ranks map[int]int32) {
	ranks = make(map[int]int32, len(eligible))
	var best int32 = -1
	for _, seat := range eligible {
		rank := e.evaluateSeat(seat)
		ranks[seat] = rank
		if best == -1 || rank < best {
			best = rank
			winners = []int{seat}
		} else if rank == best {
			winners = append(winners, seat)
		}
	}
	return winners, ranks
}

func (e *Engine) evaluateSeat(seat int) int32 {
	if e.eval == nil {
		return 0
	}
	cards := make([]card.Card, 0, 7)
	cards = append(cards, e.seats[seat].Hand...)
	cards = append(cards, e.board...)
	if len(cards) < 5 {
		return int32(1<<31 - 1)
	}
	rank, err := e.eval(cards)
	if err != nil {
		return int32(1<<31 - 1)
	}
	return rank
}

func (e *Engine) describeRank(rank int32) string {
	if e.describe == nil {
		return ""
	}
	return e.describe(rank)
}

// winnersLeftOfButton orders winners starting from the first left of the
// button, wrapping around, for remainder distribution.
func (e *Engine) winnersLeftOfButton(winners []int) []int {
	set := make(map[int]bool, len(winners))
	for _, w := range winners {
		set[w] = true
	}
	ordered := make([]int, 0, len(winners))
	i := e.buttonPos
	if i == noSeat {
		i = 0
	}
	for n := 0; n < e.numSeats(); n++ {
		i = e.next(i)
		if set[i] {
			ordered = append(ordered, i)
		}
	}
	if len(ordered) < len(winners) {
		return winners
	}
	return ordered
}

// checkShowdownResolved transitions to Idle once every showdown result has
// decided, or immediately if there were no showdown results to begin with
// (a fold-win settles via playerMuckOrShow instead).
func (e *Engine) checkShowdownResolved() {
	if e.stage != Showdown {
		return
	}
	for _, r := range e.showdownResults {
		if !r.HasDecided {
			return
		}
	}
	e.stage = Idle
	e.currentActor = noSeat
}
