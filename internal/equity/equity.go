// Package equity implements the Monte-Carlo equity estimator spec.md
// leaves external: given each contending seat's hole cards and the board
// dealt so far, it estimates each seat's win share by dealing out many
// random completions of the board. It is the one internally-parallel
// subsystem in this codebase; its result is an immutable value handed back
// to the single-threaded lobby/engine core.
package equity

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jz1452/Poker-Project/card"
	"github.com/jz1452/Poker-Project/internal/handrank"
)

func numWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// DefaultIterations matches the simulation budget used by the estimator
// this package is grounded on: 100,000 trials split across workers.
const DefaultIterations = 100000

// Hand is one seat's hole cards, tagged with its seat index so the result
// map can be keyed the same way.
type Hand struct {
	SeatIndex int
	Cards     []card.Card
}

// Estimate runs iterations Monte-Carlo trials (default DefaultIterations
// if iterations <= 0), split evenly across runtime.NumCPU() workers joined
// with errgroup, and returns each seat's win-share fraction. The trial
// count is rounded down to a multiple of the worker count; with fewer
// iterations than workers, one trial runs per iteration. Ties within a
// trial split that trial's win share evenly among the tied seats. The
// returned map's values sum to 1.0 (subject to floating-point rounding).
func Estimate(ctx context.Context, hands []Hand, board []card.Card, iterations int) (map[int]float64, error) {
	if len(hands) == 0 {
		return map[int]float64{}, nil
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	remaining := remainingDeck(hands, board)
	workers := numWorkers()
	perWorker := iterations / workers
	if perWorker == 0 {
		perWorker = 1
		workers = iterations
	}

	results := make([][]float64, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(w)*7919))
			results[w] = runTrials(rng, hands, board, remaining, perWorker)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := make([]float64, len(hands))
	for _, batch := range results {
		for i, v := range batch {
			totals[i] += v
		}
	}
	trialsRun := float64(perWorker * workers)

	out := make(map[int]float64, len(hands))
	for i, h := range hands {
		if trialsRun > 0 {
			out[h.SeatIndex] = totals[i] / trialsRun
		}
	}
	return out, nil
}

// remainingDeck returns all 52 cards minus every card already dealt to a
// hand or the board.
func remainingDeck(hands []Hand, board []card.Card) []card.Card {
	used := make(map[card.Card]bool, 52)
	for _, h := range hands {
		for _, c := range h.Cards {
			used[c] = true
		}
	}
	for _, c := range board {
		used[c] = true
	}
	out := make([]card.Card, 0, 52)
	for _, c := range card.All52 {
		if !used[c] {
			out = append(out, c)
		}
	}
	return out
}

// runTrials deals cardsNeeded = 5 - len(board) cards from a freshly
// shuffled copy of remaining for each trial, evaluates every hand, and
// tallies win shares (split on ties). A fresh deck copy is shuffled per
// trial so workers never share mutable state.
func runTrials(rng *rand.Rand, hands []Hand, board []card.Card, remaining []card.Card, trials int) []float64 {
	wins := make([]float64, len(hands))
	cardsNeeded := 5 - len(board)
	if cardsNeeded < 0 {
		cardsNeeded = 0
	}

	deck := make([]card.Card, len(remaining))
	ranks := make([]int32, len(hands))
	scratch := make([]card.Card, 0, 7)

	for t := 0; t < trials; t++ {
		copy(deck, remaining)
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

		var best int32 = -1
		for i, h := range hands {
			scratch = scratch[:0]
			scratch = append(scratch, h.Cards...)
			scratch = append(scratch, board...)
			scratch = append(scratch, deck[:cardsNeeded]...)
			rank, err := handrank.Evaluate(scratch)
			if err != nil {
				continue
			}
			ranks[i] = rank
			if best == -1 || rank < best {
				best = rank
			}
		}

		winners := 0
		for _, r := range ranks {
			if r == best {
				winners++
			}
		}
		if winners == 0 {
			continue
		}
		share := 1.0 / float64(winners)
		for i, r := range ranks {
			if r == best {
				wins[i] += share
			}
		}
	}
	return wins
}
