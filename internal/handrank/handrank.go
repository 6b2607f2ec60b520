// Package handrank adapts the chehsunliu/poker evaluator to the engine's
// external-evaluator contract: a pure function over 5-7 cards that returns
// a lower-is-better integer rank. The engine and equity estimator treat
// this package as the fixed external collaborator described by the core's
// evaluator interface; nothing here tracks hand state.
package handrank

import (
	"fmt"

	"github.com/chehsunliu/poker"

	"github.com/jz1452/Poker-Project/card"
)

// Category is a coarse hand classification, ordered worst (HighCard) to
// best (RoyalFlush), independent of chehsunliu's internal rank class
// numbering.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var rankChars = [13]byte{'2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K', 'A'}
var suitChars = [4]byte{'c', 'd', 'h', 's'}

func toChehsunliu(c card.Card) poker.Card {
	s := string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
	return poker.NewCard(s)
}

// Evaluate scores 5, 6, or 7 cards. Lower is better (1 is the best
// possible hand, a royal flush). It returns an error for any other card
// count, matching the evaluator's documented domain.
func Evaluate(cards []card.Card) (int32, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, fmt.Errorf("handrank: need 5-7 cards, got %d", len(cards))
	}
	converted := make([]poker.Card, len(cards))
	for i, c := range cards {
		converted[i] = toChehsunliu(c)
	}
	return poker.Evaluate(converted), nil
}

// CategoryOf classifies a rank produced by Evaluate into a Category.
func CategoryOf(rank int32) Category {
	switch poker.RankClass(rank) {
	case 1:
		if rank == 1 {
			return RoyalFlush
		}
		return StraightFlush
	case 2:
		return FourOfAKind
	case 3:
		return FullHouse
	case 4:
		return Flush
	case 5:
		return Straight
	case 6:
		return ThreeOfAKind
	case 7:
		return TwoPair
	case 8:
		return Pair
	default:
		return HighCard
	}
}

// Describe returns chehsunliu's human-readable hand description, used for
// showdown result text.
func Describe(rank int32) string {
	return poker.RankString(rank)
}
