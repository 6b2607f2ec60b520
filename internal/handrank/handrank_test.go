package handrank

import (
	"testing"

	"github.com/jz1452/Poker-Project/card"
)

func mustCards(t *testing.T, ss ...string) []card.Card {
	t.Helper()
	out := make([]card.Card, len(ss))
	for i, s := range ss {
		c, err := card.Parse(s)
		if err != nil {
			t.Fatalf("card.Parse(%q): %v", s, err)
		}
		out[i] = c
	}
	return out
}

func TestEvaluateRoyalFlushBeatsLowerStraightFlush(t *testing.T) {
	royal := mustCards(t, "As", "Ks", "Qs", "Js", "Ts")
	royalRank, err := Evaluate(royal)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if CategoryOf(royalRank) != RoyalFlush {
		t.Fatalf("expected royal flush, got category %v", CategoryOf(royalRank))
	}

	sf := mustCards(t, "Kh", "Qh", "Jh", "Th", "9h")
	sfRank, err := Evaluate(sf)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if CategoryOf(sfRank) != StraightFlush {
		t.Fatalf("expected straight flush, got category %v", CategoryOf(sfRank))
	}

	if royalRank >= sfRank {
		t.Fatalf("royal flush rank %d should be lower (better) than straight flush rank %d", royalRank, sfRank)
	}
}

func TestEvaluateRejectsWrongCardCount(t *testing.T) {
	if _, err := Evaluate(mustCards(t, "As", "Ks", "Qs", "Js")); err == nil {
		t.Fatal("expected error for 4 cards")
	}
	if _, err := Evaluate(mustCards(t, "As", "Ks", "Qs", "Js", "Ts", "9s", "8s", "7s")); err == nil {
		t.Fatal("expected error for 8 cards")
	}
}

func TestEvaluateSevenCardsPicksBestFive(t *testing.T) {
	seven := mustCards(t, "As", "Ah", "Kc", "Kd", "2s", "3h", "4c")
	rank, err := Evaluate(seven)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if CategoryOf(rank) != TwoPair {
		t.Fatalf("expected two pair, got %v", CategoryOf(rank))
	}
}

func TestEvaluateLowerRankWinsComparison(t *testing.T) {
	quads, err := Evaluate(mustCards(t, "2s", "2h", "2c", "2d", "9s"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	pair, err := Evaluate(mustCards(t, "3s", "3h", "9c", "Kd", "Qs"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if quads >= pair {
		t.Fatalf("quads rank %d should beat (be lower than) pair rank %d", quads, pair)
	}
}
