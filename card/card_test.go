package card

import "testing"

func TestCardStringParseRoundTrip(t *testing.T) {
	for _, c := range All52 {
		s := c.String()
		parsed, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) errored: %v", s, err)
		}
		if parsed != c {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", c, s, parsed)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2", "2x", "1c", "Xs", "too-long"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("Parse(%q) should have failed", s)
		}
	}
}

func TestNewRankSuit(t *testing.T) {
	c := New(12, Spades)
	if c.Rank() != 12 || c.Suit() != Spades {
		t.Fatalf("got rank=%d suit=%v, want rank=12 suit=Spades", c.Rank(), c.Suit())
	}
	if c.String() != "As" {
		t.Fatalf("got %q, want As", c.String())
	}
}

func TestDeckDealsAllDistinctCards(t *testing.T) {
	d := NewDeck(7)
	d.Shuffle()
	seen := make(map[Card]bool, 52)
	for i := 0; i < 52; i++ {
		c, ok := d.Deal()
		if !ok {
			t.Fatalf("deck ran out early at card %d", i)
		}
		if seen[c] {
			t.Fatalf("card %v dealt twice", c)
		}
		seen[c] = true
	}
	if _, ok := d.Deal(); ok {
		t.Fatal("deck should be empty after 52 deals")
	}
	if len(seen) != 52 {
		t.Fatalf("got %d distinct cards, want 52", len(seen))
	}
}

func TestDeckShuffleIsDeterministicForSeed(t *testing.T) {
	d1 := NewDeck(42)
	d1.Shuffle()
	d2 := NewDeck(42)
	d2.Shuffle()
	for i := 0; i < 52; i++ {
		c1, _ := d1.Deal()
		c2, _ := d2.Deal()
		if c1 != c2 {
			t.Fatalf("same seed produced different shuffles at index %d: %v != %v", i, c1, c2)
		}
	}
}
