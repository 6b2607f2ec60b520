package equity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jz1452/Poker-Project/card"
)

func mustCards(t *testing.T, ss ...string) []card.Card {
	t.Helper()
	out := make([]card.Card, len(ss))
	for i, s := range ss {
		c, err := card.Parse(s)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func TestEstimateSumsToOne(t *testing.T) {
	hands := []Hand{
		{SeatIndex: 0, Cards: mustCards(t, "As", "Ah")},
		{SeatIndex: 1, Cards: mustCards(t, "2c", "7d")},
	}
	result, err := Estimate(context.Background(), hands, nil, 2000)
	require.NoError(t, err)
	require.Len(t, result, 2)

	total := 0.0
	for _, v := range result {
		total += v
	}
	require.InDelta(t, 1.0, total, 0.02)
	require.Greater(t, result[0], result[1])
}

func TestEstimateEmptyHandsReturnsEmptyMap(t *testing.T) {
	result, err := Estimate(context.Background(), nil, nil, 100)
	require.NoError(t, err)
	require.Empty(t, result)
}

func TestEstimateRespectsBoard(t *testing.T) {
	hands := []Hand{
		{SeatIndex: 0, Cards: mustCards(t, "Ks", "Kh")},
		{SeatIndex: 1, Cards: mustCards(t, "2c", "7d")},
	}
	board := mustCards(t, "Kd", "Kc", "2h", "3h", "4h")
	result, err := Estimate(context.Background(), hands, board, 500)
	require.NoError(t, err)
	require.InDelta(t, 1.0, result[0], 0.001)
	require.InDelta(t, 0.0, result[1], 0.001)
}
