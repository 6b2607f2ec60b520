package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jz1452/Poker-Project/card"
	"github.com/jz1452/Poker-Project/internal/equity"
	"github.com/jz1452/Poker-Project/internal/handrank"
	"github.com/jz1452/Poker-Project/internal/lobby"
)

func fakeEstimate(ctx context.Context, hands []equity.Hand, board []card.Card, iterations int) (map[int]float64, error) {
	out := make(map[int]float64, len(hands))
	share := 1.0 / float64(len(hands))
	for _, h := range hands {
		out[h.SeatIndex] = share
	}
	return out, nil
}

func newTestSetup(t *testing.T, godMode bool) (*lobby.Lobby, *Projector) {
	t.Helper()
	l, err := lobby.New(lobby.Config{
		MaxSeats:      6,
		StartingStack: 1000,
		SmallBlind:    5,
		BigBlind:      10,
		GodMode:       godMode,
	}, handrank.Evaluate, handrank.Describe, func() int64 { return 1 })
	require.NoError(t, err)
	require.NoError(t, l.Join("host", "Host"))
	require.NoError(t, l.Join("guest", "Guest"))
	require.NoError(t, l.SitPlayer("host", 0, 1000))
	require.NoError(t, l.SitPlayer("guest", 1, 1000))
	require.NoError(t, l.StartGame("host"))

	return l, NewProjector(l, fakeEstimate, 100)
}

func TestPlayerViewHidesOpponentHand(t *testing.T) {
	l, p := newTestSetup(t, false)
	_ = l

	sv, err := p.Project(context.Background(), "host")
	require.NoError(t, err)

	var ownSeen, oppSeen bool
	for _, s := range sv.Game.Seats {
		if s.ID == "host" {
			ownSeen = len(s.Hand) == 2
		}
		if s.ID == "guest" {
			oppSeen = len(s.Hand) > 0
			require.Equal(t, 2, s.CardCount)
		}
	}
	require.True(t, ownSeen)
	require.False(t, oppSeen)
}

func TestSpectatorGodModeViewShowsHandsAndEquities(t *testing.T) {
	_, p := newTestSetup(t, true)

	sv, err := p.Project(context.Background(), "")
	require.NoError(t, err)

	for _, s := range sv.Game.Seats {
		if s.Status == 2 /* Active */ {
			require.Len(t, s.Hand, 2)
		}
	}
	require.NotEmpty(t, sv.Equities)
	total := 0.0
	for _, v := range sv.Equities {
		total += v
	}
	require.InDelta(t, 1.0, total, 0.02)
}

func TestSpectatorNonGodModeHidesAllHands(t *testing.T) {
	_, p := newTestSetup(t, false)

	sv, err := p.Project(context.Background(), "")
	require.NoError(t, err)

	for _, s := range sv.Game.Seats {
		if s.CardCount > 0 {
			require.Empty(t, s.Hand)
		}
	}
	require.Empty(t, sv.Equities)
}
