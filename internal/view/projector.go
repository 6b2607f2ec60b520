// Package view derives the per-viewer state a client actually receives:
// the full lobby/hand state with opponent hole cards redacted according
// to who's asking, plus spectator equities when appropriate. The
// Projector is pure — it only reads a consistent snapshot between
// mutations — except for its equity cache, which callers must invalidate
// explicitly at the right moments (see InvalidateEquityCache).
package view

import (
	"context"

	"github.com/jz1452/Poker-Project/card"
	"github.com/jz1452/Poker-Project/internal/engine"
	"github.com/jz1452/Poker-Project/internal/equity"
	"github.com/jz1452/Poker-Project/internal/lobby"
)

// EstimateFunc matches equity.Estimate's signature; injected so the
// projector doesn't hard-depend on a particular iteration budget or
// concurrency strategy.
type EstimateFunc func(ctx context.Context, hands []equity.Hand, board []card.Card, iterations int) (map[int]float64, error)

// SeatView is one seat as a particular viewer sees it.
type SeatView struct {
	Index      int
	ID         string
	Name       string
	Chips      int64
	CurrentBet int64
	TotalBet   int64
	Status     engine.Status
	Hand       []card.Card
	CardCount  int
	ShowCards  bool
	Connected  bool
}

// GameView is the hand state as a particular viewer sees it.
type GameView struct {
	Stage           engine.Stage
	Pot             int64
	Board           []card.Card
	ButtonPos       int
	SBPos           int
	BBPos           int
	CurrentActor    int
	CurrentBet      int64
	MinRaise        int64
	Seats           []SeatView
	SidePots        []engine.SidePot
	ShowdownResults []engine.ShowdownResult
	IsAllInShowdown bool
	FoldWinner      int
}

// StateView is the full per-viewer payload, matching the game_state.data
// shape in §6.
type StateView struct {
	LobbyConfig      lobby.Config
	Users            []*lobby.User
	ChatMessages     []lobby.ChatMessage
	HostID           string
	IsGameInProgress bool
	Game             GameView
	Equities         map[int]float64
}

// Projector builds StateView snapshots for a single Lobby.
type Projector struct {
	lobby      *lobby.Lobby
	estimate   EstimateFunc
	iterations int

	cachedEquities map[int]float64
	cacheValid     bool
}

// NewProjector builds a Projector over lobby l. iterations <= 0 uses
// equity.DefaultIterations.
func NewProjector(l *lobby.Lobby, estimate EstimateFunc, iterations int) *Projector {
	return &Projector{lobby: l, estimate: estimate, iterations: iterations}
}

// InvalidateEquityCache drops the cached equities. Per design notes, call
// this after any game action, seat change, or street advance; a pure chat
// message or reconnect does not require it.
func (p *Projector) InvalidateEquityCache() {
	p.cacheValid = false
	p.cachedEquities = nil
}

// Project builds the state view for viewerID. An empty viewerID is the
// anonymous spectator view (godMode, if on, applies).
func (p *Projector) Project(ctx context.Context, viewerID string) (StateView, error) {
	eng := p.lobby.Engine()
	cfg := p.lobby.Config()

	viewer := p.viewerUser(viewerID)
	isSpectator := viewer == nil || viewer.IsSpectator

	sv := StateView{
		LobbyConfig:      cfg,
		Users:            p.lobby.Users(),
		ChatMessages:     p.lobby.ChatMessages(),
		HostID:           p.lobby.HostID(),
		IsGameInProgress: p.lobby.GameInProgress(),
	}

	sv.Game = p.projectGame(viewerID, isSpectator, cfg.GodMode)

	if isSpectator && cfg.GodMode && p.eligibleForEquities(eng) {
		equities, err := p.equities(ctx, eng)
		if err != nil {
			return StateView{}, err
		}
		sv.Equities = equities
	}

	return sv, nil
}

func (p *Projector) viewerUser(viewerID string) *lobby.User {
	if viewerID == "" {
		return nil
	}
	for _, u := range p.lobby.Users() {
		if u.ID == viewerID {
			return u
		}
	}
	return nil
}

// projectGame applies the three redaction branches from §4.3.
func (p *Projector) projectGame(viewerID string, isSpectator, godMode bool) GameView {
	eng := p.lobby.Engine()
	atShowdown := eng.Stage() == engine.Showdown

	seats := make([]SeatView, 0, len(eng.Seats()))
	for i, s := range eng.Seats() {
		view := SeatView{
			Index:      i,
			ID:         s.ID,
			Name:       s.Name,
			Chips:      s.Chips,
			CurrentBet: s.CurrentBet,
			TotalBet:   s.TotalBet,
			Status:     s.Status,
			ShowCards:  s.ShowCards,
			Connected:  s.Connected,
			CardCount:  len(s.Hand),
		}

		reveal := atShowdown || s.ShowCards
		if isSpectator {
			reveal = reveal || godMode
		} else {
			reveal = reveal || s.ID == viewerID
		}
		if reveal {
			view.Hand = append([]card.Card{}, s.Hand...)
		}
		seats = append(seats, view)
	}

	return GameView{
		Stage:           eng.Stage(),
		Pot:             eng.Pot(),
		Board:           eng.Board(),
		ButtonPos:       eng.ButtonPos(),
		SBPos:           eng.SBPos(),
		BBPos:           eng.BBPos(),
		CurrentActor:    eng.CurrentActor(),
		CurrentBet:      eng.CurrentBet(),
		MinRaise:        eng.MinRaise(),
		Seats:           seats,
		SidePots:        eng.SidePots(),
		ShowdownResults: eng.ShowdownResults(),
		IsAllInShowdown: eng.IsAllInShowdown(),
		FoldWinner:      eng.FoldWinner(),
	}
}

// eligibleForEquities requires at least two non-folded hands dealt.
func (p *Projector) eligibleForEquities(eng *engine.Engine) bool {
	n := 0
	for _, s := range eng.Seats() {
		if s.Status != engine.Folded && s.Status != engine.SittingOut && s.Status != engine.Waiting && len(s.Hand) == 2 {
			n++
		}
	}
	return n >= 2
}

func (p *Projector) equities(ctx context.Context, eng *engine.Engine) (map[int]float64, error) {
	if p.cacheValid {
		return p.cachedEquities, nil
	}
	var hands []equity.Hand
	for i, s := range eng.Seats() {
		if s.Status != engine.Folded && s.Status != engine.SittingOut && s.Status != engine.Waiting && len(s.Hand) == 2 {
			hands = append(hands, equity.Hand{SeatIndex: i, Cards: s.Hand})
		}
	}
	result, err := p.estimate(ctx, hands, eng.Board(), p.iterations)
	if err != nil {
		return nil, err
	}
	p.cachedEquities = result
	p.cacheValid = true
	return result, nil
}
