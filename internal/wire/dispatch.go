package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jz1452/Poker-Project/internal/engine"
	"github.com/jz1452/Poker-Project/internal/lobby"
	"github.com/jz1452/Poker-Project/internal/view"
)

// Sender pushes an already-encoded Response or Event to one connection.
// It is the dispatcher's only dependency on the transport.
type Sender func(connID string, payload interface{})

// Dispatcher binds connections to user ids, maps each inbound action to a
// Lobby call, and re-broadcasts projected state after every successful
// mutation. It is meant to run on a single goroutine; nothing here takes
// a lock.
type Dispatcher struct {
	lobby     *lobby.Lobby
	projector *view.Projector
	send      Sender
	closeConn func(connID string)
	log       *log.Logger

	connUser map[string]string // connID -> userID
	userConn map[string]string // userID -> owning connID
	nextUser int
}

// NewDispatcher builds a Dispatcher. send delivers an encoded Response or
// Event to a connection id; closeConn closes a superseded or kicked
// connection. Both are the gateway's responsibility.
func NewDispatcher(l *lobby.Lobby, p *view.Projector, send Sender, closeConn func(string), logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		lobby:     l,
		projector: p,
		send:      send,
		closeConn: closeConn,
		log:       logger,
		connUser:  make(map[string]string),
		userConn:  make(map[string]string),
	}
}

// Handle decodes raw as a Request and dispatches it, sending the Response
// back over connID via Sender. A malformed envelope never reaches Lobby.
func (d *Dispatcher) Handle(connID string, raw []byte) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		d.send(connID, newErrorResponse("", ErrBadPayload, "malformed envelope"))
		return
	}
	if req.V != protocolVersion || req.Kind != "request" || req.ID == "" {
		d.send(connID, newErrorResponse(req.ID, ErrBadPayload, "malformed envelope"))
		return
	}
	d.send(connID, d.dispatch(connID, req))
}

// HandleDisconnect marks the connection's bound user disconnected and
// broadcasts the change, per §4.2.1.
func (d *Dispatcher) HandleDisconnect(connID string) {
	userID, ok := d.connUser[connID]
	if !ok {
		return
	}
	delete(d.connUser, connID)
	if d.userConn[userID] == connID {
		delete(d.userConn, userID)
	}
	if err := d.lobby.DisconnectPlayer(userID); err == nil {
		d.projector.InvalidateEquityCache()
		d.broadcastState()
	}
}

func (d *Dispatcher) dispatch(connID string, req Request) Response {
	if req.Action == "join" {
		return d.handleJoin(connID, req)
	}

	userID, ok := d.connUser[connID]
	if !ok {
		return newErrorResponse(req.ID, ErrUnauthorized, "must join before acting")
	}
	if d.userConn[userID] != connID {
		return newErrorResponse(req.ID, ErrStaleConnection, "connection superseded")
	}

	switch req.Action {
	case "sit":
		return d.handleSit(req, userID)
	case "stand":
		return d.mutate(req, userID, func() error { return d.lobby.StandPlayer(userID) })
	case "start_game":
		return d.mutate(req, userID, func() error { return d.lobby.StartGame(userID) })
	case "start_next_hand":
		return d.mutate(req, userID, func() error { return d.lobby.StartNextHand(userID) })
	case "game_action":
		return d.handleGameAction(req, userID)
	case "muck_show":
		return d.handleMuckShow(req, userID)
	case "rebuy":
		return d.handleRebuy(req, userID)
	case "chat":
		return d.handleChat(req, userID)
	case "update_config":
		return d.handleUpdateConfig(req, userID)
	case "end_game":
		return d.mutate(req, userID, func() error { return d.lobby.EndGame(userID) })
	case "kick_player":
		return d.handleKick(req, userID)
	case "leave":
		return d.handleLeave(connID, req, userID)
	default:
		return newErrorResponse(req.ID, ErrBadPayload, fmt.Sprintf("unknown action %q", req.Action))
	}
}

type joinData struct {
	Name string  `json:"name"`
	ID   *string `json:"id,omitempty"`
}

func (d *Dispatcher) handleJoin(connID string, req Request) Response {
	var data joinData
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return newErrorResponse(req.ID, ErrBadPayload, "bad join payload")
		}
	}

	userID := ""
	if data.ID != nil && *data.ID != "" {
		userID = *data.ID
	}
	reconnect := userID != ""
	if !reconnect {
		d.nextUser++
		userID = fmt.Sprintf("u%d", d.nextUser)
	}

	if reconnect {
		if err := d.lobby.ReconnectPlayer(userID); err != nil {
			if err := d.lobby.Join(userID, data.Name); err != nil {
				return newErrorResponse(req.ID, ErrBadPayload, err.Error())
			}
		}
	} else if err := d.lobby.Join(userID, data.Name); err != nil {
		return newErrorResponse(req.ID, ErrBadPayload, err.Error())
	}

	if previous, ok := d.userConn[userID]; ok && previous != connID {
		delete(d.connUser, previous)
		d.closeConn(previous)
	}
	d.connUser[connID] = userID
	d.userConn[userID] = connID

	d.broadcastState()
	return newResponse(req.ID, map[string]string{"userId": userID})
}

type sitData struct {
	SeatIndex int   `json:"seatIndex"`
	BuyIn     int64 `json:"buyIn"`
}

func (d *Dispatcher) handleSit(req Request, userID string) Response {
	var data sitData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		return newErrorResponse(req.ID, ErrBadPayload, "bad sit payload")
	}
	return d.mutate(req, userID, func() error { return d.lobby.SitPlayer(userID, data.SeatIndex, data.BuyIn) })
}

type gameActionData struct {
	Command string `json:"command"`
	Amount  int64  `json:"amount"`
}

func (d *Dispatcher) handleGameAction(req Request, userID string) Response {
	var data gameActionData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		return newErrorResponse(req.ID, ErrBadPayload, "bad game_action payload")
	}
	act, ok := engine.ParseAction(data.Command)
	if !ok {
		return newErrorResponse(req.ID, ErrBadPayload, fmt.Sprintf("unknown command %q", data.Command))
	}
	if !d.lobby.GameAction(userID, act, data.Amount) {
		return newErrorResponse(req.ID, ErrInvalidAction, "action rejected")
	}
	d.projector.InvalidateEquityCache()
	d.broadcastState()
	return newResponse(req.ID, nil)
}

type muckShowData struct {
	Show bool `json:"show"`
}

func (d *Dispatcher) handleMuckShow(req Request, userID string) Response {
	var data muckShowData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		return newErrorResponse(req.ID, ErrBadPayload, "bad muck_show payload")
	}
	if !d.lobby.MuckShow(userID, data.Show) {
		return newErrorResponse(req.ID, ErrInvalidAction, "muck/show rejected")
	}
	d.broadcastState()
	return newResponse(req.ID, nil)
}

type rebuyData struct {
	Amount int64 `json:"amount"`
}

func (d *Dispatcher) handleRebuy(req Request, userID string) Response {
	var data rebuyData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		return newErrorResponse(req.ID, ErrBadPayload, "bad rebuy payload")
	}
	return d.mutate(req, userID, func() error { return d.lobby.Rebuy(userID, data.Amount) })
}

type chatData struct {
	Message string `json:"message"`
}

func (d *Dispatcher) handleChat(req Request, userID string) Response {
	var data chatData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		return newErrorResponse(req.ID, ErrBadPayload, "bad chat payload")
	}
	if _, err := d.lobby.AddChatMessage(userID, data.Message); err != nil {
		return newErrorResponse(req.ID, ErrInvalidAction, err.Error())
	}
	d.broadcastState()
	return newResponse(req.ID, nil)
}

type updateConfigData struct {
	MaxSeats        *int    `json:"maxSeats,omitempty"`
	StartingStack   *int64  `json:"startingStack,omitempty"`
	SmallBlind      *int64  `json:"smallBlind,omitempty"`
	BigBlind        *int64  `json:"bigBlind,omitempty"`
	ActionTimeoutMS *int64  `json:"actionTimeoutMs,omitempty"`
	GodMode         *bool   `json:"godMode,omitempty"`
	RoomCode        *string `json:"roomCode,omitempty"`
}

func (d *Dispatcher) handleUpdateConfig(req Request, userID string) Response {
	var data updateConfigData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		return newErrorResponse(req.ID, ErrBadPayload, "bad update_config payload")
	}
	newCfg := d.lobby.Config()
	if data.MaxSeats != nil {
		newCfg.MaxSeats = *data.MaxSeats
	}
	if data.StartingStack != nil {
		newCfg.StartingStack = *data.StartingStack
	}
	if data.SmallBlind != nil {
		newCfg.SmallBlind = *data.SmallBlind
	}
	if data.BigBlind != nil {
		newCfg.BigBlind = *data.BigBlind
	}
	if data.ActionTimeoutMS != nil {
		newCfg.ActionTimeout = time.Duration(*data.ActionTimeoutMS) * time.Millisecond
	}
	if data.GodMode != nil {
		newCfg.GodMode = *data.GodMode
	}
	if data.RoomCode != nil {
		newCfg.RoomCode = *data.RoomCode
	}
	return d.mutate(req, userID, func() error { return d.lobby.UpdateConfig(userID, newCfg) })
}

type kickData struct {
	TargetID string `json:"targetId"`
}

func (d *Dispatcher) handleKick(req Request, userID string) Response {
	var data kickData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		return newErrorResponse(req.ID, ErrBadPayload, "bad kick_player payload")
	}
	if err := d.lobby.KickPlayer(userID, data.TargetID); err != nil {
		return newErrorResponse(req.ID, ErrInvalidAction, err.Error())
	}
	if targetConn, ok := d.userConn[data.TargetID]; ok {
		d.send(targetConn, newEvent("kicked", nil))
		delete(d.userConn, data.TargetID)
		delete(d.connUser, targetConn)
		d.closeConn(targetConn)
	}
	d.projector.InvalidateEquityCache()
	d.broadcastState()
	return newResponse(req.ID, nil)
}

func (d *Dispatcher) handleLeave(connID string, req Request, userID string) Response {
	if err := d.lobby.Leave(userID); err != nil {
		return newErrorResponse(req.ID, ErrInvalidAction, err.Error())
	}
	delete(d.userConn, userID)
	delete(d.connUser, connID)
	d.projector.InvalidateEquityCache()
	d.broadcastState()
	return newResponse(req.ID, nil)
}

// mutate runs fn, maps any error to the §7 taxonomy, and broadcasts
// updated state on success.
func (d *Dispatcher) mutate(req Request, userID string, fn func() error) Response {
	if err := fn(); err != nil {
		return newErrorResponse(req.ID, ErrInvalidAction, err.Error())
	}
	d.projector.InvalidateEquityCache()
	d.broadcastState()
	return newResponse(req.ID, nil)
}

// broadcastState re-projects state for every connection bound to a joined
// user and pushes a game_state event to each. Connections that have not
// joined receive no game_state.
func (d *Dispatcher) broadcastState() {
	ctx := context.Background()
	for connID, userID := range d.connUser {
		sv, err := d.projector.Project(ctx, userID)
		if err != nil {
			d.log.Error("project state failed", "user", userID, "err", err)
			continue
		}
		d.send(connID, newEvent("game_state", sv))
	}
}
