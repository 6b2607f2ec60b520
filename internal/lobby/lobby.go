package lobby

import (
	"strconv"

	"github.com/jz1452/Poker-Project/internal/engine"
)

// Lobby owns one Hand Engine plus the roster, host assignment, chat, and
// connection state. Every exported method is a complete, validated
// mutation meant to be called from a single dispatcher goroutine; the
// Lobby itself holds no lock because there is no intra-core sharing
// (matching the engine's own concurrency model).
type Lobby struct {
	cfg    Config
	engine *engine.Engine

	users      []*User
	usersByID  map[string]*User
	hostID     string

	chat      []ChatMessage
	chatSeq   int

	gameInProgress bool

	now func() int64
}

// New builds an empty Lobby with cfg.MaxSeats seats, none occupied. eval
// and describe are forwarded to the Hand Engine's showdown evaluator; now
// supplies chat timestamps (defaults to time.Now in milliseconds if nil),
// matching the fact that the clock is an external collaborator per §1.
func New(cfg Config, eval engine.Evaluator, describe engine.Describer, now func() int64) (*Lobby, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxChatMessages <= 0 {
		cfg.MaxChatMessages = defaultMaxChatMessages
	}
	eng, err := engine.NewEngine(engine.Config{
		MaxSeats:   cfg.MaxSeats,
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
	}, eval, describe)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = defaultClock
	}
	return &Lobby{
		cfg:       cfg,
		engine:    eng,
		usersByID: make(map[string]*User),
		now:       now,
	}, nil
}

// Engine exposes the underlying Hand Engine for the view projector and
// the dispatcher's read paths. Mutations must still go through Lobby.
func (l *Lobby) Engine() *engine.Engine { return l.engine }

// Config returns the current lobby configuration.
func (l *Lobby) Config() Config { return l.cfg }

// Users returns the joined roster in join order.
func (l *Lobby) Users() []*User { return l.users }

// HostID returns the current host's id, or "" if none.
func (l *Lobby) HostID() string { return l.hostID }

// GameInProgress reports whether startGame has been called without a
// matching endGame.
func (l *Lobby) GameInProgress() bool { return l.gameInProgress }

// ChatMessages returns the chat ring buffer, oldest first.
func (l *Lobby) ChatMessages() []ChatMessage { return l.chat }

func (l *Lobby) userByID(id string) *User { return l.usersByID[id] }

// Join adds id as a spectator. Fails if id is already present. If no
// connected host currently exists, this user becomes host.
func (l *Lobby) Join(id, name string) error {
	if _, ok := l.usersByID[id]; ok {
		return ErrAlreadyJoined
	}
	u := &User{ID: id, Name: name, IsSpectator: true, IsConnected: true}
	l.users = append(l.users, u)
	l.usersByID[id] = u
	l.electHostIfNeeded()
	return nil
}

// Leave removes id from the table entirely: stands it from any seat
// (preserving dead money per engine.ForfeitAndVacateSeat), then removes
// the user. Electing a new host if the leaver was host.
func (l *Lobby) Leave(id string) error {
	u, ok := l.usersByID[id]
	if !ok {
		return ErrNotJoined
	}
	_ = l.engine.ForfeitAndVacateSeat(id, l.gameInProgress)

	wasHost := u.IsHost
	delete(l.usersByID, id)
	for i, x := range l.users {
		if x.ID == id {
			l.users = append(l.users[:i], l.users[i+1:]...)
			break
		}
	}

	if len(l.users) == 0 {
		l.hostID = ""
		l.chat = nil
		l.gameInProgress = false
		return nil
	}
	if wasHost {
		l.hostID = ""
		l.electHostIfNeeded()
	}
	return nil
}

// KickPlayer is host-only and self-kick is forbidden. It is implemented
// as Leave(targetID); the "kicked" event itself is a dispatcher-layer
// concern (closing the target's socket), not the Lobby's.
func (l *Lobby) KickPlayer(hostID, targetID string) error {
	if err := l.requireHost(hostID); err != nil {
		return err
	}
	if hostID == targetID {
		return ErrSelfKick
	}
	return l.Leave(targetID)
}

// DisconnectPlayer marks a user and its seat (if any) disconnected. If
// this drops the current host, the first still-connected user (if any)
// is promoted.
func (l *Lobby) DisconnectPlayer(id string) error {
	u, ok := l.usersByID[id]
	if !ok {
		return ErrNotJoined
	}
	u.IsConnected = false
	_ = l.engine.SetPlayerConnection(id, false)
	if u.IsHost {
		u.IsHost = false
		l.hostID = ""
		l.electHostIfNeeded()
	}
	return nil
}

// ReconnectPlayer marks an existing user connected, promotes its seat to
// Waiting if eligible, and re-elects it as host if no connected host
// exists.
func (l *Lobby) ReconnectPlayer(id string) error {
	u, ok := l.usersByID[id]
	if !ok {
		return ErrNotJoined
	}
	u.IsConnected = true
	_ = l.engine.SetPlayerConnection(id, true)
	l.engine.MarkWaitingIfEligible(id)
	l.electHostIfNeeded()
	return nil
}

// electHostIfNeeded promotes the first connected user to host if no
// connected host currently exists.
func (l *Lobby) electHostIfNeeded() {
	if l.hostID != "" {
		if u, ok := l.usersByID[l.hostID]; ok && u.IsConnected {
			return
		}
	}
	for _, u := range l.users {
		if u.IsHost {
			u.IsHost = false
		}
	}
	l.hostID = ""
	for _, u := range l.users {
		if u.IsConnected {
			u.IsHost = true
			l.hostID = u.ID
			return
		}
	}
}

func (l *Lobby) requireHost(id string) error {
	if id == "" || id != l.hostID {
		return ErrNotHost
	}
	return nil
}

func defaultClock() int64 {
	return nowMillis()
}

func itoa(n int) string { return strconv.Itoa(n) }
