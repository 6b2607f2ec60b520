// Package gateway is the transport: JSON envelopes (internal/wire) carried
// over github.com/gorilla/websocket connections. Each connection runs a
// read pump / write pump goroutine pair, grounded on moonhole-HoldemIJ's
// apps/server/internal/gateway/gateway.go Connection type. Read pumps only
// decode frames and enqueue them on a single channel; every wire.Dispatcher
// call happens on the one goroutine draining that channel, which is what
// keeps the single-threaded-core guarantee (spec §5) true with a real
// multi-connection transport instead of an in-process test harness.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	readLimit      = 65536
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	writeWait      = 10 * time.Second
	sendBufferSize = 256
	inboundBuffer  = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// inboundMsg is one frame queued from a read pump for the dispatcher loop,
// or, with disconnect set, notice that the connection has gone away.
type inboundMsg struct {
	connID     string
	data       []byte
	disconnect bool
}

// Handler is the subset of wire.Dispatcher the gateway drives: decode one
// raw frame for a connection, or react to that connection going away.
type Handler interface {
	Handle(connID string, raw []byte)
	HandleDisconnect(connID string)
}

// connection is one upgraded client socket.
type connection struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Gateway owns every live connection and the single inbound queue the
// dispatcher loop drains.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*connection
	nextConnID  uint64

	inbound  chan inboundMsg
	handler  Handler
	log      *log.Logger
}

// New builds a Gateway. handler is bound after construction via SetHandler
// so cmd/server can build the Gateway and the Dispatcher in either order
// (the Dispatcher needs a Sender that closes over the Gateway).
func New(logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Default()
	}
	return &Gateway{
		connections: make(map[string]*connection),
		inbound:     make(chan inboundMsg, inboundBuffer),
		log:         logger,
	}
}

// SetHandler binds the Dispatcher the Run loop delivers frames to.
func (g *Gateway) SetHandler(h Handler) { g.handler = h }

// Run drains the inbound queue and calls Handler.Handle for each frame.
// It is the single goroutine allowed to call into the Dispatcher; callers
// should run it in its own goroutine and stop the process to stop it.
func (g *Gateway) Run() {
	for msg := range g.inbound {
		if msg.disconnect {
			g.handler.HandleDisconnect(msg.connID)
			continue
		}
		g.handler.Handle(msg.connID, msg.data)
	}
}

// HandleWebSocket upgrades the HTTP request and starts the connection's
// read/write pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("websocket upgrade failed", "err", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)
	c := &connection{id: connID, conn: conn, send: make(chan []byte, sendBufferSize)}
	g.connections[connID] = c
	total := len(g.connections)
	g.mu.Unlock()

	g.log.Info("client connected", "conn", connID, "total", total)

	go g.writePump(c)
	go g.readPump(c)
}

// Send implements wire.Sender: JSON-encode payload and enqueue it on
// connID's write pump, dropping it if the connection is gone or its
// buffer is full rather than blocking the dispatcher goroutine.
func (g *Gateway) Send(connID string, payload interface{}) {
	g.mu.RLock()
	c, ok := g.connections[connID]
	g.mu.RUnlock()
	if !ok {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		g.log.Error("encode outbound payload failed", "conn", connID, "err", err)
		return
	}
	select {
	case c.send <- data:
	default:
		g.log.Warn("outbound buffer full, dropping message", "conn", connID)
	}
}

// CloseConn closes and forgets a connection, used by the dispatcher to
// evict a superseded or kicked connection.
func (g *Gateway) CloseConn(connID string) {
	g.mu.Lock()
	c, ok := g.connections[connID]
	if ok {
		delete(g.connections, connID)
	}
	g.mu.Unlock()
	if ok {
		close(c.send)
	}
}

func (g *Gateway) removeConnection(c *connection) {
	g.mu.Lock()
	_, ok := g.connections[c.id]
	delete(g.connections, c.id)
	total := len(g.connections)
	g.mu.Unlock()
	if ok {
		g.log.Info("client disconnected", "conn", c.id, "total", total)
		g.inbound <- inboundMsg{connID: c.id, disconnect: true}
	}
}

func (g *Gateway) readPump(c *connection) {
	defer func() {
		g.removeConnection(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				g.log.Debug("read error", "conn", c.id, "err", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		select {
		case g.inbound <- inboundMsg{connID: c.id, data: data}:
		default:
			g.log.Warn("inbound queue full, dropping frame", "conn", c.id)
		}
	}
}

func (g *Gateway) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
