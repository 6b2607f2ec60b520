package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/jz1452/Poker-Project/card"
	"github.com/jz1452/Poker-Project/internal/equity"
	"github.com/jz1452/Poker-Project/internal/handrank"
	"github.com/jz1452/Poker-Project/internal/lobby"
	"github.com/jz1452/Poker-Project/internal/view"
	"github.com/jz1452/Poker-Project/internal/wire"
)

// noopEstimate satisfies view.EstimateFunc without running real Monte-Carlo
// trials; these tests never reach a state where it would be called.
func noopEstimate(_ context.Context, _ []equity.Hand, _ []card.Card, _ int) (map[int]float64, error) {
	return map[int]float64{}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	l, err := lobby.New(lobby.Config{
		MaxSeats:      4,
		StartingStack: 1000,
		SmallBlind:    5,
		BigBlind:      10,
	}, handrank.Evaluate, handrank.Describe, func() int64 { return 1000 })
	require.NoError(t, err)

	projector := view.NewProjector(l, view.EstimateFunc(noopEstimate), 100)

	gw := New(nil)
	dispatcher := wire.NewDispatcher(l, projector, gw.Send, gw.CloseConn, nil)
	gw.SetHandler(dispatcher)
	go gw.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	return httptest.NewServer(mux)
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv.URL), nil)
	require.NoError(t, err)
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestJoinRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	req := map[string]interface{}{"v": 1, "kind": "request", "id": "1", "action": "join", "data": map[string]string{"name": "Alice"}}
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))

	// The dispatcher broadcasts game_state before it returns the response.
	event := readEnvelope(t, conn)
	require.Equal(t, "event", event["kind"])
	require.Equal(t, "game_state", event["event"])

	resp := readEnvelope(t, conn)
	require.Equal(t, "response", resp["kind"])
	require.Equal(t, true, resp["ok"])
}

func TestBadPayloadNeverTouchesLobby(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	resp := readEnvelope(t, conn)
	errInfo, ok := resp["error"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, string(wire.ErrBadPayload), errInfo["code"])
}
