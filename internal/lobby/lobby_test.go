package lobby

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jz1452/Poker-Project/internal/engine"
	"github.com/jz1452/Poker-Project/internal/handrank"
)

func newTestLobby(t *testing.T) *Lobby {
	t.Helper()
	l, err := New(Config{
		MaxSeats:      6,
		StartingStack: 1000,
		SmallBlind:    5,
		BigBlind:      10,
	}, handrank.Evaluate, handrank.Describe, func() int64 { return 1000 })
	require.NoError(t, err)
	return l
}

func TestJoinElectsFirstHost(t *testing.T) {
	l := newTestLobby(t)
	require.NoError(t, l.Join("host", "Host"))
	require.Equal(t, "host", l.HostID())

	require.NoError(t, l.Join("guest", "Guest"))
	require.Equal(t, "host", l.HostID())
}

func TestKickRules(t *testing.T) {
	l := newTestLobby(t)
	require.NoError(t, l.Join("host", "Host"))
	require.NoError(t, l.Join("guest", "Guest"))

	require.Error(t, l.KickPlayer("guest", "host"))
	require.Error(t, l.KickPlayer("host", "host"))
	require.NoError(t, l.KickPlayer("host", "guest"))
	require.Nil(t, l.userByID("guest"))
}

func TestHostReelectionOnDisconnect(t *testing.T) {
	l := newTestLobby(t)
	require.NoError(t, l.Join("host", "Host"))
	require.NoError(t, l.Join("guest", "Guest"))

	require.NoError(t, l.DisconnectPlayer("host"))
	require.Equal(t, "guest", l.HostID())
}

func TestConfigUpdateForbiddenMidGame(t *testing.T) {
	l := newTestLobby(t)
	require.NoError(t, l.Join("host", "Host"))
	require.NoError(t, l.Join("guest", "Guest"))
	require.NoError(t, l.SitPlayer("host", 0, 1000))
	require.NoError(t, l.SitPlayer("guest", 1, 1000))
	require.NoError(t, l.StartGame("host"))

	err := l.UpdateConfig("host", l.Config())
	require.ErrorIs(t, err, ErrGameInProgress)

	require.NoError(t, l.EndGame("host"))
	require.NoError(t, l.UpdateConfig("host", l.Config()))
}

func TestRebuyGating(t *testing.T) {
	l := newTestLobby(t)
	require.NoError(t, l.Join("host", "Host"))
	require.NoError(t, l.Join("guest", "Guest"))
	require.NoError(t, l.SitPlayer("host", 0, 1000))
	require.NoError(t, l.SitPlayer("guest", 1, 1000))
	require.NoError(t, l.StartGame("host"))

	require.Equal(t, engine.PreFlop, l.Engine().Stage())
	require.Error(t, l.Rebuy("host", 500))

	require.NoError(t, l.EndGame("host"))
	require.NoError(t, l.Rebuy("host", 500))
}

func TestChatTrimTruncateAndRingBuffer(t *testing.T) {
	l := newTestLobby(t)
	require.NoError(t, l.Join("host", "Host"))
	l.cfg.MaxChatMessages = 2

	_, err := l.AddChatMessage("host", "   ")
	require.Error(t, err)

	msg, err := l.AddChatMessage("host", "  hello  ")
	require.NoError(t, err)
	require.Equal(t, "hello", msg.Text)

	_, _ = l.AddChatMessage("host", "second")
	_, _ = l.AddChatMessage("host", "third")
	require.Len(t, l.ChatMessages(), 2)
	require.Equal(t, "second", l.ChatMessages()[0].Text)
	require.Equal(t, "third", l.ChatMessages()[1].Text)
}
