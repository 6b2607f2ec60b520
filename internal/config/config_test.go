package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"), CLI{})
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadAppliesFileThenCLIOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdem-server.hcl")
	hcl := `
addr = ":9090"
log_level = "debug"

room {
  room_code = "FROMFILE"
  max_seats = 6
  small_blind = 1
  big_blind = 2
}
`
	require.NoError(t, os.WriteFile(path, []byte(hcl), 0o644))

	cfg, err := Load(path, CLI{})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "FROMFILE", cfg.Room.RoomCode)
	require.EqualValues(t, 6, cfg.Room.MaxSeats)

	cfg, err = Load(path, CLI{Addr: ":7070", RoomCode: "FROMCLI"})
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, "FROMCLI", cfg.Room.RoomCode)
	require.Equal(t, "debug", cfg.LogLevel, "CLI didn't override log level, file value should stick")
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"), CLI{LogLevel: "verbose"})
	require.Error(t, err)
}
