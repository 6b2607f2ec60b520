package logging

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsUnknownLevelToInfo(t *testing.T) {
	logger := New("nonsense")
	require.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestNewHonorsExplicitLevel(t *testing.T) {
	logger := New("debug")
	require.Equal(t, log.DebugLevel, logger.GetLevel())
}
