// Package config assembles the process-level configuration for
// cmd/server: the listen address, the default LobbyConfig new rooms are
// created with, the equity estimator's iteration budget, and the log
// level. Command-line flags (github.com/alecthomas/kong) override an
// optional HCL file (github.com/hashicorp/hcl/v2), which in turn
// overrides the built-in defaults, grounded on lox-pokerforbots'
// kong+HCL config layering in internal/server/config.go.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/jz1452/Poker-Project/internal/lobby"
)

// CLI is the kong-parsed flag set for cmd/server. Every field overrides
// the matching HCL setting when explicitly provided.
type CLI struct {
	Config          string `kong:"short='c',default='holdem-server.hcl',help='Path to HCL configuration file.'"`
	Addr            string `kong:"short='a',help='Listen address (overrides config file).'"`
	LogLevel        string `kong:"short='l',help='Log level: debug, info, warn, error (overrides config file).'"`
	RoomCode        string `kong:"help='Initial room code (overrides config file).'"`
	MaxSeats        int    `kong:"help='Seats per table (overrides config file).'"`
	StartingStack   int64  `kong:"help='Default buy-in (overrides config file).'"`
	SmallBlind      int64  `kong:"help='Small blind (overrides config file).'"`
	BigBlind        int64  `kong:"help='Big blind (overrides config file).'"`
	ActionTimeoutMS int64  `kong:"help='Advisory per-action timeout in milliseconds (overrides config file).'"`
	GodMode         bool   `kong:"help='Enable spectator hole cards and equities.'"`
	EquityIters     int    `kong:"help='Monte-Carlo trials per equity estimate (overrides config file).'"`
}

// Room is the HCL-decoded `room` block: the defaults every new Lobby is
// constructed with.
type Room struct {
	RoomCode        string `hcl:"room_code,optional"`
	MaxSeats        int    `hcl:"max_seats,optional"`
	StartingStack   int64  `hcl:"starting_stack,optional"`
	SmallBlind      int64  `hcl:"small_blind,optional"`
	BigBlind        int64  `hcl:"big_blind,optional"`
	ActionTimeoutMS int64  `hcl:"action_timeout_ms,optional"`
	GodMode         bool   `hcl:"god_mode,optional"`
}

// FileConfig is the top-level HCL document shape.
type FileConfig struct {
	Addr        string `hcl:"addr,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	EquityIters int    `hcl:"equity_iterations,optional"`
	Room        Room   `hcl:"room,block"`
}

// Config is the fully-resolved process configuration cmd/server runs
// with, after HCL defaults are overlaid by explicit CLI flags.
type Config struct {
	Addr        string
	LogLevel    string
	EquityIters int
	Room        lobby.Config
}

// Default returns the built-in configuration used when no HCL file is
// present and no CLI flags override it.
func Default() Config {
	return Config{
		Addr:        ":8080",
		LogLevel:    "info",
		EquityIters: 20000,
		Room: lobby.Config{
			RoomCode:        "MAIN",
			MaxSeats:        9,
			StartingStack:   1000,
			SmallBlind:      5,
			BigBlind:        10,
			ActionTimeout:   30 * time.Second,
			GodMode:         false,
			MaxChatMessages: 200,
		},
	}
}

// Load reads an HCL file at path (silently falling back to Default() if
// it doesn't exist), then applies cli's explicitly-set fields on top.
func Load(path string, cli CLI) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return Config{}, fmt.Errorf("config: parse %s: %s", path, diags.Error())
		}
		var fc FileConfig
		if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
			return Config{}, fmt.Errorf("config: decode %s: %s", path, diags.Error())
		}
		cfg.applyFile(fc)
	}

	cfg.applyCLI(cli)
	return cfg, cfg.validate()
}

func (c *Config) applyFile(fc FileConfig) {
	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.EquityIters > 0 {
		c.EquityIters = fc.EquityIters
	}
	if fc.Room.RoomCode != "" {
		c.Room.RoomCode = fc.Room.RoomCode
	}
	if fc.Room.MaxSeats > 0 {
		c.Room.MaxSeats = fc.Room.MaxSeats
	}
	if fc.Room.StartingStack > 0 {
		c.Room.StartingStack = fc.Room.StartingStack
	}
	if fc.Room.SmallBlind > 0 {
		c.Room.SmallBlind = fc.Room.SmallBlind
	}
	if fc.Room.BigBlind > 0 {
		c.Room.BigBlind = fc.Room.BigBlind
	}
	if fc.Room.ActionTimeoutMS > 0 {
		c.Room.ActionTimeout = time.Duration(fc.Room.ActionTimeoutMS) * time.Millisecond
	}
	if fc.Room.GodMode {
		c.Room.GodMode = true
	}
}

func (c *Config) applyCLI(cli CLI) {
	if cli.Addr != "" {
		c.Addr = cli.Addr
	}
	if cli.LogLevel != "" {
		c.LogLevel = cli.LogLevel
	}
	if cli.EquityIters > 0 {
		c.EquityIters = cli.EquityIters
	}
	if cli.RoomCode != "" {
		c.Room.RoomCode = cli.RoomCode
	}
	if cli.MaxSeats > 0 {
		c.Room.MaxSeats = cli.MaxSeats
	}
	if cli.StartingStack > 0 {
		c.Room.StartingStack = cli.StartingStack
	}
	if cli.SmallBlind > 0 {
		c.Room.SmallBlind = cli.SmallBlind
	}
	if cli.BigBlind > 0 {
		c.Room.BigBlind = cli.BigBlind
	}
	if cli.ActionTimeoutMS > 0 {
		c.Room.ActionTimeout = time.Duration(cli.ActionTimeoutMS) * time.Millisecond
	}
	if cli.GodMode {
		c.Room.GodMode = true
	}
}

func (c Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	if c.EquityIters <= 0 {
		return fmt.Errorf("config: equity_iterations must be > 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return nil
}
