// Command server runs the No-Limit Hold'em gateway: it loads
// configuration, builds the lobby/engine/view core, and serves it over a
// websocket gateway. Grounded on moonhole-HoldemIJ's apps/server/main.go
// wiring and lox-pokerforbots' cmd/holdem-server/main.go kong+HCL+
// charmbracelet/log startup sequence.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jz1452/Poker-Project/internal/config"
	"github.com/jz1452/Poker-Project/internal/equity"
	"github.com/jz1452/Poker-Project/internal/gateway"
	"github.com/jz1452/Poker-Project/internal/handrank"
	"github.com/jz1452/Poker-Project/internal/lobby"
	"github.com/jz1452/Poker-Project/internal/logging"
	"github.com/jz1452/Poker-Project/internal/view"
	"github.com/jz1452/Poker-Project/internal/wire"
)

func main() {
	var cli config.CLI
	kctx := kong.Parse(&cli,
		kong.Name("holdem-server"),
		kong.Description("No-Limit Hold'em lobby/engine server"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config, cli)
	if err != nil {
		kctx.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting", "addr", cfg.Addr, "room", cfg.Room.RoomCode, "maxSeats", cfg.Room.MaxSeats)

	lby, err := lobby.New(cfg.Room, handrank.Evaluate, handrank.Describe, nil)
	if err != nil {
		logger.Fatal("building lobby failed", "err", err)
	}

	projector := view.NewProjector(lby, equity.Estimate, cfg.EquityIters)

	gw := gateway.New(logger)
	dispatcher := wire.NewDispatcher(lby, projector, gw.Send, gw.CloseConn, logger)
	gw.SetHandler(dispatcher)
	go gw.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: withCORS(mux)}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		srv.Shutdown(context.Background())
	}()

	logger.Info("listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", "err", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
