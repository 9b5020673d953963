// Command hydroserver runs a hydro world server: it loads a TOML
// configuration file (creating one with defaults on first run), starts
// the tick loop and WebSocket listener, and drives an interactive
// operator console on stdin until the console issues "stop" or the
// process receives an interrupt.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hydro-mc/hydro/server"
	"github.com/hydro-mc/hydro/server/console"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the server's TOML configuration file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	uc, err := server.LoadUserConfig(*configPath)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	srv, err := uc.Config(log).New()
	if err != nil {
		log.Error("create server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	go console.New(srv, log).Run(ctx)

	if err := srv.Run(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
