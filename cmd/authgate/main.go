package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/server"
	"authgate/internal/upstream"
)

func newHandler(cfg *config.Config) (http.Handler, error) {
	gate, err := auth.NewGate(cfg.Credentials())
	if err != nil {
		return nil, err
	}
	app, err := upstream.New(cfg)
	if err != nil {
		return nil, err
	}
	return server.Chain(app, server.Recovery, server.Logging, gate.Middleware), nil
}

// authgate: HTTP Basic Authentication in front of a web application
func main() {
	log.Println("Starting authgate...")

	if err := config.LoadEnvFile(); err != nil {
		log.Fatalf("Failed to read .env: %v", err)
	}
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	handler, err := newHandler(cfg)
	if err != nil {
		log.Fatalf("Failed to build handler: %v", err)
	}
	if cfg.UpstreamURL != "" {
		log.Printf("Proxying authenticated requests to %s", cfg.UpstreamURL)
	} else {
		log.Printf("Serving authenticated requests from %s", cfg.StaticDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Addr(), handler)
	log.Printf("Listening on %s (user=%s)", srv.Addr, cfg.BasicAuthUser)
	if err := server.Run(ctx, srv, cfg.ShutdownTimeout); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Stopped")
}
