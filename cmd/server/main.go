package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"forgemcp/server/internal/config"
	"forgemcp/server/internal/mcp"
	"forgemcp/server/internal/observability"
	"forgemcp/server/internal/resolver"
	"forgemcp/server/internal/tools"
	"forgemcp/server/internal/transport"
	"forgemcp/server/pkg/giteaapi"
)

func main() {
	// Stdout carries the protocol; all logging goes to stderr.
	log.SetOutput(os.Stderr)

	// Initialize observability (Loki)
	observability.Init()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	client := giteaapi.NewClient(cfg.BaseURL, cfg.Token)
	res := resolver.New(cfg.DefaultDirectory)
	registry := tools.NewRegistry(client, res)
	handler := mcp.NewHandler(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Server started (forge: %s, tools: %d)", cfg.BaseURL, len(registry.Tools()))

	stdio := transport.NewStdio(handler, os.Stdin, os.Stdout)
	if err := stdio.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Transport error: %v", err)
	}
}
