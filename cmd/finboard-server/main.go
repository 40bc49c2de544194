package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"finboard/internal/catalog"
	"finboard/internal/config"
	"finboard/internal/dart"
	"finboard/internal/listener"
	"finboard/internal/logging"
	"finboard/internal/narrative"
	"finboard/internal/pipeline"
	"finboard/internal/server"
	"finboard/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(cfg.Require("DART_API_KEY", cfg.DartAPIKey))

	logger := logging.New(cfg.LogLevel)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := dart.NewClient(cfg, logger)
	resolver := pipeline.NewResolver(client, logger, cfg.RangeWorkers)
	directory := catalog.NewDirectory(db)

	var analyzer server.Analyzer
	provider, err := narrative.NewGeminiProvider(ctx, cfg, logger)
	switch {
	case err == nil:
		analyzer = narrative.NewAnalyzer(provider, logger)
	case errors.Is(err, narrative.ErrMissingAPIKey):
		logger.Warn().Msg("GEMINI_API_KEY not set, analysis endpoints disabled")
	default:
		must(err)
	}

	srv := server.New(directory, resolver, analyzer, logger, server.Options{MaxRangeYears: cfg.MaxRangeYears})
	refresher := listener.NewService(catalog.NewSyncService(db, client, logger), cfg, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, cfg.HTTPAddr) })
	g.Go(func() error { return refresher.Run(gctx) })
	must(g.Wait())
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
