// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package main is the entry point for the CineStellation server.
//
// CineStellation computes content-based movie similarity from a
// MovieLens-style CSV dataset and assembles per-genre constellation
// graphs for visualization. The server exposes the pipeline and lookup
// endpoints over HTTP.
//
// # Startup
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: global zerolog logger per the logging config
//  3. Store: BadgerDB document store, on disk or in memory
//  4. Engine: pipeline state restored from any persisted snapshot
//  5. HTTP server: chi router under a suture supervisor tree
//
// # Configuration
//
// Common environment variables (see internal/config for the full set):
//   - HTTP_PORT: listen port (default 8521)
//   - LOG_LEVEL: trace|debug|info|warn|error (default info)
//   - STORE_PATH: BadgerDB directory (default ./data/store)
//   - MOVIES_PATH, RATINGS_PATH: default CSV locations for dataset loads
//   - SIMILARITY_TOP_NEIGHBORS: neighbors persisted per movie (default 20)
//   - CONSTELLATION_MIN_RATINGS: rating-count floor for graph nodes
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, then the store is closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinestellation/internal/api"
	"github.com/tomtom215/cinestellation/internal/config"
	"github.com/tomtom215/cinestellation/internal/constellation"
	"github.com/tomtom215/cinestellation/internal/engine"
	"github.com/tomtom215/cinestellation/internal/logging"
	"github.com/tomtom215/cinestellation/internal/storage"
	"github.com/tomtom215/cinestellation/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The default logger covers errors before config is available.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("store_in_memory", cfg.Store.InMemory).
		Str("store_path", cfg.Store.Path).
		Msg("Starting CineStellation")

	store, err := openStore(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	eng := engine.New(store, engine.Options{
		TopNeighbors: cfg.Similarity.TopNeighbors,
		Workers:      cfg.Similarity.Workers,
		Constellation: constellation.Params{
			MinRatings:          cfg.Constellation.MinRatings,
			SimilarityThreshold: cfg.Constellation.SimilarityThreshold,
			MaxConnections:      cfg.Constellation.MaxConnections,
		},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Restore any snapshot from a prior run so lookups work before the
	// first pass is triggered.
	if err := eng.Initialize(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Failed to restore persisted snapshot")
	}
	status := eng.Status()
	logging.Info().
		Int("movies", status.Movies).
		Bool("matrix_ready", status.MatrixReady).
		Int("graphs", status.Graphs).
		Msg("Engine initialized")

	srv := api.NewServer(eng, cfg.API, cfg.Dataset)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(supervisor.NewHTTPService(httpServer, 10*time.Second))
	logging.Info().Str("addr", httpServer.Addr).Msg("HTTP server service added")

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Stopped gracefully")
}

func openStore(cfg config.StoreConfig) (*storage.Store, error) {
	if cfg.InMemory {
		return storage.OpenInMemory()
	}
	return storage.Open(cfg.Path)
}
