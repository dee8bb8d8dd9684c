// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package api exposes the pass pipeline and lookup surface over HTTP.
//
// All endpoints live under /api/v1 and respond with the APIResponse
// envelope. Pass-triggering endpoints are POSTs and run synchronously;
// while one pass runs, further pass requests are rejected with 409.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinestellation/internal/config"
	"github.com/tomtom215/cinestellation/internal/constellation"
	"github.com/tomtom215/cinestellation/internal/engine"
	"github.com/tomtom215/cinestellation/internal/recommend"
)

// Engine is the pipeline surface the server fronts. *engine.Engine
// satisfies it.
type Engine interface {
	LoadDataset(ctx context.Context, moviesPath, ratingsPath string) error
	Initialize(ctx context.Context) error
	ComputeSimilarity(ctx context.Context) error
	BuildConstellations(ctx context.Context) error
	Recommend(movieID, topN int) ([]recommend.Entry, error)
	Export() (*constellation.Dataset, error)
	Status() engine.Status
}

// Server holds handler dependencies.
type Server struct {
	engine  Engine
	cfg     config.APIConfig
	dataset config.DatasetConfig
}

// NewServer creates a server over an engine.
func NewServer(eng Engine, cfg config.APIConfig, dataset config.DatasetConfig) *Server {
	return &Server{engine: eng, cfg: cfg, dataset: dataset}
}

// Router assembles the chi router with middleware and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(metricsMiddleware)
	r.Use(chimiddleware.Recoverer)
	if s.cfg.RateLimit > 0 {
		r.Use(httprate.Limit(
			s.cfg.RateLimit,
			s.cfg.RatePeriod,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
	}

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/initialize", s.handleInitialize)
		r.Post("/dataset/load", s.handleLoadDataset)
		r.Post("/similarity/compute", s.handleComputeSimilarity)
		r.Post("/constellations", s.handleBuildConstellations)
		r.Get("/recommend/{movieID}", s.handleRecommend)
		r.Get("/export", s.handleExport)
		r.Get("/status", s.handleStatus)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}
