// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinestellation/internal/corpus"
	"github.com/tomtom215/cinestellation/internal/engine"
	"github.com/tomtom215/cinestellation/internal/recommend"
)

// loadDatasetRequest optionally overrides the configured dataset paths.
type loadDatasetRequest struct {
	MoviesPath  string `json:"moviesPath"`
	RatingsPath string `json:"ratingsPath"`
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Initialize(r.Context()); err != nil {
		s.respondPassError(w, r, "initialize", err)
		return
	}
	respondJSON(w, r, http.StatusOK, s.engine.Status())
}

func (s *Server) handleLoadDataset(w http.ResponseWriter, r *http.Request) {
	req := loadDatasetRequest{
		MoviesPath:  s.dataset.MoviesPath,
		RatingsPath: s.dataset.RatingsPath,
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, r, http.StatusBadRequest, codeValidation, "malformed request body", err)
			return
		}
	}
	if req.MoviesPath == "" || req.RatingsPath == "" {
		respondError(w, r, http.StatusBadRequest, codeValidation, "moviesPath and ratingsPath are required", nil)
		return
	}

	if err := s.engine.LoadDataset(r.Context(), req.MoviesPath, req.RatingsPath); err != nil {
		s.respondPassError(w, r, "load dataset", err)
		return
	}
	respondJSON(w, r, http.StatusOK, s.engine.Status())
}

func (s *Server) handleComputeSimilarity(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ComputeSimilarity(r.Context()); err != nil {
		s.respondPassError(w, r, "compute similarity", err)
		return
	}
	respondJSON(w, r, http.StatusOK, s.engine.Status())
}

func (s *Server) handleBuildConstellations(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.BuildConstellations(r.Context()); err != nil {
		s.respondPassError(w, r, "build constellations", err)
		return
	}
	respondJSON(w, r, http.StatusOK, s.engine.Status())
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, codeValidation, "movieID must be an integer", nil)
		return
	}

	topN := s.cfg.DefaultTopN
	if raw := r.URL.Query().Get("topN"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil || topN < 1 {
			respondError(w, r, http.StatusBadRequest, codeValidation, "topN must be a positive integer", nil)
			return
		}
	}
	if topN > s.cfg.MaxTopN {
		topN = s.cfg.MaxTopN
	}

	entries, err := s.engine.Recommend(movieID, topN)
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, r, http.StatusNotFound, codeNotFound, "movie not found", nil)
		return
	case errors.Is(err, engine.ErrNotReady):
		respondError(w, r, http.StatusServiceUnavailable, codeNotReady, "no dataset loaded yet", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, codeInternal, "recommendation failed", err)
		return
	}
	respondJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, err := s.engine.Export()
	if err != nil {
		if errors.Is(err, engine.ErrNotReady) {
			respondError(w, r, http.StatusServiceUnavailable, codeNotReady, "no constellation dataset built yet", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, codeInternal, "export failed", err)
		return
	}
	respondJSON(w, r, http.StatusOK, ds)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.engine.Status())
}

// respondPassError maps pipeline errors onto HTTP statuses: overlapping
// passes conflict, missing prerequisites are unavailable, bad input data
// is unprocessable, everything else is internal.
func (s *Server) respondPassError(w http.ResponseWriter, r *http.Request, action string, err error) {
	var de *corpus.DataError
	switch {
	case errors.Is(err, engine.ErrPassInFlight):
		respondError(w, r, http.StatusConflict, codePassInFlight, "another pass is already running", nil)
	case errors.Is(err, engine.ErrNotReady):
		respondError(w, r, http.StatusServiceUnavailable, codeNotReady, action+" requires an earlier pass to have completed", nil)
	case errors.As(err, &de):
		respondError(w, r, http.StatusUnprocessableEntity, codeDataError, de.Error(), err)
	default:
		respondError(w, r, http.StatusInternalServerError, codeInternal, action+" failed", err)
	}
}
