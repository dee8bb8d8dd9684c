// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package engine orchestrates the pass pipeline: dataset ingestion,
// similarity computation, constellation construction and export assembly.
//
// Passes are discrete and exclusive. A pass computes its outputs into
// locals and swaps them into the published snapshot only on success, so a
// failed pass never disturbs what readers currently see. Readers always
// get a consistent snapshot under a read lock.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinestellation/internal/constellation"
	"github.com/tomtom215/cinestellation/internal/corpus"
	"github.com/tomtom215/cinestellation/internal/logging"
	"github.com/tomtom215/cinestellation/internal/metrics"
	"github.com/tomtom215/cinestellation/internal/recommend"
	"github.com/tomtom215/cinestellation/internal/similarity"
	"github.com/tomtom215/cinestellation/internal/storage"
)

// ErrPassInFlight reports that another pass is still running. Passes are
// exclusive; callers retry after the running pass completes.
var ErrPassInFlight = errors.New("engine: a pass is already in flight")

// ErrNotReady reports that the requested output has no snapshot yet.
var ErrNotReady = errors.New("engine: snapshot not ready")

// Store is the persistence surface the engine writes snapshots through.
// *storage.Store satisfies it.
type Store interface {
	ReplaceMovies(rows []corpus.MovieRow) error
	LoadMovies() ([]corpus.MovieRow, error)
	ReplaceRatings(rows []corpus.RatingRow) error
	LoadRatings() ([]corpus.RatingRow, error)
	ReplaceSimilarities(records []similarity.MovieSimilarities) error
	LoadSimilarities() ([]similarity.MovieSimilarities, error)
	SaveConstellation(ds *constellation.Dataset) error
	LoadConstellation() (*constellation.Dataset, error)
}

// Options bounds the engine's passes.
type Options struct {
	// TopNeighbors is how many neighbors per movie survive persistence.
	TopNeighbors int

	// Workers is the similarity computation worker count, 0 for NumCPU.
	Workers int

	// Constellation bounds graph construction.
	Constellation constellation.Params
}

// Status describes the current snapshot.
type Status struct {
	Movies            int       `json:"movies"`
	Categories        int       `json:"categories"`
	MatrixReady       bool      `json:"matrixReady"`
	MatrixLossy       bool      `json:"matrixLossy"`
	Graphs            int       `json:"graphs"`
	SkippedCategories int       `json:"skippedCategories"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// Engine owns the published snapshot and runs the pass pipeline.
type Engine struct {
	store Store
	opts  Options
	log   zerolog.Logger

	// passMu serializes passes; TryLock turns overlap into ErrPassInFlight.
	passMu sync.Mutex

	// mu guards the published snapshot.
	mu          sync.RWMutex
	corpus      *corpus.Corpus
	matrix      *similarity.Matrix
	matrixLossy bool
	graphs      *constellation.Collection
	skipped     int
	dataset     *constellation.Dataset
	updated     time.Time
}

// New creates an engine over a store.
func New(store Store, opts Options) *Engine {
	return &Engine{
		store: store,
		opts:  opts,
		log:   logging.WithComponent("engine"),
	}
}

// beginPass acquires pass exclusivity or fails fast.
func (e *Engine) beginPass() error {
	if !e.passMu.TryLock() {
		return ErrPassInFlight
	}
	return nil
}

// LoadDataset ingests movie and rating CSV files, builds a fresh corpus,
// and persists the raw rows. The previous similarity matrix and graphs are
// invalidated: row positions are only meaningful against the corpus that
// produced them.
func (e *Engine) LoadDataset(ctx context.Context, moviesPath, ratingsPath string) error {
	if err := e.beginPass(); err != nil {
		return err
	}
	defer e.passMu.Unlock()

	start := time.Now()
	err := e.loadDataset(ctx, moviesPath, ratingsPath)
	metrics.RecordPass("corpus", time.Since(start), err)
	return err
}

func (e *Engine) loadDataset(ctx context.Context, moviesPath, ratingsPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	movieRows, err := corpus.ReadMovies(moviesPath)
	if err != nil {
		return fmt.Errorf("read movies: %w", err)
	}
	ratingRows, err := corpus.ReadRatings(ratingsPath)
	if err != nil {
		return fmt.Errorf("read ratings: %w", err)
	}

	c, err := corpus.Build(movieRows, ratingRows)
	if err != nil {
		return fmt.Errorf("build corpus: %w", err)
	}

	if err := e.store.ReplaceMovies(movieRows); err != nil {
		return fmt.Errorf("persist movies: %w", err)
	}
	if err := e.store.ReplaceRatings(ratingRows); err != nil {
		return fmt.Errorf("persist ratings: %w", err)
	}

	metrics.RecordSkipped("orphan_rating", c.OrphanRatings)
	metrics.RecordSkipped("duplicate_movie", c.DuplicateMovies)

	e.mu.Lock()
	e.corpus = c
	e.matrix = nil
	e.matrixLossy = false
	e.graphs = nil
	e.skipped = 0
	e.dataset = nil
	e.updated = time.Now()
	e.mu.Unlock()

	e.publishCorpusGauges(c)
	e.log.Info().
		Int("movies", c.Len()).
		Int("orphan_ratings", c.OrphanRatings).
		Int("duplicate_movies", c.DuplicateMovies).
		Msg("dataset loaded")
	return nil
}

// Initialize restores the snapshot from the store: raw rows rebuild the
// corpus, persisted top-N records rebuild a lossy matrix, and a saved
// export dataset is reloaded if present. Missing collections leave the
// corresponding snapshot piece empty rather than failing.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := e.beginPass(); err != nil {
		return err
	}
	defer e.passMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	movieRows, err := e.store.LoadMovies()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Info().Msg("store is empty, starting without a snapshot")
			return nil
		}
		return fmt.Errorf("load movies: %w", err)
	}

	ratingRows, err := e.store.LoadRatings()
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	c, err := corpus.Build(movieRows, ratingRows)
	if err != nil {
		return fmt.Errorf("rebuild corpus: %w", err)
	}

	var m *similarity.Matrix
	lossy := false
	if records, err := e.store.LoadSimilarities(); err == nil {
		var dropped int
		m, dropped = similarity.Deserialize(records, c)
		lossy = true
		metrics.RecordSkipped("unknown_similarity_id", dropped)
		if dropped > 0 {
			e.log.Warn().Int("dropped", dropped).Msg("persisted similarities referenced unknown movies")
		}
	}

	ds, err := e.store.LoadConstellation()
	if err != nil {
		ds = nil
	}

	e.mu.Lock()
	e.corpus = c
	e.matrix = m
	e.matrixLossy = lossy
	e.graphs = nil
	e.skipped = 0
	e.dataset = ds
	e.updated = time.Now()
	e.mu.Unlock()

	e.publishCorpusGauges(c)
	e.log.Info().
		Int("movies", c.Len()).
		Bool("matrix_restored", m != nil).
		Bool("dataset_restored", ds != nil).
		Msg("snapshot restored from store")
	return nil
}

// ComputeSimilarity runs the full O(N²) similarity pass against the
// current corpus and persists the top-N records. Requires a loaded corpus.
func (e *Engine) ComputeSimilarity(ctx context.Context) error {
	if err := e.beginPass(); err != nil {
		return err
	}
	defer e.passMu.Unlock()

	start := time.Now()
	err := e.computeSimilarity(ctx)
	metrics.RecordPass("similarity", time.Since(start), err)
	return err
}

func (e *Engine) computeSimilarity(ctx context.Context) error {
	e.mu.RLock()
	c := e.corpus
	e.mu.RUnlock()
	if c == nil {
		return fmt.Errorf("compute similarity: %w", ErrNotReady)
	}

	m, err := similarity.Compute(ctx, c, similarity.Options{Workers: e.opts.Workers})
	if err != nil {
		return fmt.Errorf("compute similarity: %w", err)
	}

	records := similarity.Serialize(m, c, e.opts.TopNeighbors)
	if err := e.store.ReplaceSimilarities(records); err != nil {
		return fmt.Errorf("persist similarities: %w", err)
	}

	e.mu.Lock()
	e.matrix = m
	e.matrixLossy = false
	e.updated = time.Now()
	e.mu.Unlock()

	e.log.Info().
		Int("movies", m.Size()).
		Int("top_neighbors", e.opts.TopNeighbors).
		Msg("similarity matrix computed")
	return nil
}

// BuildConstellations builds per-genre graphs from the current corpus and
// matrix, assembles the export dataset, and persists it.
func (e *Engine) BuildConstellations(ctx context.Context) error {
	if err := e.beginPass(); err != nil {
		return err
	}
	defer e.passMu.Unlock()

	start := time.Now()
	err := e.buildConstellations(ctx)
	metrics.RecordPass("constellation", time.Since(start), err)
	return err
}

func (e *Engine) buildConstellations(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.RLock()
	c, m := e.corpus, e.matrix
	e.mu.RUnlock()
	if c == nil || m == nil {
		return fmt.Errorf("build constellations: %w", ErrNotReady)
	}

	params := e.opts.Constellation
	if err := params.Validate(); err != nil {
		return fmt.Errorf("build constellations: %w", err)
	}

	col, skipped := constellation.Build(c, m, params)
	ds := constellation.Assemble(col, c)
	if err := e.store.SaveConstellation(ds); err != nil {
		return fmt.Errorf("persist constellation dataset: %w", err)
	}

	metrics.RecordSkipped("sparse_category", skipped)

	e.mu.Lock()
	e.graphs = col
	e.skipped = skipped
	e.dataset = ds
	e.updated = time.Now()
	e.mu.Unlock()

	edges := 0
	for _, cat := range col.Categories() {
		if g, ok := col.Get(cat); ok {
			edges += g.EdgeCount()
		}
	}
	metrics.ConstellationGraphs.Set(float64(col.Len()))
	metrics.ConstellationEdges.Set(float64(edges))

	e.log.Info().
		Int("graphs", col.Len()).
		Int("edges", edges).
		Int("sparse_skipped", skipped).
		Msg("constellations built")
	return nil
}

// Recommend returns the topN movies most similar to movieID from the
// current snapshot. Unknown ids wrap recommend.ErrNotFound; a missing
// matrix yields an empty result.
func (e *Engine) Recommend(movieID, topN int) ([]recommend.Entry, error) {
	e.mu.RLock()
	c, m := e.corpus, e.matrix
	e.mu.RUnlock()
	if c == nil {
		return nil, fmt.Errorf("recommend: %w", ErrNotReady)
	}

	entries, err := recommend.MostSimilar(c, m, movieID, topN)
	if err != nil {
		return nil, err
	}
	metrics.RecommendationsServed.Inc()
	return entries, nil
}

// Export returns the current constellation export dataset.
func (e *Engine) Export() (*constellation.Dataset, error) {
	e.mu.RLock()
	ds := e.dataset
	e.mu.RUnlock()
	if ds == nil {
		return nil, fmt.Errorf("export: %w", ErrNotReady)
	}
	return ds, nil
}

// Status reports the shape of the current snapshot.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Status{
		MatrixReady: e.matrix != nil,
		MatrixLossy: e.matrixLossy,
		LastUpdated: e.updated,
	}
	if e.corpus != nil {
		st.Movies = e.corpus.Len()
		st.Categories = len(e.corpus.Categories())
	}
	if e.graphs != nil {
		st.Graphs = e.graphs.Len()
		st.SkippedCategories = e.skipped
	}
	return st
}

func (e *Engine) publishCorpusGauges(c *corpus.Corpus) {
	metrics.CorpusMovies.Set(float64(c.Len()))
	metrics.CorpusCategories.Set(float64(len(c.Categories())))
}
