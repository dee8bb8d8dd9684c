// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package constellation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/cinestellation/internal/corpus"
	"github.com/tomtom215/cinestellation/internal/similarity"
)

// minCategorySize is the smallest eligible-movie count that still forms a
// meaningful graph. Sparser categories are skipped outright.
const minCategorySize = 5

// Params bounds constellation construction.
type Params struct {
	// MinRatings is the rating-count floor a movie must meet to enter any
	// category graph.
	MinRatings int

	// SimilarityThreshold is the minimum score for an edge candidate.
	SimilarityThreshold float64

	// MaxConnections caps the edges each node proposes. A node's total
	// degree can still exceed this when other nodes pick it; see Build.
	MaxConnections int
}

// Validate rejects parameter combinations that cannot produce a graph.
func (p Params) Validate() error {
	if p.MinRatings < 0 {
		return fmt.Errorf("minRatings must be >= 0, got %d", p.MinRatings)
	}
	if p.SimilarityThreshold < 0 || p.SimilarityThreshold > 1 {
		return fmt.Errorf("similarityThreshold must be in [0,1], got %v", p.SimilarityThreshold)
	}
	if p.MaxConnections < 1 {
		return fmt.Errorf("maxConnections must be >= 1, got %d", p.MaxConnections)
	}
	return nil
}

// candidate is one scored neighbor during edge selection.
type candidate struct {
	movieID int
	row     int
	score   float64
}

// Build constructs one graph per genre label present in the corpus,
// excluding the uncategorized sentinel.
//
// Per category: movies qualify when their rating count meets MinRatings and
// the label appears in their genre list. Categories with fewer than five
// eligible movies are skipped; the count of skipped categories is returned
// alongside the collection. Each
// eligible movie proposes edges to its top MaxConnections neighbors among
// the other eligible movies scoring at or above SimilarityThreshold,
// descending by score with ties broken by ascending neighbor id.
//
// The connection cap binds only the proposing side. A movie chosen by many
// of its peers accumulates in-degree past MaxConnections; total degree is
// deliberately not capped, matching the historic dataset shape that
// downstream visualizations were built against.
//
// Categories build in parallel. Every worker reads the shared corpus and
// matrix and writes only its own category's graph, so no locking is needed.
// The returned collection keeps first-seen category order regardless of
// which worker finished first.
func Build(c *corpus.Corpus, m *similarity.Matrix, params Params) (*Collection, int) {
	categories := c.Categories()

	graphs := make([]*Graph, len(categories))
	var wg sync.WaitGroup
	for ci, category := range categories {
		if category == corpus.NoGenresLabel {
			continue
		}
		wg.Add(1)
		go func(ci int, category string) {
			defer wg.Done()
			graphs[ci] = buildCategory(c, m, category, params)
		}(ci, category)
	}
	wg.Wait()

	col := NewCollection()
	skipped := 0
	for ci, category := range categories {
		if category == corpus.NoGenresLabel {
			continue
		}
		if graphs[ci] == nil {
			skipped++
			continue
		}
		col.Add(graphs[ci])
	}
	return col, skipped
}

// buildCategory builds one category graph, or nil when the category is too
// sparse.
func buildCategory(c *corpus.Corpus, m *similarity.Matrix, category string, params Params) *Graph {
	var eligible []int
	for row := range c.Movies {
		if c.Ratings[row].Count < params.MinRatings {
			continue
		}
		if !hasGenre(c.Movies[row].Genres, category) {
			continue
		}
		eligible = append(eligible, row)
	}
	if len(eligible) < minCategorySize {
		return nil
	}

	g := NewGraph(category)
	for _, row := range eligible {
		rec := &c.Movies[row]
		g.AddNode(Node{
			ID:          rec.ID,
			Title:       rec.Title,
			Rating:      c.Ratings[row].Mean,
			RatingCount: c.Ratings[row].Count,
			Year:        rec.Year,
		})
	}

	for _, row := range eligible {
		scores := m.Row(row)
		candidates := make([]candidate, 0, len(eligible)-1)
		for _, other := range eligible {
			if other == row {
				continue
			}
			if score := scores[other]; score >= params.SimilarityThreshold {
				candidates = append(candidates, candidate{
					movieID: c.Index.ID(other),
					row:     other,
					score:   score,
				})
			}
		}

		sort.Slice(candidates, func(a, b int) bool {
			if candidates[a].score != candidates[b].score {
				return candidates[a].score > candidates[b].score
			}
			return candidates[a].movieID < candidates[b].movieID
		})
		if len(candidates) > params.MaxConnections {
			candidates = candidates[:params.MaxConnections]
		}

		source := c.Index.ID(row)
		for _, cand := range candidates {
			g.AddEdge(source, cand.movieID, cand.score)
		}
	}
	return g
}

func hasGenre(genres []string, category string) bool {
	for _, g := range genres {
		if g == category {
			return true
		}
	}
	return false
}
