// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package recommend serves top-K content-similarity lookups against a
// corpus and similarity matrix snapshot.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tomtom215/cinestellation/internal/corpus"
	"github.com/tomtom215/cinestellation/internal/similarity"
)

// ErrNotFound reports a lookup for a movie id absent from the corpus.
// Unknown ids are a hard error, distinct from a valid empty result.
var ErrNotFound = errors.New("movie not found")

// Entry is one recommended movie.
type Entry struct {
	// ID is the recommended movie's id.
	ID int `json:"movieId"`

	// Title is the movie title.
	Title string `json:"title"`

	// Similarity is the content similarity to the queried movie.
	Similarity float64 `json:"similarity"`

	// Rating is the movie's mean rating.
	Rating float64 `json:"rating"`

	// Genres is the movie's genre list.
	Genres []string `json:"genres"`
}

// MostSimilar returns the topN movies most similar to movieID, descending
// by similarity with ties broken by ascending movie id.
//
// The queried movie is excluded by id rather than by dropping the best
// score, so the exclusion holds even against a matrix reloaded from
// persisted top-N records, whose diagonal is zero. An unknown movieID
// wraps ErrNotFound. A nil matrix or one whose size no longer matches the
// corpus yields an empty result and no error: recommendations are simply
// unavailable until the next computing pass.
func MostSimilar(c *corpus.Corpus, m *similarity.Matrix, movieID, topN int) ([]Entry, error) {
	row, ok := c.Index.Row(movieID)
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
	}
	if m == nil || m.Size() != c.Len() || topN <= 0 {
		return []Entry{}, nil
	}

	scores := m.Row(row)
	type scored struct {
		id    int
		row   int
		score float64
	}
	candidates := make([]scored, 0, c.Len()-1)
	for j := 0; j < c.Len(); j++ {
		if j == row {
			continue
		}
		candidates = append(candidates, scored{id: c.Index.ID(j), row: j, score: scores[j]})
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].id < candidates[b].id
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	entries := make([]Entry, len(candidates))
	for i, cand := range candidates {
		rec := c.Movies[cand.row]
		entries[i] = Entry{
			ID:         cand.id,
			Title:      rec.Title,
			Similarity: cand.score,
			Rating:     c.Ratings[cand.row].Mean,
			Genres:     rec.Genres,
		}
	}
	return entries, nil
}
