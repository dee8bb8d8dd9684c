// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package similarity

import (
	"sort"

	"github.com/tomtom215/cinestellation/internal/corpus"
)

// Neighbor is one persisted similarity entry.
type Neighbor struct {
	// MovieID is the neighboring movie.
	MovieID int `json:"movieId"`

	// Score is the similarity score.
	Score float64 `json:"score"`
}

// MovieSimilarities is the persisted top-N neighbor list for one movie.
// This truncated form is what survives a trip through the document store.
type MovieSimilarities struct {
	// MovieID is the movie the neighbor list belongs to.
	MovieID int `json:"movieId"`

	// Similarities holds up to top-N neighbors, descending by score.
	Similarities []Neighbor `json:"similarities"`
}

// Serialize reduces a dense matrix to per-movie top-N neighbor records for
// persistence. For each movie it keeps the topN highest-scoring neighbors
// (itself excluded), descending by score with ties broken by ascending
// neighbor id so output is deterministic.
func Serialize(m *Matrix, c *corpus.Corpus, topN int) []MovieSimilarities {
	n := m.Size()
	records := make([]MovieSimilarities, 0, n)

	for i := 0; i < n; i++ {
		row := m.Row(i)
		neighbors := make([]Neighbor, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			neighbors = append(neighbors, Neighbor{MovieID: c.Index.ID(j), Score: row[j]})
		}

		sort.Slice(neighbors, func(a, b int) bool {
			if neighbors[a].Score != neighbors[b].Score {
				return neighbors[a].Score > neighbors[b].Score
			}
			return neighbors[a].MovieID < neighbors[b].MovieID
		})

		if len(neighbors) > topN {
			neighbors = neighbors[:topN]
		}
		records = append(records, MovieSimilarities{
			MovieID:      c.Index.ID(i),
			Similarities: neighbors,
		})
	}
	return records
}

// Deserialize reconstructs a matrix from persisted top-N records.
//
// The reconstruction is lossy: the matrix starts as zeros and only the
// persisted entries are set, so any pair outside a movie's serialized
// top-N stays 0, including the diagonal. It is also not guaranteed
// symmetric: entry (i,j) survives only if j was within i's top-N,
// independent of whether i made j's list. The asymmetry is never
// repaired here.
//
// Records or neighbors referencing ids no longer in the corpus are dropped;
// the count of dropped references is returned.
func Deserialize(records []MovieSimilarities, c *corpus.Corpus) (*Matrix, int) {
	m := NewMatrix(c.Len())
	dropped := 0

	for _, rec := range records {
		i, ok := c.Index.Row(rec.MovieID)
		if !ok {
			dropped++
			continue
		}
		for _, nb := range rec.Similarities {
			j, ok := c.Index.Row(nb.MovieID)
			if !ok {
				dropped++
				continue
			}
			m.set(i, j, nb.Score)
		}
	}
	return m, dropped
}
