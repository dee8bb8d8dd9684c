// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package corpus

import (
	"strings"

	"github.com/goccy/go-json"
)

// NoGenresLabel is the sentinel genre attached to uncategorized movies.
// It never forms a constellation category.
const NoGenresLabel = "(no genres listed)"

// GenreDelimiter separates genre labels in raw movie rows.
const GenreDelimiter = "|"

// GenreList is an ordered sequence of genre labels.
//
// It unmarshals from either a JSON array of strings or a single
// delimiter-separated string, so rows reloaded from the document store
// (already structured) and rows parsed from raw input both normalize to
// the same shape. Splitting an already-split list is a no-op.
type GenreList []string

// UnmarshalJSON accepts both ["Action","Comedy"] and "Action|Comedy".
func (g *GenreList) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err == nil {
		*g = labels
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = SplitGenres(raw)
	return nil
}

// SplitGenres splits a raw genre string on the declared delimiter.
// Empty labels produced by stray delimiters are dropped.
func SplitGenres(raw string) GenreList {
	parts := strings.Split(raw, GenreDelimiter)
	labels := make(GenreList, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// MovieRow is a raw movie record as ingested from a dataset file or the
// document store.
type MovieRow struct {
	// MovieID is the unique movie identifier.
	MovieID int `json:"movieId"`

	// Title is the display title, usually with a trailing "(YYYY)" year.
	Title string `json:"title"`

	// Genres is the ordered genre label list.
	Genres GenreList `json:"genres"`
}

// RatingRow is a single raw rating event.
type RatingRow struct {
	// UserID identifies the rater. It is carried for fidelity with the
	// source dataset but plays no role in aggregation.
	UserID int `json:"userId"`

	// MovieID is the rated movie.
	MovieID int `json:"movieId"`

	// Rating is the rating value.
	Rating float64 `json:"rating"`
}

// MovieRecord is the normalized, immutable per-movie record produced by a
// corpus build. Records are superseded wholesale on re-ingestion, never
// patched.
type MovieRecord struct {
	// ID is the unique movie identifier.
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Genres is the ordered genre label list.
	Genres []string `json:"genres"`

	// Content is the vectorization input: title followed by each genre
	// label, space-joined. Titles dominate term frequency for franchises,
	// which is intentional.
	Content string `json:"content"`

	// Year is the release year extracted from the title, nil if absent.
	Year *int `json:"year"`
}

// RatingAggregate holds per-movie rating statistics. Movies with no ratings
// keep the zero value (left-join semantics).
type RatingAggregate struct {
	// Mean is the arithmetic mean rating, 0 if the movie has no ratings.
	Mean float64 `json:"mean"`

	// Count is the number of rating events, 0 if absent.
	Count int `json:"count"`
}

// Index is the bijection between movie id and dense row position [0, N).
// It is rebuilt atomically with each corpus build; consumers must never
// cache row positions across builds.
type Index struct {
	idToRow map[int]int
	rowToID []int
}

// Row returns the row position for a movie id.
func (ix *Index) Row(movieID int) (int, bool) {
	row, ok := ix.idToRow[movieID]
	return row, ok
}

// ID returns the movie id at a row position.
// The position must be in [0, Len()).
func (ix *Index) ID(row int) int {
	return ix.rowToID[row]
}

// Len returns the number of movies indexed.
func (ix *Index) Len() int {
	return len(ix.rowToID)
}

// Corpus is the output of one build pass. Movies and Ratings are row-aligned
// with Index: Movies[i] and Ratings[i] describe the movie at row i.
type Corpus struct {
	// Index maps movie ids to row positions and back.
	Index *Index

	// Movies holds one record per movie, in row order.
	Movies []MovieRecord

	// Ratings holds the aggregate for each movie, in row order.
	Ratings []RatingAggregate

	// OrphanRatings counts rating rows that referenced a movie id absent
	// from the movie set and were skipped.
	OrphanRatings int

	// DuplicateMovies counts movie rows dropped because an earlier row
	// already claimed the same id.
	DuplicateMovies int
}

// Len returns the number of movies in the corpus.
func (c *Corpus) Len() int {
	return len(c.Movies)
}

// Movie returns the record for a movie id.
func (c *Corpus) Movie(movieID int) (MovieRecord, bool) {
	row, ok := c.Index.Row(movieID)
	if !ok {
		return MovieRecord{}, false
	}
	return c.Movies[row], true
}

// GenresOf returns the authoritative genre list for a movie id, nil for
// unknown ids.
func (c *Corpus) GenresOf(movieID int) []string {
	rec, ok := c.Movie(movieID)
	if !ok {
		return nil
	}
	return rec.Genres
}

// Rating returns the rating aggregate for a movie id.
// Unknown ids yield the zero aggregate.
func (c *Corpus) Rating(movieID int) RatingAggregate {
	row, ok := c.Index.Row(movieID)
	if !ok {
		return RatingAggregate{}
	}
	return c.Ratings[row]
}

// Categories returns every genre label present in the corpus, in first-seen
// order across row iteration. The uncategorized sentinel is included; graph
// construction is responsible for excluding it.
func (c *Corpus) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for i := range c.Movies {
		for _, g := range c.Movies[i].Genres {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			categories = append(categories, g)
		}
	}
	return categories
}
