// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package corpus

import (
	"fmt"
	"strings"
)

// DataError indicates malformed or empty ingestion input. A build that fails
// with DataError is fatal to the current pass but never corrupts a previously
// built corpus; callers keep serving the old snapshot.
type DataError struct {
	Reason string
}

// Error implements the error interface.
func (e *DataError) Error() string {
	return "corpus: " + e.Reason
}

func dataErrorf(format string, args ...interface{}) error {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// Build normalizes raw movie and rating rows into a Corpus.
//
// Movie rows are indexed in input order; the first row for an id wins and
// later duplicates are dropped and counted. Rating rows are grouped by movie
// id into mean/count aggregates and left-joined onto the movie set; rows
// referencing unknown movie ids are skipped and counted in OrphanRatings.
//
// Build fails with a DataError if either input is empty.
func Build(movieRows []MovieRow, ratingRows []RatingRow) (*Corpus, error) {
	if len(movieRows) == 0 {
		return nil, dataErrorf("no movie rows")
	}
	if len(ratingRows) == 0 {
		return nil, dataErrorf("no rating rows")
	}

	ix := &Index{
		idToRow: make(map[int]int, len(movieRows)),
		rowToID: make([]int, 0, len(movieRows)),
	}
	movies := make([]MovieRecord, 0, len(movieRows))
	duplicates := 0

	for i := range movieRows {
		row := &movieRows[i]
		if _, ok := ix.idToRow[row.MovieID]; ok {
			duplicates++
			continue
		}
		ix.idToRow[row.MovieID] = len(movies)
		ix.rowToID = append(ix.rowToID, row.MovieID)
		movies = append(movies, MovieRecord{
			ID:      row.MovieID,
			Title:   row.Title,
			Genres:  row.Genres,
			Content: contentDocument(row.Title, row.Genres),
			Year:    ExtractYear(row.Title),
		})
	}

	ratings := make([]RatingAggregate, len(movies))
	sums := make([]float64, len(movies))
	orphans := 0

	for i := range ratingRows {
		row, ok := ix.idToRow[ratingRows[i].MovieID]
		if !ok {
			orphans++
			continue
		}
		sums[row] += ratingRows[i].Rating
		ratings[row].Count++
	}
	for i := range ratings {
		if ratings[i].Count > 0 {
			ratings[i].Mean = sums[i] / float64(ratings[i].Count)
		}
	}

	return &Corpus{
		Index:           ix,
		Movies:          movies,
		Ratings:         ratings,
		OrphanRatings:   orphans,
		DuplicateMovies: duplicates,
	}, nil
}

// contentDocument joins the title and genre labels into the vectorization
// unit for a movie.
func contentDocument(title string, genres []string) string {
	parts := make([]string, 0, len(genres)+1)
	parts = append(parts, title)
	parts = append(parts, genres...)
	return strings.Join(parts, " ")
}

// ExtractYear pulls a release year from a title ending in "(YYYY)".
// The extraction is positional: the four characters before the final one
// must all be digits. Returns nil when no year is present.
func ExtractYear(title string) *int {
	s := strings.TrimSpace(title)
	if len(s) < 5 {
		return nil
	}

	year := 0
	for _, r := range s[len(s)-5 : len(s)-1] {
		if r < '0' || r > '9' {
			return nil
		}
		year = year*10 + int(r-'0')
	}
	return &year
}
