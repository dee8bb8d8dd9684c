// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadMovies loads movie rows from a MovieLens-style CSV file with at least
// the columns movieId, title and genres. Column order is resolved from the
// header row. Parse failures are fatal (DataError): a corrupt dataset must
// not silently produce a partial corpus.
func ReadMovies(path string) ([]MovieRow, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open movies file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	for _, req := range []string{"movieId", "title", "genres"} {
		if _, ok := header[req]; !ok {
			return nil, dataErrorf("movies file %s: missing column %q", path, req)
		}
	}
	idCol, titleCol, genresCol := header["movieId"], header["title"], header["genres"]

	var rows []MovieRow
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, dataErrorf("movies row %d: %v", line, err)
		}

		id, err := strconv.Atoi(record[idCol])
		if err != nil {
			return nil, dataErrorf("movies row %d: bad movieId %q", line, record[idCol])
		}
		rows = append(rows, MovieRow{
			MovieID: id,
			Title:   record[titleCol],
			Genres:  SplitGenres(record[genresCol]),
		})
	}

	if len(rows) == 0 {
		return nil, dataErrorf("movies file %s has no data rows", path)
	}
	return rows, nil
}

// ReadRatings loads rating rows from a CSV file with at least the columns
// movieId and rating. A userId column is carried when present.
func ReadRatings(path string) ([]RatingRow, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	for _, req := range []string{"movieId", "rating"} {
		if _, ok := header[req]; !ok {
			return nil, dataErrorf("ratings file %s: missing column %q", path, req)
		}
	}
	idCol, ratingCol := header["movieId"], header["rating"]
	userCol, hasUser := header["userId"]

	var rows []RatingRow
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, dataErrorf("ratings row %d: %v", line, err)
		}

		id, err := strconv.Atoi(record[idCol])
		if err != nil {
			return nil, dataErrorf("ratings row %d: bad movieId %q", line, record[idCol])
		}
		rating, err := strconv.ParseFloat(record[ratingCol], 64)
		if err != nil {
			return nil, dataErrorf("ratings row %d: bad rating %q", line, record[ratingCol])
		}

		row := RatingRow{MovieID: id, Rating: rating}
		if hasUser && userCol < len(record) {
			if uid, err := strconv.Atoi(record[userCol]); err == nil {
				row.UserID = uid
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, dataErrorf("ratings file %s has no data rows", path)
	}
	return rows, nil
}

// readHeader consumes the header row and maps column names to positions.
func readHeader(r *csv.Reader) (map[string]int, error) {
	record, err := r.Read()
	if err != nil {
		return nil, dataErrorf("missing header row: %v", err)
	}

	header := make(map[string]int, len(record))
	for i, name := range record {
		header[name] = i
	}
	return header, nil
}
