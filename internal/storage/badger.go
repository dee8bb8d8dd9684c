// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package storage persists corpus inputs, similarity records and the
// constellation export in an embedded BadgerDB document store.
//
// Every collection supports bulk replace only: a replace drops the whole
// key prefix and rewrites it in one batch, matching the system's
// recompute-wholesale model. Keys embed a zero-padded sequence number so
// Badger's lexicographic iteration returns records in their original row
// order.
package storage

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinestellation/internal/constellation"
	"github.com/tomtom215/cinestellation/internal/corpus"
	"github.com/tomtom215/cinestellation/internal/logging"
	"github.com/tomtom215/cinestellation/internal/similarity"
)

// ErrNotFound reports a missing document.
var ErrNotFound = errors.New("storage: not found")

// Key prefixes for the persisted collections.
const (
	prefixMovie      = "movie:"
	prefixRating     = "rating:"
	prefixSimilarity = "sim:"

	keyConstellation = "constellation"
)

// Store is an embedded document store for CineStellation snapshots.
type Store struct {
	db *badger.DB
}

// Open creates or opens a store at the given path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Debug().Str("path", path).Msg("document store opened")
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store. Intended for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory BadgerDB: %w", err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceMovies atomically swaps the stored movie rows.
func (s *Store) ReplaceMovies(rows []corpus.MovieRow) error {
	return replaceSeq(s, prefixMovie, rows)
}

// LoadMovies returns the stored movie rows in original order.
// Returns ErrNotFound when no movies have been stored.
func (s *Store) LoadMovies() ([]corpus.MovieRow, error) {
	return loadSeq[corpus.MovieRow](s, prefixMovie)
}

// ReplaceRatings atomically swaps the stored rating rows.
func (s *Store) ReplaceRatings(rows []corpus.RatingRow) error {
	return replaceSeq(s, prefixRating, rows)
}

// LoadRatings returns the stored rating rows in original order.
// Returns ErrNotFound when no ratings have been stored.
func (s *Store) LoadRatings() ([]corpus.RatingRow, error) {
	return loadSeq[corpus.RatingRow](s, prefixRating)
}

// ReplaceSimilarities atomically swaps the persisted top-N similarity
// records.
func (s *Store) ReplaceSimilarities(records []similarity.MovieSimilarities) error {
	return replaceSeq(s, prefixSimilarity, records)
}

// LoadSimilarities returns the persisted similarity records in original
// order. Returns ErrNotFound when none have been stored.
func (s *Store) LoadSimilarities() ([]similarity.MovieSimilarities, error) {
	return loadSeq[similarity.MovieSimilarities](s, prefixSimilarity)
}

// SaveConstellation upserts the constellation export dataset.
func (s *Store) SaveConstellation(ds *constellation.Dataset) error {
	raw, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal constellation dataset: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyConstellation), raw)
	})
	if err != nil {
		return fmt.Errorf("save constellation dataset: %w", err)
	}
	return nil
}

// LoadConstellation returns the stored constellation export dataset.
// Returns ErrNotFound when no dataset has been saved.
func (s *Store) LoadConstellation() (*constellation.Dataset, error) {
	var ds constellation.Dataset
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyConstellation))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ds)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("constellation dataset: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load constellation dataset: %w", err)
	}
	return &ds, nil
}

// replaceSeq drops every key under the prefix, then rewrites the records
// with zero-padded sequence keys in one write batch.
func replaceSeq[T any](s *Store, prefix string, records []T) error {
	if err := s.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("drop prefix %q: %w", prefix, err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %d under %q: %w", i, prefix, err)
		}
		if err := wb.Set(seqKey(prefix, i), raw); err != nil {
			return fmt.Errorf("batch write %q: %w", prefix, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush %q batch: %w", prefix, err)
	}

	logging.Debug().Str("prefix", prefix).Int("records", len(records)).Msg("collection replaced")
	return nil
}

// loadSeq reads every record under a prefix in key order, which matches
// insertion order thanks to the zero-padded sequence keys.
func loadSeq[T any](s *Store, prefix string) ([]T, error) {
	var records []T
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %q record: %w", prefix, err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("collection %q: %w", prefix, ErrNotFound)
	}
	return records, nil
}

func seqKey(prefix string, i int) []byte {
	return []byte(fmt.Sprintf("%s%012d", prefix, i))
}
