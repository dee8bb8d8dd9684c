// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package corpus normalizes raw movie and rating rows into the content corpus
// the similarity engine consumes.
//
// A corpus build produces three things:
//
//   - One MovieRecord per movie, carrying the content document (title plus
//     genre labels, space-joined) used for vectorization.
//   - One RatingAggregate per movie (arithmetic mean and count), left-joined
//     onto the movie set so unrated movies keep zero defaults.
//   - An Index, the bijection between movie id and dense row position. Row
//     positions are stable only for the lifetime of one corpus; rebuilding
//     the corpus invalidates every previously computed row position and any
//     similarity matrix derived from the old order.
//
// Ingestion failures are loud: empty inputs produce a DataError so a corrupt
// corpus can never silently feed the similarity engine. Rating rows that
// reference unknown movie ids are skipped and counted, not fatal.
package corpus
