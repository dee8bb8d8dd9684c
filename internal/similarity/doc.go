// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package similarity computes the dense pairwise content-similarity matrix
// over a corpus and handles its persisted top-N neighbor form.
//
// Content documents are vectorized with TF-IDF weighting over the corpus's
// own vocabulary (tokens of two or more word characters, lowercased, minus a
// fixed English stopword list). Rows are L2-normalized, so the cosine of two
// documents reduces to the sparse dot product of their vectors and every
// matrix entry lands in [0, 1].
//
// The matrix is owned by the pass that produced it and keyed by row
// position, never by movie id; callers resolve positions through the corpus
// Index. Persistence keeps only each row's top-N neighbors, which makes a
// reload lossy and possibly asymmetric; see Deserialize.
package similarity
