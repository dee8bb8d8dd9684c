// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package constellation turns a dense similarity matrix into sparse
// per-genre graphs and assembles them into the export dataset consumed by
// visualization frontends.
//
// Graphs are rebuilt wholesale on every pass and never patched in place.
// Each category graph is built independently against the shared read-only
// corpus and matrix, which is what makes per-category parallel construction
// safe without locks.
package constellation
