// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package similarity

// Matrix is a dense N×N similarity matrix keyed by corpus row position.
//
// A freshly computed matrix is symmetric with every diagonal entry equal to
// 1 and all entries in [0, 1]. A matrix reconstructed from persisted top-N
// records carries neither guarantee (see Deserialize). Consumers treat the
// matrix as a read-only snapshot; it is never mutated after the computing
// pass completes.
type Matrix struct {
	n    int
	rows [][]float64
}

// NewMatrix allocates an n×n zero matrix.
func NewMatrix(n int) *Matrix {
	rows := make([][]float64, n)
	backing := make([]float64, n*n)
	for i := range rows {
		rows[i] = backing[i*n : (i+1)*n : (i+1)*n]
	}
	return &Matrix{n: n, rows: rows}
}

// Size returns N.
func (m *Matrix) Size() int {
	return m.n
}

// At returns the similarity between the movies at rows i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.rows[i][j]
}

// Row returns row i. The slice must be treated as read-only.
func (m *Matrix) Row(i int) []float64 {
	return m.rows[i]
}

func (m *Matrix) set(i, j int, v float64) {
	m.rows[i][j] = v
}
