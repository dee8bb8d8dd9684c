// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package similarity

import (
	"context"
	"runtime"
	"sync"

	"github.com/tomtom215/cinestellation/internal/corpus"
)

// Options configures a similarity computation.
type Options struct {
	// Workers is the number of goroutines computing matrix rows.
	// Zero means runtime.NumCPU().
	Workers int
}

// Compute vectorizes every content document in the corpus and fills the
// dense pairwise cosine similarity matrix.
//
// Rows are computed in parallel; each worker writes only its own row slot,
// so no locking is needed. Each row recomputes its dot products rather than
// mirroring the transposed entry, which keeps the output slots disjoint.
// Symmetry still holds exactly because the sparse dot product visits terms
// in the same order for (i,j) and (j,i).
//
// The diagonal is set to 1: a document is maximally similar to itself, even
// when every one of its tokens was a stopword and its vector is empty.
//
// Results are deterministic for identical corpus content and row order.
// Rank ordering of scores is the stable property; bit-exact values across
// differing summation orders are not promised.
func Compute(ctx context.Context, c *corpus.Corpus, opts Options) (*Matrix, error) {
	n := c.Len()
	docs := make([]string, n)
	for i := range c.Movies {
		docs[i] = c.Movies[i].Content
	}
	vectors := vectorize(docs)

	m := NewMatrix(n)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	rowCh := make(chan int)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rowCh {
				row := m.Row(i)
				for j := 0; j < n; j++ {
					row[j] = dot(vectors[i], vectors[j])
				}
				row[i] = 1
			}
		}()
	}

	go func() {
		defer close(rowCh)
		for i := 0; i < n; i++ {
			select {
			case rowCh <- i:
			case <-ctx.Done():
				select {
				case errCh <- ctx.Err():
				default:
				}
				return
			}
		}
	}()

	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	return m, nil
}
