// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/cinestellation/internal/corpus"
)

func buildTestCorpus(t *testing.T, movies []corpus.MovieRow) *corpus.Corpus {
	t.Helper()
	ratings := []corpus.RatingRow{{UserID: 1, MovieID: movies[0].MovieID, Rating: 4.0}}
	c, err := corpus.Build(movies, ratings)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return c
}

func TestComputeProperties(t *testing.T) {
	c := buildTestCorpus(t, []corpus.MovieRow{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: corpus.GenreList{"Adventure", "Animation", "Children"}},
		{MovieID: 2, Title: "Toy Story 2 (1999)", Genres: corpus.GenreList{"Adventure", "Animation", "Children"}},
		{MovieID: 3, Title: "Jumanji (1995)", Genres: corpus.GenreList{"Adventure", "Fantasy"}},
		{MovieID: 4, Title: "Heat (1995)", Genres: corpus.GenreList{"Action", "Crime", "Thriller"}},
		{MovieID: 5, Title: "GoldenEye (1995)", Genres: corpus.GenreList{"Action", "Adventure", "Thriller"}},
	})

	m, err := Compute(context.Background(), c, Options{Workers: 2})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	n := m.Size()
	if n != c.Len() {
		t.Fatalf("Size() = %d, want %d", n, c.Len())
	}

	for i := 0; i < n; i++ {
		if m.At(i, i) != 1 {
			t.Errorf("diagonal entry (%d,%d) = %v, want 1", i, i, m.At(i, i))
		}
		for j := 0; j < n; j++ {
			v := m.At(i, j)
			if v < 0 || v > 1+1e-9 {
				t.Errorf("entry (%d,%d) = %v outside [0,1]", i, j, v)
			}
			if v != m.At(j, i) {
				t.Errorf("asymmetry at (%d,%d): %v vs %v", i, j, v, m.At(j, i))
			}
		}
	}
}

func TestComputeRankOrdering(t *testing.T) {
	c := buildTestCorpus(t, []corpus.MovieRow{
		{MovieID: 10, Title: "Toy Story (1995)", Genres: corpus.GenreList{"Adventure", "Animation", "Children"}},
		{MovieID: 11, Title: "Toy Story 2 (1999)", Genres: corpus.GenreList{"Adventure", "Animation", "Children"}},
		{MovieID: 12, Title: "Heat (1995)", Genres: corpus.GenreList{"Action", "Crime", "Thriller"}},
	})

	m, err := Compute(context.Background(), c, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	sequel := m.At(0, 1)
	unrelated := m.At(0, 2)
	if sequel <= unrelated {
		t.Errorf("sequel pair scored %v, unrelated pair %v; want sequel > unrelated", sequel, unrelated)
	}
}

func TestComputeAllStopwordDocument(t *testing.T) {
	c := buildTestCorpus(t, []corpus.MovieRow{
		{MovieID: 1, Title: "It", Genres: corpus.GenreList{}},
		{MovieID: 2, Title: "Heat (1995)", Genres: corpus.GenreList{"Action"}},
	})

	m, err := Compute(context.Background(), c, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if m.At(0, 0) != 1 {
		t.Errorf("empty-vector diagonal = %v, want 1", m.At(0, 0))
	}
	if m.At(0, 1) != 0 {
		t.Errorf("empty vs non-empty = %v, want 0", m.At(0, 1))
	}
}

func TestComputeCancellation(t *testing.T) {
	movies := make([]corpus.MovieRow, 64)
	for i := range movies {
		movies[i] = corpus.MovieRow{MovieID: i + 1, Title: "Movie", Genres: corpus.GenreList{"Drama"}}
	}
	c := buildTestCorpus(t, movies)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Compute(ctx, c, Options{Workers: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("Compute() error = %v, want context.Canceled", err)
	}
}

func TestComputeDeterministic(t *testing.T) {
	c := buildTestCorpus(t, []corpus.MovieRow{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: corpus.GenreList{"Adventure", "Animation"}},
		{MovieID: 2, Title: "Jumanji (1995)", Genres: corpus.GenreList{"Adventure", "Fantasy"}},
		{MovieID: 3, Title: "Heat (1995)", Genres: corpus.GenreList{"Action", "Crime"}},
	})

	a, err := Compute(context.Background(), c, Options{Workers: 3})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	b, err := Compute(context.Background(), c, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	for i := 0; i < a.Size(); i++ {
		for j := 0; j < a.Size(); j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > 1e-12 {
				t.Fatalf("entry (%d,%d) differs across worker counts: %v vs %v", i, j, a.At(i, j), b.At(i, j))
			}
		}
	}
}
