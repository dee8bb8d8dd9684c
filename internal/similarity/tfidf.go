// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// termWeight is one non-zero component of a sparse document vector.
type termWeight struct {
	term   int
	weight float64
}

// docVector is a sparse TF-IDF vector, sorted by ascending term id.
// Vectors are L2-normalized, so the dot product of two vectors is their
// cosine similarity.
type docVector []termWeight

// vectorize turns content documents into L2-normalized sparse TF-IDF
// vectors over the corpus vocabulary.
//
// Tokenization: lowercase, tokens are maximal runs of word characters
// (letters, digits, underscore) of length two or more, stopwords removed.
// IDF is smoothed: idf(t) = ln((1+n)/(1+df(t))) + 1. Term frequency is the
// raw in-document count.
func vectorize(docs []string) []docVector {
	vocab := make(map[string]int)
	counts := make([]map[int]int, len(docs))
	df := make([]int, 0, 256)

	for i, doc := range docs {
		tf := make(map[int]int)
		for _, tok := range tokenize(doc) {
			id, ok := vocab[tok]
			if !ok {
				id = len(vocab)
				vocab[tok] = id
				df = append(df, 0)
			}
			if tf[id] == 0 {
				df[id]++
			}
			tf[id]++
		}
		counts[i] = tf
	}

	n := float64(len(docs))
	idf := make([]float64, len(df))
	for t, d := range df {
		idf[t] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([]docVector, len(docs))
	for i, tf := range counts {
		vec := make(docVector, 0, len(tf))
		var norm float64
		for t, c := range tf {
			w := float64(c) * idf[t]
			vec = append(vec, termWeight{term: t, weight: w})
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range vec {
				vec[k].weight /= norm
			}
		}
		sort.Slice(vec, func(a, b int) bool { return vec[a].term < vec[b].term })
		vectors[i] = vec
	}
	return vectors
}

// tokenize lowercases a document and splits it into word-character runs of
// length two or more, excluding stopwords.
func tokenize(doc string) []string {
	doc = strings.ToLower(doc)

	var tokens []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := doc[start:end]
		start = -1
		if utf8.RuneCountInString(tok) < 2 {
			return
		}
		if _, stop := englishStopWords[tok]; stop {
			return
		}
		tokens = append(tokens, tok)
	}

	for i, r := range doc {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(doc))
	return tokens
}

// dot computes the sparse dot product of two vectors. Both slices are
// sorted by term id, so a single merge pass visits terms in the same order
// regardless of argument order and the result is exactly symmetric.
func dot(a, b docVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].term < b[j].term:
			i++
		case a[i].term > b[j].term:
			j++
		default:
			sum += a[i].weight * b[j].weight
			i++
			j++
		}
	}
	return sum
}
