// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package constellation

// CategorySummary describes one category graph in the export dataset.
type CategorySummary struct {
	// Name is the genre label.
	Name string `json:"name"`

	// MovieCount is the number of nodes in the category graph.
	MovieCount int `json:"movieCount"`

	// ConnectionCount is the number of edges in the category graph.
	ConnectionCount int `json:"connectionCount"`
}

// MovieEntry is one deduplicated movie in the export dataset.
type MovieEntry struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"ratingCount"`
	Year        *int     `json:"year"`
	Genres      []string `json:"genres"`
}

// Connection is one edge in the export dataset, tagged with the category
// it belongs to.
type Connection struct {
	Source     int     `json:"source"`
	Target     int     `json:"target"`
	Similarity float64 `json:"similarity"`
	Genre      string  `json:"genre"`
}

// Dataset is the flattened constellation export handed to file emission or
// document-store upsert.
type Dataset struct {
	Genres      []CategorySummary `json:"genres"`
	Movies      []MovieEntry      `json:"movies"`
	Connections []Connection      `json:"connections"`
}

// MovieLookup resolves a movie id to its authoritative genre list. The
// corpus satisfies this.
type MovieLookup interface {
	GenresOf(movieID int) []string
}

// Assemble flattens a graph collection into the export dataset.
//
// Categories are iterated in the collection's stored order. Movie entries
// are deduplicated globally: the first occurrence in category-then-node
// order wins, and its genre list comes from the lookup rather than from any
// single graph, so a movie spanning several categories exports its full
// genre list exactly once. Every edge of every category becomes one
// connection entry; cross-category edge deduplication is unnecessary
// because an edge only ever connects movies sharing its category.
func Assemble(col *Collection, lookup MovieLookup) *Dataset {
	ds := &Dataset{
		Genres:      make([]CategorySummary, 0, col.Len()),
		Movies:      []MovieEntry{},
		Connections: []Connection{},
	}

	seen := make(map[int]struct{})
	for _, category := range col.Categories() {
		g, ok := col.Get(category)
		if !ok {
			continue
		}

		ds.Genres = append(ds.Genres, CategorySummary{
			Name:            category,
			MovieCount:      g.NodeCount(),
			ConnectionCount: g.EdgeCount(),
		})

		for _, n := range g.Nodes() {
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}
			ds.Movies = append(ds.Movies, MovieEntry{
				ID:          n.ID,
				Title:       n.Title,
				Rating:      n.Rating,
				RatingCount: n.RatingCount,
				Year:        n.Year,
				Genres:      lookup.GenresOf(n.ID),
			})
		}

		for _, e := range g.Edges() {
			ds.Connections = append(ds.Connections, Connection{
				Source:     e.Source,
				Target:     e.Target,
				Similarity: e.Weight,
				Genre:      category,
			})
		}
	}
	return ds
}
