// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package constellation

// Node is one movie inside a category graph, carrying the display
// attributes cached at build time.
type Node struct {
	// ID is the movie id.
	ID int

	// Title is the movie title.
	Title string

	// Rating is the cached mean rating.
	Rating float64

	// RatingCount is the cached number of rating events.
	RatingCount int

	// Year is the release year, nil when absent from the title.
	Year *int
}

// Edge is one undirected similarity connection inside a category graph.
// Source and Target record the proposing direction of the first insertion;
// the edge itself is unordered.
type Edge struct {
	Source int
	Target int
	Weight float64
}

// Graph is a single category's constellation. Nodes and edges keep
// insertion order so repeated builds over the same inputs produce
// identical output.
//
// A Graph is exclusively owned by the pass that builds it and read-only
// afterwards. It is never shared across categories: two categories
// containing the same movie each hold their own node for it.
type Graph struct {
	// Category is the genre label this graph belongs to.
	Category string

	nodes   []Node
	nodeSet map[int]struct{}
	edges   []Edge
	edgeSet map[[2]int]struct{}
	degree  map[int]int
}

// NewGraph returns an empty graph for a category.
func NewGraph(category string) *Graph {
	return &Graph{
		Category: category,
		nodeSet:  make(map[int]struct{}),
		edgeSet:  make(map[[2]int]struct{}),
		degree:   make(map[int]int),
	}
}

// AddNode inserts a node. Inserting an id twice is a no-op.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodeSet[n.ID]; ok {
		return
	}
	g.nodeSet[n.ID] = struct{}{}
	g.nodes = append(g.nodes, n)
}

// AddEdge inserts an undirected edge between two nodes. Insertion is
// idempotent: proposing both (a,b) and (b,a) yields one edge, keeping the
// weight of the first proposal. Self-loops are rejected.
func (g *Graph) AddEdge(source, target int, weight float64) {
	if source == target {
		return
	}
	key := edgeKey(source, target)
	if _, ok := g.edgeSet[key]; ok {
		return
	}
	g.edgeSet[key] = struct{}{}
	g.edges = append(g.edges, Edge{Source: source, Target: target, Weight: weight})
	g.degree[source]++
	g.degree[target]++
}

// Nodes returns the nodes in insertion order. Read-only.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the edges in insertion order. Read-only.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Degree returns the number of edges incident to a movie.
func (g *Graph) Degree(movieID int) int {
	return g.degree[movieID]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// Collection holds every category graph produced by one build pass, in
// first-seen category order.
type Collection struct {
	order  []string
	graphs map[string]*Graph
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{graphs: make(map[string]*Graph)}
}

// Add appends a graph under its category label. Adding a category twice
// replaces the graph but keeps the original position.
func (col *Collection) Add(g *Graph) {
	if _, ok := col.graphs[g.Category]; !ok {
		col.order = append(col.order, g.Category)
	}
	col.graphs[g.Category] = g
}

// Get returns the graph for a category.
func (col *Collection) Get(category string) (*Graph, bool) {
	g, ok := col.graphs[category]
	return g, ok
}

// Categories returns the category labels in stored order. Read-only.
func (col *Collection) Categories() []string {
	return col.order
}

// Len returns the number of category graphs.
func (col *Collection) Len() int {
	return len(col.order)
}
