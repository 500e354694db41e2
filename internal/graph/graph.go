// Package graph is the in-memory store of positioned nodes and weighted,
// undirected edges that the generator fills and the search engine reads.
//
// Nodes and edges are kept in insertion order. Adjacency is not stored; it is
// derived by scanning the edge list, so the order in which a node's incident
// edges are reported is the order the edges were added. Search step logs
// depend on that order, which keeps them reproducible for a fixed graph.
//
// A Graph is not safe for concurrent use.
package graph

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
)

// Sentinel errors returned by Graph operations.
var (
	ErrNodeNotFound  = errors.New("graph: node not found")
	ErrEdgeNotFound  = errors.New("graph: edge not found")
	ErrSelfLoop      = errors.New("graph: edge endpoints must be distinct")
	ErrDuplicateEdge = errors.New("graph: edge already exists between nodes")
	ErrBadWeight     = errors.New("graph: edge weight must be a positive integer")
	ErrBadSize       = errors.New("graph: node size must be positive")
	ErrEmpty         = errors.New("graph: no nodes")
)

// NodeID is the opaque handle of a node
type NodeID = uuid.UUID

// EdgeID is the opaque handle of an edge
type EdgeID = uuid.UUID

// Node is a vertex drawn on the canvas. Position is the top-left corner.
type Node struct {
	ID       NodeID         `json:"id"`
	Position geometry.Point `json:"position"`
	Size     float64        `json:"size"`
}

// Center returns the middle of the node's square
func (n Node) Center() geometry.Point {
	return n.Position.Offset(n.Size / 2)
}

// Edge connects two distinct nodes. From and To carry no direction.
type Edge struct {
	ID     EdgeID `json:"id"`
	From   NodeID `json:"from"`
	To     NodeID `json:"to"`
	Weight int    `json:"weight"`
}

// Other returns the endpoint of e that is not id
func (e Edge) Other(id NodeID) NodeID {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Touches reports whether id is an endpoint of e
func (e Edge) Touches(id NodeID) bool {
	return e.From == id || e.To == id
}

// pairKey identifies an unordered node pair
type pairKey struct {
	a, b NodeID
}

func keyOf(a, b NodeID) pairKey {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Graph holds nodes and edges of one visualizer session
type Graph struct {
	nodes []Node
	edges []Edge

	nodeIdx map[NodeID]int
	// pairs holds each edge under its unordered endpoint key. Edges are
	// never modified after AddEdge, so the stored copy stays current.
	pairs map[pairKey]Edge
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		nodeIdx: make(map[NodeID]int),
		pairs:   make(map[pairKey]Edge),
	}
}

// AddNode places a new node and returns it. Minimum separation is the
// generator's concern and is not checked here.
func (g *Graph) AddNode(pos geometry.Point, size float64) (Node, error) {
	if size <= 0 || math.IsNaN(size) {
		return Node{}, fmt.Errorf("add node (size %.2f): %w", size, ErrBadSize)
	}
	n := Node{ID: uuid.New(), Position: pos, Size: size}
	g.nodeIdx[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n, nil
}

// RemoveNode deletes a node together with every edge incident to it
func (g *Graph) RemoveNode(id NodeID) error {
	idx, ok := g.nodeIdx[id]
	if !ok {
		return fmt.Errorf("remove node %s: %w", id, ErrNodeNotFound)
	}

	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Touches(id) {
			delete(g.pairs, keyOf(e.From, e.To))
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept

	g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)
	delete(g.nodeIdx, id)
	for i := idx; i < len(g.nodes); i++ {
		g.nodeIdx[g.nodes[i].ID] = i
	}
	return nil
}

// RemoveLastNode deletes the most recently added node and returns its ID
func (g *Graph) RemoveLastNode() (NodeID, error) {
	if len(g.nodes) == 0 {
		return uuid.Nil, ErrEmpty
	}
	id := g.nodes[len(g.nodes)-1].ID
	return id, g.RemoveNode(id)
}

// AddEdge connects a and b with the given weight
func (g *Graph) AddEdge(a, b NodeID, weight int) (Edge, error) {
	if a == b {
		return Edge{}, fmt.Errorf("add edge %s-%s: %w", a, b, ErrSelfLoop)
	}
	if weight <= 0 {
		return Edge{}, fmt.Errorf("add edge %s-%s (weight %d): %w", a, b, weight, ErrBadWeight)
	}
	if !g.HasNode(a) {
		return Edge{}, fmt.Errorf("add edge: endpoint %s: %w", a, ErrNodeNotFound)
	}
	if !g.HasNode(b) {
		return Edge{}, fmt.Errorf("add edge: endpoint %s: %w", b, ErrNodeNotFound)
	}
	k := keyOf(a, b)
	if _, dup := g.pairs[k]; dup {
		return Edge{}, fmt.Errorf("add edge %s-%s: %w", a, b, ErrDuplicateEdge)
	}

	e := Edge{ID: uuid.New(), From: a, To: b, Weight: weight}
	g.edges = append(g.edges, e)
	g.pairs[k] = e
	return e, nil
}

// RemoveEdge deletes the edge between a and b, in either orientation
func (g *Graph) RemoveEdge(a, b NodeID) error {
	k := keyOf(a, b)
	edge, ok := g.pairs[k]
	if !ok {
		return fmt.Errorf("remove edge %s-%s: %w", a, b, ErrEdgeNotFound)
	}
	for i, e := range g.edges {
		if e.ID == edge.ID {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			break
		}
	}
	delete(g.pairs, k)
	return nil
}

// Clear drops every node and edge
func (g *Graph) Clear() {
	g.nodes = nil
	g.edges = nil
	g.nodeIdx = make(map[NodeID]int)
	g.pairs = make(map[pairKey]Edge)
}

// HasNode reports whether id belongs to the graph
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodeIdx[id]
	return ok
}

// Node looks up a node by ID
func (g *Graph) Node(id NodeID) (Node, bool) {
	idx, ok := g.nodeIdx[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[idx], true
}

// Edge returns the edge between a and b, if any
func (g *Graph) Edge(a, b NodeID) (Edge, bool) {
	e, ok := g.pairs[keyOf(a, b)]
	return e, ok
}

// HasEdge reports whether a and b are directly connected
func (g *Graph) HasEdge(a, b NodeID) bool {
	_, ok := g.pairs[keyOf(a, b)]
	return ok
}

// Nodes returns a copy of the node list in insertion order
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of the edge list in insertion order
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount is the number of nodes in the store
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount is the number of edges in the store
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Incident returns the edges touching id, in edge insertion order
func (g *Graph) Incident(id NodeID) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

// Degree is the number of edges touching id
func (g *Graph) Degree(id NodeID) int {
	d := 0
	for _, e := range g.edges {
		if e.Touches(id) {
			d++
		}
	}
	return d
}

// Distance is the straight-line distance between the centers of two nodes.
// Both nodes must exist.
func (g *Graph) Distance(a, b NodeID) float64 {
	na, okA := g.Node(a)
	nb, okB := g.Node(b)
	if !okA || !okB {
		panic(fmt.Sprintf("graph: distance between unknown nodes %s and %s", a, b))
	}
	return na.Center().Distance(nb.Center())
}

// MinWeightRatio returns the smallest weight/length ratio over all edges.
// Scaling straight-line distance by this factor never overestimates the
// remaining cost, so A* stays optimal. It returns 1 when there is no edge
// with positive length.
func (g *Graph) MinWeightRatio() float64 {
	ratio := math.Inf(1)
	for _, e := range g.edges {
		d := g.Distance(e.From, e.To)
		if d <= 0 {
			continue
		}
		if r := float64(e.Weight) / d; r < ratio {
			ratio = r
		}
	}
	if math.IsInf(ratio, 1) {
		return 1
	}
	return ratio
}
