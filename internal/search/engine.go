package search

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/mattulau/Algo-Visualizer/internal/graph"
	"github.com/mattulau/Algo-Visualizer/internal/pqueue"
)

// RunDijkstra computes the shortest path from start to target. Unreachable
// targets are not an error: the result reports Distance == +Inf.
func RunDijkstra(g *graph.Graph, start, target graph.NodeID, opts ...Option) (*Result, error) {
	return Run(Dijkstra, g, start, target, opts...)
}

// RunAStar computes a path from start to target ordering the frontier by
// g + heuristic(node, target). See Euclidean for when the default heuristic
// guarantees an optimal answer.
func RunAStar(g *graph.Graph, start, target graph.NodeID, opts ...Option) (*Result, error) {
	return Run(AStar, g, start, target, opts...)
}

// Run dispatches to the named algorithm
func Run(algo Algorithm, g *graph.Graph, start, target graph.NodeID, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if algo != Dijkstra && algo != AStar {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
	if g == nil {
		return nil, ErrNilGraph
	}
	if start == uuid.Nil || target == uuid.Nil {
		return nil, ErrInvalidSelection
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: start %s not in graph", ErrInvalidSelection, start)
	}
	if !g.HasNode(target) {
		return nil, fmt.Errorf("%w: target %s not in graph", ErrInvalidSelection, target)
	}

	r := newRunner(g, algo, cfg, start, target)
	r.init()
	r.process()
	return r.result(), nil
}

// frontierItem is a heap entry. g is the path cost at push time and is
// compared with the authoritative distance table to detect stale entries.
type frontierItem struct {
	id       graph.NodeID
	g        float64
	priority float64
}

// runner holds the mutable state for a single search execution.
type runner struct {
	g      *graph.Graph
	algo   Algorithm
	opts   Options
	start  graph.NodeID
	target graph.NodeID
	goal   graph.Node // target node, for the heuristic

	dist         map[graph.NodeID]float64
	prev         map[graph.NodeID]graph.NodeID
	steps        []Step
	visitedNodes map[graph.NodeID]struct{}
	visitedEdges map[graph.EdgeID]struct{}
	pq           *pqueue.Queue[frontierItem]
}

func newRunner(g *graph.Graph, algo Algorithm, opts Options, start, target graph.NodeID) *runner {
	goal, _ := g.Node(target)
	n := g.NodeCount()
	return &runner{
		g:            g,
		algo:         algo,
		opts:         opts,
		start:        start,
		target:       target,
		goal:         goal,
		dist:         make(map[graph.NodeID]float64, n),
		prev:         make(map[graph.NodeID]graph.NodeID),
		visitedNodes: make(map[graph.NodeID]struct{}),
		visitedEdges: make(map[graph.EdgeID]struct{}),
		pq: pqueue.New(func(a, b frontierItem) bool {
			return a.priority < b.priority
		}),
	}
}

// init sets every distance to +Inf and seeds the frontier with start
func (r *runner) init() {
	for _, n := range r.g.Nodes() {
		r.dist[n.ID] = math.Inf(1)
	}
	r.dist[r.start] = 0
	r.pq.Push(frontierItem{id: r.start, g: 0, priority: r.priority(r.start, 0)})
}

// priority is the frontier key: g for Dijkstra, g + h for A*
func (r *runner) priority(id graph.NodeID, g float64) float64 {
	if r.algo != AStar {
		return g
	}
	n, ok := r.g.Node(id)
	if !ok {
		panic(fmt.Sprintf("search: malformed graph, node %s referenced by an edge is missing", id))
	}
	return g + r.opts.Heuristic(n, r.goal)
}

// process pops and settles nodes until the target is settled or the
// frontier is empty
func (r *runner) process() {
	for !r.pq.IsEmpty() {
		item := r.pq.Pop()
		if item.g > r.dist[item.id] {
			continue
		}

		r.steps = append(r.steps, CurrentStep(item.id))
		r.visitedNodes[item.id] = struct{}{}

		if item.id == r.target {
			return
		}
		r.relax(item.id, item.g)
	}
}

// relax examines every edge incident to u, in graph edge order
func (r *runner) relax(u graph.NodeID, du float64) {
	for _, e := range r.g.Incident(u) {
		v := e.Other(u)

		r.steps = append(r.steps, VisitStep(v, e.ID))
		r.visitedEdges[e.ID] = struct{}{}

		dv, ok := r.dist[v]
		if !ok {
			panic(fmt.Sprintf("search: malformed graph, edge %s references missing node %s", e.ID, v))
		}
		cand := du + float64(e.Weight)
		if cand >= dv {
			continue
		}
		r.dist[v] = cand
		r.prev[v] = u
		r.pq.Push(frontierItem{id: v, g: cand, priority: r.priority(v, cand)})
		r.steps = append(r.steps, RelaxStep(v, e.ID))
	}
}

func (r *runner) result() *Result {
	return &Result{
		Algorithm:    r.algo,
		Start:        r.start,
		Target:       r.target,
		Distance:     r.dist[r.target],
		Distances:    r.dist,
		Predecessors: r.prev,
		Steps:        r.steps,
		VisitedNodes: r.visitedNodes,
		VisitedEdges: r.visitedEdges,
	}
}
