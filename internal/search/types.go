// Package search runs shortest-path searches over a graph.Graph and records
// every algorithm event in an ordered step log that drives animated replay.
//
// Dijkstra and A* share one engine. Both use a min-heap without
// decrease-key: an improved distance pushes a fresh entry and stale entries
// are discarded when popped. Both stop as soon as the target is settled.
//
// Step log protocol:
//
//	Current{node}       node popped from the frontier and settled
//	Visit{node, edge}   edge examined from the settled node towards node
//	Relax{node, edge}   node's best distance improved through edge
//
// A Visit is emitted every time an edge is examined, so an edge reached from
// both of its endpoints yields two Visit steps, while VisitedEdges counts it
// once. Predecessors holds only nodes that were reached; start has none.
package search

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/mattulau/Algo-Visualizer/internal/graph"
)

// Sentinel errors returned by the search entry points.
var (
	// ErrNilGraph indicates that a nil *graph.Graph was passed in.
	ErrNilGraph = errors.New("search: graph is nil")

	// ErrInvalidSelection indicates that start or target is unset or not
	// part of the graph. Callers should ask the user to pick again.
	ErrInvalidSelection = errors.New("search: start and target must both be selected")

	// ErrUnknownAlgorithm indicates an algorithm name that ParseAlgorithm
	// does not recognise.
	ErrUnknownAlgorithm = errors.New("search: unknown algorithm")
)

// IsUnreached reports whether d is the distance of a node the search never
// reached. Unreached distances are +Inf.
func IsUnreached(d float64) bool {
	return math.IsInf(d, 1)
}

// Algorithm names a search strategy
type Algorithm string

const (
	Dijkstra Algorithm = "dijkstra"
	AStar    Algorithm = "astar"
)

// ParseAlgorithm maps a user supplied name to an Algorithm
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dijkstra":
		return Dijkstra, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// StepKind tags a Step
type StepKind int

const (
	StepCurrent StepKind = iota
	StepVisit
	StepRelax
)

func (k StepKind) String() string {
	switch k {
	case StepCurrent:
		return "current"
	case StepVisit:
		return "visit"
	case StepRelax:
		return "relax"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// MarshalText encodes the kind by name
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *StepKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "current":
		*k = StepCurrent
	case "visit":
		*k = StepVisit
	case "relax":
		*k = StepRelax
	default:
		return fmt.Errorf("search: unknown step kind %q", b)
	}
	return nil
}

// Step is one entry of the step log. Edge is uuid.Nil for Current steps.
type Step struct {
	Kind StepKind     `json:"kind"`
	Node graph.NodeID `json:"node"`
	Edge graph.EdgeID `json:"edge"`
}

// CurrentStep records a settled node
func CurrentStep(n graph.NodeID) Step {
	return Step{Kind: StepCurrent, Node: n, Edge: uuid.Nil}
}

// VisitStep records an examined edge leading to n
func VisitStep(n graph.NodeID, e graph.EdgeID) Step {
	return Step{Kind: StepVisit, Node: n, Edge: e}
}

// RelaxStep records an improved distance for n through e
func RelaxStep(n graph.NodeID, e graph.EdgeID) Step {
	return Step{Kind: StepRelax, Node: n, Edge: e}
}

// Result is the outcome of one search. It is not modified after being
// returned.
type Result struct {
	Algorithm Algorithm
	Start     graph.NodeID
	Target    graph.NodeID

	// Distance is the cost of the best path to Target, +Inf if none.
	Distance float64

	Distances    map[graph.NodeID]float64
	Predecessors map[graph.NodeID]graph.NodeID
	Steps        []Step
	VisitedNodes map[graph.NodeID]struct{}
	VisitedEdges map[graph.EdgeID]struct{}
}

// Reachable reports whether the search found a path to Target
func (r *Result) Reachable() bool {
	return !IsUnreached(r.Distance)
}

// Path reconstructs the start→target node sequence. It returns false when
// Target is unreachable.
func (r *Result) Path() ([]graph.NodeID, bool) {
	return Reconstruct(r.Predecessors, r.Start, r.Target)
}

// Heuristic estimates the remaining cost from a node to the target
type Heuristic func(from, target graph.Node) float64

// Euclidean is the straight-line distance between node centers. It is only
// admissible when edge weights are at least the distance they span.
func Euclidean(from, target graph.Node) float64 {
	return from.Center().Distance(target.Center())
}

// Scaled multiplies the Euclidean estimate by factor. With factor set to
// graph.MinWeightRatio the estimate never exceeds the true remaining cost.
func Scaled(factor float64) Heuristic {
	return func(from, target graph.Node) float64 {
		return factor * Euclidean(from, target)
	}
}

// Options configures a search
type Options struct {
	Heuristic Heuristic
}

// Option represents a functional option for configuring a search.
type Option func(*Options)

// WithHeuristic replaces the A* heuristic. Dijkstra ignores it.
func WithHeuristic(h Heuristic) Option {
	if h == nil {
		panic("search: WithHeuristic(nil)")
	}
	return func(o *Options) {
		o.Heuristic = h
	}
}

// DefaultOptions returns the straight-line heuristic configuration
func DefaultOptions() Options {
	return Options{Heuristic: Euclidean}
}
