// Package session holds everything one visualizer canvas owns: the graph, the
// start/target selection, presentation data for each node, the random
// source, and the settings it was created with.
//
// A Session is not safe for concurrent use. Callers that share one across
// goroutines, like the HTTP server, must serialise access.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mattulau/Algo-Visualizer/internal/animation"
	"github.com/mattulau/Algo-Visualizer/internal/config"
	"github.com/mattulau/Algo-Visualizer/internal/generator"
	"github.com/mattulau/Algo-Visualizer/internal/geometry"
	"github.com/mattulau/Algo-Visualizer/internal/graph"
	"github.com/mattulau/Algo-Visualizer/internal/search"
	"github.com/mattulau/Algo-Visualizer/internal/spatial"
)

var (
	// ErrInvalidSelection is returned by Run when start or target is missing
	ErrInvalidSelection = search.ErrInvalidSelection
	ErrNoNodeAt         = errors.New("session: no node at point")
	ErrUnknownRole      = errors.New("session: selection role must be start or target")
)

// Icons are the node images a renderer can draw. Each node gets one at
// random when it is created.
var Icons = []string{
	"assets/node-1.svg",
	"assets/node-2.svg",
	"assets/node-3.svg",
	"assets/node-4.svg",
	"assets/node-5.svg",
	"assets/node-6.svg",
	"assets/node-7.svg",
}

// Role names which end of the search a selection sets
type Role string

const (
	RoleStart  Role = "start"
	RoleTarget Role = "target"
)

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStart, RoleTarget:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Presentation is renderer data kept next to the graph, never inside it
type Presentation struct {
	Icon string  `json:"icon"`
	Size float64 `json:"size"`
}

// Outcome is a finished search plus what a renderer needs to show it
type Outcome struct {
	Result    *search.Result
	Path      []graph.NodeID
	PathEdges []graph.EdgeID
	WorkDone  int
}

// Session is one canvas
type Session struct {
	cfg *config.Config
	log *slog.Logger
	rng *rand.Rand

	g       *graph.Graph
	index   *spatial.Index
	present map[graph.NodeID]Presentation

	start  graph.NodeID
	target graph.NodeID
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRand replaces the random source derived from the config seed
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// New creates an empty session. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		cfg:     cfg,
		log:     slog.Default(),
		rng:     rand.New(rand.NewSource(seed)),
		g:       graph.New(),
		index:   spatial.NewIndex(),
		present: make(map[graph.NodeID]Presentation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Graph exposes the session graph for read-only use
func (s *Session) Graph() *graph.Graph { return s.g }

// NodeCount returns the number of nodes on the canvas
func (s *Session) NodeCount() int { return s.g.NodeCount() }

// Generate clears the canvas and builds a new random graph of count nodes.
// count <= 0 uses the configured node count. If generation fails the canvas
// stays empty.
func (s *Session) Generate(ctx context.Context, count int) error {
	s.Clear()

	opts := s.cfg.GeneratorOptions()
	if count > 0 {
		opts.Count = count
	}
	opts.Logger = s.log

	g, err := generator.Generate(ctx, s.rng, opts)
	if err != nil {
		return err
	}

	s.g = g
	for _, n := range g.Nodes() {
		s.track(n)
	}
	return nil
}

// AddNode places a node at a random position on the canvas. Minimum
// separation is not enforced for manual additions.
func (s *Session) AddNode() (graph.Node, error) {
	size := s.cfg.Graph.NodeSize
	area := s.cfg.Graph.Canvas.Placement(size)
	pos := geometry.Point{
		X: area.Min.X() + s.rng.Float64()*(area.Max.X()-area.Min.X()),
		Y: area.Min.Y() + s.rng.Float64()*(area.Max.Y()-area.Min.Y()),
	}
	return s.AddNodeAt(pos)
}

// AddNodeAt places a node with its top-left corner at pos
func (s *Session) AddNodeAt(pos geometry.Point) (graph.Node, error) {
	n, err := s.g.AddNode(pos, s.cfg.Graph.NodeSize)
	if err != nil {
		return graph.Node{}, err
	}
	s.track(n)
	s.log.Debug("node added", "id", n.ID, "x", pos.X, "y", pos.Y)
	return n, nil
}

// DeleteNode removes a node and its edges. A selected node is deselected.
func (s *Session) DeleteNode(id graph.NodeID) error {
	if err := s.g.RemoveNode(id); err != nil {
		return err
	}
	s.untrack(id)
	s.log.Debug("node deleted", "id", id)
	return nil
}

// DeleteLastNode removes the most recently added node
func (s *Session) DeleteLastNode() (graph.NodeID, error) {
	id, err := s.g.RemoveLastNode()
	if err != nil {
		return uuid.Nil, err
	}
	s.untrack(id)
	s.log.Debug("node deleted", "id", id)
	return id, nil
}

// Clear removes every node, edge and selection
func (s *Session) Clear() {
	s.g = graph.New()
	s.index = spatial.NewIndex()
	s.present = make(map[graph.NodeID]Presentation)
	s.start, s.target = uuid.Nil, uuid.Nil
}

// Connect joins a and b with an edge of the given weight
func (s *Session) Connect(a, b graph.NodeID, weight int) (graph.Edge, error) {
	e, err := s.g.AddEdge(a, b, weight)
	if err != nil {
		return graph.Edge{}, err
	}
	s.log.Debug("edge added", "from", a, "to", b, "weight", weight)
	return e, nil
}

// ConnectRandom joins a and b with a weight drawn from the manual range
func (s *Session) ConnectRandom(a, b graph.NodeID) (graph.Edge, error) {
	return s.Connect(a, b, s.cfg.Graph.ManualWeights.Draw(s.rng))
}

// Disconnect removes the edge between a and b
func (s *Session) Disconnect(a, b graph.NodeID) error {
	if err := s.g.RemoveEdge(a, b); err != nil {
		return err
	}
	s.log.Debug("edge removed", "from", a, "to", b)
	return nil
}

// SelectStart marks id as the search start
func (s *Session) SelectStart(id graph.NodeID) error {
	return s.Select(RoleStart, id)
}

// SelectTarget marks id as the search target
func (s *Session) SelectTarget(id graph.NodeID) error {
	return s.Select(RoleTarget, id)
}

// Select sets the node for role. uuid.Nil clears it.
func (s *Session) Select(role Role, id graph.NodeID) error {
	if id != uuid.Nil && !s.g.HasNode(id) {
		return fmt.Errorf("select %s %s: %w", role, id, graph.ErrNodeNotFound)
	}
	switch role {
	case RoleStart:
		s.start = id
	case RoleTarget:
		s.target = id
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return nil
}

// SelectAt selects the node under p for role. A click hits a node when it
// lands within one node size of its center; the nearest such node wins.
func (s *Session) SelectAt(p geometry.Point, role Role) (graph.NodeID, error) {
	hit, ok := s.index.Nearest(p)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w (%.1f, %.1f): canvas is empty", ErrNoNodeAt, p.X, p.Y)
	}
	n, _ := s.g.Node(hit.ID)
	if hit.Distance > n.Size {
		return uuid.Nil, fmt.Errorf("%w (%.1f, %.1f)", ErrNoNodeAt, p.X, p.Y)
	}
	if err := s.Select(role, hit.ID); err != nil {
		return uuid.Nil, err
	}
	return hit.ID, nil
}

// Selection returns the selected start and target, uuid.Nil when unset
func (s *Session) Selection() (start, target graph.NodeID) {
	return s.start, s.target
}

// Run searches from the selected start to the selected target
func (s *Session) Run(algo search.Algorithm) (*Outcome, error) {
	if s.start == uuid.Nil || s.target == uuid.Nil {
		return nil, fmt.Errorf("%w: start and target must both be selected", ErrInvalidSelection)
	}

	var opts []search.Option
	if algo == search.AStar && s.cfg.Search.AStarAdmissible {
		opts = append(opts, search.WithHeuristic(search.Scaled(s.g.MinWeightRatio())))
	}

	startTime := time.Now()
	res, err := search.Run(algo, s.g, s.start, s.target, opts...)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Result: res, WorkDone: animation.WorkDone(res)}
	if path, ok := res.Path(); ok {
		out.Path = path
		out.PathEdges = animation.PathEdges(s.g, path)
	}

	s.log.Info("search finished",
		"algorithm", string(algo),
		"reachable", res.Reachable(),
		"distance", res.Distance,
		"steps", len(res.Steps),
		"work_done", out.WorkDone,
		"elapsed", time.Since(startTime).Round(time.Microsecond))
	return out, nil
}

// Play replays an outcome's steps at the configured step delay
func (s *Session) Play(ctx context.Context, out *Outcome, apply animation.ApplyFunc) error {
	return animation.Replay(ctx, out.Result.Steps, s.cfg.Search.StepDelay.Duration(), apply)
}

// Presentation returns renderer data for a node
func (s *Session) Presentation(id graph.NodeID) (Presentation, bool) {
	p, ok := s.present[id]
	return p, ok
}

func (s *Session) track(n graph.Node) {
	s.index.Insert(n.ID, n.Center())
	s.present[n.ID] = Presentation{
		Icon: Icons[s.rng.Intn(len(Icons))],
		Size: n.Size,
	}
}

func (s *Session) untrack(id graph.NodeID) {
	s.index.Remove(id)
	delete(s.present, id)
	if s.start == id {
		s.start = uuid.Nil
	}
	if s.target == id {
		s.target = uuid.Nil
	}
}
