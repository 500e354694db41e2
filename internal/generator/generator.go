// Package generator builds random graphs for the visualizer: well separated
// nodes scattered over the canvas, a spanning pass that makes the graph
// connected, then an augmentation pass that adds short edges up to a degree
// target.
//
// Placement is rejection sampling with no attempt cap. Parameters where the
// canvas cannot fit Count nodes at MinSeparation never finish; callers must
// pass feasible values or bound the run with a context deadline.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
	"github.com/mattulau/Algo-Visualizer/internal/graph"
	"github.com/mattulau/Algo-Visualizer/internal/spatial"
)

const method = "Generate"

// Generate creates a new connected graph according to opts
func Generate(ctx context.Context, rng *rand.Rand, opts Options) (*graph.Graph, error) {
	if rng == nil {
		return nil, fmt.Errorf("%s: %w", method, ErrNeedRandSource)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	startTime := time.Now()
	log.Debug("building graph",
		"nodes", opts.Count,
		"separation", opts.MinSeparation,
		"canvas", fmt.Sprintf("%.0fx%.0f", opts.Canvas.Width, opts.Canvas.Height))

	b := &build{
		g:     graph.New(),
		index: spatial.NewIndex(),
		rng:   rng,
		opts:  opts,
		deg:   make(map[graph.NodeID]int, opts.Count),
	}

	// Step 1: rejection-sampled placement
	rejected, err := b.place(ctx)
	if err != nil {
		return nil, err
	}

	// Step 2: connect everything through shortest crossing pairs
	if err := b.span(); err != nil {
		return nil, err
	}
	spanning := b.g.EdgeCount()

	// Step 3: add short edges until nodes reach the degree target
	if err := b.augment(); err != nil {
		return nil, err
	}

	log.Info("graph generated",
		"nodes", b.g.NodeCount(),
		"edges", b.g.EdgeCount(),
		"spanning_edges", spanning,
		"rejected_samples", rejected,
		"elapsed", time.Since(startTime).Round(time.Microsecond))

	return b.g, nil
}

// build holds the state of one generation run
type build struct {
	g     *graph.Graph
	index *spatial.Index
	rng   *rand.Rand
	opts  Options
	nodes []graph.Node
	deg   map[graph.NodeID]int
}

// place samples node positions until Count nodes are accepted. It returns
// the number of rejected samples.
func (b *build) place(ctx context.Context) (int, error) {
	area := b.opts.Canvas.Placement(b.opts.NodeSize)
	w := area.Max.X() - area.Min.X()
	h := area.Max.Y() - area.Min.Y()
	half := b.opts.NodeSize / 2

	rejected := 0
	for len(b.nodes) < b.opts.Count {
		pos := geometry.Point{
			X: area.Min.X() + b.rng.Float64()*w,
			Y: area.Min.Y() + b.rng.Float64()*h,
		}
		center := pos.Offset(half)

		if b.index.AnyCloser(center, b.opts.MinSeparation) {
			rejected++
			if err := ctx.Err(); err != nil {
				return rejected, fmt.Errorf("%s: placed %d of %d nodes: %w: %w",
					method, len(b.nodes), b.opts.Count, ErrPlacementAborted, err)
			}
			continue
		}

		n, err := b.g.AddNode(pos, b.opts.NodeSize)
		if err != nil {
			return rejected, fmt.Errorf("%s: AddNode: %w", method, err)
		}
		b.index.Insert(n.ID, center)
		b.nodes = append(b.nodes, n)
	}
	return rejected, nil
}

// span grows a connected set from the first node, each round joining the
// closest (connected, unconnected) pair, until every node is connected
func (b *build) span() error {
	n := len(b.nodes)
	if n < 2 {
		return nil
	}

	connected := make([]bool, n)
	best := make([]float64, n) // distance from i to the connected set
	bestFrom := make([]int, n) // connected node realising best[i]

	connected[0] = true
	for i := 1; i < n; i++ {
		best[i] = b.dist(0, i)
		bestFrom[i] = 0
	}

	for joined := 1; joined < n; joined++ {
		next := -1
		for i := 0; i < n; i++ {
			if connected[i] {
				continue
			}
			if next == -1 || best[i] < best[next] {
				next = i
			}
		}

		if err := b.connect(bestFrom[next], next, b.opts.SpanningWeights); err != nil {
			return err
		}
		connected[next] = true

		for i := 0; i < n; i++ {
			if connected[i] {
				continue
			}
			if d := b.dist(next, i); d < best[i] {
				best[i] = d
				bestFrom[i] = next
			}
		}
	}
	return nil
}

// augment walks nodes in placement order and links each one to its nearest
// candidates within MaxDistance until it reaches MinDegree or MaxDegree.
// Earlier nodes claim capacity first.
func (b *build) augment() error {
	pos := make(map[graph.NodeID]int, len(b.nodes))
	for i, n := range b.nodes {
		pos[n.ID] = i
	}

	for i, n := range b.nodes {
		if b.saturated(n.ID) {
			continue
		}
		for _, hit := range b.index.Within(n.Center(), b.opts.MaxDistance) {
			if b.saturated(n.ID) {
				break
			}
			if hit.ID == n.ID || b.g.HasEdge(n.ID, hit.ID) || b.deg[hit.ID] >= b.opts.MaxDegree {
				continue
			}
			if err := b.connect(i, pos[hit.ID], b.opts.ExtraWeights); err != nil {
				return err
			}
		}
	}
	return nil
}

// saturated reports whether id has reached the degree target or the cap
func (b *build) saturated(id graph.NodeID) bool {
	d := b.deg[id]
	return d >= b.opts.MinDegree || d >= b.opts.MaxDegree
}

func (b *build) connect(i, j int, weights WeightRange) error {
	u, v := b.nodes[i].ID, b.nodes[j].ID
	w := weights.Draw(b.rng)
	if _, err := b.g.AddEdge(u, v, w); err != nil {
		return fmt.Errorf("%s: AddEdge(%d-%d, w=%d): %w", method, i, j, w, err)
	}
	b.deg[u]++
	b.deg[v]++
	return nil
}

func (b *build) dist(i, j int) float64 {
	return b.nodes[i].Center().Distance(b.nodes[j].Center())
}
