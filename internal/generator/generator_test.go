package generator

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
	"github.com/mattulau/Algo-Visualizer/internal/graph"
	"github.com/mattulau/Algo-Visualizer/internal/search"
)

func quietOptions() Options {
	o := DefaultOptions()
	o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return o
}

func TestGenerate_Properties(t *testing.T) {
	for _, count := range []int{1, 2, 5, 10, 25} {
		for seed := int64(1); seed <= 5; seed++ {
			opts := quietOptions()
			opts.Count = count

			g, err := Generate(context.Background(), rand.New(rand.NewSource(seed)), opts)
			require.NoError(t, err)

			nodes := g.Nodes()
			require.Len(t, nodes, count, "count=%d seed=%d", count, seed)

			placement := opts.Canvas.Placement(opts.NodeSize)
			for i, a := range nodes {
				assert.True(t, placement.Contains(a.Position.Orb()), "node %d outside canvas", i)
				for _, b := range nodes[i+1:] {
					assert.GreaterOrEqual(t, a.Center().Distance(b.Center()), opts.MinSeparation)
				}
			}

			pairs := map[[2]graph.NodeID]bool{}
			for _, e := range g.Edges() {
				assert.GreaterOrEqual(t, e.Weight, 1)
				assert.LessOrEqual(t, e.Weight, 100)
				k := [2]graph.NodeID{e.From, e.To}
				r := [2]graph.NodeID{e.To, e.From}
				assert.False(t, pairs[k] || pairs[r], "duplicate unordered pair")
				pairs[k] = true
			}

			assertConnected(t, g)
		}
	}
}

func TestGenerate_SpanningOnlyWhenDegreeTargetMet(t *testing.T) {
	opts := quietOptions()
	opts.Count = 15
	opts.MinDegree = 1
	opts.MaxDegree = 4

	g, err := Generate(context.Background(), rand.New(rand.NewSource(3)), opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Count-1, g.EdgeCount(), "every tree node already has degree >= 1")

	opts.MinDegree = 0
	g, err = Generate(context.Background(), rand.New(rand.NewSource(3)), opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Count-1, g.EdgeCount())
}

func TestGenerate_AugmentationAddsEdges(t *testing.T) {
	opts := quietOptions()
	opts.Count = 20
	opts.MinDegree = 3
	opts.MaxDegree = 4
	opts.MaxDistance = 1000
	opts.ExtraWeights = WeightRange{Min: 1, Max: 10}

	g, err := Generate(context.Background(), rand.New(rand.NewSource(11)), opts)
	require.NoError(t, err)
	assert.Greater(t, g.EdgeCount(), opts.Count-1)

	edges := g.Edges()
	for _, e := range edges[:opts.Count-1] {
		assert.LessOrEqual(t, e.Weight, opts.SpanningWeights.Max)
	}
	for _, e := range edges[opts.Count-1:] {
		assert.GreaterOrEqual(t, e.Weight, opts.ExtraWeights.Min)
		assert.LessOrEqual(t, e.Weight, opts.ExtraWeights.Max)
	}
}

func TestGenerate_SpanningTreeAndAugmentationOrder(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		opts := quietOptions()
		opts.Count = 30
		opts.MinDegree = 3
		opts.MaxDegree = 4
		opts.MaxDistance = 400
		opts.ExtraWeights = WeightRange{Min: 1, Max: 10}

		g, err := Generate(context.Background(), rand.New(rand.NewSource(seed)), opts)
		require.NoError(t, err)

		nodes := g.Nodes()
		center := make(map[graph.NodeID]geometry.Point, len(nodes))
		for _, n := range nodes {
			center[n.ID] = n.Center()
		}
		length := func(e graph.Edge) float64 {
			return center[e.From].Distance(center[e.To])
		}

		edges := g.Edges()
		require.GreaterOrEqual(t, len(edges), opts.Count-1, "seed=%d", seed)
		spanning, extra := edges[:opts.Count-1], edges[opts.Count-1:]

		treeLen := 0.0
		spanDeg := map[graph.NodeID]int{}
		for _, e := range spanning {
			treeLen += length(e)
			spanDeg[e.From]++
			spanDeg[e.To]++
			assert.LessOrEqual(t, e.Weight, opts.SpanningWeights.Max)
		}
		assert.InDelta(t, minSpanningLength(nodes), treeLen, 1e-6, "seed=%d", seed)

		finalDeg := map[graph.NodeID]int{}
		for _, e := range edges {
			finalDeg[e.From]++
			finalDeg[e.To]++
		}
		for id, d := range finalDeg {
			if d > spanDeg[id] {
				assert.LessOrEqual(t, d, opts.MaxDegree, "seed=%d node %s", seed, id)
			}
		}

		last := map[graph.NodeID]float64{}
		for _, e := range extra {
			d := length(e)
			assert.LessOrEqual(t, d, opts.MaxDistance+1e-9)
			assert.GreaterOrEqual(t, e.Weight, opts.ExtraWeights.Min)
			assert.LessOrEqual(t, e.Weight, opts.ExtraWeights.Max)
			if prev, ok := last[e.From]; ok {
				assert.GreaterOrEqual(t, d, prev, "seed=%d edges from %s out of distance order", seed, e.From)
			}
			last[e.From] = d
		}

		assertConnected(t, g)
	}
}

func TestGenerate_ZeroDistanceAddsNothing(t *testing.T) {
	opts := quietOptions()
	opts.Count = 12
	opts.MaxDistance = 0

	g, err := Generate(context.Background(), rand.New(rand.NewSource(5)), opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Count-1, g.EdgeCount())
	assertConnected(t, g)
}

func TestGenerate_InfeasiblePlacementStopsOnContext(t *testing.T) {
	opts := quietOptions()
	opts.Count = 50
	opts.Canvas = geometry.Canvas{Width: 100, Height: 100}
	opts.NodeSize = 10
	opts.MinSeparation = 80

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Generate(ctx, rand.New(rand.NewSource(1)), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlacementAborted)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   error
	}{
		{"no nodes", func(o *Options) { o.Count = 0 }, ErrTooFewNodes},
		{"zero size", func(o *Options) { o.NodeSize = 0 }, ErrBadNodeSize},
		{"node larger than canvas", func(o *Options) { o.NodeSize = 700 }, ErrCanvasTooSmall},
		{"negative separation", func(o *Options) { o.MinSeparation = -1 }, ErrBadSeparation},
		{"min above max degree", func(o *Options) { o.MinDegree = 5; o.MaxDegree = 4 }, ErrBadDegree},
		{"zero max degree", func(o *Options) { o.MinDegree = 0; o.MaxDegree = 0 }, ErrBadDegree},
		{"negative distance", func(o *Options) { o.MaxDistance = -3 }, ErrBadDistance},
		{"zero weight", func(o *Options) { o.SpanningWeights = WeightRange{Min: 0, Max: 10} }, ErrBadWeightRange},
		{"inverted weights", func(o *Options) { o.ExtraWeights = WeightRange{Min: 10, Max: 1} }, ErrBadWeightRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := quietOptions()
			tt.mutate(&opts)
			_, err := Generate(context.Background(), rand.New(rand.NewSource(1)), opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Generate(context.Background(), nil, quietOptions())
	assert.ErrorIs(t, err, ErrNeedRandSource)
}

func TestGenerate_RemovingSoleEdgeMakesUnreachable(t *testing.T) {
	opts := quietOptions()
	opts.Count = 2

	g, err := Generate(context.Background(), rand.New(rand.NewSource(9)), opts)
	require.NoError(t, err)
	require.Equal(t, 1, g.EdgeCount())

	nodes := g.Nodes()
	require.NoError(t, g.RemoveEdge(nodes[0].ID, nodes[1].ID))

	for _, algo := range []search.Algorithm{search.Dijkstra, search.AStar} {
		res, err := search.Run(algo, g, nodes[0].ID, nodes[1].ID)
		require.NoError(t, err)
		assert.False(t, res.Reachable())
		_, ok := res.Path()
		assert.False(t, ok)
	}
}

func TestWeightRangeDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := WeightRange{Min: 3, Max: 5}
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		v := w.Draw(rng)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
}

// minSpanningLength is the total center-to-center length of a minimum
// spanning tree over nodes
func minSpanningLength(nodes []graph.Node) float64 {
	if len(nodes) < 2 {
		return 0
	}
	in := make([]bool, len(nodes))
	best := make([]float64, len(nodes))
	for i := range best {
		best[i] = math.Inf(1)
	}
	best[0] = 0

	total := 0.0
	for range nodes {
		u := -1
		for i := range nodes {
			if !in[i] && (u == -1 || best[i] < best[u]) {
				u = i
			}
		}
		in[u] = true
		total += best[u]
		for i := range nodes {
			if d := nodes[u].Center().Distance(nodes[i].Center()); !in[i] && d < best[i] {
				best[i] = d
			}
		}
	}
	return total
}

// assertConnected runs Dijkstra from the first node and expects every other
// node to have a finite distance
func assertConnected(t *testing.T, g *graph.Graph) {
	t.Helper()
	nodes := g.Nodes()
	if len(nodes) < 2 {
		return
	}
	for _, target := range nodes[1:] {
		res, err := search.RunDijkstra(g, nodes[0].ID, target.ID)
		require.NoError(t, err)
		assert.True(t, res.Reachable(), "node %s unreachable", target.ID)
	}
}
