package animation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
	"github.com/mattulau/Algo-Visualizer/internal/graph"
	"github.com/mattulau/Algo-Visualizer/internal/search"
)

// line builds A -3- B -5- C
func line(t *testing.T) (*graph.Graph, []graph.NodeID) {
	t.Helper()
	g := graph.New()
	var ids []graph.NodeID
	for i := 0; i < 3; i++ {
		n, err := g.AddNode(geometry.Point{X: float64(i) * 100}, 32)
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	_, err := g.AddEdge(ids[0], ids[1], 3)
	require.NoError(t, err)
	_, err = g.AddEdge(ids[1], ids[2], 5)
	require.NoError(t, err)
	return g, ids
}

func TestTransition(t *testing.T) {
	id := graph.NodeID{}
	assert.Equal(t, Settling, Transition(search.CurrentStep(id)))
	assert.Equal(t, Examined, Transition(search.VisitStep(id, graph.EdgeID{})))
	assert.Equal(t, Improved, Transition(search.RelaxStep(id, graph.EdgeID{})))
	assert.Panics(t, func() { Transition(search.Step{Kind: search.StepKind(99)}) })
}

func TestReplay(t *testing.T) {
	g, ids := line(t)
	res, err := search.RunDijkstra(g, ids[0], ids[2])
	require.NoError(t, err)

	t.Run("applies every step in order", func(t *testing.T) {
		var got []search.Step
		err := Replay(context.Background(), res.Steps, 0, func(i int, s search.Step) error {
			assert.Equal(t, len(got), i)
			got = append(got, s)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, res.Steps, got)
	})

	t.Run("waits between steps", func(t *testing.T) {
		steps := res.Steps[:3]
		start := time.Now()
		require.NoError(t, Replay(context.Background(), steps, 5*time.Millisecond,
			func(int, search.Step) error { return nil }))
		assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	})

	t.Run("cancellation during a reused wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		applied := 0
		err := Replay(ctx, res.Steps, 20*time.Millisecond, func(i int, _ search.Step) error {
			applied++
			if i == 2 {
				cancel()
			}
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 3, applied)
	})

	t.Run("zero delay does not wait", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, Replay(context.Background(), res.Steps, 0,
			func(int, search.Step) error { return nil }))
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("cancellation keeps applied steps", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		applied := 0
		err := Replay(ctx, res.Steps, time.Hour, func(int, search.Step) error {
			applied++
			cancel()
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, applied)
	})

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Replay(ctx, res.Steps, 0, func(int, search.Step) error {
			t.Fatal("no step should be applied")
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("apply error stops replay", func(t *testing.T) {
		boom := errors.New("renderer gone")
		calls := 0
		err := Replay(context.Background(), res.Steps, 0, func(i int, s search.Step) error {
			calls++
			if i == 2 {
				return boom
			}
			return nil
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})
}

func TestPathEdges(t *testing.T) {
	g, ids := line(t)
	res, err := search.RunDijkstra(g, ids[0], ids[2])
	require.NoError(t, err)

	path, ok := res.Path()
	require.True(t, ok)

	ab, _ := g.Edge(ids[0], ids[1])
	bc, _ := g.Edge(ids[1], ids[2])
	assert.Equal(t, []graph.EdgeID{ab.ID, bc.ID}, PathEdges(g, path))

	assert.Nil(t, PathEdges(g, []graph.NodeID{ids[0]}))
	assert.Nil(t, PathEdges(g, nil))
	assert.Panics(t, func() { PathEdges(g, []graph.NodeID{ids[0], ids[2]}) })
}

func TestWorkDone(t *testing.T) {
	g, ids := line(t)
	res, err := search.RunDijkstra(g, ids[0], ids[2])
	require.NoError(t, err)

	assert.Equal(t, 3+2, WorkDone(res))
	assert.Equal(t, 0, WorkDone(nil))

	res, err = search.RunDijkstra(g, ids[0], ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, WorkDone(res))
}
