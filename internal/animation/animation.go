// Package animation turns a search step log into timed visual updates.
//
// Nothing here changes search results. Replay only paces the steps and hands
// them to a renderer callback; PathEdges and WorkDone derive the final
// highlight and the statistics line shown after playback.
package animation

import (
	"context"
	"fmt"
	"time"

	"github.com/mattulau/Algo-Visualizer/internal/graph"
	"github.com/mattulau/Algo-Visualizer/internal/search"
)

// State is the visual state a step puts its node or edge into
type State string

const (
	Settling State = "settling" // node being expanded
	Examined State = "examined" // edge looked at
	Improved State = "improved" // edge gave a shorter distance
	Path     State = "path"     // final highlight
)

// Transition maps a step to the state the renderer should show
func Transition(s search.Step) State {
	switch s.Kind {
	case search.StepCurrent:
		return Settling
	case search.StepVisit:
		return Examined
	case search.StepRelax:
		return Improved
	}
	panic(fmt.Sprintf("animation: unknown step kind %d", s.Kind))
}

// ApplyFunc renders one step. Returning an error stops the replay.
type ApplyFunc func(i int, s search.Step) error

// Replay applies steps in order and waits delay after each one. It returns
// ctx.Err() if the context ends between steps; steps already applied stay
// applied.
func Replay(ctx context.Context, steps []search.Step, delay time.Duration, apply ApplyFunc) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(i, s); err != nil {
			return fmt.Errorf("replay step %d (%s): %w", i, s.Kind, err)
		}
		if delay <= 0 {
			continue
		}

		if timer == nil {
			timer = time.NewTimer(delay)
		} else {
			timer.Reset(delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// PathEdges returns the edges joining consecutive nodes of path. It panics if
// two consecutive nodes are not adjacent, which a reconstructed path never
// produces.
func PathEdges(g *graph.Graph, path []graph.NodeID) []graph.EdgeID {
	if len(path) < 2 {
		return nil
	}
	out := make([]graph.EdgeID, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		e, ok := g.Edge(path[i-1], path[i])
		if !ok {
			panic(fmt.Sprintf("animation: path hop %s -> %s has no edge", path[i-1], path[i]))
		}
		out = append(out, e.ID)
	}
	return out
}

// WorkDone is the number of distinct nodes plus distinct edges a search
// touched
func WorkDone(r *search.Result) int {
	if r == nil {
		return 0
	}
	return len(r.VisitedNodes) + len(r.VisitedEdges)
}
