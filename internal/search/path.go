package search

import "github.com/mattulau/Algo-Visualizer/internal/graph"

// Reconstruct walks predecessor links back from target and returns the
// ordered start→target path. It returns false when the walk hits a node
// without a predecessor before reaching start, meaning target was never
// reached. A start equal to target yields a single-node path.
func Reconstruct(pred map[graph.NodeID]graph.NodeID, start, target graph.NodeID) ([]graph.NodeID, bool) {
	if start == target {
		return []graph.NodeID{start}, true
	}

	rev := []graph.NodeID{target}
	cur := target
	// a predecessor chain can't be longer than the map; anything longer is a cycle
	for hops := 0; hops <= len(pred); hops++ {
		p, ok := pred[cur]
		if !ok {
			return nil, false
		}
		rev = append(rev, p)
		if p == start {
			for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
				rev[i], rev[j] = rev[j], rev[i]
			}
			return rev, true
		}
		cur = p
	}
	return nil, false
}
