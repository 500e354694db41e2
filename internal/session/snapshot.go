package session

import (
	"github.com/google/uuid"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
	"github.com/mattulau/Algo-Visualizer/internal/graph"
)

// NodeView is a node as a renderer draws it
type NodeView struct {
	ID       graph.NodeID   `json:"id"`
	Position geometry.Point `json:"position"`
	Center   geometry.Point `json:"center"`
	Size     float64        `json:"size"`
	Icon     string         `json:"icon"`
	Role     Role           `json:"role,omitempty"`
}

// EdgeView is an edge with its drawn segment between node centers
type EdgeView struct {
	ID     graph.EdgeID      `json:"id"`
	From   graph.NodeID      `json:"from"`
	To     graph.NodeID      `json:"to"`
	Weight int               `json:"weight"`
	Line   [2]geometry.Point `json:"line"`
}

// Snapshot is the full drawable state of a session
type Snapshot struct {
	Canvas geometry.Canvas `json:"canvas"`
	Nodes  []NodeView      `json:"nodes"`
	Edges  []EdgeView      `json:"edges"`
	Start  *graph.NodeID   `json:"start,omitempty"`
	Target *graph.NodeID   `json:"target,omitempty"`
}

// Snapshot copies the current state in insertion order
func (s *Session) Snapshot() Snapshot {
	nodes := s.g.Nodes()
	edges := s.g.Edges()

	snap := Snapshot{
		Canvas: s.cfg.Graph.Canvas,
		Nodes:  make([]NodeView, 0, len(nodes)),
		Edges:  make([]EdgeView, 0, len(edges)),
	}

	centers := make(map[graph.NodeID]geometry.Point, len(nodes))
	for _, n := range nodes {
		c := n.Center()
		centers[n.ID] = c
		snap.Nodes = append(snap.Nodes, NodeView{
			ID:       n.ID,
			Position: n.Position,
			Center:   c,
			Size:     n.Size,
			Icon:     s.present[n.ID].Icon,
			Role:     s.roleOf(n.ID),
		})
	}
	for _, e := range edges {
		snap.Edges = append(snap.Edges, EdgeView{
			ID:     e.ID,
			From:   e.From,
			To:     e.To,
			Weight: e.Weight,
			Line:   [2]geometry.Point{centers[e.From], centers[e.To]},
		})
	}

	if s.start != uuid.Nil {
		id := s.start
		snap.Start = &id
	}
	if s.target != uuid.Nil {
		id := s.target
		snap.Target = &id
	}
	return snap
}

func (s *Session) roleOf(id graph.NodeID) Role {
	switch id {
	case s.start:
		return RoleStart
	case s.target:
		return RoleTarget
	}
	return ""
}
