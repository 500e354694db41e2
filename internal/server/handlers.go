package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
	"github.com/mattulau/Algo-Visualizer/internal/graph"
	"github.com/mattulau/Algo-Visualizer/internal/search"
	"github.com/mattulau/Algo-Visualizer/internal/session"
)

type GenerateRequest struct {
	Count int `json:"count"`
}

type NodeRequest struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

type EdgeRequest struct {
	From   graph.NodeID `json:"from"`
	To     graph.NodeID `json:"to"`
	Weight int          `json:"weight,omitempty"` // zero draws a random weight
}

// SelectRequest sets the selection by ID, or by canvas click when X and Y
// are present
type SelectRequest struct {
	Start  *graph.NodeID `json:"start,omitempty"`
	Target *graph.NodeID `json:"target,omitempty"`
	X      *float64      `json:"x,omitempty"`
	Y      *float64      `json:"y,omitempty"`
	Role   string        `json:"role,omitempty"`
}

type SearchRequest struct {
	Algorithm string `json:"algorithm"`
}

// SearchResponse carries everything needed to animate a run. Distance is
// omitted when the target is unreachable.
type SearchResponse struct {
	Success      bool           `json:"success"`
	Algorithm    string         `json:"algorithm"`
	Reachable    bool           `json:"reachable"`
	Distance     *float64       `json:"distance,omitempty"`
	Path         []graph.NodeID `json:"path"`
	PathEdges    []graph.EdgeID `json:"pathEdges"`
	Steps        []search.Step  `json:"steps"`
	VisitedNodes int            `json:"visitedNodes"`
	VisitedEdges int            `json:"visitedEdges"`
	WorkDone     int            `json:"workDone"`
	StepDelayMs  int64          `json:"stepDelayMs"`
	Message      string         `json:"message,omitempty"`
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}

	s.mu.Lock()
	numNodes := s.sess.NodeCount()
	numEdges := s.sess.Graph().EdgeCount()
	s.mu.Unlock()

	status := "ready"
	if numNodes == 0 {
		status = "empty canvas"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   status,
		"numNodes": numNodes,
		"numEdges": numEdges,
	})
}

// GET /graph - Drawable snapshot
func (s *Server) graphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}

	s.mu.Lock()
	snap := s.sess.Snapshot()
	s.mu.Unlock()

	s.log.Debug("📊 returning snapshot", "nodes", len(snap.Nodes), "edges", len(snap.Edges))
	writeJSON(w, http.StatusOK, snap)
}

// POST /generate - Replace the canvas with a random graph
func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}

	var req GenerateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("🗺️  generate request received", "count", req.Count)

	ctx, cancel := context.WithTimeout(r.Context(), s.generateTimeout)
	defer cancel()

	s.mu.Lock()
	err := s.sess.Generate(ctx, req.Count)
	snap := s.sess.Snapshot()
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info("✅ graph ready", "nodes", len(snap.Nodes), "edges", len(snap.Edges))
	writeJSON(w, http.StatusOK, snap)
}

// POST /nodes adds a node, DELETE /nodes removes one
func (s *Server) nodesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req NodeRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		s.mu.Lock()
		var n graph.Node
		var err error
		if req.X != nil && req.Y != nil {
			n, err = s.sess.AddNodeAt(geometry.Point{X: *req.X, Y: *req.Y})
		} else {
			n, err = s.sess.AddNode()
		}
		p, _ := s.sess.Presentation(n.ID)
		s.mu.Unlock()

		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session.NodeView{
			ID:       n.ID,
			Position: n.Position,
			Center:   n.Center(),
			Size:     n.Size,
			Icon:     p.Icon,
		})

	case http.MethodDelete:
		var (
			id  graph.NodeID
			err error
		)
		raw := r.URL.Query().Get("id")

		s.mu.Lock()
		if raw == "" {
			id, err = s.sess.DeleteLastNode()
		} else if id, err = parseID("id", raw); err == nil {
			err = s.sess.DeleteNode(id)
		}
		s.mu.Unlock()

		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})

	default:
		s.methodNotAllowed(w, r)
	}
}

// POST /edges connects two nodes, DELETE /edges?from=&to= disconnects them
func (s *Server) edgesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req EdgeRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, err)
			return
		}

		s.mu.Lock()
		var e graph.Edge
		var err error
		if req.Weight == 0 {
			e, err = s.sess.ConnectRandom(req.From, req.To)
		} else {
			e, err = s.sess.Connect(req.From, req.To, req.Weight)
		}
		s.mu.Unlock()

		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)

	case http.MethodDelete:
		q := r.URL.Query()
		from, err := parseID("from", q.Get("from"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		to, err := parseID("to", q.Get("to"))
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.mu.Lock()
		err = s.sess.Disconnect(from, to)
		s.mu.Unlock()

		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})

	default:
		s.methodNotAllowed(w, r)
	}
}

// POST /clear - Empty the canvas
func (s *Server) clearHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}

	s.mu.Lock()
	s.sess.Clear()
	s.mu.Unlock()

	s.log.Info("🧹 canvas cleared")
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// POST /select - Set start and target
func (s *Server) selectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}

	var req SelectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	err := s.applySelection(req)
	start, target := s.sess.Selection()
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"start":   start,
		"target":  target,
	})
}

// applySelection must be called with s.mu held
func (s *Server) applySelection(req SelectRequest) error {
	if req.X != nil && req.Y != nil {
		role, err := session.ParseRole(req.Role)
		if err != nil {
			return err
		}
		_, err = s.sess.SelectAt(geometry.Point{X: *req.X, Y: *req.Y}, role)
		return err
	}
	if req.Start != nil {
		if err := s.sess.SelectStart(*req.Start); err != nil {
			return err
		}
	}
	if req.Target != nil {
		if err := s.sess.SelectTarget(*req.Target); err != nil {
			return err
		}
	}
	return nil
}

// POST /search - Run a search between the selected nodes
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}

	var req SearchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Algorithm == "" {
		req.Algorithm = string(search.Dijkstra)
	}
	algo, err := search.ParseAlgorithm(req.Algorithm)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("📍 search request received", "algorithm", string(algo))

	s.mu.Lock()
	out, err := s.sess.Run(algo)
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}

	res := out.Result
	resp := SearchResponse{
		Success:      true,
		Algorithm:    string(res.Algorithm),
		Reachable:    res.Reachable(),
		Path:         append([]graph.NodeID{}, out.Path...),
		PathEdges:    append([]graph.EdgeID{}, out.PathEdges...),
		Steps:        res.Steps,
		VisitedNodes: len(res.VisitedNodes),
		VisitedEdges: len(res.VisitedEdges),
		WorkDone:     out.WorkDone,
		StepDelayMs:  s.stepDelay.Milliseconds(),
	}
	if resp.Reachable {
		d := res.Distance
		resp.Distance = &d
		s.log.Info("✅ path found", "hops", len(out.Path)-1, "distance", d)
	} else {
		resp.Message = "No path between start and target"
		s.log.Info("❌ no path found", "steps", len(res.Steps))
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &badRequest{fmt.Errorf("%s=%q: %w", name, raw, err)}
	}
	return id, nil
}
