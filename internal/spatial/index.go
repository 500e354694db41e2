// Package spatial indexes node centers in an R-tree so the generator can
// answer "is anything too close" and "who is within reach" without scanning
// every placed node. Sessions use the same index to turn a canvas click into
// a node.
package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
)

// pointExtent is the side length of the box stored for a point entry.
// rtreego rejects zero-sized rectangles.
const pointExtent = 1e-9

const searchPad = 1e-6

// entry wraps a node center for R-tree storage
type entry struct {
	ID    uuid.UUID
	Point geometry.Point
	BBox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *entry) Bounds() rtreego.Rect {
	return e.BBox
}

// Hit is a query match together with its distance to the query point
type Hit struct {
	ID       uuid.UUID
	Point    geometry.Point
	Distance float64
}

// Index manages point queries over node centers
type Index struct {
	tree    *rtreego.Rtree
	entries map[uuid.UUID]*entry
}

// NewIndex creates an empty 2D index
func NewIndex() *Index {
	return &Index{
		tree:    rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		entries: make(map[uuid.UUID]*entry),
	}
}

// Insert adds (or moves) the point stored for id
func (ix *Index) Insert(id uuid.UUID, p geometry.Point) {
	if old, ok := ix.entries[id]; ok {
		ix.tree.Delete(old)
	}
	bbox, err := rtreego.NewRect(rtreego.Point{p.X, p.Y}, []float64{pointExtent, pointExtent})
	if err != nil {
		// only reachable with non-positive lengths
		panic(err)
	}
	e := &entry{ID: id, Point: p, BBox: bbox}
	ix.tree.Insert(e)
	ix.entries[id] = e
}

// Remove drops id from the index. It reports whether id was present.
func (ix *Index) Remove(id uuid.UUID) bool {
	e, ok := ix.entries[id]
	if !ok {
		return false
	}
	delete(ix.entries, id)
	return ix.tree.Delete(e)
}

// Len is the number of indexed points
func (ix *Index) Len() int { return len(ix.entries) }

// AnyCloser reports whether an indexed point lies strictly closer than
// radius to p.
func (ix *Index) AnyCloser(p geometry.Point, radius float64) bool {
	for _, s := range ix.searchBox(p, radius) {
		if s.(*entry).Point.Distance(p) < radius {
			return true
		}
	}
	return false
}

// Within returns the indexed points at distance <= radius from p, nearest
// first. Equal distances are ordered by ID.
func (ix *Index) Within(p geometry.Point, radius float64) []Hit {
	var hits []Hit
	for _, s := range ix.searchBox(p, radius) {
		e := s.(*entry)
		if d := e.Point.Distance(p); d <= radius {
			hits = append(hits, Hit{ID: e.ID, Point: e.Point, Distance: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID.String() < hits[j].ID.String()
	})
	return hits
}

// Nearest returns the indexed point closest to p
func (ix *Index) Nearest(p geometry.Point) (Hit, bool) {
	if len(ix.entries) == 0 {
		return Hit{}, false
	}
	s := ix.tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if s == nil {
		return Hit{}, false
	}
	e := s.(*entry)
	return Hit{ID: e.ID, Point: e.Point, Distance: e.Point.Distance(p)}, true
}

// searchBox returns the entries whose box intersects the square of half
// side radius around p
func (ix *Index) searchBox(p geometry.Point, radius float64) []rtreego.Spatial {
	// rtreego needs strict overlap, so pad to catch points on the boundary
	half := radius + searchPad
	bbox, err := rtreego.NewRect(
		rtreego.Point{p.X - half, p.Y - half},
		[]float64{2 * half, 2 * half},
	)
	if err != nil {
		return nil
	}
	return ix.tree.SearchIntersect(bbox)
}
