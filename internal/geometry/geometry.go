// Package geometry holds the planar primitives shared by the generator,
// the spatial index and the A* heuristic.
package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a position on the canvas in pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Orb converts the point to its orb representation
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// FromOrb converts an orb point back to a canvas point
func FromOrb(p orb.Point) Point {
	return Point{X: p.X(), Y: p.Y()}
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.Orb(), other.Orb())
}

// Offset returns p shifted by d on both axes
func (p Point) Offset(d float64) Point {
	return Point{X: p.X + d, Y: p.Y + d}
}

// Canvas is the drawable area, anchored at the origin
type Canvas struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Bound returns the canvas as an orb bound
func (c Canvas) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{c.Width, c.Height}}
}

// Placement returns the region a node's top-left corner may occupy so that a
// node of the given size stays fully on the canvas. The bound is empty (Max
// below Min) when the node does not fit.
func (c Canvas) Placement(size float64) orb.Bound {
	b := c.Bound()
	b.Max = orb.Point{b.Max.X() - size, b.Max.Y() - size}
	return b
}

// Fits reports whether a node of the given size fits on the canvas
func (c Canvas) Fits(size float64) bool {
	b := c.Placement(size)
	return b.Max.X() > b.Min.X() && b.Max.Y() > b.Min.Y()
}

// Contains reports whether p lies on the canvas
func (c Canvas) Contains(p Point) bool {
	return c.Bound().Contains(p.Orb())
}
