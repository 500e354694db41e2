package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{3, 4}, Point{3, 4}, 0},
		{"horizontal", Point{0, 0}, Point{10, 0}, 10},
		{"pythagorean", Point{0, 0}, Point{3, 4}, 5},
		{"negative coords", Point{-1, -1}, Point{2, 3}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.Distance(tt.b), 1e-9)
			assert.InDelta(t, tt.want, tt.b.Distance(tt.a), 1e-9, "distance must be symmetric")
		})
	}
}

func TestPointOrbRoundTrip(t *testing.T) {
	p := Point{X: 12.5, Y: -3}
	assert.Equal(t, p, FromOrb(p.Orb()))
}

func TestCanvasPlacement(t *testing.T) {
	c := Canvas{Width: 800, Height: 600}

	b := c.Placement(32)
	assert.Equal(t, 0.0, b.Min.X())
	assert.Equal(t, 0.0, b.Min.Y())
	assert.Equal(t, 768.0, b.Max.X())
	assert.Equal(t, 568.0, b.Max.Y())

	assert.True(t, c.Fits(32))
	assert.False(t, c.Fits(600))
	assert.False(t, Canvas{}.Fits(1))
}

func TestCanvasContains(t *testing.T) {
	c := Canvas{Width: 100, Height: 50}
	assert.True(t, c.Contains(Point{0, 0}))
	assert.True(t, c.Contains(Point{100, 50}))
	assert.False(t, c.Contains(Point{101, 10}))
	assert.False(t, c.Contains(Point{-1, 10}))
}
