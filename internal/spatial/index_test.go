package spatial

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
)

func TestIndexWithinSortedByDistance(t *testing.T) {
	ix := NewIndex()
	far, mid, near, out := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	ix.Insert(far, geometry.Point{X: 30, Y: 0})
	ix.Insert(near, geometry.Point{X: 5, Y: 0})
	ix.Insert(mid, geometry.Point{X: 0, Y: 20})
	ix.Insert(out, geometry.Point{X: 100, Y: 100})

	hits := ix.Within(geometry.Point{}, 30)
	require.Len(t, hits, 3)
	assert.Equal(t, near, hits[0].ID)
	assert.Equal(t, mid, hits[1].ID)
	assert.Equal(t, far, hits[2].ID, "radius is inclusive")
	assert.InDelta(t, 20, hits[1].Distance, 1e-9)
}

func TestIndexAnyCloserIsStrict(t *testing.T) {
	ix := NewIndex()
	ix.Insert(uuid.New(), geometry.Point{X: 10, Y: 0})

	assert.False(t, ix.AnyCloser(geometry.Point{}, 10), "a point exactly at the radius is not closer")
	assert.True(t, ix.AnyCloser(geometry.Point{}, 10.5))
	assert.False(t, ix.AnyCloser(geometry.Point{X: 200}, 50))
}

func TestIndexRemoveAndReinsert(t *testing.T) {
	ix := NewIndex()
	id := uuid.New()
	ix.Insert(id, geometry.Point{X: 1, Y: 1})
	ix.Insert(id, geometry.Point{X: 50, Y: 50})
	assert.Equal(t, 1, ix.Len())
	assert.False(t, ix.AnyCloser(geometry.Point{X: 1, Y: 1}, 5), "old position must be gone")

	assert.True(t, ix.Remove(id))
	assert.False(t, ix.Remove(id))
	assert.Zero(t, ix.Len())
}

func TestIndexNearest(t *testing.T) {
	ix := NewIndex()
	_, ok := ix.Nearest(geometry.Point{})
	assert.False(t, ok)

	a, b := uuid.New(), uuid.New()
	ix.Insert(a, geometry.Point{X: 10, Y: 10})
	ix.Insert(b, geometry.Point{X: 90, Y: 90})

	hit, ok := ix.Nearest(geometry.Point{X: 70, Y: 80})
	require.True(t, ok)
	assert.Equal(t, b, hit.ID)
}
