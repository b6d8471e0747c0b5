package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 30, Y: 20}))
	assert.False(t, r.Contains(Point{X: 31, Y: 15}))
	assert.Equal(t, Point{X: 20, Y: 15}, r.Center())
}

func TestBoundsAndUnion(t *testing.T) {
	b := BoundsOf([]Point{{X: 5, Y: 8}, {X: -1, Y: 2}, {X: 3, Y: 10}})
	assert.Equal(t, Rect{X: -1, Y: 2, Width: 6, Height: 8}, b)
	assert.Equal(t, Rect{}, BoundsOf(nil))

	u := Rect{X: 0, Y: 0, Width: 1, Height: 1}.Union(Rect{X: 4, Y: -2, Width: 1, Height: 1})
	assert.Equal(t, Rect{X: 0, Y: -2, Width: 5, Height: 3}, u)
}
