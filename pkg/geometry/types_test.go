package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentroidArithmeticMean(t *testing.T) {
	pts := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	c := Centroid(pts)
	assert.InDelta(t, 5.0, c.X, 1e-9)
	assert.InDelta(t, 5.0, c.Y, 1e-9)
}

func TestCentroidEmpty(t *testing.T) {
	assert.Equal(t, Point2D{}, Centroid(nil))
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{2, 3}, {-1, 5}, {4, -2}}
	r := BoundingBox(pts)
	assert.Equal(t, Rect{X: -1, Y: -2, Width: 5, Height: 7}, r)
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	c := Rect{X: 100, Y: 100, Width: 10, Height: 10}
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}

func TestDetectionKindString(t *testing.T) {
	assert.Equal(t, "thick_border", ThickBorder.String())
	assert.Equal(t, "filled_area", FilledArea.String())
	assert.Equal(t, "unknown", DetectionKind(99).String())
}

func TestNewSize(t *testing.T) {
	s := NewSize(640, 480)
	assert.Equal(t, Size{Width: 640, Height: 480}, s)
}
