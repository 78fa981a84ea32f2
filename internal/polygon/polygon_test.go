package polygon

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"mapgeoref/pkg/geometry"
)

func rectMask(width, height int, rect image.Rectangle) gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8U)
	gocv.Rectangle(&mat, rect, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	return mat
}

func TestExtractSingleRectangle(t *testing.T) {
	mask := rectMask(1000, 1000, image.Rect(200, 300, 800, 700))
	defer mask.Close()

	polys := Extract(mask, geometry.ThickBorder, DefaultConfig())
	require.Len(t, polys, 1)

	p := polys[0]
	assert.Equal(t, geometry.ThickBorder, p.Kind)
	assert.GreaterOrEqual(t, len(p.Corners), 3)
	assert.LessOrEqual(t, len(p.Corners), 50)
	assert.GreaterOrEqual(t, p.Area(), DefaultConfig().MinArea)
	assert.GreaterOrEqual(t, p.Perimeter(), DefaultConfig().MinPerimeter)
	assert.GreaterOrEqual(t, p.Compactness(), DefaultConfig().CompactnessMin)
}

func TestExtractEmptyMaskYieldsNoPolygons(t *testing.T) {
	mask := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8U)
	defer mask.Close()

	polys := Extract(mask, geometry.FilledArea, DefaultConfig())
	assert.Empty(t, polys)
}

func TestExtractThinStrokeRejectedByCompactness(t *testing.T) {
	// A 500px x 3px stroke has compactness 4*pi*1500/1006^2 ~= 0.0186, which
	// passes the 0.01 floor, so this draws a thinner one: two pixel rows,
	// 500px long, whose contour has compactness about 4*pi*500/1002^2 ~=
	// 0.006, under the floor.
	mask := rectMask(600, 50, image.Rect(20, 24, 520, 25))
	defer mask.Close()

	polys := Extract(mask, geometry.ThickBorder, DefaultConfig())
	assert.Empty(t, polys)
}

func TestExtractAssignsSequentialIDs(t *testing.T) {
	mask := gocv.NewMatWithSize(400, 400, gocv.MatTypeCV8U)
	defer mask.Close()
	gocv.Rectangle(&mask, image.Rect(10, 10, 100, 100), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	gocv.Rectangle(&mask, image.Rect(200, 200, 300, 300), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	polys := Extract(mask, geometry.FilledArea, DefaultConfig())
	require.Len(t, polys, 2)
	assert.Equal(t, "poly-filled_area-0001", polys[0].ID)
	assert.Equal(t, "poly-filled_area-0002", polys[1].ID)
}
