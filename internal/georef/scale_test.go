package georef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapgeoref/internal/pipelineerr"
	"mapgeoref/pkg/geometry"
)

func TestHaversineZeroForIdenticalPoints(t *testing.T) {
	p := GeoPoint{Lat: 37.7749, Lon: -122.4194}
	assert.InDelta(t, 0, Haversine(p, p), 1e-6)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Roughly one degree of latitude along the same meridian: ~111.2km.
	a := GeoPoint{Lat: 0, Lon: 0}
	b := GeoPoint{Lat: 1, Lon: 0}
	assert.InDelta(t, 111195.0, Haversine(a, b), 500)
}

func TestScaleEstimatesNominalDenominator(t *testing.T) {
	// Three tie points 1000px apart on a raster scanned at 300 DPI, whose
	// geo coordinates are ~1000m apart on the ground: paper distance is
	// 1000/300*0.0254m ~= 0.0847m, so scale ~= 1000/0.0847 ~= 11808.
	tie := []TiePoint{
		{Pixel: geometry.Point2D{X: 0, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0}},
		{Pixel: geometry.Point2D{X: 1000, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0.008993}},
		{Pixel: geometry.Point2D{X: 0, Y: 1000}, Geo: GeoPoint{Lat: -0.008983, Lon: 0}},
	}

	result, warnings, err := Scale(tie, 300)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.InDelta(t, 11808, result.Denominator, 500)
}

func TestScaleTooFewPointsFails(t *testing.T) {
	tie := []TiePoint{
		{Pixel: geometry.Point2D{X: 0, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0}},
		{Pixel: geometry.Point2D{X: 1000, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0.01}},
	}

	_, _, err := Scale(tie, 300)
	require.Error(t, err)
	var pe *pipelineerr.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, pipelineerr.InsufficientPoints, pe.Kind())
}

func TestScaleDefaultsDPIWhenNonPositive(t *testing.T) {
	tie := []TiePoint{
		{Pixel: geometry.Point2D{X: 0, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0}},
		{Pixel: geometry.Point2D{X: 1000, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0.008993}},
		{Pixel: geometry.Point2D{X: 0, Y: 1000}, Geo: GeoPoint{Lat: -0.008983, Lon: 0}},
	}

	result, _, err := Scale(tie, 0)
	require.NoError(t, err)
	assert.Greater(t, result.Denominator, 0.0)
}

func TestScaleWarnsOnPoorResidual(t *testing.T) {
	tie := []TiePoint{
		{Pixel: geometry.Point2D{X: 0, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0}},
		{Pixel: geometry.Point2D{X: 1000, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0.008993}},
		{Pixel: geometry.Point2D{X: 0, Y: 1000}, Geo: GeoPoint{Lat: -0.008983, Lon: 0}},
		// A fourth point whose geo coordinate badly disagrees with the
		// affine fit implied by the first three.
		{Pixel: geometry.Point2D{X: 1000, Y: 1000}, Geo: GeoPoint{Lat: -0.05, Lon: 0.05}},
	}

	_, warnings, err := Scale(tie, 300)
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)
}

func TestScaleWithBoundsWarnsOnClusteredTiePoints(t *testing.T) {
	tie := []TiePoint{
		{Pixel: geometry.Point2D{X: 0, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0}},
		{Pixel: geometry.Point2D{X: 10, Y: 0}, Geo: GeoPoint{Lat: 0, Lon: 0.0001}},
		{Pixel: geometry.Point2D{X: 0, Y: 10}, Geo: GeoPoint{Lat: -0.0001, Lon: 0}},
	}

	_, warnings, err := ScaleWithBounds(tie, 300, geometry.Rect{X: 0, Y: 0, Width: 5000, Height: 5000})
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)
}
