// Package georef implements the Georeferencer: it fits a 2-D affine map
// from a handful of user-supplied tie points, validates the fit, applies it
// to detected polygons, and estimates a nominal map scale. Grounded on the
// teacher's internal/alignment package, which fits an affine transform from
// point correspondences (gold contacts) by the same least-squares route
// (internal/alignment/transform.go's computeAffineLeastSquares, via
// gonum.org/v1/gonum/mat's QR solve) before warping one scan onto the
// other.
package georef

import (
	"mapgeoref/internal/pipelineerr"
	"mapgeoref/pkg/geometry"
)

// GeoPoint is a WGS84 geographic coordinate with no elevation.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point is within the WGS84 range: lat in
// [-90, 90], lon in [-180, 180].
func (g GeoPoint) Valid() bool {
	return g.Lat >= -90 && g.Lat <= 90 && g.Lon >= -180 && g.Lon <= 180
}

// Validate returns an *pipelineerr.Error of kind InvalidGeoRange if the
// point is out of range. The HTTP boundary is expected to reject this
// first; the core re-asserts it per spec.md §7.
func (g GeoPoint) Validate() error {
	if g.Valid() {
		return nil
	}
	return pipelineerr.New(pipelineerr.InvalidGeoRange, "geo point out of WGS84 range")
}

// TiePoint is a user-supplied correspondence between a pixel-space location
// and a geographic coordinate. ID is an opaque identity.
type TiePoint struct {
	ID    string
	Pixel geometry.Point2D
	Geo   GeoPoint
}

// GeoreferencedPolygon is a DetectedPolygon with its corners and center
// mapped to geographic coordinates.
type GeoreferencedPolygon struct {
	ID      string
	Corners []GeoPoint
	Center  GeoPoint
	Kind    geometry.DetectionKind
}

// ScaleResult is the estimated nominal map scale, reported as the "N" in
// "1:N".
type ScaleResult struct {
	Denominator float64
}

// Config is the Georeferencer's configuration surface: the DPI the raster
// was produced at (spec.md §4.4.3), threaded explicitly rather than read
// from an environment variable (spec.md §9).
type Config struct {
	DPI float64
	// Debug is not read by any function in this package; cmd/georef checks
	// it and, when set, prints each tie point's fit residual via fmt.Printf.
	Debug bool
}

// DefaultConfig returns the spec-mandated default DPI.
func DefaultConfig() Config {
	return Config{DPI: 300}
}

// MeanEarthRadiusMeters is the mean Earth radius used by the haversine
// distance calculation in scale estimation (spec.md §4.4.3).
const MeanEarthRadiusMeters = 6371008.8
