// Package polygon implements the PolygonExtractor: it enumerates external
// contours in a binary mask and simplifies each into a DetectedPolygon that
// passes the area/perimeter/compactness/vertex-count filters. Grounded on
// the teacher's internal/trace.FillRegions (contour enumeration) and
// internal/trace.simplifyPath (Douglas-Peucker, generalized here into the
// shared geometry.DouglasPeucker helper).
package polygon

import (
	"fmt"

	"gocv.io/x/gocv"

	"mapgeoref/pkg/geometry"
)

// Config is the configurable filter surface for one extraction pass, per
// spec.md §6: MIN_BOX_AREA, MIN_BOX_PERIMETER, EPSILON_FRAC, VMIN, VMAX,
// COMPACT_MIN.
type Config struct {
	MinArea        float64
	MinPerimeter   float64
	EpsilonFrac    float64
	MinVertices    int
	MaxVertices    int
	CompactnessMin float64
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		MinArea:        500,
		MinPerimeter:   50,
		EpsilonFrac:    0.01,
		MinVertices:    3,
		MaxVertices:    50,
		CompactnessMin: 0.01,
	}
}

// Extract enumerates external contours in mask and returns the
// DetectedPolygons that survive the filters in cfg, tagged with kind. IDs
// are assigned in discovery order as "poly-<kind>-%04d", per spec.md §9's
// resolution for opaque token generation.
func Extract(mask gocv.Mat, kind geometry.DetectionKind, cfg Config) []geometry.DetectedPolygon {
	if mask.Empty() {
		return nil
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var out []geometry.DetectedPolygon
	seq := 1
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		points := contourPoints(contour)
		if len(points) < 3 {
			continue
		}

		perimeter := geometry.PolygonPerimeter(points)
		if perimeter < cfg.MinPerimeter {
			continue
		}

		epsilon := cfg.EpsilonFrac * perimeter
		simplified := geometry.DouglasPeucker(points, epsilon)

		v := len(simplified)
		if v < cfg.MinVertices || v > cfg.MaxVertices {
			continue
		}

		area := geometry.PolygonArea(simplified)
		if area < cfg.MinArea {
			continue
		}

		compact := geometry.Compactness(area, perimeter)
		if compact < cfg.CompactnessMin {
			continue
		}

		out = append(out, geometry.DetectedPolygon{
			ID:      fmt.Sprintf("poly-%s-%04d", kind.String(), seq),
			Corners: simplified,
			Center:  geometry.Centroid(simplified),
			Kind:    kind,
		})
		seq++
	}

	return out
}

// contourPoints converts a gocv contour (a closed pixel sequence) into
// geometry.Point2D values.
func contourPoints(contour gocv.PointVector) []geometry.Point2D {
	n := contour.Size()
	points := make([]geometry.Point2D, n)
	for i := 0; i < n; i++ {
		pt := contour.At(i)
		points[i] = geometry.Point2D{X: float64(pt.X), Y: float64(pt.Y)}
	}
	return points
}
