package georef

import "mapgeoref/pkg/geometry"

// ApplyToPolygons maps a batch of detected polygons from pixel space to
// geographic coordinates using the given fitted transform. Unlike Fit, this
// operation never fails: a polygon whose corners happen to map outside the
// WGS84 range is still returned as-is, since a grossly miscalibrated fit is
// a Georeferencer-level warning (spec.md §4.4.4), not grounds to drop a
// detection silently.
func ApplyToPolygons(aff Affine2D, polys []geometry.DetectedPolygon) []GeoreferencedPolygon {
	out := make([]GeoreferencedPolygon, len(polys))
	for i, p := range polys {
		out[i] = GeoreferencedPolygon{
			ID:      p.ID,
			Corners: applyAll(aff, p.Corners),
			Center:  aff.Apply(p.Center),
			Kind:    p.Kind,
		}
	}
	return out
}

func applyAll(aff Affine2D, points []geometry.Point2D) []GeoPoint {
	out := make([]GeoPoint, len(points))
	for i, p := range points {
		out[i] = aff.Apply(p)
	}
	return out
}
