// Package geoexport converts georeferenced polygons into orb geometry
// values, the typed hand-off contract a KML or GeoJSON serializer consumes
// downstream. Textual serialization itself is out of scope (spec.md §1);
// grounded on the sibling MeKo-Christian-WaterColorMap repo's
// internal/geojson.ToGeoJSON, which hands a github.com/paulmach/orb geometry
// to geojson.NewFeature rather than building an ad-hoc struct.
package geoexport

import (
	"github.com/paulmach/orb"

	"mapgeoref/internal/georef"
)

// Ring converts one georeferenced polygon's corners into an orb.Ring,
// ordered (lon, lat) per orb's convention, closed by repeating the first
// vertex as the last — the same closing rule spec.md §6 specifies for KML's
// <LinearRing><coordinates>.
func Ring(p georef.GeoreferencedPolygon) orb.Ring {
	ring := make(orb.Ring, 0, len(p.Corners)+1)
	for _, c := range p.Corners {
		ring = append(ring, orb.Point{c.Lon, c.Lat})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Polygon wraps a single outer ring with no holes, matching the
// <outerBoundaryIs> shape spec.md §6 describes.
func Polygon(p georef.GeoreferencedPolygon) orb.Polygon {
	return orb.Polygon{Ring(p)}
}

// MultiPolygon converts a full placemark batch into a single orb.MultiPolygon
// value, one member polygon per georeferenced detection, in input order.
// Detections with fewer than 3 corners are skipped.
func MultiPolygon(polys []georef.GeoreferencedPolygon) orb.MultiPolygon {
	mp := make(orb.MultiPolygon, 0, len(polys))
	for _, p := range polys {
		if len(p.Corners) < 3 {
			continue
		}
		mp = append(mp, Polygon(p))
	}
	return mp
}

// Centroid converts a polygon's center to an orb.Point, for serializers that
// want a label anchor alongside the ring.
func Centroid(p georef.GeoreferencedPolygon) orb.Point {
	return orb.Point{p.Center.Lon, p.Center.Lat}
}
