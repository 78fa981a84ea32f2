package geometry

import "math"

// IntersectPolygons computes the intersection of two convex polygons using
// the Sutherland-Hodgman algorithm. Both input polygons must be convex.
// Returns nil if there is no intersection or if inputs are invalid.
func IntersectPolygons(subject, clip []Point2D) []Point2D {
	if len(subject) < 3 || len(clip) < 3 {
		return nil
	}

	output := make([]Point2D, len(subject))
	copy(output, subject)

	// Clip against each edge of the clip polygon
	for i := 0; i < len(clip); i++ {
		if len(output) == 0 {
			return nil
		}

		edgeStart := clip[i]
		edgeEnd := clip[(i+1)%len(clip)]
		output = clipPolygonByEdge(output, edgeStart, edgeEnd)
	}

	if len(output) < 3 {
		return nil
	}

	return output
}

// clipPolygonByEdge clips a polygon against a single edge using
// the Sutherland-Hodgman algorithm. Consecutive output points closer than
// a small epsilon are collapsed, since an entering and exiting intersection
// computed on nearly-parallel edges can otherwise emit near-duplicates that
// inflate the clipped polygon's vertex count without adding area.
func clipPolygonByEdge(polygon []Point2D, edgeStart, edgeEnd Point2D) []Point2D {
	const dupEps = 1e-9

	var clipped []Point2D
	appendUnlessDup := func(p Point2D) {
		if n := len(clipped); n > 0 && distSq(clipped[n-1], p) < dupEps {
			return
		}
		clipped = append(clipped, p)
	}

	for i := 0; i < len(polygon); i++ {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentInside := isInsideEdge(current, edgeStart, edgeEnd)
		nextInside := isInsideEdge(next, edgeStart, edgeEnd)

		if currentInside {
			appendUnlessDup(current)
			if !nextInside {
				// Exiting: add intersection point
				if intersection, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					appendUnlessDup(intersection)
				}
			}
		} else if nextInside {
			// Entering: add intersection point
			if intersection, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
				appendUnlessDup(intersection)
			}
		}
	}

	if n := len(clipped); n > 1 && distSq(clipped[0], clipped[n-1]) < dupEps {
		clipped = clipped[:n-1]
	}

	return clipped
}

// isInsideEdge checks if a point is on the inside (left side) of the directed edge.
// The clip polygon is assumed to be in counter-clockwise order.
func isInsideEdge(p, edgeStart, edgeEnd Point2D) bool {
	return crossProduct(edgeStart, edgeEnd, p) >= 0
}

// lineIntersection computes the intersection point of line segment p1-p2
// with line segment e1-e2. Returns the point and true if they intersect.
func lineIntersection(p1, p2, e1, e2 Point2D) (Point2D, bool) {
	x1, y1 := p1.X, p1.Y
	x2, y2 := p2.X, p2.Y
	x3, y3 := e1.X, e1.Y
	x4, y4 := e2.X, e2.Y

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < 1e-10 {
		// Lines are parallel
		return Point2D{}, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom

	return Point2D{
		X: x1 + t*(x2-x1),
		Y: y1 + t*(y2-y1),
	}, true
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// distSq computes the squared distance between two points.
func distSq(a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// PolygonArea returns the unsigned area of a closed polygon via the shoelace
// formula. The polygon is implicitly closed (last vertex connects to first).
func PolygonArea(points []Point2D) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return math.Abs(sum) / 2
}

// PolygonPerimeter returns the closed-loop perimeter of a polygon: the sum
// of consecutive segment lengths, including the closing edge back to the
// first vertex.
func PolygonPerimeter(points []Point2D) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += points[i].Distance(points[j])
	}
	return total
}

// Compactness returns the isoperimetric ratio 4*pi*A/P^2. Equals 1 for a
// circle and shrinks toward 0 for elongated or thin shapes. Returns 0 when
// the perimeter is zero.
func Compactness(area, perimeter float64) float64 {
	if perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * area / (perimeter * perimeter)
}

// IoU computes the intersection-over-union of two polygons' areas. Both
// polygons are assumed convex (hand-drawn map annotations — rectangles,
// circles, convex blobs — satisfy this in practice); for a non-convex
// polygon the computed intersection, and so the IoU, is not exact. A cheap bounding-box prefilter short-circuits
// disjoint polygons to avoid the cost of exact intersection when many
// candidates are compared pairwise.
func IoU(a, b []Point2D) float64 {
	if len(a) < 3 || len(b) < 3 {
		return 0
	}
	if !BoundingBox(a).Intersects(BoundingBox(b)) {
		return 0
	}

	areaA := PolygonArea(a)
	areaB := PolygonArea(b)
	if areaA == 0 || areaB == 0 {
		return 0
	}

	// IntersectPolygons clips against the second argument assuming it winds
	// counter-clockwise; DetectedPolygon corners carry no winding guarantee
	// (spec.md), so normalize both before clipping.
	inter := IntersectPolygons(ensureCCW(a), ensureCCW(b))
	interArea := PolygonArea(inter)
	union := areaA + areaB - interArea
	if union <= 0 {
		return 0
	}
	return interArea / union
}

// ensureCCW returns points in counter-clockwise winding order, reversing a
// copy if the signed shoelace area is negative.
func ensureCCW(points []Point2D) []Point2D {
	var signed float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		signed += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	if signed >= 0 {
		return points
	}
	reversed := make([]Point2D, n)
	for i, p := range points {
		reversed[n-1-i] = p
	}
	return reversed
}

// DouglasPeucker simplifies an open polyline, keeping only the vertices
// whose perpendicular distance to the running chord exceeds epsilon. The
// first and last points of the input are always kept.
func DouglasPeucker(points []Point2D, epsilon float64) []Point2D {
	n := len(points)
	if n <= 2 {
		return points
	}

	dmax := 0.0
	index := 0
	end := n - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[0], points[end])
		if d > dmax {
			dmax = d
			index = i
		}
	}

	if dmax > epsilon {
		left := DouglasPeucker(points[:index+1], epsilon)
		right := DouglasPeucker(points[index:], epsilon)

		result := make([]Point2D, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	return []Point2D{points[0], points[end]}
}

// perpendicularDistance returns the perpendicular distance from point p to
// the line through a and b.
func perpendicularDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx == 0 && dy == 0 {
		return p.Distance(a)
	}

	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	den := math.Sqrt(dx*dx + dy*dy)
	return num / den
}
