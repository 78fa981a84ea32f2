package georef

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"mapgeoref/internal/pipelineerr"
	"mapgeoref/pkg/geometry"
)

// collinearityCrossThreshold is the normalized absolute cross-product floor
// below which three pixel-space tie points are treated as collinear
// (spec.md §4.4.1).
const collinearityCrossThreshold = 1e-6

// conditionNumberThreshold flags the least-squares normal matrix as
// numerically singular — used for the general n > 3 rank check spec.md
// §4.4.1 requires alongside the explicit 3-point cross-product test.
const conditionNumberThreshold = 1e12

// Affine2D is the fitted 2-D affine map: (lon, lat) = [[A,B],[D,E]]*(x,y) +
// (C,F). Field names follow spec.md §3's (a,b,c,d,e,f) convention exactly.
// The fit never injects a y-axis flip: image y grows downward, but the sign
// of B and E absorbs that fully once learned from the supplied tie points
// (spec.md §9).
type Affine2D struct {
	A, B, C float64
	D, E, F float64
}

// Apply maps a pixel-space point to its geographic coordinate.
func (aff Affine2D) Apply(p geometry.Point2D) GeoPoint {
	return GeoPoint{
		Lon: aff.A*p.X + aff.B*p.Y + aff.C,
		Lat: aff.D*p.X + aff.E*p.Y + aff.F,
	}
}

// Fit solves the overdetermined system
//
//	lon_i = A*x_i + B*y_i + C
//	lat_i = D*x_i + E*y_i + F
//
// for the six affine parameters by ordinary least squares — equivalent to
// independent 3-parameter fits on each output axis, as spec.md §4.4.1
// specifies. Grounded on the teacher's
// internal/alignment.computeAffineLeastSquares, which solves the same
// shape of system via gonum's QR decomposition.
func Fit(tiePoints []TiePoint) (Affine2D, error) {
	n := len(tiePoints)
	if n < 3 {
		return Affine2D{}, pipelineerr.New(pipelineerr.InsufficientPoints,
			"affine fit requires at least 3 tie points")
	}

	for _, tp := range tiePoints {
		if err := tp.Geo.Validate(); err != nil {
			return Affine2D{}, err
		}
	}

	if n == 3 {
		if collinear3(tiePoints[0].Pixel, tiePoints[1].Pixel, tiePoints[2].Pixel) {
			return Affine2D{}, pipelineerr.New(pipelineerr.CollinearPoints,
				"three tie points are collinear in pixel space")
		}
	}

	design := mat.NewDense(n, 3, nil)
	lon := mat.NewVecDense(n, nil)
	lat := mat.NewVecDense(n, nil)
	for i, tp := range tiePoints {
		design.Set(i, 0, tp.Pixel.X)
		design.Set(i, 1, tp.Pixel.Y)
		design.Set(i, 2, 1)
		lon.SetVec(i, tp.Geo.Lon)
		lat.SetVec(i, tp.Geo.Lat)
	}

	if singularNormalMatrix(design) {
		return Affine2D{}, pipelineerr.New(pipelineerr.CollinearPoints,
			"tie points are degenerate: least-squares normal matrix is singular")
	}

	var qr mat.QR
	qr.Factorize(design)

	var lonParams, latParams mat.VecDense
	if err := qr.SolveVecTo(&lonParams, false, lon); err != nil {
		return Affine2D{}, pipelineerr.Wrap(pipelineerr.CollinearPoints, "solving longitude axis", err)
	}
	if err := qr.SolveVecTo(&latParams, false, lat); err != nil {
		return Affine2D{}, pipelineerr.Wrap(pipelineerr.CollinearPoints, "solving latitude axis", err)
	}

	return Affine2D{
		A: lonParams.AtVec(0),
		B: lonParams.AtVec(1),
		C: lonParams.AtVec(2),
		D: latParams.AtVec(0),
		E: latParams.AtVec(1),
		F: latParams.AtVec(2),
	}, nil
}

// Residual is one tie point's back-projected error: its pixel coordinate is
// mapped through the fitted affine and compared, via the haversine distance,
// to the geo coordinate the user supplied for it.
type Residual struct {
	TiePointID string
	Meters     float64
}

// FitResult carries the fitted affine transform plus the per-tie-point
// residual diagnostics. Grounded on the teacher's
// alignment.CalculateAlignmentError, which reports the same per-point
// distance-after-transform vector for its contact-based alignment fit.
type FitResult struct {
	Affine    Affine2D
	Residuals []Residual
}

// MaxResidual returns the largest residual in the result, or 0 if there are
// none.
func (r FitResult) MaxResidual() float64 {
	max := 0.0
	for _, res := range r.Residuals {
		if res.Meters > max {
			max = res.Meters
		}
	}
	return max
}

// FitWithResiduals is Fit plus the back-projected residual for every tie
// point, letting a caller inspect per-point fit quality beyond the single
// max-residual warning spec.md §4.4.4 requires.
func FitWithResiduals(tiePoints []TiePoint) (FitResult, error) {
	aff, err := Fit(tiePoints)
	if err != nil {
		return FitResult{}, err
	}

	residuals := make([]Residual, len(tiePoints))
	for i, tp := range tiePoints {
		predicted := aff.Apply(tp.Pixel)
		residuals[i] = Residual{TiePointID: tp.ID, Meters: Haversine(tp.Geo, predicted)}
	}
	return FitResult{Affine: aff, Residuals: residuals}, nil
}

// collinear3 reports whether p1, p2, p3 are (nearly) collinear: the cross
// product of (p2-p1) and (p3-p1), normalized by the product of the two
// vector magnitudes, falls below collinearityCrossThreshold.
func collinear3(p1, p2, p3 geometry.Point2D) bool {
	v1x, v1y := p2.X-p1.X, p2.Y-p1.Y
	v2x, v2y := p3.X-p1.X, p3.Y-p1.Y

	mag1 := math.Hypot(v1x, v1y)
	mag2 := math.Hypot(v2x, v2y)
	if mag1 == 0 || mag2 == 0 {
		return true
	}

	cross := v1x*v2y - v1y*v2x
	normalized := math.Abs(cross) / (mag1 * mag2)
	return normalized < collinearityCrossThreshold
}

// singularNormalMatrix reports whether design^T * design is numerically
// singular, via its condition number. This backstops the n==3
// cross-product check for the n>3 case, where the check is "on overall
// rank" rather than any single triple (spec.md §4.4.1).
func singularNormalMatrix(design *mat.Dense) bool {
	var normal mat.Dense
	normal.Mul(design.T(), design)
	return mat.Cond(&normal, 2) > conditionNumberThreshold
}
