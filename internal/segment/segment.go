// Package segment implements the ColorSegmenter: HSV thresholding and
// morphology that turns an RGB raster into the two binary masks the
// polygon extractor consumes. Grounded on the teacher's
// internal/trace.DetectByColor and internal/trace.CleanupMask, which run the
// same CvtColor → InRangeWithScalar → MorphologyEx pipeline for copper
// detection.
package segment

import (
	"image"

	"gocv.io/x/gocv"
)

// HSV windows are fixed by spec.md §4.1, not part of the configurable
// surface (§6 enumerates the only tunable knobs, and these are not among
// them).
const (
	thickHueLowA, thickHueHighA = 0, 10
	thickHueLowB, thickHueHighB = 170, 180
	thickSatMin, thickSatMax    = 120, 255
	thickValMin, thickValMax    = 120, 255

	filledHueLowA, filledHueHighA = 0, 10
	filledHueLowB, filledHueHighB = 170, 180
	filledSatMin, filledSatMax    = 30, 120
	filledValMin, filledValMax    = 180, 255
)

// Masks holds the pair of binary masks produced by Segment. Callers own
// both Mats and must Close them.
type Masks struct {
	Thick  gocv.Mat // thick-outline candidates
	Filled gocv.Mat // pale filled-region candidates
}

// Close releases both underlying Mats.
func (m Masks) Close() {
	m.Thick.Close()
	m.Filled.Close()
}

// Segment converts an RGB raster (already loaded as a gocv.Mat in BGR
// order, OpenCV's native order) into the two candidate masks per
// spec.md §4.1.
func Segment(img gocv.Mat) Masks {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	thick := inRangeUnion(hsv,
		thickHueLowA, thickHueHighA, thickSatMin, thickSatMax, thickValMin, thickValMax,
		thickHueLowB, thickHueHighB, thickSatMin, thickSatMax, thickValMin, thickValMax,
	)
	filled := inRangeUnion(hsv,
		filledHueLowA, filledHueHighA, filledSatMin, filledSatMax, filledValMin, filledValMax,
		filledHueLowB, filledHueHighB, filledSatMin, filledSatMax, filledValMin, filledValMax,
	)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()

	// mask_thick: CLOSE -> OPEN -> DILATE. Closing first bridges gaps in a
	// hand-drawn outline; opening then removes salt noise; dilation
	// thickens the result for contour continuity.
	gocv.MorphologyEx(thick, &thick, gocv.MorphClose, kernel)
	gocv.MorphologyEx(thick, &thick, gocv.MorphOpen, kernel)
	dilated := gocv.NewMat()
	gocv.Dilate(thick, &dilated, kernel)
	thick.Close()
	thick = dilated

	// mask_filled: CLOSE -> OPEN only. No dilation — it would bridge
	// adjacent annotations together.
	gocv.MorphologyEx(filled, &filled, gocv.MorphClose, kernel)
	gocv.MorphologyEx(filled, &filled, gocv.MorphOpen, kernel)

	return Masks{Thick: thick, Filled: filled}
}

// inRangeUnion builds the union of two HSV windows (spanning the hue
// wrap-around near 0/180) as a single binary mask.
func inRangeUnion(hsv gocv.Mat, hLoA, hHiA, sLo, sHi, vLo, vHi, hLoB, hHiB, sLoB, sHiB, vLoB, vHiB float64) gocv.Mat {
	a := gocv.NewMat()
	defer a.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(hLoA, sLo, vLo, 0),
		gocv.NewScalar(hHiA, sHi, vHi, 0),
		&a)

	b := gocv.NewMat()
	defer b.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(hLoB, sLoB, vLoB, 0),
		gocv.NewScalar(hHiB, sHiB, vHiB, 0),
		&b)

	union := gocv.NewMat()
	gocv.BitwiseOr(a, b, &union)
	return union
}
