package segment

import "math"

// thickRedBGR is a pure red swatch, BGR(0, 0, 255), whose HSV value
// (0, 255, 255) falls inside Segment's thick-outline window.
var thickRedBGR = [3]uint8{0, 0, 255}

// paleRedBGR is a desaturated pink swatch, BGR(200, 200, 255), whose HSV
// value (0, 55, 255) falls inside Segment's pale-filled window but outside
// the thick-outline window (saturation below 120).
var paleRedBGR = [3]uint8{200, 200, 255}

// rgbToHSV converts RGB (0-255) to HSV using OpenCV's convention: H in
// [0,180], S and V in [0,255]. Used here only to cross-check the swatches
// above against the HSV windows Segment thresholds against (spec.md §4.1).
func rgbToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2

	return h, s, v
}
