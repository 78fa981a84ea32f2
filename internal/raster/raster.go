// Package raster adapts a standard Go image.Image — as decoded from a
// rasterized PDF page by the (out-of-scope) rasterizer — into the pixel
// buffer the detection pipeline operates on, and into a gocv.Mat for the
// OpenCV-backed stages. It also threads the DPI of that rasterization
// explicitly through the pipeline instead of leaving it implicit, per
// spec.md §9's open question on DPI plumbing.
package raster

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// DefaultDPI is used when the caller does not know the DPI the page was
// rasterized at. It matches the ingest-stage default spec.md assumes for
// scale estimation (§4.4.3).
const DefaultDPI = 300.0

// Raster is an immutable, row-major RGB8 pixel buffer — the pipeline's
// input image, per spec.md §3.
type Raster struct {
	Width  int
	Height int
	// Pix holds Width*Height*3 bytes, three per pixel in R, G, B order,
	// row-major starting at the top-left.
	Pix []byte
}

// At returns the RGB triple at (x, y).
func (r *Raster) At(x, y int) (uint8, uint8, uint8) {
	idx := (y*r.Width + x) * 3
	return r.Pix[idx], r.Pix[idx+1], r.Pix[idx+2]
}

// FromImage converts a standard image.Image into a Raster, copying pixels
// row by row the way trace.ImageToMat does for its gocv.Mat conversion in
// the teacher repository.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	r := &Raster{
		Width:  w,
		Height: h,
		Pix:    make([]byte, w*h*3),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			red, green, blue, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := (y*w + x) * 3
			r.Pix[idx+0] = uint8(red >> 8)
			r.Pix[idx+1] = uint8(green >> 8)
			r.Pix[idx+2] = uint8(blue >> 8)
		}
	}

	return r
}

// ToMat converts the raster to a gocv.Mat in BGR order, the convention
// OpenCV (and the rest of this pipeline's gocv-backed stages) expects.
func (r *Raster) ToMat() (gocv.Mat, error) {
	if r == nil || r.Width == 0 || r.Height == 0 {
		return gocv.Mat{}, fmt.Errorf("raster: empty raster")
	}

	mat := gocv.NewMatWithSize(r.Height, r.Width, gocv.MatTypeCV8UC3)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			red, green, blue := r.At(x, y)
			mat.SetUCharAt(y, x*3+0, blue)
			mat.SetUCharAt(y, x*3+1, green)
			mat.SetUCharAt(y, x*3+2, red)
		}
	}
	return mat, nil
}

// ResolveDPI returns dpi if positive, otherwise DefaultDPI. Ingest callers
// should always pass the result down explicitly rather than letting
// downstream stages assume a value.
func ResolveDPI(dpi float64) float64 {
	if dpi > 0 {
		return dpi
	}
	return DefaultDPI
}
