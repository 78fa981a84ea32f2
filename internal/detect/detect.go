// Package detect implements the Detector: it runs the ColorSegmenter and
// PolygonExtractor for both annotation channels, joins the results, and
// suppresses redundant detections. Grounded on the teacher's
// internal/via.deduplicateVias, which runs the same
// sort-by-quality-then-greedily-keep-non-overlapping pattern for via
// candidates (internal/via/detector.go), and on
// internal/alignment/contact_bruteforce.go for the worker-pool shape used
// to run independent branches concurrently.
package detect

import (
	"fmt"
	"sort"
	"sync"

	"gocv.io/x/gocv"

	"mapgeoref/internal/polygon"
	"mapgeoref/internal/segment"
	"mapgeoref/pkg/geometry"
)

// Config is the Detector's configuration surface: the PolygonExtractor
// filters (§4.2) plus the deduplication IoU threshold (§4.3). No process-
// wide mutable state — threaded explicitly per spec.md §9.
type Config struct {
	Extract  polygon.Config
	DedupIoU float64
	// Debug, when set, causes Detect to fmt.Printf a short per-branch
	// progress line, the way internal/alignment.AlignImages traces contact
	// counts.
	Debug bool
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		Extract:  polygon.DefaultConfig(),
		DedupIoU: 0.5,
	}
}

// candidate pairs a detected polygon with its position in the original,
// pre-sort discovery order, to resolve dedup tie-breaks reproducibly
// (spec.md §5: "sort kept candidates by (-area, original_index)").
type candidate struct {
	poly  geometry.DetectedPolygon
	index int
}

// Detect runs the full detection pipeline against an already-decoded BGR
// image and returns the merged, deduplicated set of annotated polygons. It
// never fails: an empty mask (or an image with no matching pixels) yields
// an empty, non-nil-checked result.
func Detect(img gocv.Mat, cfg Config) []geometry.DetectedPolygon {
	if img.Empty() {
		return nil
	}

	masks := segment.Segment(img)
	defer masks.Close()

	// The thick-border and filled-area branches share no writable state
	// once the masks exist, so they run concurrently and join before
	// dedup, per spec.md §5.
	var thickPolys, filledPolys []geometry.DetectedPolygon
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		thickPolys = polygon.Extract(masks.Thick, geometry.ThickBorder, cfg.Extract)
	}()
	go func() {
		defer wg.Done()
		filledPolys = polygon.Extract(masks.Filled, geometry.FilledArea, cfg.Extract)
	}()
	wg.Wait()

	if cfg.Debug {
		fmt.Printf("detect: thick=%d filled=%d candidates before dedup\n", len(thickPolys), len(filledPolys))
	}

	merged := make([]geometry.DetectedPolygon, 0, len(thickPolys)+len(filledPolys))
	merged = append(merged, thickPolys...)
	merged = append(merged, filledPolys...)

	result := deduplicate(merged, cfg.DedupIoU)
	if cfg.Debug {
		fmt.Printf("detect: %d polygons after dedup\n", len(result))
	}
	return result
}

// deduplicate sorts candidates by area descending (ties broken by original
// insertion order) and greedily keeps a candidate only if it does not
// overlap any already-kept polygon by more than iouMax, and neither its
// centroid nor any of its vertices falls inside an already-kept polygon.
// Grounded on via.deduplicateVias's "prefer largest radius" greedy-keep
// structure.
func deduplicate(polys []geometry.DetectedPolygon, iouMax float64) []geometry.DetectedPolygon {
	if len(polys) == 0 {
		return nil
	}

	candidates := make([]candidate, len(polys))
	for i, p := range polys {
		candidates[i] = candidate{poly: p, index: i}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ai, aj := candidates[i].poly.Area(), candidates[j].poly.Area()
		if ai != aj {
			return ai > aj
		}
		return candidates[i].index < candidates[j].index
	})

	kept := make([]geometry.DetectedPolygon, 0, len(candidates))
	for _, c := range candidates {
		if keepsWithExisting(c.poly, kept, iouMax) {
			kept = append(kept, c.poly)
		}
	}
	return kept
}

func keepsWithExisting(p geometry.DetectedPolygon, kept []geometry.DetectedPolygon, iouMax float64) bool {
	for _, k := range kept {
		if geometry.IoU(p.Corners, k.Corners) > iouMax {
			return false
		}
		if geometry.PointInPolygon(p.Center, k.Corners) {
			return false
		}
		for _, v := range p.Corners {
			if geometry.PointInPolygon(v, k.Corners) {
				return false
			}
		}
	}
	return true
}
