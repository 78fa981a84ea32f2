// Command georef runs the red-annotation detector and affine georeferencer
// on a raster and a tie-point file, and prints the resulting placemarks,
// scale estimate, and warnings. Grounded on cmd/viatest and cmd/aligntest's
// shape: load inputs, run the pipeline, print a flat tabular report.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	"mapgeoref/internal/detect"
	"mapgeoref/internal/geoexport"
	"mapgeoref/internal/georef"
	"mapgeoref/internal/raster"
	"mapgeoref/internal/version"
	"mapgeoref/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to the rasterized map page (PNG or JPEG)")
	tiePath := flag.String("tiepoints", "", "Path to a tie-point file (id px py lat lon, one per line)")
	dpi := flag.Float64("dpi", raster.DefaultDPI, "DPI the raster was produced at")
	debug := flag.Bool("debug", false, "Print per-stage progress")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("georef %s (build %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
		return
	}

	if *imagePath == "" || *tiePath == "" {
		fmt.Println("Usage: georef -image <path> -tiepoints <path> [-dpi 300] [-debug]")
		os.Exit(1)
	}

	img, err := loadImage(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}

	tiePoints, err := loadTiePoints(*tiePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load tie points: %v\n", err)
		os.Exit(1)
	}

	rst := raster.FromImage(img)
	mat, err := rst.ToMat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to convert raster: %v\n", err)
		os.Exit(1)
	}
	defer mat.Close()

	detectCfg := detect.DefaultConfig()
	detectCfg.Debug = *debug
	polys := detect.Detect(mat, detectCfg)
	fmt.Printf("Detected %d annotation polygons\n", len(polys))

	georefCfg := georef.DefaultConfig()
	georefCfg.DPI = raster.ResolveDPI(*dpi)
	georefCfg.Debug = *debug

	fitResult, err := georef.FitWithResiduals(tiePoints)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fit failed: %v\n", err)
		os.Exit(1)
	}
	if georefCfg.Debug {
		for _, res := range fitResult.Residuals {
			fmt.Printf("fit: tie point %s residual=%.2fm\n", res.TiePointID, res.Meters)
		}
	}

	geoPolys := georef.ApplyToPolygons(fitResult.Affine, polys)
	rasterBounds := geometry.NewRect(0, 0, float64(rst.Width), float64(rst.Height))
	scaleResult, warnings, err := georef.ScaleWithBounds(tiePoints, georefCfg.DPI, rasterBounds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scale estimation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nNominal scale: 1:%.0f\n", scaleResult.Denominator)
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}

	fmt.Printf("\n%-18s %-6s %8s\n", "ID", "KIND", "VERTICES")
	for _, p := range geoPolys {
		fmt.Printf("%-18s %-6s %8d\n", p.ID, p.Kind, len(p.Corners))
	}

	mp := geoexport.MultiPolygon(geoPolys)
	fmt.Printf("\n%d polygon(s) ready for KML/GeoJSON export\n", len(mp))
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// loadTiePoints reads whitespace-separated "id px py lat lon" lines,
// skipping blanks and '#' comments.
func loadTiePoints(path string) ([]georef.TiePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []georef.TiePoint
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("tie point line %q: expected 5 fields, got %d", line, len(fields))
		}

		px, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("tie point %q: invalid pixel x: %w", fields[0], err)
		}
		py, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("tie point %q: invalid pixel y: %w", fields[0], err)
		}
		lat, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("tie point %q: invalid lat: %w", fields[0], err)
		}
		lon, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("tie point %q: invalid lon: %w", fields[0], err)
		}

		geo := georef.GeoPoint{Lat: lat, Lon: lon}
		if err := geo.Validate(); err != nil {
			return nil, fmt.Errorf("tie point %q: %w", fields[0], err)
		}

		points = append(points, georef.TiePoint{
			ID:    fields[0],
			Pixel: geometry.NewPoint2D(px, py),
			Geo:   geo,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
