// Package geo reads the chiefdom shapefile into plain polygon features.
package geo

import (
	"fmt"
	"math"
	"os"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Point is a map coordinate.
type Point struct {
	X float64
	Y float64
}

// Feature is one shapefile polygon with its administrative attributes.
// Rings holds the polygon parts in shapefile order, outer ring first.
type Feature struct {
	District string
	Chiefdom string
	Rings    [][]Point
}

// Load reads polygon features from a shapefile. districtField and
// chiefdomField name the DBF attributes holding the administrative names
// (matched case-insensitively). Non-polygon shapes are skipped.
func Load(path, districtField, chiefdomField string) ([]Feature, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("shapefile not found: %s", path)
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile: %w", err)
	}
	defer r.Close()

	districtIdx, chiefdomIdx := -1, -1
	for i, field := range r.Fields() {
		name := field.String()
		if strings.EqualFold(name, districtField) {
			districtIdx = i
		}
		if strings.EqualFold(name, chiefdomField) {
			chiefdomIdx = i
		}
	}
	if districtIdx < 0 {
		return nil, fmt.Errorf("shapefile has no %s attribute", districtField)
	}
	if chiefdomIdx < 0 {
		return nil, fmt.Errorf("shapefile has no %s attribute", chiefdomField)
	}

	var features []Feature
	for r.Next() {
		n, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		features = append(features, Feature{
			District: strings.TrimSpace(r.ReadAttribute(n, districtIdx)),
			Chiefdom: strings.TrimSpace(r.ReadAttribute(n, chiefdomIdx)),
			Rings:    splitRings(poly),
		})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading shapefile: %w", err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("shapefile %s has no polygon features", path)
	}
	return features, nil
}

func splitRings(poly *shp.Polygon) [][]Point {
	rings := make([][]Point, 0, len(poly.Parts))
	for i, start := range poly.Parts {
		end := int32(len(poly.Points))
		if i+1 < len(poly.Parts) {
			end = poly.Parts[i+1]
		}
		ring := make([]Point, 0, end-start)
		for _, p := range poly.Points[start:end] {
			ring = append(ring, Point{X: p.X, Y: p.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

// Centroid returns the area centroid of the feature, used for label
// placement. Falls back to the vertex mean when the polygon is degenerate.
func (f Feature) Centroid() (float64, float64) {
	coords := make([][]geom.Coord, 0, len(f.Rings))
	for _, ring := range f.Rings {
		c := make([]geom.Coord, len(ring))
		for i, p := range ring {
			c[i] = geom.Coord{p.X, p.Y}
		}
		coords = append(coords, c)
	}
	poly := geom.NewPolygon(geom.XY)
	if _, err := poly.SetCoords(coords); err == nil {
		c, err := xy.Centroid(poly)
		if err == nil && len(c) >= 2 && !math.IsNaN(c[0]) && !math.IsNaN(c[1]) {
			return c[0], c[1]
		}
	}
	return f.vertexMean()
}

func (f Feature) vertexMean() (float64, float64) {
	var sx, sy float64
	var n int
	for _, ring := range f.Rings {
		for _, p := range ring {
			sx += p.X
			sy += p.Y
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sx / float64(n), sy / float64(n)
}

// Bounds returns the bounding box of a feature set.
func Bounds(features []Feature) (minX, minY, maxX, maxY float64) {
	first := true
	for _, f := range features {
		for _, ring := range f.Rings {
			for _, p := range ring {
				if first {
					minX, maxX = p.X, p.X
					minY, maxY = p.Y, p.Y
					first = false
					continue
				}
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}
			}
		}
	}
	return minX, minY, maxX, maxY
}
