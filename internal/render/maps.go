package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mohamedsillahkanu/maltrend/internal/change"
	"github.com/mohamedsillahkanu/maltrend/internal/geo"
)

// ChoroplethMap fills each feature with its percent-change bin color.
// value looks up the change for a feature and may return NaN, which draws
// the gray no-data fill. label returns the text placed at the feature
// centroid; return "" to skip the label.
func ChoroplethMap(title string, features []geo.Feature,
	value func(geo.Feature) float64, label func(geo.Feature) string, out string) error {

	if len(features) == 0 {
		return fmt.Errorf("map %s: no features", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.HideAxes()

	edge := color.RGBA{R: 60, G: 60, B: 60, A: 255}

	var labelPts plotter.XYs
	var labelTexts []string
	for _, f := range features {
		fill := change.ColorFor(value(f))
		for _, ring := range f.Rings {
			if len(ring) < 3 {
				continue
			}
			xys := make(plotter.XYs, len(ring))
			for i, pt := range ring {
				xys[i].X = pt.X
				xys[i].Y = pt.Y
			}
			poly, err := plotter.NewPolygon(xys)
			if err != nil {
				return fmt.Errorf("map %s: %w", title, err)
			}
			poly.Color = fill
			poly.LineStyle.Color = edge
			poly.LineStyle.Width = vg.Points(0.5)
			p.Add(poly)
		}
		if text := label(f); text != "" {
			x, y := f.Centroid()
			labelPts = append(labelPts, plotter.XY{X: x, Y: y})
			labelTexts = append(labelTexts, text)
		}
	}

	if len(labelPts) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    labelPts,
			Labels: labelTexts,
		})
		if err != nil {
			return fmt.Errorf("map %s: %w", title, err)
		}
		p.Add(labels)
	}

	if err := addLegend(p); err != nil {
		return fmt.Errorf("map %s: %w", title, err)
	}

	minX, minY, maxX, maxY := geo.Bounds(features)
	padX := (maxX - minX) * 0.05
	padY := (maxY - minY) * 0.05
	p.X.Min = minX - padX
	p.X.Max = maxX + padX
	p.Y.Min = minY - padY
	p.Y.Max = maxY + padY

	// Keep the map roughly in the data's aspect ratio.
	width := 12 * vg.Inch
	height := width
	if maxX > minX && maxY > minY {
		ratio := (maxY - minY) / (maxX - minX)
		height = vg.Length(math.Min(math.Max(ratio, 0.5), 2)) * width
	}

	if err := p.Save(width, height, out); err != nil {
		return fmt.Errorf("saving %s: %w", out, err)
	}
	return nil
}

// addLegend adds one swatch per change bin plus the no-data fill.
func addLegend(p *plot.Plot) error {
	swatch := plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	for class := 0; class < change.NumClasses(); class++ {
		poly, err := plotter.NewPolygon(swatch)
		if err != nil {
			return err
		}
		poly.Color = change.ClassColor(class)
		p.Legend.Add(change.BinLabel(class), poly)
	}
	gray, err := plotter.NewPolygon(swatch)
	if err != nil {
		return err
	}
	gray.Color = change.Gray
	p.Legend.Add("no data", gray)
	p.Legend.Top = true
	p.Legend.Left = true
	return nil
}
