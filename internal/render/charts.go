// Package render draws the report charts and maps as PNG files.
package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mohamedsillahkanu/maltrend/internal/dataset"
)

// TrendChart draws a yearly line chart of a national metric series.
func TrendChart(title, yLabel string, series map[int]float64, out string) error {
	years := make([]int, 0, len(series))
	for year := range series {
		years = append(years, year)
	}
	sort.Ints(years)
	if len(years) == 0 {
		return fmt.Errorf("trend chart %s: no data", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = yLabel

	points := make(plotter.XYs, len(years))
	yearLabels := make([]string, len(years))
	for i, year := range years {
		points[i].X = float64(i)
		points[i].Y = series[year]
		yearLabels[i] = fmt.Sprintf("%d", year)
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("trend chart %s: %w", title, err)
	}
	line.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	line.Width = vg.Points(2)

	p.Add(line)
	p.Add(plotter.NewGrid())
	p.NominalX(yearLabels...)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, out); err != nil {
		return fmt.Errorf("saving %s: %w", out, err)
	}
	return nil
}

// ChangeBarChart draws one bar per unit showing percent change. Units
// whose change is NaN are left out entirely rather than drawn at zero.
func ChangeBarChart(title string, changes []dataset.UnitChange, out string) error {
	var values plotter.Values
	var labels []string
	for _, uc := range changes {
		if math.IsNaN(uc.Change) {
			continue
		}
		values = append(values, uc.Change)
		labels = append(labels, uc.Unit)
	}
	if len(values) == 0 {
		return fmt.Errorf("bar chart %s: no data", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Change (%)"

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("bar chart %s: %w", title, err)
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XCenter

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	p.Y.Min = minV - math.Abs(minV)*0.15
	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	p.Y.Max = maxV + math.Abs(maxV)*0.15
	if p.Y.Max < 0 {
		p.Y.Max = 0
	}

	span := math.Abs(maxV) + math.Abs(minV)
	if span == 0 {
		span = 1
	}
	for i, v := range values {
		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: float64(i), Y: v + span*0.02}},
			Labels: []string{fmt.Sprintf("%.0f%%", v)},
		})
		if err != nil {
			return fmt.Errorf("bar chart %s: %w", title, err)
		}
		p.Add(label)
	}

	width := vg.Length(len(values)) * 0.5 * vg.Inch
	if width < 10*vg.Inch {
		width = 10 * vg.Inch
	}
	if err := p.Save(width, 6*vg.Inch, out); err != nil {
		return fmt.Errorf("saving %s: %w", out, err)
	}
	return nil
}
