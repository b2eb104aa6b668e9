// Package change computes year-over-year percentage change and
// classifies it into the fixed bins used to color report maps.
package change

import (
	"fmt"
	"image/color"
	"math"
)

// Edges are the bin boundaries for percent change, ascending. Bins are
// left-inclusive: [-70,-60), [-60,-50), ..., [10,20). Values at or above
// the last edge fall into a final open-ended bin, values below the first
// edge fold into the first bin.
var Edges = []float64{-70, -60, -50, -40, -30, -20, -10, 0, 10, 20}

// NoData is returned by Classify for values that cannot be binned.
const NoData = -1

// Percent returns the percentage change from start to end:
// (end-start)/start*100. The result is NaN when start is not positive or
// either value is NaN.
func Percent(start, end float64) float64 {
	if math.IsNaN(start) || math.IsNaN(end) || start <= 0 {
		return math.NaN()
	}
	return (end - start) / start * 100
}

// NumClasses is the number of bins produced by Classify.
func NumClasses() int {
	return len(Edges)
}

// Classify maps a percent-change value to a bin index in [0, NumClasses()).
// NaN values return NoData.
func Classify(v float64) int {
	if math.IsNaN(v) {
		return NoData
	}
	if v < Edges[0] {
		return 0
	}
	for i := 0; i < len(Edges)-1; i++ {
		if v >= Edges[i] && v < Edges[i+1] {
			return i
		}
	}
	return len(Edges) - 1
}

// palette runs dark green (largest decrease) through yellow to dark red
// (increase). Index order matches Edges.
var palette = []color.RGBA{
	{R: 0, G: 100, B: 0, A: 255},
	{R: 34, G: 139, B: 34, A: 255},
	{R: 60, G: 179, B: 113, A: 255},
	{R: 144, G: 238, B: 144, A: 255},
	{R: 173, G: 255, B: 47, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 255, G: 215, B: 0, A: 255},
	{R: 255, G: 165, B: 0, A: 255},
	{R: 255, G: 69, B: 0, A: 255},
	{R: 178, G: 34, B: 34, A: 255},
}

// Gray is the fill for units without data.
var Gray = color.RGBA{R: 190, G: 190, B: 190, A: 255}

// ClassColor returns the fill color for a bin index. Out-of-range indexes
// (including NoData) get the gray no-data fill.
func ClassColor(class int) color.Color {
	if class < 0 || class >= len(palette) {
		return Gray
	}
	return palette[class]
}

// ColorFor classifies v and returns its fill color.
func ColorFor(v float64) color.Color {
	return ClassColor(Classify(v))
}

// BinLabel returns the legend label for a bin index.
func BinLabel(class int) string {
	if class < 0 || class >= len(Edges) {
		return "no data"
	}
	if class == len(Edges)-1 {
		return fmt.Sprintf(">= %.0f%%", Edges[class])
	}
	return fmt.Sprintf("%.0f%% to %.0f%%", Edges[class], Edges[class+1])
}
