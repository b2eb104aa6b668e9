// Package dataset loads the surveillance workbook and aggregates metric
// values to the national, district and chiefdom levels.
package dataset

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"github.com/mohamedsillahkanu/maltrend/internal/change"
)

// Record is one workbook row: a chiefdom within a district with one value
// per metric per year. Missing cells are NaN.
type Record struct {
	District string
	Chiefdom string
	Values   map[string]map[int]float64
}

// Value returns the metric value for a year, NaN when absent.
func (r Record) Value(metric string, year int) float64 {
	years, ok := r.Values[metric]
	if !ok {
		return math.NaN()
	}
	v, ok := years[year]
	if !ok {
		return math.NaN()
	}
	return v
}

// Table is the loaded workbook.
type Table struct {
	Records []Record
	Metrics []string
	Years   []int
}

// UnitChange is the start value, end value and percent change for one
// administrative unit.
type UnitChange struct {
	District string
	Unit     string
	Start    float64
	End      float64
	Change   float64
}

// LoadWorkbook reads the first sheet of an xlsx workbook. The header row
// must contain adm1 and adm2 columns plus metric columns named
// <metric>_<year>, e.g. crude_incidence_2022. Unrecognized columns are
// ignored; unparsable cells become NaN.
func LoadWorkbook(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input workbook not found: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	districtCol, chiefdomCol := -1, -1
	type metricCol struct {
		metric string
		year   int
	}
	metricCols := make(map[int]metricCol)
	metricSet := make(map[string]bool)
	yearSet := make(map[int]bool)

	for i, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "adm1":
			districtCol = i
			continue
		case "adm2":
			chiefdomCol = i
			continue
		}
		metric, year, ok := splitMetricColumn(name)
		if !ok {
			continue
		}
		metricCols[i] = metricCol{metric: metric, year: year}
		metricSet[metric] = true
		yearSet[year] = true
	}

	if districtCol < 0 || chiefdomCol < 0 {
		return nil, fmt.Errorf("sheet %s is missing adm1/adm2 columns", sheet)
	}

	t := &Table{}
	for _, row := range rows[1:] {
		rec := Record{
			District: cellAt(row, districtCol),
			Chiefdom: cellAt(row, chiefdomCol),
			Values:   make(map[string]map[int]float64),
		}
		if rec.District == "" && rec.Chiefdom == "" {
			continue
		}
		for i, mc := range metricCols {
			v := math.NaN()
			if s := cellAt(row, i); s != "" {
				if parsed, err := strconv.ParseFloat(s, 64); err == nil {
					v = parsed
				}
			}
			if rec.Values[mc.metric] == nil {
				rec.Values[mc.metric] = make(map[int]float64)
			}
			rec.Values[mc.metric][mc.year] = v
		}
		t.Records = append(t.Records, rec)
	}

	for m := range metricSet {
		t.Metrics = append(t.Metrics, m)
	}
	sort.Strings(t.Metrics)
	for y := range yearSet {
		t.Years = append(t.Years, y)
	}
	sort.Ints(t.Years)

	return t, nil
}

// splitMetricColumn parses "<metric>_<year>" headers. Metric names may
// themselves contain underscores, so the year is taken from the last
// segment.
func splitMetricColumn(name string) (string, int, bool) {
	name = strings.TrimSpace(name)
	i := strings.LastIndex(name, "_")
	if i <= 0 || i == len(name)-1 {
		return "", 0, false
	}
	year, err := strconv.Atoi(name[i+1:])
	if err != nil || year < 1900 || year > 2200 {
		return "", 0, false
	}
	return name[:i], year, true
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// NationalSeries sums a metric across all rows per year. Missing cells
// contribute nothing; a year with no values at all is omitted.
func (t *Table) NationalSeries(metric string) map[int]float64 {
	series := make(map[int]float64)
	for _, rec := range t.Records {
		for _, year := range t.Years {
			v := rec.Value(metric, year)
			if math.IsNaN(v) {
				continue
			}
			series[year] += v
		}
	}
	return series
}

// NationalChange sums the metric across all rows for the start and end
// years and returns the percent change.
func (t *Table) NationalChange(metric string, startYear, endYear int) UnitChange {
	series := t.NationalSeries(metric)
	start, ok := series[startYear]
	if !ok {
		start = math.NaN()
	}
	end, ok := series[endYear]
	if !ok {
		end = math.NaN()
	}
	return UnitChange{
		District: "National",
		Unit:     "National",
		Start:    start,
		End:      end,
		Change:   change.Percent(start, end),
	}
}

// ChiefdomChanges returns the per-row percent change, sorted by district
// then chiefdom.
func (t *Table) ChiefdomChanges(metric string, startYear, endYear int) []UnitChange {
	out := make([]UnitChange, 0, len(t.Records))
	for _, rec := range t.Records {
		start := rec.Value(metric, startYear)
		end := rec.Value(metric, endYear)
		out = append(out, UnitChange{
			District: rec.District,
			Unit:     rec.Chiefdom,
			Start:    start,
			End:      end,
			Change:   change.Percent(start, end),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].District != out[j].District {
			return out[i].District < out[j].District
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// DistrictChanges sums chiefdom values to districts through a dataframe
// group-by and computes the percent change per district. Missing cells
// contribute zero to the sums.
func (t *Table) DistrictChanges(metric string, startYear, endYear int) ([]UnitChange, error) {
	recs := [][]string{{"district", "start", "end"}}
	for _, rec := range t.Records {
		if rec.District == "" {
			continue
		}
		start := rec.Value(metric, startYear)
		if math.IsNaN(start) {
			start = 0
		}
		end := rec.Value(metric, endYear)
		if math.IsNaN(end) {
			end = 0
		}
		recs = append(recs, []string{
			rec.District,
			strconv.FormatFloat(start, 'f', -1, 64),
			strconv.FormatFloat(end, 'f', -1, 64),
		})
	}
	if len(recs) == 1 {
		return nil, nil
	}

	df := dataframe.LoadRecords(recs)
	if df.Err != nil {
		return nil, fmt.Errorf("building dataframe: %w", df.Err)
	}

	agg := df.GroupBy("district").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM, dataframe.Aggregation_SUM},
		[]string{"start", "end"},
	)
	if agg.Err != nil {
		return nil, fmt.Errorf("aggregating districts: %w", agg.Err)
	}
	agg = agg.Arrange(dataframe.Sort("district"))
	if agg.Err != nil {
		return nil, fmt.Errorf("sorting districts: %w", agg.Err)
	}

	names := agg.Col("district").Records()
	starts := agg.Col("start_SUM").Float()
	ends := agg.Col("end_SUM").Float()

	out := make([]UnitChange, 0, len(names))
	for i, name := range names {
		out = append(out, UnitChange{
			District: name,
			Unit:     name,
			Start:    starts[i],
			End:      ends[i],
			Change:   change.Percent(starts[i], ends[i]),
		})
	}
	return out, nil
}

// Districts lists the distinct district names, sorted.
func (t *Table) Districts() []string {
	set := make(map[string]bool)
	for _, rec := range t.Records {
		if rec.District != "" {
			set[rec.District] = true
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// HasMetric reports whether the workbook carries the named metric.
func (t *Table) HasMetric(metric string) bool {
	for _, m := range t.Metrics {
		if m == metric {
			return true
		}
	}
	return false
}
