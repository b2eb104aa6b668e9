package dataset

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a small surveillance workbook for tests. A nil
// cell value leaves the cell empty.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	path := filepath.Join(t.TempDir(), "surveillance.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testHeader() []interface{} {
	return []interface{}{"adm1", "adm2", "crude_incidence_2022", "crude_incidence_2023", "adjusted1_2022", "adjusted1_2023"}
}

func TestLoadWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		testHeader(),
		{"Bo", "Badjia", 100.0, 50.0, 10.0, 12.0},
		{"Bo", "Bagbwe", 200.0, 240.0, 20.0, 18.0},
		{"Kenema", "Dama", 0.0, 50.0, nil, 5.0},
	})

	tbl, err := LoadWorkbook(path)
	require.NoError(t, err)

	assert.Len(t, tbl.Records, 3)
	assert.Equal(t, []string{"adjusted1", "crude_incidence"}, tbl.Metrics)
	assert.Equal(t, []int{2022, 2023}, tbl.Years)

	assert.Equal(t, "Bo", tbl.Records[0].District)
	assert.Equal(t, "Badjia", tbl.Records[0].Chiefdom)
	assert.InDelta(t, 100, tbl.Records[0].Value("crude_incidence", 2022), 1e-9)

	// Missing cell reads as NaN, not zero.
	assert.True(t, math.IsNaN(tbl.Records[2].Value("adjusted1", 2022)))
	assert.True(t, math.IsNaN(tbl.Records[0].Value("unknown_metric", 2022)))
}

func TestLoadWorkbookMissingFile(t *testing.T) {
	_, err := LoadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadWorkbookMissingAdminColumns(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"region", "crude_incidence_2022"},
		{"Bo", 100.0},
	})
	_, err := LoadWorkbook(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adm1/adm2")
}

func TestSplitMetricColumn(t *testing.T) {
	metric, year, ok := splitMetricColumn("crude_incidence_2022")
	require.True(t, ok)
	assert.Equal(t, "crude_incidence", metric)
	assert.Equal(t, 2022, year)

	_, _, ok = splitMetricColumn("adm1")
	assert.False(t, ok)
	_, _, ok = splitMetricColumn("notes_final")
	assert.False(t, ok)
}

func TestNationalSeries(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		testHeader(),
		{"Bo", "Badjia", 100.0, 50.0, nil, nil},
		{"Bo", "Bagbwe", 200.0, 240.0, nil, nil},
		{"Kenema", "Dama", nil, 60.0, nil, nil},
	})
	tbl, err := LoadWorkbook(path)
	require.NoError(t, err)

	series := tbl.NationalSeries("crude_incidence")
	assert.InDelta(t, 300, series[2022], 1e-9, "missing cells must not poison the sum")
	assert.InDelta(t, 350, series[2023], 1e-9)
}

func TestNationalChange(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		testHeader(),
		{"Bo", "Badjia", 100.0, 50.0, nil, nil},
		{"Bo", "Bagbwe", 100.0, 50.0, nil, nil},
	})
	tbl, err := LoadWorkbook(path)
	require.NoError(t, err)

	nat := tbl.NationalChange("crude_incidence", 2022, 2023)
	assert.Equal(t, "National", nat.Unit)
	assert.InDelta(t, -50, nat.Change, 1e-9)
}

func TestChiefdomChanges(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		testHeader(),
		{"Bo", "Bagbwe", 100.0, 120.0, nil, nil},
		{"Bo", "Badjia", 100.0, 50.0, nil, nil},
		{"Kenema", "Dama", 0.0, 50.0, nil, nil},
	})
	tbl, err := LoadWorkbook(path)
	require.NoError(t, err)

	changes := tbl.ChiefdomChanges("crude_incidence", 2022, 2023)
	require.Len(t, changes, 3)

	// Sorted by district then chiefdom.
	assert.Equal(t, "Badjia", changes[0].Unit)
	assert.InDelta(t, -50, changes[0].Change, 1e-9)
	assert.Equal(t, "Bagbwe", changes[1].Unit)
	assert.InDelta(t, 20, changes[1].Change, 1e-9)

	// Zero start is undefined, not a crash.
	assert.Equal(t, "Dama", changes[2].Unit)
	assert.True(t, math.IsNaN(changes[2].Change))
}

func TestDistrictChanges(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		testHeader(),
		{"Bo", "Badjia", 100.0, 60.0, nil, nil},
		{"Bo", "Bagbwe", 100.0, 40.0, nil, nil},
		{"Kenema", "Dama", 50.0, 60.0, nil, nil},
		{"Kenema", "Gaura", nil, 15.0, nil, nil},
	})
	tbl, err := LoadWorkbook(path)
	require.NoError(t, err)

	districts, err := tbl.DistrictChanges("crude_incidence", 2022, 2023)
	require.NoError(t, err)
	require.Len(t, districts, 2)

	bo := districts[0]
	assert.Equal(t, "Bo", bo.Unit)
	assert.InDelta(t, 200, bo.Start, 1e-9)
	assert.InDelta(t, 100, bo.End, 1e-9)
	assert.InDelta(t, -50, bo.Change, 1e-9)

	kenema := districts[1]
	assert.Equal(t, "Kenema", kenema.Unit)
	assert.InDelta(t, 50, kenema.Start, 1e-9, "missing start cell contributes zero")
	assert.InDelta(t, 75, kenema.End, 1e-9)
	assert.InDelta(t, 50, kenema.Change, 1e-9)
}

func TestDistrictChangesEmpty(t *testing.T) {
	tbl := &Table{}
	districts, err := tbl.DistrictChanges("crude_incidence", 2022, 2023)
	require.NoError(t, err)
	assert.Empty(t, districts)
}

func TestDistricts(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		testHeader(),
		{"Kenema", "Dama", 1.0, 1.0, nil, nil},
		{"Bo", "Badjia", 1.0, 1.0, nil, nil},
		{"Bo", "Bagbwe", 1.0, 1.0, nil, nil},
	})
	tbl, err := LoadWorkbook(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bo", "Kenema"}, tbl.Districts())
	assert.True(t, tbl.HasMetric("crude_incidence"))
	assert.False(t, tbl.HasMetric("adjusted9"))
}

func TestLargeWorkbookColumnNames(t *testing.T) {
	// All four metrics of the production workbook parse out.
	header := []interface{}{"adm1", "adm2"}
	row := []interface{}{"Bo", "Badjia"}
	for _, m := range []string{"crude_incidence", "adjusted1", "adjusted2", "adjusted3"} {
		for _, y := range []int{2022, 2023} {
			header = append(header, fmt.Sprintf("%s_%d", m, y))
			row = append(row, 1.0)
		}
	}
	path := writeWorkbook(t, [][]interface{}{header, row})
	tbl, err := LoadWorkbook(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"adjusted1", "adjusted2", "adjusted3", "crude_incidence"}, tbl.Metrics)
}
