package report

import (
	"archive/zip"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mohamedsillahkanu/maltrend/internal/dataset"
)

// writePNG writes a tiny valid PNG for embedding tests.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestWritePDF(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "chart.png")
	out := filepath.Join(dir, "report.pdf")

	pages := []Page{{Title: "Change by district", Image: img}}
	require.NoError(t, WritePDF("National report", pages, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	head := make([]byte, 5)
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))
}

func TestWritePDFNoPages(t *testing.T) {
	err := WritePDF("empty", nil, filepath.Join(t.TempDir(), "report.pdf"))
	require.Error(t, err)
}

func TestWriteHTMLEmbedsImages(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "chart.png")
	out := filepath.Join(dir, "report.html")

	pages := []Page{{Title: "Chiefdom map", Image: img}}
	require.NoError(t, WriteHTML("Chiefdom report", pages, out))

	raw, err := os.ReadFile(img)
	require.NoError(t, err)
	html, err := os.ReadFile(out)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Chiefdom report")
	assert.Contains(t, body, "Chiefdom map")
	assert.Contains(t, body, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(raw))
	assert.Contains(t, body, "<style>", "style must be inline, not linked")
	assert.NotContains(t, body, "chart.png", "no external references allowed")
}

func TestWriteHTMLMissingImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.html")
	pages := []Page{{Title: "x", Image: filepath.Join(t.TempDir(), "gone.png")}}
	err := WriteHTML("r", pages, out)
	require.Error(t, err)
}

func TestWriteArchive(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png")
	b := writePNG(t, dir, "b.png")
	out := filepath.Join(dir, "bundle.zip")

	require.NoError(t, WriteArchive(out, []string{a, b}))

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"a.png", "b.png"}, names)
}

func TestWriteArchiveEmpty(t *testing.T) {
	err := WriteArchive(filepath.Join(t.TempDir(), "bundle.zip"), nil)
	require.Error(t, err)
}

func TestWriteSummary(t *testing.T) {
	out := filepath.Join(t.TempDir(), "summary.xlsx")
	rows := []dataset.UnitChange{
		{District: "Bo", Unit: "Badjia", Start: 100, End: 50, Change: -50},
		{District: "Kenema", Unit: "Dama", Start: 0, End: 50, Change: math.NaN()},
	}
	require.NoError(t, WriteSummary(out, "Chiefdom_Summary", "crude_incidence", 2022, 2023, rows))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Chiefdom_Summary")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "District", got[0][0])
	assert.Equal(t, "crude_incidence 2022", got[0][2])

	assert.Equal(t, "Badjia", got[1][1])
	assert.True(t, strings.HasPrefix(got[1][4], "-50"))

	assert.Equal(t, "Dama", got[2][1])
	assert.Equal(t, "no data", got[2][4], "NaN change must render as the no-data marker")
}
