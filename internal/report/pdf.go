// Package report assembles rendered images into PDF, HTML, ZIP and Excel
// artifacts.
package report

import (
	"fmt"
	"time"

	"codeberg.org/go-pdf/fpdf"
)

// Page is one report section: a heading and the PNG to show under it.
type Page struct {
	Title string
	Image string
}

// WritePDF builds a landscape A4 document with a cover page and one image
// per page.
func WritePDF(docTitle string, pages []Page, out string) error {
	if len(pages) == 0 {
		return fmt.Errorf("pdf %s: no pages", out)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(docTitle, true)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetY(80)
	pdf.CellFormat(0, 12, docTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 10, time.Now().Format("2 January 2006"), "", 1, "C", false, 0, "")

	for _, page := range pages {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, page.Title, "", 1, "L", false, 0, "")
		pdf.ImageOptions(page.Image, 10, 25, 277, 0, false,
			fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	}

	if err := pdf.OutputFileAndClose(out); err != nil {
		return fmt.Errorf("writing pdf %s: %w", out, err)
	}
	return nil
}
