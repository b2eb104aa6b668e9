package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mohamedsillahkanu/maltrend/internal/config"
	"github.com/mohamedsillahkanu/maltrend/internal/dataset"
	"github.com/mohamedsillahkanu/maltrend/internal/geo"
	"github.com/mohamedsillahkanu/maltrend/internal/render"
	"github.com/mohamedsillahkanu/maltrend/internal/report"
)

func loadTable(cfg config.Config) (*dataset.Table, error) {
	tbl, err := dataset.LoadWorkbook(cfg.Workbook)
	if err != nil {
		return nil, err
	}
	if !tbl.HasMetric(cfg.Metric) {
		return nil, fmt.Errorf("workbook has no %s columns (found: %s)",
			cfg.Metric, strings.Join(tbl.Metrics, ", "))
	}
	logger.Debug("workbook loaded",
		zap.String("path", cfg.Workbook),
		zap.Int("rows", len(tbl.Records)),
		zap.Strings("metrics", tbl.Metrics),
		zap.Ints("years", tbl.Years))
	return tbl, nil
}

// bundle writes the PDF, HTML and ZIP artifacts for a finished report.
func bundle(dir, name, title string, pages []report.Page, extra []string) error {
	pdfPath := filepath.Join(dir, name+".pdf")
	if err := report.WritePDF(title, pages, pdfPath); err != nil {
		return err
	}
	htmlPath := filepath.Join(dir, name+".html")
	if err := report.WriteHTML(title, pages, htmlPath); err != nil {
		return err
	}
	files := []string{pdfPath, htmlPath}
	for _, page := range pages {
		files = append(files, page.Image)
	}
	files = append(files, extra...)
	return report.WriteArchive(filepath.Join(dir, name+".zip"), files)
}

func runNational(cfg config.Config) error {
	tbl, err := loadTable(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Join(cfg.OutDir, "national")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	title := fmt.Sprintf("National %s, %d vs %d", cfg.Metric, cfg.StartYear, cfg.EndYear)

	trendPNG := filepath.Join(dir, "trend.png")
	if err := render.TrendChart(
		fmt.Sprintf("National %s by year", cfg.Metric), cfg.Metric,
		tbl.NationalSeries(cfg.Metric), trendPNG); err != nil {
		return err
	}

	districts, err := tbl.DistrictChanges(cfg.Metric, cfg.StartYear, cfg.EndYear)
	if err != nil {
		return err
	}
	barsPNG := filepath.Join(dir, "district_change.png")
	if err := render.ChangeBarChart(
		fmt.Sprintf("%s change by district, %d vs %d", cfg.Metric, cfg.StartYear, cfg.EndYear),
		districts, barsPNG); err != nil {
		return err
	}

	rows := append([]dataset.UnitChange{tbl.NationalChange(cfg.Metric, cfg.StartYear, cfg.EndYear)}, districts...)
	summaryPath := filepath.Join(dir, "summary.xlsx")
	if err := report.WriteSummary(summaryPath, "National_Summary", cfg.Metric,
		cfg.StartYear, cfg.EndYear, rows); err != nil {
		return err
	}

	pages := []report.Page{
		{Title: "Yearly trend", Image: trendPNG},
		{Title: "Change by district", Image: barsPNG},
	}
	if err := bundle(dir, "national_report", title, pages, []string{summaryPath}); err != nil {
		return err
	}

	logger.Info("national report written", zap.String("dir", dir))
	return nil
}

func runDistrict(cfg config.Config) error {
	tbl, err := loadTable(cfg)
	if err != nil {
		return err
	}
	features, err := geo.Load(cfg.Shapefile, cfg.DistrictField, cfg.ChiefdomField)
	if err != nil {
		return err
	}

	dir := filepath.Join(cfg.OutDir, "district")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	title := fmt.Sprintf("District %s change, %d vs %d", cfg.Metric, cfg.StartYear, cfg.EndYear)

	districts, err := tbl.DistrictChanges(cfg.Metric, cfg.StartYear, cfg.EndYear)
	if err != nil {
		return err
	}
	byDistrict := make(map[string]float64, len(districts))
	for _, uc := range districts {
		byDistrict[strings.ToUpper(uc.Unit)] = uc.Change
	}

	barsPNG := filepath.Join(dir, "district_change.png")
	if err := render.ChangeBarChart(title, districts, barsPNG); err != nil {
		return err
	}

	mapPNG := filepath.Join(dir, "district_map.png")
	labeled := make(map[string]bool)
	err = render.ChoroplethMap(title, features,
		func(f geo.Feature) float64 {
			v, ok := byDistrict[strings.ToUpper(f.District)]
			if !ok {
				return math.NaN()
			}
			return v
		},
		func(f geo.Feature) string {
			// One label per district even though it spans many features.
			key := strings.ToUpper(f.District)
			if labeled[key] {
				return ""
			}
			labeled[key] = true
			return f.District
		},
		mapPNG)
	if err != nil {
		return err
	}

	summaryPath := filepath.Join(dir, "summary.xlsx")
	if err := report.WriteSummary(summaryPath, "District_Summary", cfg.Metric,
		cfg.StartYear, cfg.EndYear, districts); err != nil {
		return err
	}

	pages := []report.Page{
		{Title: "Change by district", Image: barsPNG},
		{Title: "District map", Image: mapPNG},
	}
	if err := bundle(dir, "district_report", title, pages, []string{summaryPath}); err != nil {
		return err
	}

	logger.Info("district report written",
		zap.String("dir", dir), zap.Int("districts", len(districts)))
	return nil
}

func runChiefdom(cfg config.Config) error {
	tbl, err := loadTable(cfg)
	if err != nil {
		return err
	}
	features, err := geo.Load(cfg.Shapefile, cfg.DistrictField, cfg.ChiefdomField)
	if err != nil {
		return err
	}

	dir := filepath.Join(cfg.OutDir, "chiefdom")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	title := fmt.Sprintf("Chiefdom %s change, %d vs %d", cfg.Metric, cfg.StartYear, cfg.EndYear)

	chiefdoms := tbl.ChiefdomChanges(cfg.Metric, cfg.StartYear, cfg.EndYear)
	byChiefdom := make(map[string]float64, len(chiefdoms))
	for _, uc := range chiefdoms {
		byChiefdom[strings.ToUpper(uc.Unit)] = uc.Change
	}

	mapPNG := filepath.Join(dir, "chiefdom_map.png")
	err = render.ChoroplethMap(title, features,
		func(f geo.Feature) float64 {
			v, ok := byChiefdom[strings.ToUpper(f.Chiefdom)]
			if !ok {
				return math.NaN()
			}
			return v
		},
		func(f geo.Feature) string { return "" },
		mapPNG)
	if err != nil {
		return err
	}

	pages := []report.Page{{Title: "Chiefdom map", Image: mapPNG}}

	// One bar chart per district, as in the original per-group scripts.
	// Districts where every chiefdom lacks data are skipped.
	for _, district := range tbl.Districts() {
		var group []dataset.UnitChange
		hasData := false
		for _, uc := range chiefdoms {
			if uc.District != district {
				continue
			}
			group = append(group, uc)
			if !math.IsNaN(uc.Change) {
				hasData = true
			}
		}
		if !hasData {
			logger.Debug("skipping district with no data", zap.String("district", district))
			continue
		}
		png := filepath.Join(dir, fileName(district)+"_change.png")
		chartTitle := fmt.Sprintf("%s: %s change by chiefdom, %d vs %d",
			district, cfg.Metric, cfg.StartYear, cfg.EndYear)
		if err := render.ChangeBarChart(chartTitle, group, png); err != nil {
			return err
		}
		pages = append(pages, report.Page{Title: district, Image: png})
	}

	summaryPath := filepath.Join(dir, "summary.xlsx")
	if err := report.WriteSummary(summaryPath, "Chiefdom_Summary", cfg.Metric,
		cfg.StartYear, cfg.EndYear, chiefdoms); err != nil {
		return err
	}

	if err := bundle(dir, "chiefdom_report", title, pages, []string{summaryPath}); err != nil {
		return err
	}

	logger.Info("chiefdom report written",
		zap.String("dir", dir), zap.Int("chiefdoms", len(chiefdoms)))
	return nil
}

// fileName makes a unit name safe for use in output paths.
func fileName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
