// Package config holds the run settings: input paths, year pair, metric
// and shapefile attribute names.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration. Zero values are replaced by
// Default() before a YAML file is applied on top.
type Config struct {
	Workbook      string `yaml:"workbook"`
	Shapefile     string `yaml:"shapefile"`
	OutDir        string `yaml:"out_dir"`
	StartYear     int    `yaml:"start_year"`
	EndYear       int    `yaml:"end_year"`
	Metric        string `yaml:"metric"`
	DistrictField string `yaml:"district_field"`
	ChiefdomField string `yaml:"chiefdom_field"`
}

// Default returns the fixed paths the original reporting scripts used.
func Default() Config {
	return Config{
		Workbook:      "data/surveillance.xlsx",
		Shapefile:     "data/shapefiles/Chiefdom2021.shp",
		OutDir:        "reports",
		StartYear:     2022,
		EndYear:       2023,
		Metric:        "crude_incidence",
		DistrictField: "FIRST_DNAM",
		ChiefdomField: "FIRST_CHIE",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no run could use.
func (c Config) Validate() error {
	if c.StartYear >= c.EndYear {
		return fmt.Errorf("start_year %d must precede end_year %d", c.StartYear, c.EndYear)
	}
	if c.Metric == "" {
		return fmt.Errorf("metric must not be empty")
	}
	if c.Workbook == "" {
		return fmt.Errorf("workbook path must not be empty")
	}
	return nil
}
