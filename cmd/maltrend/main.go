package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mohamedsillahkanu/maltrend/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workbook   string
	shapefile  string
	outDir     string
	startYear  int
	endYear    int
	metric     string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "maltrend",
	Short: "Year-over-year malaria incidence change reports",
	Long: `maltrend reads a malaria-surveillance Excel workbook and a chiefdom
shapefile, computes year-over-year percentage change per administrative
unit, and writes charts, choropleth maps and bundled PDF/HTML/ZIP reports.

Each subcommand runs once, writes its files under the output directory,
and exits.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var nationalCmd = &cobra.Command{
	Use:   "national",
	Short: "National aggregate: trend line, district change bars, summary workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return runNational(cfg)
	},
}

var districtCmd = &cobra.Command{
	Use:   "district",
	Short: "Per-district change bars and a district choropleth map",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return runDistrict(cfg)
	},
}

var chiefdomCmd = &cobra.Command{
	Use:   "chiefdom",
	Short: "Per-chiefdom bars grouped by district and a chiefdom choropleth map",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return runChiefdom(cfg)
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the national, district and chiefdom reports in sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		if err := runNational(cfg); err != nil {
			return err
		}
		if err := runDistrict(cfg); err != nil {
			return err
		}
		return runChiefdom(cfg)
	},
}

// resolveConfig layers flag values the user set over the YAML file over
// the built-in defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("workbook") {
		cfg.Workbook = workbook
	}
	if flags.Changed("shapefile") {
		cfg.Shapefile = shapefile
	}
	if flags.Changed("out") {
		cfg.OutDir = outDir
	}
	if flags.Changed("start-year") {
		cfg.StartYear = startYear
	}
	if flags.Changed("end-year") {
		cfg.EndYear = endYear
	}
	if flags.Changed("metric") {
		cfg.Metric = metric
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func init() {
	def := config.Default()

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&configPath, "config", "", "optional YAML config file")
	pf.StringVar(&workbook, "workbook", def.Workbook, "surveillance workbook (xlsx)")
	pf.StringVar(&shapefile, "shapefile", def.Shapefile, "chiefdom shapefile (.shp)")
	pf.StringVar(&outDir, "out", def.OutDir, "output directory")
	pf.IntVar(&startYear, "start-year", def.StartYear, "comparison start year")
	pf.IntVar(&endYear, "end-year", def.EndYear, "comparison end year")
	pf.StringVar(&metric, "metric", def.Metric, "metric column prefix, e.g. crude_incidence")

	rootCmd.AddCommand(nationalCmd, districtCmd, chiefdomCmd, allCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
