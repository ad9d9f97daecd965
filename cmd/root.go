package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/aggregator"
	"github.com/pable/go-hockey-metrics/internal/combos"
	"github.com/pable/go-hockey-metrics/internal/config"
	"github.com/pable/go-hockey-metrics/internal/normalize"
	"github.com/pable/go-hockey-metrics/internal/pipeline"
	"github.com/pable/go-hockey-metrics/internal/strength"
	"github.com/pable/go-hockey-metrics/internal/telemetry"
	"github.com/pable/go-hockey-metrics/internal/xg"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hkmetrics",
	Short: "Hockey on-ice, strength and xG metrics",
	Long: `Process per-game play-by-play and shift bundles into on-ice states, strength
segments, expected goals and player / combination / team aggregates.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.hkmetrics/metrics.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (or $HKMETRICS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(combosCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	cfg = c
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	return nil
}

// comboOptions maps config onto enumeration options.
func comboOptions(c *config.Config) (combos.Options, error) {
	mode, err := strength.ParseMode(c.StrengthMode)
	if err != nil {
		return combos.Options{}, err
	}
	return combos.Options{
		K:              c.ComboSize,
		M:              c.OpponentSize,
		IncludeGoalies: c.IncludeGoalies,
		Mode:           mode,
	}, nil
}

// pipelineOptions maps config onto the per-game pipeline.
func pipelineOptions(c *config.Config) (pipeline.Options, error) {
	tb, err := normalize.ParseTieBreak(c.TieBreak)
	if err != nil {
		return pipeline.Options{}, err
	}
	co, err := comboOptions(c)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		TieBreak: tb,
		Features: xg.FeatureOptions{ReboundWindow: c.ReboundWindowS, RushWindow: c.RushWindowS},
		Aggregate: aggregator.Options{
			Combos:     co,
			WithCombos: true,
			MinTOI:     c.MinTOIS,
			Rates:      c.Rates,
		},
	}, nil
}

// newProcessor loads the model once and builds a processor around it.
func newProcessor(c *config.Config, metrics *telemetry.Metrics) (*pipeline.Processor, error) {
	opts, err := pipelineOptions(c)
	if err != nil {
		return nil, err
	}
	m, err := xg.LoadModel(c.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load xG model: %w", err)
	}
	return pipeline.NewProcessor(m, opts, metrics)
}
