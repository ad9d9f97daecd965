package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/model"
	"github.com/pable/go-hockey-metrics/internal/report"
	"github.com/pable/go-hockey-metrics/internal/source"
	"github.com/pable/go-hockey-metrics/internal/storage"
	"github.com/pable/go-hockey-metrics/internal/telemetry"
)

var (
	processWorkers     int
	processMetricsFile string
	processQuiet       bool
	processFocus       int64
)

var processCmd = &cobra.Command{
	Use:   "process <bundle.json[.zst]|dir>...",
	Short: "Process game bundles and store events, segments and aggregates",
	Long: `Process one or more game bundles (JSON, optionally .zst or .gz compressed).
Directories are scanned for bundles. Games run in parallel up to --workers;
a game that fails (e.g. missing roster) is reported and the rest continue.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().IntVar(&processWorkers, "workers", 0, "parallel games (default from config)")
	processCmd.Flags().StringVar(&processMetricsFile, "metrics-textfile", "", "write Prometheus metrics to this file")
	processCmd.Flags().BoolVarP(&processQuiet, "quiet", "q", false, "only print the batch summary")
	processCmd.Flags().Int64Var(&processFocus, "player", 0, "highlight player id in tables")
}

func runProcess(cmd *cobra.Command, args []string) error {
	paths, err := source.Expand(args)
	if err != nil {
		return fmt.Errorf("expand inputs: %w", err)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stdout, "No game bundles found.")
		return nil
	}

	workers := cfg.Workers
	if processWorkers > 0 {
		workers = processWorkers
	}
	metricsFile := cfg.MetricsTextfile
	if processMetricsFile != "" {
		metricsFile = processMetricsFile
	}

	metrics := telemetry.NewMetrics()
	proc, err := newProcessor(cfg, metrics)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	telemetry.Infof("processing %d game(s) with %d worker(s)", len(paths), workers)
	batch, err := proc.RunBatch(cmd.Context(), source.Inputs(paths), workers)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}
	if err := db.InsertRun(batch.RunID, batch.Started); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for _, it := range batch.Items {
		if it.Err != nil {
			cError.Fprintf(os.Stderr, "✗ %s: %v\n", it.Name, it.Err)
			continue
		}
		res := it.Result
		if err := db.SaveGame(res, batch.RunID); err != nil {
			return fmt.Errorf("store game %d: %w", res.Info.GameID, err)
		}
		cOK.Fprintf(os.Stdout, "✓ %d %s @ %s", res.Info.GameID, res.Info.Away.Abbrev, res.Info.Home.Abbrev)
		cMuted.Fprintf(os.Stdout, "  (%s, %d events, %d xG)\n", res.Elapsed.Round(1e6), len(res.Events), res.Predictions)
		if len(res.Issues) > 0 {
			cWarn.Fprintf(os.Stdout, "  %d issue(s)\n", len(res.Issues))
		}
		if processQuiet {
			continue
		}
		report.PrintGameSummary(os.Stdout, res.Info, len(res.Events), len(res.Segments), res.Predictions, len(res.Issues))
		report.PrintTeamTable(os.Stdout, res.Aggregates)
		report.PrintPlayerTable(os.Stdout, res.Aggregates, res.Roster.Name, model.PlayerID(processFocus))
		if len(res.Issues) > 0 {
			report.PrintIssueSummary(os.Stdout, res.Issues)
		}
	}

	failed := batch.Failed()
	if err := db.FinishRun(batch.RunID, batch.Finished, len(batch.Items), failed); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("\nrun %s: %d processed, %d failed in %s\n",
		batch.RunID, len(batch.Items)-failed, failed, batch.Finished.Sub(batch.Started).Round(1e6))
	if failed > 0 {
		cWarn.Fprint(os.Stdout, summary)
	} else {
		cOK.Fprint(os.Stdout, summary)
	}
	return nil
}
