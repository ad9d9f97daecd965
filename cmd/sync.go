package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/model"
	"github.com/pable/go-hockey-metrics/internal/pgsync"
	"github.com/pable/go-hockey-metrics/internal/storage"
	"github.com/pable/go-hockey-metrics/internal/telemetry"
)

var (
	syncSubject string
	syncTimeout time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync <season>",
	Short: "Upsert season aggregates to Postgres",
	Long: `Roll up stored aggregates for a season and upsert them into the
season_aggregates table of the configured Postgres database
(HKMETRICS_POSTGRES_HOST, _USER, _PASSWORD, _NAME, ...).`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSubject, "subject", "", "only player, combination or team rows")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 2*time.Minute, "overall timeout")
}

func runSync(cmd *cobra.Command, args []string) error {
	if !cfg.Postgres.Configured() {
		return fmt.Errorf("postgres is not configured: set postgres.host and postgres.name")
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.Aggregates(storage.AggregateFilter{
		Season:  args[0],
		Subject: model.SubjectKind(syncSubject),
	})
	if err != nil {
		return fmt.Errorf("season rollup: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stdout, "No aggregates for season %s.\n", args[0])
		return nil
	}

	ctx, cancel := contextWithTimeout(cmd, syncTimeout)
	defer cancel()

	s, err := pgsync.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	start := time.Now()
	n, err := s.Upsert(ctx, rows)
	if err != nil {
		return fmt.Errorf("sync after %d rows: %w", n, err)
	}
	telemetry.Infof("synced %d rows for %s in %s", n, args[0], time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stdout, "Upserted %d rows.\n", n)
	return nil
}
