package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/aggregator"
	"github.com/pable/go-hockey-metrics/internal/model"
	"github.com/pable/go-hockey-metrics/internal/report"
	"github.com/pable/go-hockey-metrics/internal/storage"
)

var (
	seasonSubject  string
	seasonTeam     string
	seasonStrength string
	seasonPlayer   int64
	seasonMinTOI   int
)

var seasonCmd = &cobra.Command{
	Use:   "season [season]",
	Short: "Season rollup of stored per-game aggregates",
	Long: `Sum stored per-game aggregates over a season (all seasons when omitted) and
print per-60 rates. Rows with zero TOI show "—" for undefined rates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeason,
}

func init() {
	seasonCmd.Flags().StringVar(&seasonSubject, "subject", "", "player, combination or team (default all)")
	seasonCmd.Flags().StringVar(&seasonTeam, "team", "", "only this team")
	seasonCmd.Flags().StringVar(&seasonStrength, "strength", "", "only this strength label")
	seasonCmd.Flags().Int64Var(&seasonPlayer, "player", 0, "only rows including this player id")
	seasonCmd.Flags().IntVar(&seasonMinTOI, "min-toi", 0, "minimum seconds per row")
}

func runSeason(cmd *cobra.Command, args []string) error {
	f := storage.AggregateFilter{
		Subject:  model.SubjectKind(seasonSubject),
		Team:     seasonTeam,
		Strength: seasonStrength,
		Player:   model.PlayerID(seasonPlayer),
	}
	if len(args) == 1 {
		f.Season = args[0]
	}
	switch f.Subject {
	case "", model.SubjectPlayer, model.SubjectCombination, model.SubjectTeam:
	default:
		return fmt.Errorf("unknown subject %q", seasonSubject)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.Aggregates(f)
	if err != nil {
		return fmt.Errorf("season rollup: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No aggregates match.")
		return nil
	}
	rows = minTOIRows(rows, seasonMinTOI)
	aggregator.Sort(rows)

	report.PrintTeamTable(os.Stdout, rows)
	report.PrintPlayerTable(os.Stdout, rows, nil, model.PlayerID(seasonPlayer))
	report.PrintComboTable(os.Stdout, rows, nil)
	return nil
}

// minTOIRows drops rows below min seconds and fills rates on the rest.
func minTOIRows(rows []model.AggregateRecord, minSecs int) []model.AggregateRecord {
	out := rows[:0]
	for _, r := range rows {
		if r.Seconds < minSecs {
			continue
		}
		if cfg.Rates {
			r.ComputeRates()
		}
		out = append(out, r)
	}
	return out
}
