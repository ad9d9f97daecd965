package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/aggregator"
	"github.com/pable/go-hockey-metrics/internal/combos"
	"github.com/pable/go-hockey-metrics/internal/model"
	"github.com/pable/go-hockey-metrics/internal/report"
	"github.com/pable/go-hockey-metrics/internal/storage"
)

var (
	combosK        int
	combosM        int
	combosMinTOI   int
	combosGoalies  bool
	combosMode     string
	combosSeason   string
	combosTeam     string
	combosStrength string
)

var combosCmd = &cobra.Command{
	Use:   "combos [game-id...]",
	Short: "Shared time on ice for player combinations",
	Long: `With game ids, recompute K-player combinations (optionally against M-player
opponent subsets) from the stored strength segments and print shared TOI.
The min-TOI filter applies to the totals across all listed games.

Without game ids, print the stored combination aggregates (with counts and
xG) for --season, as produced by 'process' with the configured K and M.`,
	RunE: runCombos,
}

func init() {
	combosCmd.Flags().IntVar(&combosK, "k", 0, "players per combination (default from config)")
	combosCmd.Flags().IntVar(&combosM, "m", -1, "opponent players per bucket, 0 for any (default from config)")
	combosCmd.Flags().IntVar(&combosMinTOI, "min-toi", -1, "minimum shared seconds (default from config)")
	combosCmd.Flags().BoolVar(&combosGoalies, "goalies", false, "include goalies in combinations")
	combosCmd.Flags().StringVar(&combosMode, "mode", "", "strength labelling: exact or situation")
	combosCmd.Flags().StringVar(&combosSeason, "season", "", "season for stored aggregates")
	combosCmd.Flags().StringVar(&combosTeam, "team", "", "only this team")
	combosCmd.Flags().StringVar(&combosStrength, "strength", "", "only this strength label")
}

func runCombos(cmd *cobra.Command, args []string) error {
	c := *cfg
	if combosK > 0 {
		c.ComboSize = combosK
	}
	if combosM >= 0 {
		c.OpponentSize = combosM
	}
	if combosMinTOI >= 0 {
		c.MinTOIS = combosMinTOI
	}
	if combosGoalies {
		c.IncludeGoalies = true
	}
	if combosMode != "" {
		c.StrengthMode = combosMode
	}
	opts, err := comboOptions(&c)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	db, err := storage.Open(c.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if len(args) == 0 {
		rows, err := db.Aggregates(storage.AggregateFilter{
			Season:   combosSeason,
			Subject:  model.SubjectCombination,
			Team:     combosTeam,
			Strength: combosStrength,
		})
		if err != nil {
			return fmt.Errorf("get aggregates: %w", err)
		}
		rows = minTOIRows(rows, c.MinTOIS)
		aggregator.Sort(rows)
		report.PrintComboTable(os.Stdout, rows, nil)
		return nil
	}

	acc := combos.NewAccumulator(opts)
	for _, a := range args {
		gameID, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid game id %q: %w", a, err)
		}
		game, err := db.GetGame(gameID)
		if err != nil {
			return fmt.Errorf("query game: %w", err)
		}
		if game == nil {
			fmt.Fprintf(os.Stderr, "No game %d stored, skipping\n", gameID)
			continue
		}
		segs, err := db.GetSegments(gameID)
		if err != nil {
			return fmt.Errorf("get segments: %w", err)
		}
		acc.AddGame(model.GameInfo{
			GameID:   game.GameID,
			Season:   game.Season,
			GameType: game.GameType,
			Home:     model.TeamRef{Abbrev: game.Home},
			Away:     model.TeamRef{Abbrev: game.Away},
		}, segs)
	}

	out := acc.Result(c.MinTOIS)
	if combosTeam != "" || combosStrength != "" {
		kept := out[:0]
		for _, cb := range out {
			if combosTeam != "" && cb.Key.Team != combosTeam {
				continue
			}
			if combosStrength != "" && cb.Key.Strength != combosStrength {
				continue
			}
			kept = append(kept, cb)
		}
		out = kept
	}
	report.PrintSharedTOI(os.Stdout, out, nil)
	fmt.Fprintf(os.Stdout, "\n(%d combinations)\n", len(out))
	return nil
}
