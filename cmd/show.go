package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/aggregator"
	"github.com/pable/go-hockey-metrics/internal/model"
	"github.com/pable/go-hockey-metrics/internal/report"
	"github.com/pable/go-hockey-metrics/internal/storage"
)

var (
	showPlayerID int64
	showStrength string
	showIssues   bool
)

var showCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show stored team, player and combination aggregates for a game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Int64Var(&showPlayerID, "player", 0, "highlight player id")
	showCmd.Flags().StringVar(&showStrength, "strength", "", "only rows for this strength label (e.g. 5v5, EV)")
	showCmd.Flags().BoolVar(&showIssues, "issues", false, "list every recorded issue")
}

func runShow(cmd *cobra.Command, args []string) error {
	gameID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid game id %q: %w", args[0], err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	game, err := db.GetGame(gameID)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game %d stored\n", gameID)
		return nil
	}

	rows, err := db.Aggregates(storage.AggregateFilter{GameID: gameID, Strength: showStrength})
	if err != nil {
		return fmt.Errorf("get aggregates: %w", err)
	}
	aggregator.Sort(rows)
	issues, err := db.GetIssues(gameID)
	if err != nil {
		return fmt.Errorf("get issues: %w", err)
	}

	info := model.GameInfo{
		GameID:   game.GameID,
		Season:   game.Season,
		GameType: game.GameType,
		Home:     model.TeamRef{Abbrev: game.Home},
		Away:     model.TeamRef{Abbrev: game.Away},
	}
	report.PrintGameSummary(os.Stdout, info, game.Events, game.Segments, game.Predictions, game.Issues)
	report.PrintTeamTable(os.Stdout, rows)
	report.PrintPlayerTable(os.Stdout, rows, nil, model.PlayerID(showPlayerID))
	report.PrintComboTable(os.Stdout, rows, nil)
	if len(issues) > 0 {
		report.PrintIssueSummary(os.Stdout, issues)
	}
	if showIssues {
		for _, is := range issues {
			fmt.Fprintln(os.Stdout, is.String())
		}
	}
	return nil
}
