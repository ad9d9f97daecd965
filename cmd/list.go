package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'hkmetrics process <bundle.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-8s  %-9s  %6s  %6s  %4s  %6s  %s\n",
		"GAME", "SEASON", "MATCHUP", "EVENTS", "SEGS", "xG", "ISSUES", "PROCESSED")
	fmt.Fprintf(os.Stdout, "%-10s  %-8s  %-9s  %6s  %6s  %4s  %6s  %s\n",
		"──────────", "────────", "─────────", "──────", "──────", "────", "──────", "─────────")
	for _, g := range games {
		matchup := fmt.Sprintf("%s@%s", g.Away, g.Home)
		fmt.Fprintf(os.Stdout, "%-10d  %-8s  %-9s  %6d  %6d  %4d  %6d  %s\n",
			g.GameID, g.Season, matchup, g.Events, g.Segments, g.Predictions, g.Issues, g.ProcessedAt)
	}
	return nil
}
