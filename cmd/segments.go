package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/model"
	"github.com/pable/go-hockey-metrics/internal/report"
	"github.com/pable/go-hockey-metrics/internal/storage"
)

var segmentsTOIOnly bool

var segmentsCmd = &cobra.Command{
	Use:   "segments <game-id>",
	Short: "Print the strength-segment audit table for a stored game",
	Args:  cobra.ExactArgs(1),
	RunE:  runSegments,
}

func init() {
	segmentsCmd.Flags().BoolVar(&segmentsTOIOnly, "toi", false, "only print seconds per strength code")
}

func runSegments(cmd *cobra.Command, args []string) error {
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
	segs, err := db.GetSegments(gameID)
	if err != nil {
		return fmt.Errorf("get segments: %w", err)
	}

	info := model.GameInfo{
		GameID: game.GameID,
		Season: game.Season,
		Home:   model.TeamRef{Abbrev: game.Home},
		Away:   model.TeamRef{Abbrev: game.Away},
	}
	if !segmentsTOIOnly {
		report.PrintSegmentTable(os.Stdout, info, segs, nil)
		fmt.Fprintln(os.Stdout)
	}
	report.PrintStrengthTOI(os.Stdout, segs)
	return nil
}
