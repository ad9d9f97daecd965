package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var dropYes bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove the metrics database and its WAL files",
	Long: `Remove the SQLite metrics database together with its -wal and -shm files.

Without --yes the command asks before removing anything. Processed games,
aggregates and issues are gone afterwards; run process again on the game
bundles to rebuild them.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropYes, "yes", "y", false, "remove without asking")
}

func runDrop(cmd *cobra.Command, _ []string) error {
	path := cfg.DBPath
	if !dropYes && !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), path) {
		fmt.Fprintln(cmd.ErrOrStderr(), "nothing removed")
		return nil
	}
	removed, err := removeDatabase(path)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no database at %s\n", path)
		return nil
	}
	for _, f := range removed {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", f)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, path string) bool {
	fmt.Fprintf(out, "remove %s and its WAL files? [y/N] ", path)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// removeDatabase deletes the database file and its side files, returning the
// paths that existed.
func removeDatabase(path string) ([]string, error) {
	var removed []string
	for _, f := range []string{path, path + "-wal", path + "-shm"} {
		err := os.Remove(f)
		switch {
		case err == nil:
			removed = append(removed, f)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", f, err)
		}
	}
	return removed, nil
}
