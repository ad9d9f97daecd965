package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-hockey-metrics/internal/storage"
)

var (
	sqlTables  bool
	sqlMaxRows int
)

var sqlCmd = &cobra.Command{
	Use:   "sql [query]",
	Short: "Query the metrics database directly",
	Long: `Run a read query against the metrics database and print the result set.

The query is taken from the arguments, or from stdin when there are none, so a
saved .sql file can be piped in. --tables lists the stored tables with their
row counts instead of running a query.

Player tuples are ascending ids joined by "-". NULL prints as "—".`,
	Example: `  hkmetrics sql --tables
  hkmetrics sql "SELECT players, seconds, xgf, xga FROM aggregates WHERE subject = 'line' ORDER BY xgf DESC LIMIT 10"
  hkmetrics sql < even_strength.sql`,
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlTables, "tables", false, "list tables and row counts")
	sqlCmd.Flags().IntVar(&sqlMaxRows, "max-rows", 200, "print at most this many rows (0 prints all)")
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if sqlTables {
		cols, rows, err := tableCounts(db)
		if err != nil {
			return err
		}
		writeResult(os.Stdout, cols, rows, 0)
		return nil
	}

	query, err := readQuery(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	writeResult(os.Stdout, cols, rows, sqlMaxRows)
	return nil
}

// readQuery joins the arguments, falling back to the whole of r.
func readQuery(args []string, r io.Reader) (string, error) {
	query := strings.Join(args, " ")
	if len(args) == 0 {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read query: %w", err)
		}
		query = string(b)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("empty query")
	}
	return query, nil
}

func tableCounts(db *storage.DB) ([]string, [][]string, error) {
	_, names, err := db.QueryRaw(`SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		_, c, err := db.QueryRaw(fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, n[0]))
		if err != nil {
			return nil, nil, fmt.Errorf("count %s: %w", n[0], err)
		}
		rows = append(rows, []string{n[0], c[0][0]})
	}
	return []string{"table", "rows"}, rows, nil
}

// writeResult renders rows as a table followed by a count line. When limit is
// positive only the first limit rows are rendered.
func writeResult(w io.Writer, cols []string, rows [][]string, limit int) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "0 rows")
		return
	}
	shown := rows
	if limit > 0 && len(rows) > limit {
		shown = rows[:limit]
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
	}))
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range shown {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()

	if len(shown) < len(rows) {
		fmt.Fprintf(w, "%d of %d rows (raise --max-rows to see more)\n", len(shown), len(rows))
		return
	}
	fmt.Fprintf(w, "%d rows\n", len(rows))
}
