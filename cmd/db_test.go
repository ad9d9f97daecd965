package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pable/go-hockey-metrics/internal/storage"
)

// ---- sql ----

func TestReadQuery(t *testing.T) {
	q, err := readQuery([]string{"SELECT", "1"}, strings.NewReader("ignored"))
	if err != nil || q != "SELECT 1" {
		t.Errorf("args: got %q, %v", q, err)
	}
	q, err = readQuery(nil, strings.NewReader("  SELECT COUNT(*) FROM games;\n"))
	if err != nil || q != "SELECT COUNT(*) FROM games;" {
		t.Errorf("stdin: got %q, %v", q, err)
	}
	if _, err := readQuery(nil, strings.NewReader(" \n")); err == nil {
		t.Error("blank stdin should be an error")
	}
}

func TestWriteResultTruncates(t *testing.T) {
	rows := [][]string{{"8478402", "1200"}, {"8477934", "980"}, {"8476453", "15"}}

	var buf bytes.Buffer
	writeResult(&buf, []string{"player", "seconds"}, rows, 2)
	out := buf.String()
	if !strings.Contains(out, "8477934") || strings.Contains(out, "8476453") {
		t.Errorf("expected only the first two rows:\n%s", out)
	}
	if !strings.HasSuffix(out, "2 of 3 rows (raise --max-rows to see more)\n") {
		t.Errorf("footer:\n%s", out)
	}

	buf.Reset()
	writeResult(&buf, []string{"player", "seconds"}, rows, 0)
	if !strings.Contains(buf.String(), "8476453") || !strings.HasSuffix(buf.String(), "3 rows\n") {
		t.Errorf("unlimited:\n%s", buf.String())
	}

	buf.Reset()
	writeResult(&buf, []string{"player"}, nil, 10)
	if buf.String() != "0 rows\n" {
		t.Errorf("empty = %q", buf.String())
	}
}

func TestTableCounts(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	cols, rows, err := tableCounts(db)
	if err != nil {
		t.Fatalf("tableCounts: %v", err)
	}
	if len(cols) != 2 || cols[0] != "table" {
		t.Errorf("cols = %v", cols)
	}
	seen := map[string]string{}
	for _, r := range rows {
		seen[r[0]] = r[1]
	}
	for _, name := range []string{"games", "events", "segments", "aggregates", "issues"} {
		if seen[name] != "0" {
			t.Errorf("%s count = %q, want 0", name, seen[name])
		}
	}
}

// ---- drop ----

func TestRemoveDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.db")
	for _, f := range []string{path, path + "-wal"} {
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := removeDatabase(path)
	if err != nil {
		t.Fatalf("removeDatabase: %v", err)
	}
	if len(removed) != 2 || removed[0] != path || removed[1] != path+"-wal" {
		t.Errorf("removed = %v", removed)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("database file still present")
	}

	removed, err = removeDatabase(path)
	if err != nil || len(removed) != 0 {
		t.Errorf("second drop: removed %v, err %v", removed, err)
	}
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
	}
	for in, want := range cases {
		var prompt bytes.Buffer
		if got := confirm(strings.NewReader(in), &prompt, "/tmp/m.db"); got != want {
			t.Errorf("confirm(%q) = %v, want %v", in, got, want)
		}
		if !strings.Contains(prompt.String(), "remove /tmp/m.db") {
			t.Errorf("prompt = %q", prompt.String())
		}
	}
}
