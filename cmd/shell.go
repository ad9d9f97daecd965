package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cOK       = color.New(color.FgGreen)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	cGreeting.Println("hkmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("hkmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		var err error
		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			err = runList(cmd, nil)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <game-id> [--player <id>]")
				continue
			}
			showPlayerID = playerFlag(args[1:])
			err = runShow(cmd, args[:1])
			showPlayerID = 0
		case "segments":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: segments <game-id>")
				continue
			}
			err = runSegments(cmd, args)
		case "combos":
			err = runCombos(cmd, args)
		case "season":
			err = runSeason(cmd, args)
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <id> [season]")
				continue
			}
			id, perr := strconv.ParseInt(args[0], 10, 64)
			if perr != nil {
				cError.Fprintf(os.Stderr, "invalid player id %q\n", args[0])
				continue
			}
			seasonPlayer, seasonSubject = id, "player"
			err = runSeason(cmd, args[1:])
			seasonPlayer, seasonSubject = 0, ""
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			err = runSQL(cmd, args)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}

func playerFlag(args []string) int64 {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "--player" {
			id, _ := strconv.ParseInt(args[i+1], 10, 64)
			return id
		}
	}
	return 0
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored games"},
		{"show <game-id>", "team, player and combination rows for a game"},
		{"show <game-id> --player <id>", "same, highlighting one player"},
		{"segments <game-id>", "strength-segment audit table"},
		{"combos <game-id> [...]", "shared TOI for the configured combination size"},
		{"season [season]", "season rollup"},
		{"player <id> [season]", "season rows for one player"},
		{"sql <query>", "raw SQL against the database"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}
