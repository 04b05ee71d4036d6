package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/model"
	"github.com/pable/go-teamsheet/internal/report"
	"github.com/pable/go-teamsheet/internal/stats"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Aggregates are cached for the session. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := cmd.Context()

	cGreeting.Println("teamsheet shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("teamsheet")
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
		rest := strings.Join(args, " ")

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "seasons":
			shellSeasons(ctx, svc)
		case "season":
			shellSeason(ctx, svc, rest)
		case "player":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			shellPlayer(ctx, svc, rest)
		case "players":
			shellPlayers(ctx, svc, rest)
		case "list":
			shellList(ctx, svc, rest)
		case "show":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: show <match-id>")
				continue
			}
			id, err := parseMatchID(args[0])
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			if err := showMatch(cmd, db, id); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "check":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: check <name>[, <name>...]")
				continue
			}
			shellCheck(ctx, svc, strings.Split(rest, ","))
		case "duplicates":
			threshold := 0
			if len(args) == 1 {
				threshold, _ = strconv.Atoi(args[0])
			}
			shellDuplicates(ctx, svc, threshold)
		case "milestones":
			shellMilestones(ctx, svc)
		case "summary":
			shellSummary(ctx, svc)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"seasons", "list seasons, most recent first"},
		{"season [label]", "season stats (default most recent)"},
		{"player <name>", "career stats for one player"},
		{"players [search]", "all-time appearance leaderboard"},
		{"list [season]", "matches, newest first"},
		{"show <match-id>", "teamsheet of one match"},
		{"check <name>[, <name>...]", "look for likely typos of existing players"},
		{"duplicates [threshold]", "groups of similar player names"},
		{"milestones", "players one appearance short of a milestone"},
		{"summary", "database overview"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-30s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellErr(err error) {
	if errors.Is(err, model.ErrNotFound) {
		cWarn.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	cError.Fprintf(os.Stderr, "error: %v\n", err)
}

func shellSeasons(ctx context.Context, svc *stats.Service) {
	seasons, err := svc.CollectSeasons(ctx)
	if err != nil {
		shellErr(err)
		return
	}
	report.PrintSeasons(os.Stdout, seasons)
}

func shellSeason(ctx context.Context, svc *stats.Service, season string) {
	st, err := svc.ComputeSeasonStats(ctx, season)
	if err != nil {
		shellErr(err)
		return
	}
	report.PrintSeason(os.Stdout, cfg.Club, st, cfg.LeaderboardLimit)
}

func shellPlayer(ctx context.Context, svc *stats.Service, name string) {
	ps, err := svc.GetPlayerStats(ctx, name)
	if err != nil {
		shellErr(err)
		return
	}
	report.PrintPlayer(os.Stdout, ps)
}

func shellPlayers(ctx context.Context, svc *stats.Service, search string) {
	rows, err := svc.Appearances(ctx, model.AppearanceQuery{Search: search, Limit: cfg.LeaderboardLimit})
	if err != nil {
		shellErr(err)
		return
	}
	if len(rows) == 0 {
		cMuted.Println("No matching players.")
		return
	}
	report.PrintLeaderboard(os.Stdout, rows, 0)
}

func shellList(ctx context.Context, svc *stats.Service, season string) {
	matches, counts, err := svc.ListMatches(ctx, season)
	if err != nil {
		shellErr(err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	report.PrintMatchList(os.Stdout, matches, counts)
}

func shellCheck(ctx context.Context, svc *stats.Service, names []string) {
	msgs, err := svc.CheckTeamsheet(ctx, names)
	if err != nil {
		shellErr(err)
		return
	}
	if len(msgs) == 0 {
		cMuted.Println("No likely typos.")
		return
	}
	for _, m := range msgs {
		cWarn.Println(m)
	}
}

func shellDuplicates(ctx context.Context, svc *stats.Service, threshold int) {
	groups, err := svc.DuplicateGroups(ctx, threshold)
	if err != nil {
		shellErr(err)
		return
	}
	report.PrintDuplicateGroups(os.Stdout, groups)
}

func shellMilestones(ctx context.Context, svc *stats.Service) {
	ms, err := svc.Milestones(ctx, 0)
	if err != nil {
		shellErr(err)
		return
	}
	report.PrintMilestones(os.Stdout, ms)
}

func shellSummary(ctx context.Context, svc *stats.Service) {
	ov, err := svc.Overview(ctx, 5)
	if err != nil {
		shellErr(err)
		return
	}
	report.PrintOverview(os.Stdout, ov)
}
