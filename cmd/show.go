package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/report"
	"github.com/pable/go-teamsheet/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show the teamsheet of one match",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func parseMatchID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid match id %q", s)
	}
	return id, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	_, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()
	return showMatch(cmd, db, id)
}

func showMatch(cmd *cobra.Command, db *storage.DB, id int64) error {
	m, err := db.GetMatch(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "No match with id %d\n", id)
		return nil
	}
	apps, err := db.MatchAppearances(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("query teamsheet: %w", err)
	}
	report.PrintTeamsheet(os.Stdout, cfg.Club, *m, apps)
	return nil
}
