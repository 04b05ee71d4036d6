package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/model"
	"github.com/pable/go-teamsheet/internal/report"
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List seasons with recorded matches, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runSeasons,
}

func runSeasons(cmd *cobra.Command, args []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	seasons, err := svc.CollectSeasons(cmd.Context())
	if err != nil {
		return fmt.Errorf("collect seasons: %w", err)
	}
	report.PrintSeasons(os.Stdout, seasons)
	return nil
}

var seasonCmd = &cobra.Command{
	Use:   "season [label]",
	Short: "Show results, appearances and squad churn for a season",
	Long: `Show the aggregate view of one season: results and points, the appearance
leaderboard, how appearances spread across shirt numbers, debutants, players not retained
from the previous season, and the fixture list. Defaults to the most recent season.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeason,
}

func runSeason(cmd *cobra.Command, args []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	season := ""
	if len(args) == 1 {
		season = args[0]
	}
	st, err := svc.ComputeSeasonStats(cmd.Context(), season)
	if errors.Is(err, model.ErrNotFound) {
		if season == "" {
			fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'teamsheet add --file sheet.yaml' to record one.")
		} else {
			fmt.Fprintf(os.Stderr, "No matches recorded for season %q\n", season)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("season stats: %w", err)
	}
	report.PrintSeason(os.Stdout, cfg.Club, st, cfg.LeaderboardLimit)
	return nil
}
