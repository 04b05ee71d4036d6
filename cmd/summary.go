package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/report"
)

var summaryRecent int

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display totals for players, matches, appearances and seasons, followed by the
most recent matches.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryRecent, "recent", 5, "number of recent matches to list")
}

func runSummary(cmd *cobra.Command, args []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := svc.Overview(cmd.Context(), summaryRecent)
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'teamsheet add --file sheet.yaml' to record one.")
		return nil
	}
	report.PrintOverview(os.Stdout, ov)
	return nil
}
