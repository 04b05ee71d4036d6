package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/report"
)

var listSeason string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSeason, "season", "", "only matches from this season")
}

func runList(cmd *cobra.Command, args []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, counts, err := svc.ListMatches(cmd.Context(), listSeason)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'teamsheet add --file sheet.yaml' to record one.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches, counts)
	return nil
}
