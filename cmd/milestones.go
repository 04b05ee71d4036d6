package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/report"
)

var milestoneEvery int

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Players whose next appearance is a milestone",
	Args:  cobra.NoArgs,
	RunE:  runMilestones,
}

func init() {
	milestonesCmd.Flags().IntVar(&milestoneEvery, "every", 0, "milestone interval (default from config, 50)")
}

func runMilestones(cmd *cobra.Command, args []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	ms, err := svc.Milestones(cmd.Context(), milestoneEvery)
	if err != nil {
		return fmt.Errorf("milestones: %w", err)
	}
	report.PrintMilestones(os.Stdout, ms)
	return nil
}
