package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <name>...",
	Short: "Check names against existing players for likely typos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	msgs, err := svc.CheckTeamsheet(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("check names: %w", err)
	}
	if len(msgs) == 0 {
		fmt.Fprintln(os.Stdout, "No likely typos.")
		return nil
	}
	for _, m := range msgs {
		fmt.Fprintln(os.Stdout, m)
	}
	return nil
}
