package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <match-id>",
	Short: "Delete a match and its teamsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	if !deleteForce {
		if err := showMatch(cmd, db, id); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "\nThis will permanently delete match %d and its teamsheet.\n", id)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := svc.DeleteMatch(cmd.Context(), id); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted match %d.\n", id)
	return nil
}
