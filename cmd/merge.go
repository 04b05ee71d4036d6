package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/model"
	"github.com/pable/go-teamsheet/internal/report"
)

var mergeInto string

var mergeCmd = &cobra.Command{
	Use:   "merge --into <canonical> <name>...",
	Short: "Merge player identities into one name",
	Long: `Reassign every appearance of the named players to the canonical name and delete
the other identities. The canonical name may be listed or not; it is always part of the
merge. The merge is refused if two of the identities played in the same match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

var mergesCmd = &cobra.Command{
	Use:   "merges",
	Short: "Show the merge history",
	Args:  cobra.NoArgs,
	RunE:  runMerges,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeInto, "into", "", "canonical player name to keep")
	_ = mergeCmd.MarkFlagRequired("into")
}

func runMerge(cmd *cobra.Command, args []string) error {
	names := append([]string{mergeInto}, args...)

	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := svc.MergePlayers(cmd.Context(), names, mergeInto)
	var conflict *model.MergeConflictError
	switch {
	case errors.As(err, &conflict):
		return fmt.Errorf("cannot merge: %w (edit those teamsheets first)", err)
	case err != nil:
		return fmt.Errorf("merge: %w", err)
	}
	report.PrintMergeResult(os.Stdout, res)
	return nil
}

func runMerges(cmd *cobra.Command, args []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	history, err := svc.MergeHistory(cmd.Context())
	if err != nil {
		return fmt.Errorf("merge history: %w", err)
	}
	report.PrintMergeHistory(os.Stdout, history)
	return nil
}
