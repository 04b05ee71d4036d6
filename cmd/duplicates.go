package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/report"
)

var dupThreshold int

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Group stored player names that look like the same person",
	Long: `Group player names by token-sorted similarity so spelling variants such as
"Smith, John" and "John Smith" show up together with their appearance counts. Grouping is
a single greedy pass: a name can appear in more than one group.

Use 'teamsheet merge' to fold a group into one name.`,
	Args: cobra.NoArgs,
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().IntVar(&dupThreshold, "threshold", 0, "similarity threshold 0-100 (default from config, 80)")
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	if dupThreshold < 0 || dupThreshold > 100 {
		return fmt.Errorf("threshold must be between 0 and 100")
	}
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	groups, err := svc.DuplicateGroups(cmd.Context(), dupThreshold)
	if err != nil {
		return fmt.Errorf("duplicate groups: %w", err)
	}
	report.PrintDuplicateGroups(os.Stdout, groups)
	return nil
}
