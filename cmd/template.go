package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/importer"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print the most recent teamsheet as YAML",
	Long: `Print the latest match (by date) as a YAML teamsheet, ready to edit and pass to
'teamsheet add --file'. Prints a blank sheet when nothing is stored yet.`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

func runTemplate(cmd *cobra.Command, args []string) error {
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	sheet, err := svc.LatestTeamsheet(cmd.Context())
	if err != nil {
		return fmt.Errorf("latest teamsheet: %w", err)
	}
	return importer.WriteSheet(os.Stdout, *sheet)
}
